package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/services"
)

// GenerateHandler handles composite record generation.
type GenerateHandler struct {
	generator *services.Generator
	story     *StoryHandler
}

// NewGenerateHandler creates a new GenerateHandler. story may be nil, in
// which case outlines cannot be attached to a session.
func NewGenerateHandler(generator *services.Generator, story *StoryHandler) *GenerateHandler {
	return &GenerateHandler{generator: generator, story: story}
}

// PlotOptions controls plot outline generation.
type PlotOptions struct {
	Length   int    // Campaign length in chapters (< 1 uses the default)
	Session  string // Session to attach the outline to
	AttachTo string // Character or party id; empty means don't attach
}

// HandleNPC generates an NPC.
func (h *GenerateHandler) HandleNPC(params entities.Params) (*entities.NPC, error) {
	return h.generator.GenerateNPC(params)
}

// HandleBackstory generates a character backstory.
func (h *GenerateHandler) HandleBackstory(ctx context.Context, opts entities.BackstoryOptions) (*entities.Backstory, error) {
	return h.generator.GenerateBackstory(ctx, opts)
}

// HandleAdventure generates an adventure seed.
func (h *GenerateHandler) HandleAdventure(params entities.Params) (*entities.Adventure, error) {
	return h.generator.GenerateAdventure(params)
}

// HandlePlot generates a plot outline and optionally attaches it to a session.
func (h *GenerateHandler) HandlePlot(ctx context.Context, characters []entities.CharacterData, opts PlotOptions) (*entities.PlotOutline, error) {
	outline, err := h.generator.GeneratePlotOutline(ctx, characters, opts.Length)
	if err != nil {
		return nil, err
	}

	if opts.AttachTo != "" {
		if h.story == nil {
			return nil, fmt.Errorf("no session store configured to attach the outline")
		}
		if err := h.story.HandleAttachOutline(ctx, opts.Session, opts.AttachTo, *outline); err != nil {
			return nil, fmt.Errorf("attaching outline: %w", err)
		}
	}
	return outline, nil
}

// ParseCharacter reads "name:motivation1,motivation2:background:flaw1,flaw2".
// Only the name is required; class may follow the name as "name/class".
func ParseCharacter(s string) (entities.CharacterData, error) {
	parts := strings.Split(s, ":")
	nameClass := strings.SplitN(strings.TrimSpace(parts[0]), "/", 2)

	c := entities.CharacterData{Name: strings.TrimSpace(nameClass[0])}
	if c.Name == "" {
		return entities.CharacterData{}, fmt.Errorf("character %q: name is required", s)
	}
	if len(nameClass) == 2 {
		c.Class = strings.TrimSpace(nameClass[1])
	}
	if len(parts) > 1 {
		c.Motivations = splitList(parts[1])
	}
	if len(parts) > 2 {
		c.Background = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		c.Flaws = splitList(parts[3])
	}
	if len(parts) > 4 {
		return entities.CharacterData{}, fmt.Errorf("character %q: too many fields (want name:motivations:background:flaws)", s)
	}
	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseParams reads "key=value" pairs into generation params.
func ParseParams(pairs []string) (entities.Params, error) {
	params := make(entities.Params, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q (want key=value)", p)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}
