package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/ports"
)

// Narration kinds passed to ports.Narrator.
const (
	NarrateBackstory = "backstory"
	NarratePlot      = "plot"
)

// Generator assembles composite records from several resolver calls.
type Generator struct {
	resolver *Resolver
	rng      ports.Randomizer
	narrator ports.Narrator
	logger   *zap.Logger
	now      func() time.Time
}

// NewGenerator creates a Generator. narrator may be nil.
func NewGenerator(resolver *Resolver, rng ports.Randomizer, narrator ports.Narrator, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		resolver: resolver,
		rng:      rng,
		narrator: narrator,
		logger:   logger,
		now:      time.Now,
	}
}

// text resolves a table and returns its full text.
func (g *Generator) text(tableID string, params entities.Params) (string, error) {
	res, err := g.resolver.Resolve(tableID, params)
	if err != nil {
		return "", err
	}
	return res.FullText(), nil
}

// GenerateNPC draws a name, personality, motivation and quirk.
// Each draw is independent of the others.
func (g *Generator) GenerateNPC(params entities.Params) (*entities.NPC, error) {
	first, err := g.resolver.Resolve(entities.TableCharacterNames, params)
	if err != nil {
		return nil, fmt.Errorf("rolling name: %w", err)
	}
	surname, err := g.text(entities.TableSurnames, params)
	if err != nil {
		return nil, fmt.Errorf("rolling surname: %w", err)
	}
	personality, err := g.text(entities.TablePersonality, params)
	if err != nil {
		return nil, fmt.Errorf("rolling personality: %w", err)
	}
	motivation, err := g.text(entities.TableMotivation, params)
	if err != nil {
		return nil, fmt.Errorf("rolling motivation: %w", err)
	}
	quirk, err := g.text(entities.TableQuirk, params)
	if err != nil {
		return nil, fmt.Errorf("rolling quirk: %w", err)
	}

	firstName := first.Entry.Label()
	return &entities.NPC{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(firstName + " " + surname),
		FirstName:   firstName,
		Surname:     surname,
		Race:        first.Entry.Race(),
		Gender:      first.Entry.Gender(),
		Personality: personality,
		Motivation:  motivation,
		Quirk:       quirk,
		CreatedAt:   g.now(),
	}, nil
}

// SelectRandomBackground picks a background compatible with class.
// An unknown class, or one whose list resolves to nothing, draws from all backgrounds.
func (g *Generator) SelectRandomBackground(class string) entities.Background {
	pool := entities.DefaultBackgrounds
	if ids, ok := entities.ClassBackgrounds[entities.NormalizeName(class)]; ok {
		filtered := make([]entities.Background, 0, len(ids))
		for _, id := range ids {
			if b, found := entities.FindBackground(id); found {
				filtered = append(filtered, b)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}
	return pool[g.rng.Intn(len(pool))]
}

// sample returns up to n distinct items by shuffling a copy and taking the head.
func sample[T any](rng ports.Randomizer, items []T, n int) []T {
	pool := append([]T(nil), items...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// GenerateBackstory builds a background, origin, motivations, flaw, ideal,
// bond and personality traits, then renders them into a narrative.
func (g *Generator) GenerateBackstory(ctx context.Context, opts entities.BackstoryOptions) (*entities.Backstory, error) {
	b := &entities.Backstory{
		ID:                uuid.New().String(),
		Class:             opts.Class,
		Race:              opts.Race,
		Alignment:         opts.Alignment,
		Background:        g.SelectRandomBackground(opts.Class),
		Motivations:       sample(g.rng, entities.DefaultMotivations, entities.BackstoryMotivations),
		Flaws:             sample(g.rng, entities.DefaultFlaws, entities.BackstoryFlaws),
		Ideals:            sample(g.rng, entities.DefaultIdeals, entities.BackstoryIdeals),
		Bonds:             sample(g.rng, entities.DefaultBonds, entities.BackstoryBonds),
		PersonalityTraits: sample(g.rng, entities.DefaultPersonalityTraits, entities.BackstoryPersonalityTraits),
		CreatedAt:         g.now(),
	}
	if origins := sample(g.rng, entities.DefaultOrigins, 1); len(origins) > 0 {
		b.Origin = origins[0]
	}

	b.Narrative = g.polish(ctx, NarrateBackstory, renderBackstory(b))
	return b, nil
}

// renderBackstory fills the narrative paragraph by plain interpolation.
func renderBackstory(b *entities.Backstory) string {
	subject := strings.TrimSpace(strings.ToLower(b.Race + " " + b.Class))
	if subject == "" {
		subject = "adventurer"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Born %s, this %s came of age through %s.", b.Origin.Description, subject, b.Background.Description)
	fmt.Fprintf(&sb, " Driven by %s, they hold to %s.", joinDescriptions(b.Motivations), joinDescriptions(b.Ideals))
	fmt.Fprintf(&sb, " They are bound by %s, though %s.", joinDescriptions(b.Bonds), joinDescriptions(b.Flaws))
	fmt.Fprintf(&sb, " Companions describe them as %s.", joinDescriptions(b.PersonalityTraits))
	if b.Alignment != "" {
		fmt.Fprintf(&sb, " Their conduct is %s.", strings.ToLower(b.Alignment))
	}
	return sb.String()
}

func joinDescriptions(items []entities.BackstoryItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Description)
	}
	switch len(parts) {
	case 0:
		return "nothing in particular"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

// polish passes draft through the narrator when one is wired. Narrator
// failures keep the draft.
func (g *Generator) polish(ctx context.Context, kind, draft string) string {
	if g.narrator == nil {
		return draft
	}
	out, err := g.narrator.Narrate(ctx, kind, draft)
	if err != nil || strings.TrimSpace(out) == "" {
		g.logger.Warn("narrator failed, keeping plain narrative", zap.String("kind", kind), zap.Error(err))
		return draft
	}
	return out
}

// SelectPattern picks a story pattern by the first rule whose keyword appears
// in any character's motivations or background.
func SelectPattern(characters []entities.CharacterData) entities.StoryPattern {
	var sb strings.Builder
	for _, c := range characters {
		for _, m := range c.Motivations {
			sb.WriteString(strings.ToLower(m))
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.ToLower(c.Background))
		sb.WriteByte(' ')
	}
	haystack := sb.String()

	for _, rule := range entities.DefaultPatternRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(haystack, kw) {
				if p, ok := entities.FindStoryPattern(rule.Pattern); ok {
					return p
				}
			}
		}
	}
	p, _ := entities.FindStoryPattern(entities.DefaultPattern)
	return p
}

// AssignArc picks a character arc from the first rule matching one of the flaws.
func AssignArc(c entities.CharacterData) entities.CharacterArc {
	for _, rule := range entities.DefaultArcRules {
		for _, flaw := range c.Flaws {
			lower := strings.ToLower(flaw)
			for _, kw := range rule.Keywords {
				if strings.Contains(lower, kw) {
					return entities.CharacterArc{Character: c.Name, Arc: rule.Arc, Summary: rule.Summary}
				}
			}
		}
	}
	return entities.CharacterArc{Character: c.Name, Arc: entities.DefaultArc, Summary: entities.DefaultArcSummary}
}

// PartitionActs spreads length chapters over the acts, ceil(length/acts)
// per act. Trailing acts may be short or empty.
func PartitionActs(titles []string, length int) []entities.Act {
	if len(titles) == 0 {
		return nil
	}
	per := int(math.Ceil(float64(length) / float64(len(titles))))
	acts := make([]entities.Act, len(titles))
	for i, title := range titles {
		act := entities.Act{Number: i + 1, Title: title}
		start := i*per + 1
		end := min((i+1)*per, length)
		if start <= end {
			act.ChapterStart = start
			act.ChapterEnd = end
			act.Chapters = end - start + 1
		}
		acts[i] = act
	}
	return acts
}

// ImpactFor buckets a 0-based chapter index by its position in the campaign.
func ImpactFor(index, length int) string {
	progress := float64(index) / float64(length)
	switch {
	case progress < 0.3:
		return entities.ImpactSetup
	case progress < 0.7:
		return entities.ImpactDevelopment
	default:
		return entities.ImpactClimax
	}
}

func actTitleFor(acts []entities.Act, chapter int) string {
	for _, a := range acts {
		if a.Chapters > 0 && chapter >= a.ChapterStart && chapter <= a.ChapterEnd {
			return a.Title
		}
	}
	return ""
}

// GeneratePlotOutline builds a campaign structure for the party.
// A length below 1 uses entities.DefaultCampaignLength.
func (g *Generator) GeneratePlotOutline(
	ctx context.Context,
	characters []entities.CharacterData,
	campaignLength int,
) (*entities.PlotOutline, error) {
	if campaignLength < 1 {
		campaignLength = entities.DefaultCampaignLength
	}

	pattern := SelectPattern(characters)
	outline := &entities.PlotOutline{
		ID:             uuid.New().String(),
		Pattern:        pattern,
		CampaignLength: campaignLength,
		Acts:           PartitionActs(pattern.Acts, campaignLength),
		CharacterArcs:  make([]entities.CharacterArc, 0, len(characters)),
		KeyEvents:      make([]entities.KeyEvent, 0, campaignLength),
		CreatedAt:      g.now(),
	}

	for _, c := range characters {
		outline.CharacterArcs = append(outline.CharacterArcs, AssignArc(c))
	}

	for i := 0; i < campaignLength; i++ {
		trope, err := g.text(entities.TableTropes, nil)
		if err != nil {
			return nil, fmt.Errorf("rolling trope: %w", err)
		}
		chapter := i + 1
		impact := ImpactFor(i, campaignLength)
		outline.KeyEvents = append(outline.KeyEvents, entities.KeyEvent{
			Chapter:     chapter,
			Trope:       trope,
			Impact:      impact,
			Description: fmt.Sprintf("Chapter %d (%s, %s): %s", chapter, actTitleFor(outline.Acts, chapter), impact, trope),
		})
	}

	draft := fmt.Sprintf("A %s campaign of %d chapters across %d acts: %s",
		pattern.Name, campaignLength, len(outline.Acts), pattern.Description)
	outline.Summary = g.polish(ctx, NarratePlot, draft)
	return outline, nil
}

// GenerateAdventure rolls a hook, location, antagonist, complication,
// encounter and treasure into one adventure seed.
func (g *Generator) GenerateAdventure(params entities.Params) (*entities.Adventure, error) {
	antagonist, err := g.GenerateNPC(params)
	if err != nil {
		return nil, fmt.Errorf("generating antagonist: %w", err)
	}
	params = params.Merge(entities.Params{"name": antagonist.Name})

	adv := &entities.Adventure{
		ID:         uuid.New().String(),
		Antagonist: *antagonist,
		CreatedAt:  g.now(),
	}

	steps := []struct {
		table string
		dst   *string
	}{
		{entities.TablePlotHooks, &adv.Hook},
		{entities.TableLocations, &adv.Location},
		{entities.TableComplications, &adv.Complication},
		{entities.TableEncounters, &adv.Encounter},
	}
	for _, s := range steps {
		text, err := g.text(s.table, params)
		if err != nil {
			return nil, fmt.Errorf("rolling %s: %w", s.table, err)
		}
		*s.dst = text
	}

	treasure, err := g.resolver.Resolve(entities.TableTreasure, params)
	if err != nil {
		return nil, fmt.Errorf("rolling treasure: %w", err)
	}
	adv.Treasure = treasure.FullText()
	if treasure.EntryRoll > 0 {
		adv.Treasure = fmt.Sprintf("%s (%d)", adv.Treasure, treasure.EntryRoll)
	}
	return adv, nil
}
