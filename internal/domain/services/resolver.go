package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/ports"
)

// DefaultMaxDepth bounds nested subtable and [TABLE:] expansion.
const DefaultMaxDepth = 10

// Resolver turns a roll, weighted draw or filtered pick into one resolved entry.
type Resolver struct {
	registry *Registry
	dice     ports.DiceRoller
	rng      ports.Randomizer
	logger   *zap.Logger
	maxDepth int
	now      func() time.Time
}

// NewResolver creates a Resolver. dice may be nil, in which case every
// expression goes through the permissive fallback parser.
func NewResolver(registry *Registry, dice ports.DiceRoller, rng ports.Randomizer, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		registry: registry,
		dice:     dice,
		rng:      rng,
		logger:   logger,
		maxDepth: DefaultMaxDepth,
		now:      time.Now,
	}
}

// SetMaxDepth changes the recursion limit. Values below 1 are ignored.
func (r *Resolver) SetMaxDepth(depth int) {
	if depth > 0 {
		r.maxDepth = depth
	}
}

// MaxDepth returns the recursion limit.
func (r *Resolver) MaxDepth() int {
	return r.maxDepth
}

// Registry returns the registry tables are resolved against.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Roll evaluates a dice expression, using the wired DiceRoller when it
// accepts the expression and the fallback parser otherwise.
func (r *Resolver) Roll(expr string) ports.DiceResult {
	if r.dice != nil {
		res, err := r.dice.Roll(expr)
		if err == nil {
			return res
		}
		r.logger.Debug("dice roller rejected expression, using fallback parser",
			zap.String("expr", expr), zap.Error(err))
	}
	return fallbackRoll(r.rng, expr)
}

// Resolve resolves the table with the given id.
// Unknown ids fail with *entities.TableNotFoundError; every other miss is
// reported through ResolvedResult.Fallback.
func (r *Resolver) Resolve(tableID string, params entities.Params) (*entities.ResolvedResult, error) {
	return r.resolve(tableID, params, 0)
}

// ResolveTable resolves a table that need not be registered. Subtable and
// [TABLE:] references still go through the registry.
func (r *Resolver) ResolveTable(table *entities.Table, params entities.Params) (*entities.ResolvedResult, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return r.resolveTable(table, params, 0)
}

// RollOn resolves a ranged table against an explicit roll instead of rolling.
func (r *Resolver) RollOn(tableID string, roll int, params entities.Params) (*entities.ResolvedResult, error) {
	t, err := r.registry.lookup(tableID)
	if err != nil {
		return nil, err
	}
	if !t.Method.IsRanged() {
		return nil, fmt.Errorf("table %q uses %s resolution and cannot take an explicit roll", t.ID, t.Method)
	}
	result := r.newResult(t, params)
	result.Roll = roll
	entry := pickRange(t, roll)
	if entry == nil {
		return r.fallback(result, t, params, entities.ReasonMissedRoll, 0), nil
	}
	return r.finish(result, t, entry, params, 0)
}

func (r *Resolver) resolve(tableID string, params entities.Params, depth int) (*entities.ResolvedResult, error) {
	if depth > r.maxDepth {
		r.logger.Warn("table recursion limit reached",
			zap.String("table", tableID), zap.Int("max_depth", r.maxDepth))
		return &entities.ResolvedResult{
			TableID:   tableID,
			TableName: tableID,
			Entry:     entities.Entry{Text: unknownText},
			Params:    params.Clone(),
			Fallback:  true,
			Reason:    entities.ReasonMaxDepth,
			Timestamp: r.now(),
		}, nil
	}

	t, err := r.registry.lookup(tableID)
	if err != nil {
		return nil, err
	}
	return r.resolveTable(t, params, depth)
}

func (r *Resolver) resolveTable(t *entities.Table, params entities.Params, depth int) (*entities.ResolvedResult, error) {
	result := r.newResult(t, params)

	var entry *entities.Entry
	reason := entities.ReasonMissedRoll

	switch {
	case t.Method.IsRanged():
		result.Roll = r.Roll(t.DiceExpression()).Total
		entry = pickRange(t, result.Roll)
	case t.Method == entities.MethodWeighted:
		entry = r.pickWeighted(t.Entries)
		reason = entities.ReasonEmptyTable
	case t.Method == entities.MethodConditional:
		entry = r.pickConditional(t.Entries, params)
		reason = entities.ReasonNoValidEntry
	default:
		return nil, fmt.Errorf("table %q: unsupported method %q", t.ID, t.Method)
	}

	if entry == nil {
		r.logger.Debug("table fell back",
			zap.String("table", t.ID), zap.String("reason", reason), zap.Int("roll", result.Roll))
		return r.fallback(result, t, params, reason, depth), nil
	}
	return r.finish(result, t, entry, params, depth)
}

func (r *Resolver) newResult(t *entities.Table, params entities.Params) *entities.ResolvedResult {
	return &entities.ResolvedResult{
		TableID:   t.ID,
		TableName: t.Name,
		Params:    params.Clone(),
		Timestamp: r.now(),
	}
}

// finish copies the chosen entry, rolls its inline dice, substitutes its text
// and follows a nested table's subtable reference.
func (r *Resolver) finish(
	result *entities.ResolvedResult,
	t *entities.Table,
	chosen *entities.Entry,
	params entities.Params,
	depth int,
) (*entities.ResolvedResult, error) {
	entry := chosen.Clone()
	if entry.Dice != "" {
		result.EntryRoll = r.Roll(entry.Dice).Total
	}
	entry.Text = r.expand(entry.Text, params, depth)
	result.Entry = entry

	if t.Method == entities.MethodNested && entry.Subtable != "" {
		sub, err := r.resolve(entry.Subtable, params, depth+1)
		if err != nil {
			return nil, fmt.Errorf("resolving subtable of %q: %w", t.ID, err)
		}
		result.SubtableResult = sub
	}
	return result, nil
}

func (r *Resolver) fallback(
	result *entities.ResolvedResult,
	t *entities.Table,
	params entities.Params,
	reason string,
	depth int,
) *entities.ResolvedResult {
	entry := entities.Entry{Text: entities.DefaultFallbackText}
	if t.Fallback != nil {
		entry = t.Fallback.Clone()
	}
	entry.Text = r.expand(entry.Text, params, depth)
	result.Entry = entry
	result.Fallback = true
	result.Reason = reason
	return result
}

// pickRange returns the first entry whose range contains roll.
func pickRange(t *entities.Table, roll int) *entities.Entry {
	for i := range t.Entries {
		if t.Entries[i].Matches(roll) {
			return &t.Entries[i]
		}
	}
	return nil
}

// pickWeighted draws uniformly in [0, total) and returns the first entry
// whose cumulative weight exceeds the draw.
func (r *Resolver) pickWeighted(entries []entities.Entry) *entities.Entry {
	if len(entries) == 0 {
		return nil
	}
	total := 0.0
	for i := range entries {
		total += entries[i].EffectiveWeight()
	}
	draw := r.rng.Float64() * total
	cumulative := 0.0
	for i := range entries {
		cumulative += entries[i].EffectiveWeight()
		if cumulative > draw {
			return &entries[i]
		}
	}
	// Rounding can leave draw == total; the last entry owns that edge.
	return &entries[len(entries)-1]
}

// pickConditional picks uniformly among entries whose conditions all hold.
func (r *Resolver) pickConditional(entries []entities.Entry, params entities.Params) *entities.Entry {
	survivors := make([]*entities.Entry, 0, len(entries))
	for i := range entries {
		if entries[i].Allows(params) {
			survivors = append(survivors, &entries[i])
		}
	}
	if len(survivors) == 0 {
		return nil
	}
	return survivors[r.rng.Intn(len(survivors))]
}
