package services

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

// Registry holds every table definition, keyed by id.
// Stored tables are never mutated; Get hands out copies.
type Registry struct {
	tables    map[string]*entities.Table
	overwrite bool
	logger    *zap.Logger
	mu        sync.RWMutex
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithOverwrite makes Register replace an existing table instead of
// rejecting the duplicate id.
func WithOverwrite() RegistryOption {
	return func(r *Registry) { r.overwrite = true }
}

// WithRegistryLogger sets the logger used for registration events.
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tables: make(map[string]*entities.Table),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry creates a Registry preloaded with the built-in tables.
func NewDefaultRegistry(opts ...RegistryOption) (*Registry, error) {
	r := NewRegistry(opts...)
	if err := r.RegisterAll(entities.DefaultTables); err != nil {
		return nil, fmt.Errorf("registering default tables: %w", err)
	}
	return r, nil
}

// Register adds a table. A duplicate id fails with *entities.DuplicateTableError
// unless the registry was built WithOverwrite.
func (r *Registry) Register(table entities.Table) error {
	if err := table.Validate(); err != nil {
		return err
	}
	stored := table.Clone()
	if stored.Name == "" {
		stored.Name = stored.ID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[stored.ID]; exists {
		if !r.overwrite {
			return &entities.DuplicateTableError{ID: stored.ID}
		}
		r.logger.Debug("replacing table", zap.String("table", stored.ID))
	}
	r.tables[stored.ID] = stored
	return nil
}

// Replace registers a table, replacing any table with the same id regardless
// of the registry's overwrite setting.
func (r *Registry) Replace(table entities.Table) error {
	if err := table.Validate(); err != nil {
		return err
	}
	stored := table.Clone()
	if stored.Name == "" {
		stored.Name = stored.ID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[stored.ID] = stored
	return nil
}

// RegisterAll registers tables in order and stops at the first failure.
func (r *Registry) RegisterAll(tables []entities.Table) error {
	for i := range tables {
		if err := r.Register(tables[i]); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether a table id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tables[id]
	return ok
}

// Get returns a copy of the table or *entities.TableNotFoundError.
func (r *Registry) Get(id string) (*entities.Table, error) {
	t, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// lookup returns the stored table without copying. Callers must not mutate it.
func (r *Registry) lookup(id string) (*entities.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, &entities.TableNotFoundError{ID: id}
	}
	return t, nil
}

// ListIDs returns every registered id in lexical order.
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return entities.SortedIDs(r.tables)
}

// List returns copies of every table ordered by id.
func (r *Registry) List() []entities.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := entities.SortedIDs(r.tables)
	out := make([]entities.Table, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.tables[id].Clone())
	}
	return out
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// TableReport is the result of checking one table's definition.
type TableReport struct {
	TableID  string            `json:"table_id"`
	Dice     string            `json:"dice,omitempty"`
	Coverage entities.Coverage `json:"coverage"`
	Missing  []string          `json:"missing_subtables,omitempty"`
	Problem  string            `json:"problem,omitempty"`
}

// OK reports whether the table passed every check.
func (t TableReport) OK() bool {
	return t.Problem == "" && len(t.Missing) == 0 && t.Coverage.OK()
}

// Check verifies range coverage and subtable references for one table.
func (r *Registry) Check(id string) (TableReport, error) {
	t, err := r.lookup(id)
	if err != nil {
		return TableReport{}, err
	}
	report := TableReport{TableID: t.ID, Dice: t.DiceExpression()}

	if t.Method.IsRanged() {
		lo, hi, ok := DiceRange(t.DiceExpression())
		if !ok {
			report.Problem = fmt.Sprintf("unreadable dice expression %q", t.DiceExpression())
		} else {
			report.Coverage = t.CheckCoverage(lo, hi)
		}
	}
	for i := range t.Entries {
		if sub := t.Entries[i].Subtable; sub != "" && !r.Has(sub) {
			report.Missing = append(report.Missing, sub)
		}
	}
	return report, nil
}

// CheckAll runs Check on every registered table.
func (r *Registry) CheckAll() []TableReport {
	ids := r.ListIDs()
	reports := make([]TableReport, 0, len(ids))
	for _, id := range ids {
		report, err := r.Check(id)
		if err != nil {
			continue
		}
		reports = append(reports, report)
	}
	return reports
}
