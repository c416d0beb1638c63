package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/ports"
	"github.com/ersonp/campaign-forge/internal/domain/services"
	"github.com/ersonp/campaign-forge/internal/infrastructure/config"
)

// TableHandler handles listing, checking and rolling on tables.
type TableHandler struct {
	resolver *services.Resolver
	store    ports.SessionStore
	logger   *zap.Logger
}

// NewTableHandler creates a new TableHandler. store may be nil, in which
// case rolls are not logged.
func NewTableHandler(resolver *services.Resolver, store ports.SessionStore, logger *zap.Logger) *TableHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableHandler{resolver: resolver, store: store, logger: logger}
}

// TableSummary is one row of a table listing.
type TableSummary struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Method  entities.Method `json:"method"`
	Dice    string          `json:"dice,omitempty"`
	Entries int             `json:"entries"`
}

// RollOptions controls a table roll.
type RollOptions struct {
	Session string          // Session the roll is logged under
	Params  entities.Params // Generation context
	Value   *int            // Explicit roll instead of rolling (ranged tables only)
}

// HandleList summarises every registered table.
func (h *TableHandler) HandleList() []TableSummary {
	tables := h.resolver.Registry().List()
	out := make([]TableSummary, 0, len(tables))
	for i := range tables {
		t := &tables[i]
		out = append(out, TableSummary{
			ID:      t.ID,
			Name:    t.Name,
			Method:  t.Method,
			Dice:    t.DiceExpression(),
			Entries: len(t.Entries),
		})
	}
	return out
}

// HandleShow returns one table definition.
func (h *TableHandler) HandleShow(id string) (*entities.Table, error) {
	return h.resolver.Registry().Get(id)
}

// HandleValidate checks one table, or every table when id is empty.
func (h *TableHandler) HandleValidate(id string) ([]services.TableReport, error) {
	if id == "" {
		return h.resolver.Registry().CheckAll(), nil
	}
	report, err := h.resolver.Registry().Check(id)
	if err != nil {
		return nil, err
	}
	return []services.TableReport{report}, nil
}

// HandleRoll resolves a table and logs the result to the session's roll history.
func (h *TableHandler) HandleRoll(ctx context.Context, tableID string, opts RollOptions) (*entities.ResolvedResult, error) {
	var (
		result *entities.ResolvedResult
		err    error
	)
	if opts.Value != nil {
		result, err = h.resolver.RollOn(tableID, *opts.Value, opts.Params)
	} else {
		result, err = h.resolver.Resolve(tableID, opts.Params)
	}
	if err != nil {
		return nil, err
	}

	if h.store != nil {
		record := &entities.RollRecord{
			Session:   config.SanitizeSessionName(opts.Session),
			TableID:   result.TableID,
			Roll:      result.Roll,
			Text:      result.FullText(),
			Fallback:  result.Fallback,
			CreatedAt: result.Timestamp,
		}
		if err := h.store.LogRoll(ctx, record); err != nil {
			h.logger.Warn("logging roll", zap.String("table", tableID), zap.Error(err))
		}
	}
	return result, nil
}

// HandleDice rolls a bare dice expression.
func (h *TableHandler) HandleDice(expr string) (ports.DiceResult, error) {
	if expr == "" {
		return ports.DiceResult{}, fmt.Errorf("dice expression is required")
	}
	return h.resolver.Roll(expr), nil
}

// HandleExport returns every registered table in export format.
func (h *TableHandler) HandleExport() services.TablesExport {
	return services.ExportTables(h.resolver.Registry())
}
