// Package entities contains core domain data structures.
package entities

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Method defines how a table turns a roll into an entry.
type Method string

const (
	MethodStandard    Method = "standard"
	MethodPercentile  Method = "percentile"
	MethodWeighted    Method = "weighted"
	MethodConditional Method = "conditional"
	MethodNested      Method = "nested"
)

// PercentileDice is the dice expression used when a percentile table omits one.
const PercentileDice = "1d100"

// ParseMethod validates and converts a string to Method.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodStandard:
		return MethodStandard, nil
	case MethodPercentile:
		return MethodPercentile, nil
	case MethodWeighted:
		return MethodWeighted, nil
	case MethodConditional:
		return MethodConditional, nil
	case MethodNested:
		return MethodNested, nil
	default:
		return "", fmt.Errorf("invalid table method: %q (valid: standard, percentile, weighted, conditional, nested)", s)
	}
}

// IsRanged reports whether the method selects entries by dice range.
func (m Method) IsRanged() bool {
	return m == MethodStandard || m == MethodPercentile || m == MethodNested
}

// Params is the open key-value bag threaded through every resolution call.
type Params map[string]string

// Clone returns an independent copy of the params.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p with the keys of other layered on top.
func (p Params) Merge(other Params) Params {
	out := p.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Table is a named, dice-indexed collection of entries.
type Table struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Dice     string  `json:"dice,omitempty" yaml:"dice,omitempty"`
	Method   Method  `json:"method" yaml:"method"`
	Entries  []Entry `json:"entries" yaml:"entries"`
	Fallback *Entry  `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// DiceExpression returns the dice to roll for this table.
func (t *Table) DiceExpression() string {
	if t.Dice == "" && t.Method == MethodPercentile {
		return PercentileDice
	}
	return t.Dice
}

// Clone returns a deep copy so registry contents stay immutable.
func (t *Table) Clone() *Table {
	out := *t
	out.Entries = make([]Entry, len(t.Entries))
	for i := range t.Entries {
		out.Entries[i] = t.Entries[i].Clone()
	}
	if t.Fallback != nil {
		fb := t.Fallback.Clone()
		out.Fallback = &fb
	}
	return &out
}

// Entry is a single row of a table.
type Entry struct {
	Min        int               `json:"min,omitempty" yaml:"min,omitempty"`
	Max        int               `json:"max,omitempty" yaml:"max,omitempty"`
	Weight     float64           `json:"weight,omitempty" yaml:"weight,omitempty"`
	Text       string            `json:"text" yaml:"text"`
	Subtable   string            `json:"subtable,omitempty" yaml:"subtable,omitempty"`
	Dice       string            `json:"dice,omitempty" yaml:"dice,omitempty"`
	Conditions []Condition       `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Matches reports whether roll falls inside the entry's range.
func (e *Entry) Matches(roll int) bool {
	return roll >= e.Min && roll <= e.Max
}

// EffectiveWeight returns the entry weight, defaulting to 1.
func (e *Entry) EffectiveWeight() float64 {
	if e.Weight <= 0 {
		return 1
	}
	return e.Weight
}

// Attr returns a freeform attribute, or "" when absent.
func (e *Entry) Attr(key string) string {
	if e.Attributes == nil {
		return ""
	}
	return e.Attributes[key]
}

// Race returns the race attribute.
func (e *Entry) Race() string { return e.Attr("race") }

// Gender returns the gender attribute.
func (e *Entry) Gender() string { return e.Attr("gender") }

// Name returns the name attribute.
func (e *Entry) Name() string { return e.Attr("name") }

// Label returns the text used when the entry is inserted into another template.
func (e *Entry) Label() string {
	if e.Text != "" {
		return e.Text
	}
	return e.Name()
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	if e.Attributes != nil {
		out.Attributes = make(map[string]string, len(e.Attributes))
		for k, v := range e.Attributes {
			out.Attributes[k] = v
		}
	}
	if e.Conditions != nil {
		out.Conditions = append([]Condition(nil), e.Conditions...)
	}
	return out
}

// ConditionType selects how a condition is evaluated.
type ConditionType string

const (
	ConditionParameter ConditionType = "parameter"
	ConditionRange     ConditionType = "range"
	ConditionExists    ConditionType = "exists"
)

// Condition restricts a conditional-table entry to matching contexts.
type Condition struct {
	Type  ConditionType `json:"type" yaml:"type"`
	Key   string        `json:"key" yaml:"key"`
	Value string        `json:"value,omitempty" yaml:"value,omitempty"`
	Min   int           `json:"min,omitempty" yaml:"min,omitempty"`
	Max   int           `json:"max,omitempty" yaml:"max,omitempty"`
}

// Evaluate reports whether the condition holds for params.
func (c Condition) Evaluate(params Params) bool {
	value, ok := params[c.Key]
	switch c.Type {
	case ConditionParameter:
		return ok && strings.EqualFold(strings.TrimSpace(value), c.Value)
	case ConditionRange:
		if !ok {
			return false
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return false
		}
		return n >= c.Min && n <= c.Max
	case ConditionExists:
		return ok && strings.TrimSpace(value) != ""
	default:
		return false
	}
}

// Allows reports whether every condition on the entry holds for params.
func (e *Entry) Allows(params Params) bool {
	for _, c := range e.Conditions {
		if !c.Evaluate(params) {
			return false
		}
	}
	return true
}

// Coverage describes how a ranged table's entries cover a roll range.
type Coverage struct {
	Gaps     []int `json:"gaps,omitempty"`
	Overlaps []int `json:"overlaps,omitempty"`
}

// OK reports whether every outcome maps to exactly one entry.
func (c Coverage) OK() bool {
	return len(c.Gaps) == 0 && len(c.Overlaps) == 0
}

// CheckCoverage counts, for every outcome in [lo, hi], how many entries match.
func (t *Table) CheckCoverage(lo, hi int) Coverage {
	var cov Coverage
	for roll := lo; roll <= hi; roll++ {
		n := 0
		for i := range t.Entries {
			if t.Entries[i].Matches(roll) {
				n++
			}
		}
		switch {
		case n == 0:
			cov.Gaps = append(cov.Gaps, roll)
		case n > 1:
			cov.Overlaps = append(cov.Overlaps, roll)
		}
	}
	return cov
}

// Validate checks the structural invariants of a table definition.
func (t *Table) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("table: id must not be empty")
	}
	if _, err := ParseMethod(string(t.Method)); err != nil {
		return fmt.Errorf("table %q: %w", t.ID, err)
	}
	if len(t.Entries) == 0 {
		return fmt.Errorf("table %q: must have at least one entry", t.ID)
	}
	if t.Method.IsRanged() {
		if t.DiceExpression() == "" {
			return fmt.Errorf("table %q: %s tables need a dice expression", t.ID, t.Method)
		}
		for i := range t.Entries {
			if t.Entries[i].Min > t.Entries[i].Max {
				return fmt.Errorf("table %q: entry[%d] min (%d) must be <= max (%d)",
					t.ID, i, t.Entries[i].Min, t.Entries[i].Max)
			}
		}
	}
	for i := range t.Entries {
		if t.Entries[i].Weight < 0 {
			return fmt.Errorf("table %q: entry[%d] weight must be >= 0", t.ID, i)
		}
	}
	return nil
}

// SortedIDs returns the ids of tables in lexical order.
func SortedIDs(tables map[string]*Table) []string {
	ids := make([]string, 0, len(tables))
	for id := range tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
