// Package dice rolls standard tabletop dice notation.
package dice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ersonp/campaign-forge/internal/domain/ports"
)

// Limits on a single expression.
const (
	MaxCount = 100
	MaxSides = 1000
)

var (
	// ErrInvalidExpression is returned when an expression does not follow
	// the [N]dM[(+|-)K] grammar.
	ErrInvalidExpression = errors.New("invalid dice expression")
	// ErrInvalidDiceSpec is returned when count or sides fall outside the limits.
	ErrInvalidDiceSpec = errors.New("invalid dice spec")
)

var (
	reDice     = regexp.MustCompile(`^(\d*)[dD](\d+|%)(?:([+-])(\d+))?$`)
	reConstant = regexp.MustCompile(`^[+-]?\d+$`)
)

// Spec is a parsed dice expression.
type Spec struct {
	Count    int
	Sides    int
	Modifier int
}

// String renders the spec in canonical NdM+K form.
func (s Spec) String() string {
	if s.Count == 0 {
		return strconv.Itoa(s.Modifier)
	}
	out := fmt.Sprintf("%dd%d", s.Count, s.Sides)
	switch {
	case s.Modifier > 0:
		out += fmt.Sprintf("+%d", s.Modifier)
	case s.Modifier < 0:
		out += strconv.Itoa(s.Modifier)
	}
	return out
}

// Range returns the lowest and highest totals the spec can produce.
func (s Spec) Range() (lo, hi int) {
	return s.Count + s.Modifier, s.Count*s.Sides + s.Modifier
}

// Parse reads "NdM", "NdM+K", "NdM-K", "d%" or a bare integer.
// Whitespace is ignored and N defaults to 1.
func Parse(expr string) (Spec, error) {
	compact := strings.Join(strings.Fields(expr), "")
	if compact == "" {
		return Spec{}, fmt.Errorf("%w: empty", ErrInvalidExpression)
	}

	if reConstant.MatchString(compact) {
		n, err := strconv.Atoi(compact)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
		}
		return Spec{Modifier: n}, nil
	}

	m := reDice.FindStringSubmatch(compact)
	if m == nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
	}

	spec := Spec{Count: 1}
	if m[1] != "" {
		spec.Count, _ = strconv.Atoi(m[1])
	}
	if m[2] == "%" {
		spec.Sides = 100
	} else {
		spec.Sides, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		spec.Modifier, _ = strconv.Atoi(m[4])
		if m[3] == "-" {
			spec.Modifier = -spec.Modifier
		}
	}

	if spec.Count < 1 || spec.Count > MaxCount || spec.Sides < 1 || spec.Sides > MaxSides {
		return Spec{}, fmt.Errorf("%w: %q (count 1-%d, sides 1-%d)", ErrInvalidDiceSpec, expr, MaxCount, MaxSides)
	}
	return spec, nil
}

// Roller rolls dice expressions against a ports.Randomizer.
type Roller struct {
	rng ports.Randomizer
}

var _ ports.DiceRoller = (*Roller)(nil)

// NewRoller creates a Roller drawing from rng.
func NewRoller(rng ports.Randomizer) *Roller {
	return &Roller{rng: rng}
}

// Roll parses expr and rolls it.
func (r *Roller) Roll(expr string) (ports.DiceResult, error) {
	spec, err := Parse(expr)
	if err != nil {
		return ports.DiceResult{}, err
	}
	return r.RollSpec(spec), nil
}

// RollSpec rolls an already parsed spec.
func (r *Roller) RollSpec(spec Spec) ports.DiceResult {
	result := ports.DiceResult{
		Expression: spec.String(),
		Modifier:   spec.Modifier,
	}
	if spec.Count > 0 {
		result.Rolls = make([]int, spec.Count)
	}
	total := 0
	for i := 0; i < spec.Count; i++ {
		value := r.rollDie(spec.Sides)
		result.Rolls[i] = value
		total += value
	}
	result.Total = total + spec.Modifier
	return result
}

// rollDie rolls a single die with the provided number of sides.
func (r *Roller) rollDie(sides int) int {
	return r.rng.Intn(sides) + 1
}
