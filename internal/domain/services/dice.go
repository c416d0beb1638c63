package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ersonp/campaign-forge/internal/domain/ports"
)

// Limits applied by the fallback parser so a malformed expression can't spin.
const (
	fallbackMaxCount = 100
	fallbackMaxSides = 1000
)

var (
	// reLooseDice matches the first NdM term anywhere in an expression.
	reLooseDice = regexp.MustCompile(`(?i)(\d*)\s*d\s*(\d+|%)`)
	// reLooseModifier matches a signed constant following the dice term.
	reLooseModifier = regexp.MustCompile(`([+-])\s*(\d+)`)
	// reLooseNumber matches a bare integer.
	reLooseNumber = regexp.MustCompile(`-?\d+`)
)

// looseDice is a best-effort reading of a dice expression.
type looseDice struct {
	count    int
	sides    int
	modifier int
	constant bool
}

// parseLooseDice extracts the first NdM term and a trailing modifier, or a
// bare integer. ok is false when nothing usable was found.
func parseLooseDice(expr string) (looseDice, bool) {
	m := reLooseDice.FindStringSubmatchIndex(expr)
	if m == nil {
		n := reLooseNumber.FindString(expr)
		if n == "" {
			return looseDice{}, false
		}
		v, err := strconv.Atoi(n)
		if err != nil {
			return looseDice{}, false
		}
		return looseDice{modifier: v, constant: true}, true
	}

	d := looseDice{count: 1}
	if countStr := expr[m[2]:m[3]]; countStr != "" {
		if v, err := strconv.Atoi(countStr); err == nil && v > 0 {
			d.count = v
		}
	}
	sidesStr := expr[m[4]:m[5]]
	if sidesStr == "%" {
		d.sides = 100
	} else if v, err := strconv.Atoi(sidesStr); err == nil {
		d.sides = v
	}
	if d.sides < 1 {
		d.sides = 1
	}
	d.count = min(d.count, fallbackMaxCount)
	d.sides = min(d.sides, fallbackMaxSides)

	if mod := reLooseModifier.FindStringSubmatch(expr[m[1]:]); mod != nil {
		v, _ := strconv.Atoi(mod[2])
		if mod[1] == "-" {
			v = -v
		}
		d.modifier = v
	}
	return d, true
}

// fallbackRoll rolls expr with the permissive parser. It is used when no
// DiceRoller is wired or the wired one rejects the expression, so it never
// fails: an unreadable expression totals 0.
func fallbackRoll(rng ports.Randomizer, expr string) ports.DiceResult {
	result := ports.DiceResult{Expression: strings.TrimSpace(expr)}
	d, ok := parseLooseDice(expr)
	if !ok {
		return result
	}
	if d.constant {
		result.Total = d.modifier
		result.Modifier = d.modifier
		return result
	}

	result.Rolls = make([]int, d.count)
	for i := range result.Rolls {
		result.Rolls[i] = rng.Intn(d.sides) + 1
		result.Total += result.Rolls[i]
	}
	result.Modifier = d.modifier
	result.Total += d.modifier
	return result
}

// DiceRange returns the lowest and highest totals expr can produce.
func DiceRange(expr string) (lo, hi int, ok bool) {
	d, ok := parseLooseDice(expr)
	if !ok {
		return 0, 0, false
	}
	if d.constant {
		return d.modifier, d.modifier, true
	}
	return d.count + d.modifier, d.count*d.sides + d.modifier, true
}
