package services

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

// unknownText replaces a [TABLE:] token that could not be resolved.
const unknownText = "Unknown"

var (
	reParamToken = regexp.MustCompile(`\{([A-Za-z0-9_.\-]+)\}`)
	reTableToken = regexp.MustCompile(`\[TABLE:([^\]]+)\]`)
	reRollToken  = regexp.MustCompile(`\[ROLL:([^\]]+)\]`)
)

// HasTokens reports whether text still contains a substitutable token.
func HasTokens(text string) bool {
	return reParamToken.MatchString(text) || reTableToken.MatchString(text) || reRollToken.MatchString(text)
}

// Substitute expands {param}, [TABLE:name] and [ROLL:expr] tokens in text.
// Parameters without a value are left as written.
func (r *Resolver) Substitute(text string, params entities.Params) string {
	return r.expand(text, params, 0)
}

// expand runs one left-to-right pass per token type: parameters, then
// tables, then rolls. Table tokens resolve one level deeper than depth.
func (r *Resolver) expand(text string, params entities.Params, depth int) string {
	if !strings.ContainsAny(text, "{[") {
		return text
	}

	text = reParamToken.ReplaceAllStringFunc(text, func(token string) string {
		key := reParamToken.FindStringSubmatch(token)[1]
		if v, ok := params[key]; ok {
			return v
		}
		return token
	})

	text = reTableToken.ReplaceAllStringFunc(text, func(token string) string {
		name := strings.TrimSpace(reTableToken.FindStringSubmatch(token)[1])
		res, err := r.resolve(name, params, depth+1)
		if err != nil {
			r.logger.Debug("table token unresolved", zap.String("table", name), zap.Error(err))
			return unknownText
		}
		if res.Reason == entities.ReasonMaxDepth {
			return unknownText
		}
		if out := res.FullText(); out != "" {
			return out
		}
		return unknownText
	})

	text = reRollToken.ReplaceAllStringFunc(text, func(token string) string {
		expr := reRollToken.FindStringSubmatch(token)[1]
		return strconv.Itoa(r.Roll(expr).Total)
	})

	return text
}
