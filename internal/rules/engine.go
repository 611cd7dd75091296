// Package rules implements the pattern matcher: an Aho-Corasick keyword
// scanner plus per-category regular expressions over normalized text.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/unicode/norm"

	"github.com/ioozy/scamwatch/internal/domain"
	"github.com/ioozy/scamwatch/internal/logger"
	"github.com/ioozy/scamwatch/internal/telemetry"
)

// tokenRef ties one keyword occurrence in the automaton back to its rule.
type tokenRef struct {
	ruleIndex  int
	tokenIndex int
	category   domain.Category
	token      string
}

type regexRule struct {
	ruleIndex  int
	tokenIndex int
	category   domain.Category
	re         *regexp.Regexp
}

// Engine matches a message against the configured rule table. It is built
// once at startup, validated eagerly, and immutable afterwards, so matching
// is a pure function of (rule table, message).
type Engine struct {
	rules     []Rule
	matcher   *ahocorasick.Matcher
	keywords  []string
	kwRefs    map[string][]tokenRef
	regexes   []regexRule
	telemetry *telemetry.Provider
	logger    logger.Logger
}

// NewEngine builds the matcher from the rule table. Any malformed entry
// (unknown category, empty matcher set, invalid regex) is a load-time error;
// matching itself can never fail.
func NewEngine(table []Rule, log logger.Logger, tp *telemetry.Provider) (*Engine, error) {
	if log == nil {
		log = logger.NewNop()
	}

	e := &Engine{
		rules:     table,
		kwRefs:    make(map[string][]tokenRef),
		telemetry: tp,
		logger:    log,
	}

	for i, rule := range table {
		if _, ok := domain.ParseCategory(string(rule.Category)); !ok {
			return nil, fmt.Errorf("rule %q: unknown category %q", rule.Name, rule.Category)
		}
		if len(rule.Keywords) == 0 && len(rule.Patterns) == 0 {
			return nil, fmt.Errorf("rule %q: no keywords or patterns", rule.Name)
		}

		for j, kw := range rule.Keywords {
			normalized := normalizeKeyword(kw)
			if normalized == "" {
				return nil, fmt.Errorf("rule %q: keyword %d is empty after normalization", rule.Name, j)
			}
			if _, seen := e.kwRefs[normalized]; !seen {
				e.keywords = append(e.keywords, normalized)
			}
			e.kwRefs[normalized] = append(e.kwRefs[normalized], tokenRef{
				ruleIndex:  i,
				tokenIndex: j,
				category:   rule.Category,
				token:      normalized,
			})
		}

		for j, pat := range rule.Patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, fmt.Errorf("rule %q: pattern %d: %w", rule.Name, j, err)
			}
			e.regexes = append(e.regexes, regexRule{
				ruleIndex:  i,
				tokenIndex: len(rule.Keywords) + j,
				category:   rule.Category,
				re:         re,
			})
		}
	}

	if len(e.keywords) > 0 {
		e.matcher = ahocorasick.NewStringMatcher(e.keywords)
	}

	log.Info("pattern matcher initialized",
		logger.Int("rules", len(table)),
		logger.Int("keywords", len(e.keywords)),
		logger.Int("patterns", len(e.regexes)))

	return e, nil
}

// Rules returns the rule table the engine was built from.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Match returns every rule hit in the message, ordered by rule-table
// position then token position within the rule. Each distinct keyword or
// pattern contributes at most one hit: stage inference counts breadth of
// distinct tokens, not raw occurrences. No side effects beyond telemetry.
func (e *Engine) Match(text string) []domain.MatchHit {
	start := time.Now()

	// Regexes see punctuation and digits; the keyword scan runs over
	// punctuation-stripped text so "urgent!" still hits "urgent".
	lite := normalizeLite(text)
	stripped := stripPunct(lite)

	type orderedHit struct {
		ruleIndex  int
		tokenIndex int
		hit        domain.MatchHit
	}
	var found []orderedHit

	if e.matcher != nil {
		for _, idx := range e.matcher.Match([]byte(stripped)) {
			if idx >= len(e.keywords) {
				continue
			}
			kw := e.keywords[idx]
			pos := strings.Index(stripped, kw)
			for _, ref := range e.kwRefs[kw] {
				found = append(found, orderedHit{
					ruleIndex:  ref.ruleIndex,
					tokenIndex: ref.tokenIndex,
					hit: domain.MatchHit{
						Category: ref.category,
						Token:    kw,
						Start:    pos,
						End:      pos + len(kw),
					},
				})
			}
		}
	}

	for _, rr := range e.regexes {
		if loc := rr.re.FindStringIndex(lite); loc != nil {
			found = append(found, orderedHit{
				ruleIndex:  rr.ruleIndex,
				tokenIndex: rr.tokenIndex,
				hit: domain.MatchHit{
					Category: rr.category,
					Token:    lite[loc[0]:loc[1]],
					Start:    loc[0],
					End:      loc[1],
				},
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].ruleIndex != found[j].ruleIndex {
			return found[i].ruleIndex < found[j].ruleIndex
		}
		return found[i].tokenIndex < found[j].tokenIndex
	})

	hits := make([]domain.MatchHit, len(found))
	for i, f := range found {
		hits[i] = f.hit
	}

	if e.telemetry != nil {
		e.telemetry.RecordRuleMatch(time.Since(start), len(hits))
	}

	return hits
}

// Tally maps hits to per-category counts for the stage inferencer.
func Tally(hits []domain.MatchHit) map[domain.Category]int {
	counts := make(map[domain.Category]int, len(hits))
	for _, h := range hits {
		counts[h.Category]++
	}
	return counts
}

// DistinctCategories returns the matched categories in first-hit order.
func DistinctCategories(hits []domain.MatchHit) []domain.Category {
	seen := make(map[domain.Category]bool, len(hits))
	var out []domain.Category
	for _, h := range hits {
		if !seen[h.Category] {
			seen[h.Category] = true
			out = append(out, h.Category)
		}
	}
	return out
}

func normalizeKeyword(kw string) string {
	return strings.TrimSpace(stripPunct(normalizeLite(kw)))
}

// normalizeLite applies NFKC (folding full-width forms common in CJK chat
// text) and lowercases. Punctuation survives for the regex pass.
func normalizeLite(text string) string {
	return strings.ToLower(norm.NFKC.String(text))
}

// stripPunct replaces every non-letter, non-digit rune with a space,
// preserving word boundaries for multi-word keywords.
func stripPunct(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
