// Package sanitize screens generated source text against the pattern
// registry. Scanning is deterministic and stateless: the same code and
// the same registry snapshot always produce the same violations and the
// same cleaned output, regardless of call order.
package sanitize

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gzhole/genguard/internal/registry"
	"github.com/gzhole/genguard/internal/unicode"
)

// ErrScan is wrapped by scan failures. It fires only on malformed
// matcher evaluation (e.g. a pattern exploding into an unreasonable
// match count) — an empty violation list is the success path.
var ErrScan = errors.New("sanitization failed")

// maxMatchesPerRule bounds how many matches a single rule may produce
// before the scan is treated as unscannable.
const maxMatchesPerRule = 10000

// Violation is a single rule match against the original source text.
type Violation struct {
	RuleID string        `json:"rule_id"`
	Start  int           `json:"start"` // byte offset in the original code
	End    int           `json:"end"`
	Weight int           `json:"weight"`
	Tier   registry.Tier `json:"tier"`
	Detail string        `json:"detail,omitempty"`
}

// Critical reports whether this violation forces rejection on its own.
func (v Violation) Critical() bool { return v.Tier == registry.TierCritical }

// Scanner scans code against one immutable registry snapshot.
type Scanner struct {
	snap *registry.Snapshot
}

// New returns a scanner bound to the given registry snapshot.
func New(snap *registry.Snapshot) *Scanner {
	return &Scanner{snap: snap}
}

// Scan matches every registry rule against code and returns the
// violations found plus a cleaned copy. Rules run in registry order and
// always match against the original text, so overlapping matches from
// different rules are each reported. Only strip-tier rules modify the
// output: the first rule in registry order claims a span, and the span
// is replaced with a visible placeholder comment so removal stays
// auditable. Later rules overlapping a claimed span still count as
// violations but do not strip again.
func (s *Scanner) Scan(code string) ([]Violation, string, error) {
	violations := scanHidden(code)

	var claimed [][2]int
	for i, rule := range s.snap.Rules() {
		spans := s.snap.FindAll(i, code)
		if len(spans) > maxMatchesPerRule {
			return nil, "", fmt.Errorf("%w: rule %q produced %d matches", ErrScan, rule.ID, len(spans))
		}

		for _, span := range spans {
			violations = append(violations, Violation{
				RuleID: rule.ID,
				Start:  span[0],
				End:    span[1],
				Weight: rule.Weight,
				Tier:   rule.Tier,
				Detail: rule.Description,
			})
			if rule.Tier == registry.TierStrip && !overlapsAny(span, claimed) {
				claimed = append(claimed, span)
			}
		}
	}

	return violations, applyStrips(code, claimed, s.ruleFor), nil
}

// ruleFor returns the id of the first strip-tier rule matching exactly
// this span. Used to label the placeholder comment.
func (s *Scanner) ruleFor(code string, span [2]int) string {
	for i, rule := range s.snap.Rules() {
		if rule.Tier != registry.TierStrip {
			continue
		}
		for _, m := range s.snap.FindAll(i, code) {
			if m == span {
				return rule.ID
			}
		}
	}
	return "unknown"
}

// scanHidden runs the built-in invisible-character scan ahead of the
// registry rules, mirroring how hostile content is screened before any
// configurable rule gets a say.
func scanHidden(code string) []Violation {
	var violations []Violation
	for _, f := range unicode.Scan(code) {
		v := Violation{
			RuleID: "hidden-" + f.Category,
			Start:  f.Position,
			End:    f.Position + 1,
			Weight: 10,
			Tier:   registry.TierReport,
			Detail: f.Detail,
		}
		if f.Critical {
			v.Weight = 40
			v.Tier = registry.TierCritical
		}
		violations = append(violations, v)
	}
	return violations
}

func overlapsAny(span [2]int, claimed [][2]int) bool {
	for _, c := range claimed {
		if span[0] < c[1] && c[0] < span[1] {
			return true
		}
	}
	return false
}

// applyStrips replaces each claimed span with a placeholder comment,
// preserving all surrounding text.
func applyStrips(code string, claimed [][2]int, label func(string, [2]int) string) string {
	if len(claimed) == 0 {
		return code
	}

	sort.Slice(claimed, func(i, j int) bool { return claimed[i][0] < claimed[j][0] })

	var out strings.Builder
	prev := 0
	for _, span := range claimed {
		out.WriteString(code[prev:span[0]])
		fmt.Fprintf(&out, "# SECURITY REMOVED: %s", label(code, span))
		prev = span[1]
	}
	out.WriteString(code[prev:])
	return out.String()
}
