package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Tier controls what the sanitizer does with a matching rule.
type Tier string

const (
	// TierReport records the violation and leaves the code untouched.
	TierReport Tier = "report"
	// TierStrip records the violation and replaces the matched span
	// with a visible placeholder comment.
	TierStrip Tier = "strip"
	// TierCritical forces a REJECT verdict regardless of aggregate score.
	TierCritical Tier = "critical"
)

// ErrLoad is wrapped by every registry load failure. A load failure is
// fatal: the process must not start with a partial or ambiguous rule set.
var ErrLoad = errors.New("registry load failed")

// Match holds the matcher for a rule. Exactly one of Literal or Regex
// must be set.
type Match struct {
	Literal string `yaml:"literal,omitempty"`
	Regex   string `yaml:"regex,omitempty"`
}

// Rule is a single forbidden/risky source signature.
type Rule struct {
	ID          string `yaml:"id"`
	Match       Match  `yaml:"match"`
	Weight      int    `yaml:"weight"`
	Tier        Tier   `yaml:"tier"`
	Description string `yaml:"description"`
}

// Snapshot is an immutable, versioned view of the rule set. It is built
// once at load time and safe for unsynchronized concurrent reads. Adding
// rules means producing a new snapshot with a new version; snapshots are
// never mutated in place.
type Snapshot struct {
	version  string
	rules    []Rule
	compiled []*regexp.Regexp // index-aligned with rules; nil for literal rules
}

// Version returns the registry version recorded in the snapshot.
func (s *Snapshot) Version() string { return s.version }

// Rules returns the rules in registry order. Callers must not modify
// the returned slice.
func (s *Snapshot) Rules() []Rule { return s.rules }

// FindAll returns all non-overlapping [start, end) spans where the rule
// at index i matches code. Matching is deterministic and stateless.
func (s *Snapshot) FindAll(i int, code string) [][2]int {
	rule := s.rules[i]
	if re := s.compiled[i]; re != nil {
		locs := re.FindAllStringIndex(code, -1)
		spans := make([][2]int, 0, len(locs))
		for _, loc := range locs {
			spans = append(spans, [2]int{loc[0], loc[1]})
		}
		return spans
	}

	var spans [][2]int
	lit := rule.Match.Literal
	for off := 0; ; {
		idx := strings.Index(code[off:], lit)
		if idx < 0 {
			break
		}
		start := off + idx
		spans = append(spans, [2]int{start, start + len(lit)})
		off = start + len(lit)
	}
	return spans
}

// FromRules builds a snapshot directly from an in-memory rule set.
// Administrative tooling and tests use this; request handling always
// goes through Load.
func FromRules(version string, rules []Rule) (*Snapshot, error) {
	return newSnapshot(version, rules)
}

// newSnapshot validates the rule set and compiles every regex matcher up
// front so scanning never sees a compile error.
func newSnapshot(version string, rules []Rule) (*Snapshot, error) {
	if version == "" {
		return nil, fmt.Errorf("%w: empty registry version", ErrLoad)
	}

	seen := make(map[string]bool, len(rules))
	compiled := make([]*regexp.Regexp, len(rules))

	for i, rule := range rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("%w: rule %d has no id", ErrLoad, i)
		}
		if seen[rule.ID] {
			return nil, fmt.Errorf("%w: duplicate rule id %q", ErrLoad, rule.ID)
		}
		seen[rule.ID] = true

		hasLit := rule.Match.Literal != ""
		hasRe := rule.Match.Regex != ""
		if hasLit == hasRe {
			return nil, fmt.Errorf("%w: rule %q must set exactly one of literal or regex", ErrLoad, rule.ID)
		}
		if hasRe {
			re, err := regexp.Compile(rule.Match.Regex)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %q: %v", ErrLoad, rule.ID, err)
			}
			compiled[i] = re
		}

		if rule.Weight <= 0 {
			return nil, fmt.Errorf("%w: rule %q has non-positive weight %d", ErrLoad, rule.ID, rule.Weight)
		}
		switch rule.Tier {
		case TierReport, TierStrip, TierCritical:
		default:
			return nil, fmt.Errorf("%w: rule %q has unknown tier %q", ErrLoad, rule.ID, rule.Tier)
		}
	}

	return &Snapshot{version: version, rules: rules, compiled: compiled}, nil
}
