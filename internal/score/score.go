// Package score turns a violation list and a syntax check into a
// numeric security score and a verdict.
package score

import (
	"strings"

	"github.com/gzhole/genguard/internal/sanitize"
)

type Verdict string

const (
	VerdictAccept Verdict = "ACCEPT"
	VerdictWarn   Verdict = "ACCEPT_WITH_WARNINGS"
	VerdictReject Verdict = "REJECT"
)

// Level is the advisory security classification of a result. It never
// overrides the verdict thresholds.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

const (
	// syntaxPenalty is subtracted once when the code fails the syntax check.
	syntaxPenalty = 20

	// acceptThreshold and warnThreshold are fixed and total-ordered:
	// score >= acceptThreshold with no high-severity violation accepts,
	// score >= warnThreshold with no critical violation accepts with
	// warnings, everything else rejects.
	acceptThreshold = 80
	warnThreshold   = 50

	// highWeight marks the severity weight at or above which a violation
	// counts as high severity for the accept gate.
	highWeight = 25
)

// Result is the derived outcome of scoring one piece of code. It is
// never mutated after creation.
type Result struct {
	Score       int                  `json:"score"`
	Verdict     Verdict              `json:"verdict"`
	Violations  []sanitize.Violation `json:"violations,omitempty"`
	SyntaxValid bool                 `json:"syntax_valid"`
	Level       Level                `json:"level"`
	Lines       int                  `json:"lines"` // size of the scored code, recorded for audit
}

// Accepted reports whether the code may be returned to the caller.
func (r Result) Accepted() bool { return r.Verdict != VerdictReject }

// Score computes the result for code given its violations and syntax
// validity. Scoring starts at 100, subtracts every violation's weight
// (floored at zero) and a fixed penalty for invalid syntax. A single
// critical-tier violation vetoes to REJECT no matter what the arithmetic
// says: some issues, like arbitrary command execution, must never be
// approved on aggregate score alone.
func Score(code string, violations []sanitize.Violation, syntaxValid bool) Result {
	points := 100
	hasCritical := false
	hasHigh := false

	for _, v := range violations {
		points -= v.Weight
		if v.Critical() {
			hasCritical = true
		}
		if v.Weight >= highWeight {
			hasHigh = true
		}
	}
	if !syntaxValid {
		points -= syntaxPenalty
	}
	if points < 0 {
		points = 0
	}

	verdict := VerdictReject
	switch {
	case hasCritical:
		// hard veto, independent of the numeric score
	case points >= acceptThreshold && !hasHigh:
		verdict = VerdictAccept
	case points >= warnThreshold:
		verdict = VerdictWarn
	}

	return Result{
		Score:       points,
		Verdict:     verdict,
		Violations:  violations,
		SyntaxValid: syntaxValid,
		Level:       classify(points, len(violations)),
		Lines:       strings.Count(code, "\n") + 1,
	}
}

func classify(points, violationCount int) Level {
	switch {
	case points >= 90 && violationCount == 0:
		return LevelHigh
	case points >= 70:
		return LevelMedium
	default:
		return LevelLow
	}
}
