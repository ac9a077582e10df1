// Package gateway wraps the text-generation backends. The rest of the
// system treats generation as a black box: a prompt goes in, candidate
// code comes out, and any transport or model failure surfaces as a
// terminal error for that request. There is no retry across this
// boundary — the caller may resubmit.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// ErrGeneration covers any transport or model failure.
var ErrGeneration = errors.New("generation failed")

// ErrTimeout marks a generation that exceeded its deadline. Surfaced
// separately so callers can tell a stalled model from a broken one.
var ErrTimeout = errors.New("generation timed out")

// Generator produces candidate code for a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// RefactorPrompt wraps existing code in the instruction the original
// assistant used for refactor requests. Refactoring is the same
// generation call with a different prompt, not a separate path.
func RefactorPrompt(code string) string {
	return "Refactor the following code for better readability and security compliance:\n\n" + code
}

// classify maps a backend error to the gateway taxonomy, preserving the
// cause. Context expiry means timeout; everything else is a generation
// failure.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrGeneration, err)
}
