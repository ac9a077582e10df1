// Package agent orchestrates one request end to end: cache lookup,
// generation, sanitization, scoring, the accept/reject gate, and the
// best-effort cache write.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gzhole/genguard/internal/cache"
	"github.com/gzhole/genguard/internal/gateway"
	"github.com/gzhole/genguard/internal/logger"
	"github.com/gzhole/genguard/internal/registry"
	"github.com/gzhole/genguard/internal/sanitize"
	"github.com/gzhole/genguard/internal/score"
	"github.com/gzhole/genguard/internal/syntax"
)

// Mode selects the generation flavor. Refactoring is a prompt variant
// of the same gateway call, not a separate pipeline.
type Mode string

const (
	ModeGenerate Mode = "GENERATE"
	ModeRefactor Mode = "REFACTOR"
)

// Options are caller-supplied knobs on a single request.
type Options struct {
	// Fresh skips the cache lookup and forces regeneration and
	// resanitization. The result is still cached when accepted.
	Fresh bool
	// Pin marks the stored entry immutable: later requests with the
	// same fingerprint will not overwrite it.
	Pin bool
}

// Request is transient per-call input; it is never persisted.
type Request struct {
	Prompt  string
	Mode    Mode
	Options Options
}

// Response always explains itself: either Code plus the result that
// accepted it, or an empty Code with the violations that rejected it.
// Rejected code is never returned, cleaned or otherwise.
type Response struct {
	Code        string
	Result      score.Result
	CacheHit    bool
	Fingerprint string
}

// Agent wires the shared components. The registry snapshot and scanner
// are read-only after construction; the cache store serializes its own
// writes. No lock is held across the gateway call.
type Agent struct {
	snap    *registry.Snapshot
	scanner *sanitize.Scanner
	store   *cache.Store
	gen     gateway.Generator
	audit   *logger.AuditLogger
	timeout time.Duration
	metrics Metrics
}

func New(snap *registry.Snapshot, store *cache.Store, gen gateway.Generator, audit *logger.AuditLogger, timeout time.Duration) *Agent {
	return &Agent{
		snap:    snap,
		scanner: sanitize.New(snap),
		store:   store,
		gen:     gen,
		audit:   audit,
		timeout: timeout,
	}
}

// Metrics returns a point-in-time copy of the request counters.
func (a *Agent) Metrics() MetricsSnapshot { return a.metrics.Snapshot() }

// Process handles one request. Gateway failures surface as errors;
// every other outcome, including rejection, is a Response. A cache or
// audit failure never changes the verdict — at worst it costs a
// regeneration.
func (a *Agent) Process(ctx context.Context, req Request) (Response, error) {
	start := time.Now()

	if req.Prompt == "" {
		return Response{}, errors.New("empty prompt")
	}
	switch req.Mode {
	case ModeGenerate, ModeRefactor:
	default:
		return Response{}, fmt.Errorf("unknown mode %q", req.Mode)
	}

	fp := cache.Fingerprint(req.Prompt, string(req.Mode), a.snap.Version())

	if !req.Options.Fresh {
		if entry, ok := a.store.Get(fp, a.snap.Version()); ok {
			resp := Response{Code: entry.Code, Result: entry.Result, CacheHit: true, Fingerprint: fp}
			a.metrics.record(resp.Result.Verdict, true, 0)
			a.log(req, resp, start, nil)
			return resp, nil
		}
	}

	raw, err := a.generate(ctx, req)
	if err != nil {
		a.metrics.recordFailure()
		a.log(req, Response{Fingerprint: fp}, start, err)
		return Response{}, err
	}

	violations, cleaned, err := a.scanner.Scan(raw)
	if err != nil {
		// Unscannable code is rejected, never passed through. The
		// response still explains why.
		resp := Response{
			Result: score.Result{
				Verdict: score.VerdictReject,
				Level:   score.LevelLow,
				Violations: []sanitize.Violation{{
					RuleID: "unscannable",
					Weight: 100,
					Tier:   registry.TierCritical,
					Detail: err.Error(),
				}},
			},
			Fingerprint: fp,
		}
		a.metrics.record(score.VerdictReject, false, time.Since(start))
		a.log(req, resp, start, err)
		return resp, nil
	}

	result := score.Score(cleaned, violations, syntax.Check(cleaned).Valid)

	resp := Response{Result: result, Fingerprint: fp}
	if result.Accepted() {
		resp.Code = cleaned
		a.cachePut(fp, cleaned, result, req.Options.Pin)
	}

	a.metrics.record(result.Verdict, false, time.Since(start))
	a.log(req, resp, start, nil)
	return resp, nil
}

// generate invokes the gateway exactly once, bounded by the configured
// timeout. There is no retry across this boundary.
func (a *Agent) generate(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.Mode == ModeRefactor {
		prompt = gateway.RefactorPrompt(req.Prompt)
	}

	gctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.gen.Generate(gctx, prompt)
}

// cachePut stores an accepted result. Best-effort: a failed write is
// logged and forgotten, the verdict has already been decided.
func (a *Agent) cachePut(fp, code string, result score.Result, pin bool) {
	err := a.store.Put(cache.Entry{
		Fingerprint:     fp,
		RegistryVersion: a.snap.Version(),
		Code:            code,
		Result:          result,
		CreatedAt:       time.Now().UTC(),
		Pinned:          pin,
	})
	if err != nil && a.audit != nil {
		_ = a.audit.Log(logger.Event{
			Fingerprint: fp,
			Error:       fmt.Sprintf("cache write failed: %v", err),
		})
	}
}

func (a *Agent) log(req Request, resp Response, start time.Time, err error) {
	if a.audit == nil {
		return
	}
	event := logger.Event{
		Fingerprint:    resp.Fingerprint,
		Mode:           string(req.Mode),
		Prompt:         req.Prompt,
		Backend:        a.gen.Name(),
		Verdict:        string(resp.Result.Verdict),
		Score:          resp.Result.Score,
		CacheHit:       resp.CacheHit,
		DurationMillis: time.Since(start).Milliseconds(),
	}
	for _, v := range resp.Result.Violations {
		event.TriggeredRules = append(event.TriggeredRules, v.RuleID)
	}
	if err != nil {
		event.Error = err.Error()
	}
	_ = a.audit.Log(event)
}
