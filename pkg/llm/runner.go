package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
)

// errors returned by Runner
var (
	ErrPromptTooLarge     = errors.New("prompt exceeds maximum size")
	ErrEmptyResponse      = errors.New("empty response")
	ErrAllProvidersFailed = errors.New("all providers failed")
	ErrNoProvider         = errors.New("no provider configured")
)

// DefaultMaxPromptChars is the prompt ceiling used when none is configured
const DefaultMaxPromptChars = 100_000

// RunnerParams configures Runner
type RunnerParams struct {
	Primary        Provider
	Secondary      Provider      // optional
	Timeout        time.Duration // per attempt
	MaxPromptChars int
}

// Runner calls the primary provider and falls back to the secondary one.
// Each provider is tried at most once per run, attempts are strictly sequential.
type Runner struct {
	primary        Provider
	secondary      Provider
	timeout        time.Duration
	maxPromptChars int
}

// NewRunner makes a Runner with defaults for missing timeout and ceiling
func NewRunner(p RunnerParams) *Runner {
	if p.Timeout <= 0 {
		p.Timeout = 60 * time.Second
	}
	if p.MaxPromptChars <= 0 {
		p.MaxPromptChars = DefaultMaxPromptChars
	}
	return &Runner{primary: p.Primary, secondary: p.Secondary, timeout: p.Timeout, maxPromptChars: p.MaxPromptChars}
}

// Run sends the prompt to the primary provider, then to the secondary one if the primary
// failed, timed out or returned blank output. It never panics, failures come back in Response.Err.
// Usage accumulates over all attempts that reported it.
func (r *Runner) Run(ctx context.Context, p Prompt) Response {
	if size := p.Len(); size > r.maxPromptChars {
		return Response{Err: fmt.Errorf("%w: %d > %d chars", ErrPromptTooLarge, size, r.maxPromptChars)}
	}

	var usage Usage
	var failures []error
	for _, prov := range []Provider{r.primary, r.secondary} {
		if prov == nil {
			continue
		}
		resp := r.Call(ctx, prov, p)
		usage = usage.Add(resp.Usage)
		if resp.Err == nil {
			resp.Usage = usage
			return resp
		}
		lgr.Printf("[WARN] provider %s failed for request %s: %v", prov.Name(), p.RequestID, resp.Err)
		failures = append(failures, fmt.Errorf("%s: %w", prov.Name(), resp.Err))
		if ctx.Err() != nil {
			break // caller gave up, don't spend on the next provider
		}
	}

	if len(failures) == 0 {
		return Response{Err: ErrNoProvider}
	}
	return Response{Usage: usage, Err: fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(failures...))}
}

// Call makes a single attempt with one provider. The call is raced against the attempt timeout,
// a provider that ignores context cancellation can't block the caller past it.
func (r *Runner) Call(ctx context.Context, prov Provider, p Prompt) Response {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	st := time.Now()
	ch := make(chan Response, 1) // buffered, a late provider result must not leak the goroutine
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- Response{Provider: prov.Name(), Err: fmt.Errorf("provider panic: %v", rec)}
			}
		}()
		gen, err := prov.Generate(ctx, p)
		if err != nil {
			ch <- Response{Provider: prov.Name(), Err: err}
			return
		}
		if gen == nil {
			ch <- Response{Provider: prov.Name(), Err: ErrEmptyResponse}
			return
		}
		resp := Response{Provider: prov.Name(), Output: gen.Text, Usage: NormalizeUsage(gen.UsageMetadata)}
		if strings.TrimSpace(gen.Text) == "" {
			resp.Err = ErrEmptyResponse
		}
		ch <- resp
	}()

	select {
	case resp := <-ch:
		lgr.Printf("[DEBUG] provider %s answered in %v, tokens %d/%d",
			prov.Name(), time.Since(st).Round(time.Millisecond), resp.Usage.InputTokens, resp.Usage.OutputTokens)
		return resp
	case <-ctx.Done():
		return Response{Provider: prov.Name(), Err: fmt.Errorf("provider %s timed out after %v: %w", prov.Name(), r.timeout, ctx.Err())}
	}
}
