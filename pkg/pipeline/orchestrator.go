// Package pipeline runs a parse request end to end: classification, cache and fuzzy lookup,
// fetch and extraction, model call, sanitizing, validation and the cache write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/pkg/llm"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor
//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . Generator
//go:generate moq -out mocks/embedder.go -pkg mocks -skip-ensure -fmt goimports . Embedder

// Store is the cache and similarity store
type Store interface {
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)
	Put(ctx context.Context, key string, recipe *domain.CombinedRecipe, sourceType domain.InputType) error
	SetEmbedding(ctx context.Context, key string, embedding []float32) error
	SimilaritySearch(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.SimilarEntry, error)
}

// Fetcher downloads page HTML
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor pulls recipe text out of page HTML
type Extractor interface {
	Extract(html string) (*domain.ExtractedContent, error)
}

// Generator calls the language model with provider fallback
type Generator interface {
	Run(ctx context.Context, p llm.Prompt) llm.Response
}

// Embedder makes text embeddings
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DefaultFuzzyThreshold is the minimal cosine similarity for a fuzzy cache hit
const DefaultFuzzyThreshold = 0.55

// Params configures Orchestrator. Embedder is optional, without it fuzzy matching and
// embedding on write are off.
type Params struct {
	Store          Store
	Fetcher        Fetcher
	Extractor      Extractor
	Generator      Generator
	Embedder       Embedder
	Prompts        *llm.PromptBuilder
	FuzzyThreshold float64
	Concurrency    int // parallel parses in ParseBatch
}

// Orchestrator runs parse requests. It keeps no per-request state and is safe for concurrent use.
// Concurrent requests for the same unseen key are not deduplicated, each one computes and writes.
type Orchestrator struct {
	Params
}

// Options of a single parse request
type Options struct {
	ForceNewParse bool          `json:"forceNewParse"`
	Intent        domain.Intent `json:"intent"`
}

// Timings of pipeline stages in milliseconds
type Timings struct {
	Fetch    int64 `json:"fetch"`
	Extract  int64 `json:"extract"`
	Generate int64 `json:"generate"`
	Cache    int64 `json:"cache"`
	Total    int64 `json:"total"`
}

// Result of a parse request. Exactly one of Recipe and Err is set.
type Result struct {
	Recipe     *domain.CombinedRecipe `json:"recipe,omitempty"`
	Err        *domain.ParseError     `json:"error,omitempty"`
	FromCache  bool                   `json:"fromCache"`
	CacheKey   string                 `json:"cacheKey,omitempty"`
	InputType  domain.InputType       `json:"inputType,omitempty"`
	Similarity float64                `json:"similarity,omitempty"`
	Warnings   []string               `json:"warnings,omitempty"`
	Timings    Timings                `json:"timings"`
	Usage      llm.Usage              `json:"usage"`
	Provider   string                 `json:"provider,omitempty"`
}

// New makes an Orchestrator
func New(p Params) *Orchestrator {
	if p.FuzzyThreshold <= 0 {
		p.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 4
	}
	if p.Prompts == nil {
		p.Prompts = llm.NewPromptBuilder("", 0.1)
	}
	return &Orchestrator{Params: p}
}

// Parse turns one input into a recipe. It never panics, every failure is reported in Result.Err.
// A failed cache write is logged and doesn't fail the request.
func (o *Orchestrator) Parse(ctx context.Context, input string, opts Options) (res Result) {
	st := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			lgr.Printf("[ERROR] parse of %q panicked: %v", trunc(input, 100), rec)
			res = Result{CacheKey: res.CacheKey, InputType: res.InputType, Usage: res.Usage, Provider: res.Provider,
				Err: domain.NewParseError(domain.CodeGenerationFailed, "failed to process the recipe")}
		}
		res.Timings.Total = time.Since(st).Milliseconds()
	}()

	raw, perr := Classify(input)
	res.InputType = raw.DetectedType
	if perr != nil {
		res.Err = perr
		return res
	}
	res.CacheKey = CacheKey(raw)

	if !opts.ForceNewParse {
		if entry := o.cacheLookup(ctx, res.CacheKey, &res.Timings); entry != nil {
			lgr.Printf("[DEBUG] cache hit for %s", res.CacheKey)
			res.Recipe, res.FromCache = &entry.Recipe, true
			return res
		}
		if opts.Intent == domain.IntentFuzzyMatch && raw.DetectedType == domain.InputRawText {
			if hit := o.fuzzyLookup(ctx, raw.Text, &res.Timings); hit != nil {
				lgr.Printf("[INFO] fuzzy hit %s for %s, similarity %.3f", hit.Entry.Key, res.CacheKey, hit.Similarity)
				res.Recipe, res.FromCache, res.Similarity = &hit.Entry.Recipe, true, hit.Similarity
				res.CacheKey = hit.Entry.Key
				return res
			}
		}
	}

	var prompt llm.Prompt
	var extracted *domain.ExtractedContent
	switch raw.DetectedType {
	case domain.InputURL:
		var err *domain.ParseError
		if extracted, err = o.fetchAndExtract(ctx, raw.Text, &res.Timings); err != nil {
			res.Err = err
			return res
		}
		prompt = o.Prompts.ForExtracted(extracted, raw.Text)
	default:
		prompt = o.Prompts.ForText(raw.Text)
	}

	genSt := time.Now()
	resp := o.Generator.Run(ctx, prompt)
	res.Timings.Generate = time.Since(genSt).Milliseconds()
	res.Usage, res.Provider = resp.Usage, resp.Provider
	if resp.Err != nil {
		lgr.Printf("[WARN] generation failed for %s: %v", res.CacheKey, resp.Err)
		res.Err = generationError(resp.Err, raw.DetectedType)
		return res
	}

	recipe, err := llm.Sanitize(resp.Output)
	if err != nil {
		var pe *llm.ParseError
		if errors.As(err, &pe) {
			lgr.Printf("[DEBUG] unparsable output from %s for %s: %s", resp.Provider, res.CacheKey, trunc(pe.Raw, 2000))
		}
		lgr.Printf("[WARN] can't sanitize model output for %s: %v", res.CacheKey, err)
		res.Err = domain.NewParseError(domain.CodeGenerationFailed, "the generated recipe could not be read")
		return res
	}

	warnings, rejection := validate(recipe, extracted != nil && extracted.IsFallback)
	if rejection != nil {
		lgr.Printf("[INFO] recipe for %s rejected: %s", res.CacheKey, rejection.Code)
		res.Err = rejection
		return res
	}
	res.Warnings = warnings
	recipe.Yield = NormalizeYield(recipe.Yield)

	o.store(ctx, res.CacheKey, recipe, raw.DetectedType, &res.Timings)
	res.Recipe = recipe
	return res
}

// ParseBatch parses several inputs concurrently, results keep the input order
func (o *Orchestrator) ParseBatch(ctx context.Context, inputs []string, opts Options) []Result {
	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			results[i] = o.Parse(gctx, in, opts)
			return nil // a failed parse must not cancel the others
		})
	}
	_ = g.Wait()
	return results
}

func (o *Orchestrator) cacheLookup(ctx context.Context, key string, t *Timings) *domain.CacheEntry {
	st := time.Now()
	defer func() { t.Cache += time.Since(st).Milliseconds() }()
	entry, err := o.Store.Get(ctx, key)
	if err != nil {
		lgr.Printf("[WARN] cache read for %s failed: %v", key, err)
		return nil
	}
	return entry
}

// fuzzyLookup embeds the text and returns the best stored match at or above the threshold
func (o *Orchestrator) fuzzyLookup(ctx context.Context, text string, t *Timings) *domain.SimilarEntry {
	if o.Embedder == nil {
		return nil
	}
	st := time.Now()
	defer func() { t.Cache += time.Since(st).Milliseconds() }()

	vec, err := o.Embedder.Embed(ctx, text)
	if err != nil {
		lgr.Printf("[WARN] can't embed input for fuzzy match: %v", err)
		return nil
	}
	hits, err := o.Store.SimilaritySearch(ctx, vec, o.FuzzyThreshold, 1)
	if err != nil {
		lgr.Printf("[WARN] similarity search failed: %v", err)
		return nil
	}
	if len(hits) == 0 || hits[0].Entry == nil || hits[0].Similarity < o.FuzzyThreshold {
		return nil
	}
	return &hits[0]
}

func (o *Orchestrator) fetchAndExtract(ctx context.Context, pageURL string, t *Timings) (*domain.ExtractedContent, *domain.ParseError) {
	noRecipe := domain.NewParseError(domain.CodeExtractionFailed, "no recipe found")

	st := time.Now()
	html, err := o.Fetcher.Fetch(ctx, pageURL)
	t.Fetch = time.Since(st).Milliseconds()
	if err != nil {
		lgr.Printf("[WARN] fetch %s failed: %v", pageURL, err)
		return nil, noRecipe
	}

	st = time.Now()
	extracted, err := o.Extractor.Extract(html)
	t.Extract = time.Since(st).Milliseconds()
	if err != nil {
		lgr.Printf("[INFO] no recipe extracted from %s: %v", pageURL, err)
		return nil, noRecipe
	}
	if extracted == nil {
		return nil, noRecipe
	}
	if extracted.IsFallback {
		lgr.Printf("[DEBUG] %s extracted from page text, fallback %s", pageURL, extracted.FallbackType)
	}
	return extracted, nil
}

// store writes the recipe and its embedding, failures are logged only
func (o *Orchestrator) store(ctx context.Context, key string, recipe *domain.CombinedRecipe, sourceType domain.InputType, t *Timings) {
	st := time.Now()
	defer func() { t.Cache += time.Since(st).Milliseconds() }()

	if err := o.Store.Put(ctx, key, recipe, sourceType); err != nil {
		lgr.Printf("[WARN] cache write for %s failed: %v", key, err)
		return
	}
	if o.Embedder == nil {
		return
	}
	vec, err := o.Embedder.Embed(ctx, EmbeddingText(recipe))
	if err != nil {
		lgr.Printf("[WARN] can't embed recipe %s: %v", key, err)
		return
	}
	if err := o.Store.SetEmbedding(ctx, key, vec); err != nil {
		lgr.Printf("[WARN] can't store embedding for %s: %v", key, err)
	}
}

// EmbeddingText is the text used to embed a stored recipe: title, ingredient names and the first steps
func EmbeddingText(r *domain.CombinedRecipe) string {
	var sb strings.Builder
	sb.WriteString(r.Title)
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.Name != "" {
			names = append(names, ing.Name)
		}
	}
	if len(names) > 0 {
		sb.WriteString("\nIngredients: " + strings.Join(names, ", "))
	}
	steps := r.Instructions
	if len(steps) > 3 {
		steps = steps[:3]
	}
	if len(steps) > 0 {
		sb.WriteString("\n" + strings.Join(steps, " "))
	}
	return strings.TrimSpace(sb.String())
}

// generationError maps a runner failure to a result error. An oversized prompt is the caller's
// input only for pasted text, a fetched page that is too large is an extraction failure.
func generationError(err error, inputType domain.InputType) *domain.ParseError {
	switch {
	case errors.Is(err, llm.ErrPromptTooLarge) && inputType == domain.InputURL:
		return domain.NewParseError(domain.CodeExtractionFailed, "the page is too large to parse")
	case errors.Is(err, llm.ErrPromptTooLarge):
		return domain.NewParseError(domain.CodeInvalidInput, "input is too large")
	case errors.Is(err, llm.ErrEmptyResponse):
		return domain.NewParseError(domain.CodeGenerationEmpty, "the model returned an empty response")
	default:
		return domain.NewParseError(domain.CodeGenerationFailed, "recipe generation failed, try again later")
	}
}

func trunc(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + fmt.Sprintf("... (%d chars)", len(r))
}
