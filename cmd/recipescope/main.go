package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/recipescope/pkg/cache"
	"github.com/umputun/recipescope/pkg/config"
	"github.com/umputun/recipescope/pkg/content"
	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/pkg/llm"
	"github.com/umputun/recipescope/pkg/pipeline"
	"github.com/umputun/recipescope/pkg/repository"
	"github.com/umputun/recipescope/pkg/scheduler"
	"github.com/umputun/recipescope/server"
)

// Opts with all CLI options
type Opts struct {
	Config string   `short:"c" long:"config" env:"CONFIG" default:"recipescope.yml" description:"configuration file"`
	Listen string   `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	Parse  []string `short:"p" long:"parse" description:"parse input (url or text), print json and exit"`
	Force  bool     `long:"force" description:"ignore cached results when parsing"`
	Fuzzy  bool     `long:"fuzzy" description:"allow fuzzy matches for text inputs"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

var stdout io.Writer = os.Stdout

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}

	setupLog(opts.Debug)

	log.Printf("[INFO] starting recipescope version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run loads config and wires the store, cache, model providers and the pipeline,
// then serves http or parses the --parse inputs and prints results
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if secs := secrets(cfg); len(secs) > 0 {
		setupLog(opts.Debug, secs...)
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	var store pipeline.Store = repos.Recipe
	var hot *cache.Layered
	if cfg.Cache.RedisAddr != "" {
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Address: cfg.Cache.RedisAddr, Password: cfg.Cache.RedisPassword, DB: cfg.Cache.RedisDB})
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		defer client.Close()
		hot = cache.NewLayered(client, repos.Recipe, cfg.Cache.TTL)
		store = hot
		log.Printf("[INFO] hot cache enabled at %s", cfg.Cache.RedisAddr)
	}

	orch, err := makePipeline(cfg, store)
	if err != nil {
		return err
	}

	if len(opts.Parse) > 0 {
		intent := domain.IntentLiteral
		if opts.Fuzzy {
			intent = domain.IntentFuzzyMatch
		}
		results := orch.ParseBatch(ctx, opts.Parse, pipeline.Options{ForceNewParse: opts.Force, Intent: intent})
		return printResults(stdout, results)
	}

	if orch.Embedder != nil {
		sched := scheduler.NewScheduler(repos.Recipe, orch.Embedder, scheduler.Config{
			Interval:   cfg.Embedding.BackfillInterval,
			BatchSize:  cfg.Embedding.BackfillBatch,
			MaxWorkers: cfg.Embedding.BackfillWorkers,
		})
		sched.Start(ctx)
		defer sched.Stop()
	}

	srv := server.New(cfg, orch, server.NewRepositoryAdapter(repos, hot), revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// makePipeline builds the orchestrator with its fetcher, extractor, model runner and optional embedder
func makePipeline(cfg *config.Config, store pipeline.Store) (*pipeline.Orchestrator, error) {
	primary, err := makeProvider(cfg.LLM.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary provider: %w", err)
	}
	if primary == nil {
		return nil, errors.New("primary provider is not configured")
	}
	secondary, err := makeProvider(cfg.LLM.Secondary)
	if err != nil {
		return nil, fmt.Errorf("secondary provider: %w", err)
	}

	params := pipeline.Params{
		Store: store,
		Fetcher: content.NewHTTPFetcher(content.FetcherParams{
			Timeout:     cfg.Extraction.Timeout,
			Retries:     cfg.Extraction.Retries,
			RetryDelay:  cfg.Extraction.RetryDelay,
			MaxBodySize: cfg.Extraction.MaxBodySize,
		}),
		Extractor: content.NewExtractor(),
		Generator: llm.NewRunner(llm.RunnerParams{
			Primary:        primary,
			Secondary:      secondary,
			Timeout:        cfg.LLM.Timeout,
			MaxPromptChars: cfg.LLM.MaxPromptChars,
		}),
		Prompts:        llm.NewPromptBuilder(cfg.LLM.SystemPrompt, cfg.LLM.Temperature),
		FuzzyThreshold: cfg.Cache.FuzzyThreshold,
		Concurrency:    cfg.Extraction.Concurrency,
	}
	if cfg.Embedding.Enabled {
		params.Embedder = llm.NewOpenAIEmbedder(llm.EmbedderParams{
			APIKey:   cfg.Embedding.APIKey,
			Endpoint: cfg.Embedding.Endpoint,
			Model:    cfg.Embedding.Model,
			MaxChars: cfg.Embedding.MaxChars,
		})
	}

	log.Printf("[INFO] primary provider %s/%s, secondary %s/%s, embeddings %v", cfg.LLM.Primary.Type, cfg.LLM.Primary.Model,
		cfg.LLM.Secondary.Type, cfg.LLM.Secondary.Model, cfg.Embedding.Enabled)
	return pipeline.New(params), nil
}

// makeProvider returns nil provider for an unconfigured (no model) entry
func makeProvider(pc config.ProviderConfig) (llm.Provider, error) {
	if pc.Model == "" {
		return nil, nil
	}
	switch pc.Type {
	case config.ProviderOpenAI:
		return llm.NewOpenAIProvider(llm.OpenAIParams{APIKey: pc.APIKey, Endpoint: pc.Endpoint, Model: pc.Model,
			MaxTokens: pc.MaxTokens, UseJSONMode: pc.UseJSONMode}), nil
	case config.ProviderAnthropic:
		return llm.NewAnthropicProvider(llm.AnthropicParams{APIKey: pc.APIKey, Endpoint: pc.Endpoint, Model: pc.Model,
			MaxTokens: pc.MaxTokens}), nil
	}
	return nil, fmt.Errorf("unknown provider type %q", pc.Type)
}

// printResults writes results as json, the error reports failed inputs
func printResults(w io.Writer, results []pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

// secrets are masked in logs
func secrets(cfg *config.Config) []string {
	var res []string
	for _, s := range []string{cfg.LLM.Primary.APIKey, cfg.LLM.Secondary.APIKey, cfg.Embedding.APIKey, cfg.Cache.RedisPassword} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
