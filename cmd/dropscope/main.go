package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/dropscope/pkg/analyzer"
	"github.com/umputun/dropscope/pkg/cache"
	"github.com/umputun/dropscope/pkg/config"
	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/fetcher"
	"github.com/umputun/dropscope/pkg/filter"
	"github.com/umputun/dropscope/pkg/llm"
	"github.com/umputun/dropscope/pkg/proxy"
	"github.com/umputun/dropscope/pkg/ranker"
	"github.com/umputun/dropscope/pkg/repository"
	"github.com/umputun/dropscope/pkg/scheduler"
	"github.com/umputun/dropscope/pkg/source"
	"github.com/umputun/dropscope/server"
)

// Opts with all CLI options
type Opts struct {
	Config       string        `short:"c" long:"config" env:"CONFIG" default:"dropscope.yml" description:"configuration file"`
	Mode         string        `short:"m" long:"mode" env:"MODE" default:"all" choice:"collect" choice:"analyze" choice:"all" choice:"report" choice:"serve" description:"run mode"`
	MaxPerSource int           `long:"max-per-source" env:"MAX_PER_SOURCE" description:"max candidates per source, overrides config"`
	BatchSize    int           `long:"batch-size" env:"BATCH_SIZE" description:"candidates per analysis batch, overrides config"`
	Limit        int           `long:"limit" env:"LIMIT" description:"max candidates per analysis pass, overrides config"`
	Reanalyze    []string      `long:"reanalyze" description:"reset analysis of the name before the run, can be repeated"`
	Interval     time.Duration `long:"interval" env:"INTERVAL" description:"repeat the run with this interval, runs once if not set"`
	Out          string        `short:"o" long:"out" env:"OUT" default:"opportunities.csv" description:"opportunities csv export"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

const modeServe = "serve"

var revision = "unknown"

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

	setupLog(opts.Debug, opts.NoColor)
	log.Printf("[INFO] starting dropscope version %s", revision)

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
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			log.Printf("[ERROR] configuration error: %v", err)
		} else {
			log.Printf("[ERROR] %v", err)
		}
		os.Exit(1)
	}
	log.Print("[INFO] completed")
}

// run wires all components for the selected mode and executes it once or periodically
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg, opts)
	setupLog(opts.Debug, opts.NoColor, secrets(cfg, nil)...)

	var mode scheduler.Mode
	if opts.Mode != modeServe {
		if mode, err = scheduler.ParseMode(opts.Mode); err != nil {
			return err
		}
		// credentials are checked before anything external is touched
		if mode == scheduler.ModeAnalyze || mode == scheduler.ModeAll {
			if err = cfg.RequireLLM(); err != nil {
				return err
			}
		}
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if closeErr := repos.Close(); closeErr != nil {
			log.Printf("[WARN] failed to close database: %v", closeErr)
		}
	}()

	for _, name := range opts.Reanalyze {
		if err = reanalyze(ctx, repos, name); err != nil {
			return err
		}
	}

	analysisCache := cache.New(repos.Cache, cfg.Cache.TTL)

	if opts.Mode == modeServe {
		srv := server.New(cfg, server.NewRepositoryAdapter(repos, analysisCache), revision, opts.Debug)
		return srv.Run(ctx)
	}

	params := scheduler.Params{
		Queue:         repos.Candidate,
		Cache:         analysisCache,
		Enriched:      repos.Analysis,
		Ranker:        ranker.New(rankerConfig(cfg.Ranking)),
		Opportunities: repos.Opportunity,
		Runs:          repos.Run,
		Config: scheduler.PipelineConfig{
			AnalyzeLimit: cfg.Analysis.MaxCandidates,
			BatchSize:    cfg.Analysis.BatchSize,
			BatchDelay:   cfg.Analysis.BatchDelay,
			ListWindow:   cfg.Collect.FreshnessWindow,
			ExportPath:   opts.Out,
		},
	}

	if mode == scheduler.ModeCollect || mode == scheduler.ModeAll {
		collector, cleanup, collErr := makeCollector(ctx, cfg, repos, opts)
		if collErr != nil {
			return collErr
		}
		defer cleanup()
		params.Collector = collector
	}

	if mode == scheduler.ModeAnalyze || mode == scheduler.ModeAll {
		params.Analyzer = analyzer.New(analyzer.Config{
			CallDelay:        cfg.Analysis.CallDelay,
			PremiumThreshold: cfg.Analysis.PremiumThreshold,
			Weights:          cfg.Analysis.Weights,
		}, llm.New(cfg.LLM), analysisCache, repos.Analysis)
	}

	pipeline := scheduler.NewPipeline(params)

	if opts.Interval <= 0 {
		_, err = pipeline.Run(ctx, mode)
		return err
	}

	sched := scheduler.NewScheduler(pipeline, mode, opts.Interval)
	sched.Start(ctx)
	<-ctx.Done()
	sched.Stop()
	log.Printf("[INFO] periodic mode stopped after %d runs", sched.Runs())
	return nil
}

// makeCollector builds the proxy pool, fetcher and sources. Returned cleanup persists proxy stats
// and releases idle connections.
func makeCollector(ctx context.Context, cfg *config.Config, repos *repository.Repositories,
	opts Opts) (collector *scheduler.Collector, cleanup func(), err error) {
	sources, err := scheduler.BuildSources(cfg.Sources)
	if err != nil {
		return nil, nil, err
	}
	if len(sources) == 0 {
		return nil, nil, &domain.ConfigError{Field: "sources", Reason: "no enabled source to collect from"}
	}

	var pool *proxy.Pool
	if cfg.Proxy.Enabled {
		if pool, err = makePool(ctx, cfg, repos); err != nil {
			return nil, nil, err
		}
		setupLog(opts.Debug, opts.NoColor, secrets(cfg, pool.Endpoints())...)
	}

	fetchCfg := fetcher.Config{
		Timeout:     cfg.Fetch.Timeout,
		MaxRetries:  cfg.Fetch.MaxRetries,
		BaseBackoff: cfg.Fetch.BaseBackoff,
		RateLimit:   cfg.Fetch.RateLimit,
		MaxBodySize: cfg.Fetch.MaxBodySize,
		ProxyTries:  cfg.Proxy.Tries,
		UserAgents:  cfg.Fetch.UserAgents,
	}
	var proxies fetcher.ProxySource
	if pool != nil {
		proxies = pool
	}
	f := fetcher.New(fetchCfg, proxies)

	gate := filter.New(filter.Config{
		MinLength:           cfg.Filter.MinLength,
		MaxLength:           cfg.Filter.MaxLength,
		AllowedSuffixes:     cfg.Filter.AllowedSuffixes,
		BannedKeywords:      cfg.Filter.BannedKeywords,
		ValuedKeywords:      cfg.Collect.ValuedKeywords,
		MaxDigitRun:         cfg.Filter.MaxDigitRun,
		ShortNameThreshold:  cfg.Filter.ShortNameThreshold,
		MinAuthority:        cfg.Filter.MinAuthority,
		MinBacklinks:        cfg.Filter.MinBacklinks,
		MinReferringDomains: cfg.Filter.MinReferringDomains,
	})

	collector = scheduler.NewCollector(scheduler.CollectorConfig{
		FreshnessWindow: cfg.Collect.FreshnessWindow,
		MaxPerSource:    cfg.Collect.MaxPerSource,
		PageDelay:       cfg.Collect.DefaultPageDelay,
		ParallelSources: cfg.Collect.ParallelSources,
		MaxRetries:      cfg.Fetch.MaxRetries,
		BaseBackoff:     cfg.Fetch.BaseBackoff,
	}, sources, f, repos.Candidate, gate, source.NewNormalizer(cfg.Collect.ValuedKeywords))

	cleanup = func() {
		f.Close()
		if pool == nil {
			return
		}
		persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if perr := pool.Persist(persistCtx); perr != nil {
			log.Printf("[WARN] failed to persist proxy stats: %v", perr)
		}
	}
	return collector, cleanup, nil
}

// makePool loads proxies from config and provider file, restores their history and runs a full test
func makePool(ctx context.Context, cfg *config.Config, repos *repository.Repositories) (*proxy.Pool, error) {
	pool := proxy.New(proxy.Config{
		ProbeURL:    cfg.Proxy.ProbeURL,
		Timeout:     cfg.Proxy.TestTimeout,
		Concurrency: cfg.Proxy.Concurrency,
		RetestAfter: cfg.Proxy.RetestAfter,
	}, repos.Proxy)

	if err := pool.Load(cfg.Proxy.Proxies); err != nil {
		return nil, fmt.Errorf("failed to load proxies: %w", err)
	}
	if cfg.Proxy.File != "" {
		if err := pool.LoadFile(cfg.Proxy.File); err != nil {
			return nil, fmt.Errorf("failed to load proxies: %w", err)
		}
	}
	if err := pool.Restore(ctx); err != nil {
		log.Printf("[WARN] %v", err)
	}
	if pool.Len() == 0 {
		log.Printf("[WARN] proxy pool enabled but empty, direct connections only")
		return pool, nil
	}

	rep := pool.TestAll(ctx)
	log.Printf("[INFO] proxy test: %d working, %d failed of %d in %v", rep.Working, rep.Failed, rep.Total,
		rep.Duration.Round(time.Millisecond))
	return pool, nil
}

// reanalyze clears analysis marks of the candidate so the next analysis pass picks it up again
func reanalyze(ctx context.Context, repos *repository.Repositories, raw string) error {
	name, err := source.CanonicalName(raw)
	if err != nil {
		return &domain.ConfigError{Field: "reanalyze", Reason: err.Error()}
	}
	if err := repos.Candidate.ResetAnalysis(ctx, name); err != nil {
		return fmt.Errorf("failed to reset analysis of %s: %w", name, err)
	}
	log.Printf("[INFO] analysis of %s reset", name)
	return nil
}

// applyOverrides puts cli options on top of the loaded config
func applyOverrides(cfg *config.Config, opts Opts) {
	if opts.MaxPerSource > 0 {
		cfg.Collect.MaxPerSource = opts.MaxPerSource
		for i := range cfg.Sources {
			cfg.Sources[i].MaxCandidates = 0
		}
	}
	if opts.BatchSize > 0 {
		cfg.Analysis.BatchSize = opts.BatchSize
	}
	if opts.Limit > 0 {
		cfg.Analysis.MaxCandidates = opts.Limit
	}
}

func rankerConfig(rc config.RankingConfig) ranker.Config {
	return ranker.Config{
		PerSourceBonus: rc.PerSourceBonus,
		MaxSourceBonus: rc.MaxSourceBonus,
		MissingPenalty: rc.MissingPenalty,
		BuyNowScore:    rc.BuyNowScore,
		BuyNowROI:      rc.BuyNowROI,
		BuyScore:       rc.BuyScore,
		BuyROI:         rc.BuyROI,
		WatchScore:     rc.WatchScore,
		WatchROI:       rc.WatchROI,
	}
}

// secrets returns values masked in logs: the api key and proxy passwords
func secrets(cfg *config.Config, endpoints []*domain.ProxyEndpoint) []string {
	var res []string
	if cfg.LLM.APIKey != "" {
		res = append(res, cfg.LLM.APIKey)
	}
	for _, d := range cfg.Proxy.Proxies {
		if ep, err := domain.ParseProxy(d); err == nil && ep.Password != "" {
			res = append(res, ep.Password)
		}
	}
	for _, ep := range endpoints {
		if ep.Password != "" {
			res = append(res, ep.Password)
		}
	}
	return res
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
