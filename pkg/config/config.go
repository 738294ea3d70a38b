package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/dropscope/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:dropscope.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Collect  CollectConfig  `yaml:"collect" json:"collect" jsonschema:"description=Collection pass settings"`
	Sources  []SourceConfig `yaml:"sources" json:"sources" jsonschema:"description=External candidate sources"`
	Proxy    ProxyConfig    `yaml:"proxy" json:"proxy" jsonschema:"description=Proxy pool settings"`
	Fetch    FetchConfig    `yaml:"fetch" json:"fetch" jsonschema:"description=Resilient fetcher settings"`
	Filter   FilterConfig   `yaml:"filter" json:"filter" jsonschema:"description=Quality filter rules"`
	Cache    CacheConfig    `yaml:"cache" json:"cache" jsonschema:"description=Analysis cache settings"`
	LLM      LLMConfig      `yaml:"llm" json:"llm" jsonschema:"description=Reasoning service configuration"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis" jsonschema:"description=Batch analyzer settings"`
	Ranking  RankingConfig  `yaml:"ranking" json:"ranking" jsonschema:"description=Opportunity ranker settings"`
}

// CollectConfig holds collection pass settings
type CollectConfig struct {
	FreshnessWindow  time.Duration `yaml:"freshness_window" json:"freshness_window" jsonschema:"default=24h,description=Minimum time before a seen candidate is reprocessed"`
	MaxPerSource     int           `yaml:"max_per_source" json:"max_per_source" jsonschema:"default=500,description=Maximum candidates taken from one source per run"`
	ParallelSources  int           `yaml:"parallel_sources" json:"parallel_sources" jsonschema:"default=4,description=Number of sources collected concurrently"`
	ValuedKeywords   []string      `yaml:"valued_keywords" json:"valued_keywords" jsonschema:"description=Keywords tagged on candidates and valued by the filter"`
	DefaultPageDelay time.Duration `yaml:"page_delay" json:"page_delay" jsonschema:"default=3s,description=Delay between pages of the same source"`
}

// SourceConfig describes one external source
type SourceConfig struct {
	Name          string            `yaml:"name" json:"name" jsonschema:"required,description=Source identifier"`
	Kind          string            `yaml:"kind" json:"kind" jsonschema:"required,enum=html_table,enum=cards,enum=json,enum=feed,description=Parser kind"`
	URL           string            `yaml:"url" json:"url" jsonschema:"required,description=Source URL, may contain {page} placeholder"`
	Pages         int               `yaml:"pages" json:"pages" jsonschema:"default=1,description=Number of pages to fetch"`
	Enabled       *bool             `yaml:"enabled" json:"enabled,omitempty" jsonschema:"default=true,description=Enable source"`
	UseProxy      bool              `yaml:"use_proxy" json:"use_proxy" jsonschema:"description=Route requests through the proxy pool"`
	RequireProxy  bool              `yaml:"require_proxy" json:"require_proxy" jsonschema:"description=Never fall back to a direct connection"`
	Delay         time.Duration     `yaml:"delay" json:"delay" jsonschema:"description=Delay between pages, overrides collect.page_delay"`
	MaxCandidates int               `yaml:"max_candidates" json:"max_candidates" jsonschema:"description=Per source cap, overrides collect.max_per_source"`
	RowSelector   string            `yaml:"row_selector" json:"row_selector" jsonschema:"description=CSS selector of rows (html_table) or cards (cards)"`
	NameSelector  string            `yaml:"name_selector" json:"name_selector" jsonschema:"description=CSS selector of the name inside a card"`
	NameColumn    int               `yaml:"name_column" json:"name_column" jsonschema:"description=Zero-based column index of the name (html_table)"`
	Columns       map[string]int    `yaml:"columns" json:"columns" jsonschema:"description=Metric name to column index (html_table)"`
	Selectors     map[string]string `yaml:"selectors" json:"selectors" jsonschema:"description=Metric name to CSS selector (cards)"`
	ItemsPath     string            `yaml:"items_path" json:"items_path" jsonschema:"description=gjson path to the array of records (json)"`
	NameField     string            `yaml:"name_field" json:"name_field" jsonschema:"description=Record field holding the name (json)"`
	Fields        map[string]string `yaml:"fields" json:"fields" jsonschema:"description=Metric name to record field (json)"`
}

// IsEnabled returns true unless the source is explicitly disabled
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// ProxyConfig holds proxy pool settings
type ProxyConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable proxy pool"`
	Proxies     []string      `yaml:"proxies" json:"proxies" jsonschema:"description=Proxy descriptors"`
	File        string        `yaml:"file" json:"file" jsonschema:"description=Provider list file, one descriptor per line"`
	ProbeURL    string        `yaml:"probe_url" json:"probe_url" jsonschema:"default=https://api.ipify.org?format=json,description=What-is-my-IP probe URL"`
	TestTimeout time.Duration `yaml:"test_timeout" json:"test_timeout" jsonschema:"default=10s,description=Probe timeout"`
	Concurrency int           `yaml:"concurrency" json:"concurrency" jsonschema:"default=20,description=Parallel probes during a full test"`
	RetestAfter time.Duration `yaml:"retest_after" json:"retest_after" jsonschema:"default=10m,description=How long a failed proxy is skipped by rotation"`
	Tries       int           `yaml:"tries" json:"tries" jsonschema:"default=3,description=Rotation entries tried per fetch attempt"`
}

// FetchConfig holds resilient fetcher settings
type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Per request timeout"`
	MaxRetries  int           `yaml:"max_retries" json:"max_retries" jsonschema:"default=3,description=Attempts per logical fetch"`
	BaseBackoff time.Duration `yaml:"base_backoff" json:"base_backoff" jsonschema:"default=2s,description=Base of the exponential backoff"`
	RateLimit   time.Duration `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=2s,description=Minimum interval between requests to one source"`
	MaxBodySize int64         `yaml:"max_body_size" json:"max_body_size" jsonschema:"default=10485760,description=Maximum response body size in bytes"`
	UserAgents  []string      `yaml:"user_agents" json:"user_agents" jsonschema:"description=Browser identities to rotate, built-in list if empty"`
}

// FilterConfig holds quality gate rules
type FilterConfig struct {
	MinLength           int      `yaml:"min_length" json:"min_length" jsonschema:"default=4,description=Minimum base label length"`
	MaxLength           int      `yaml:"max_length" json:"max_length" jsonschema:"default=20,description=Maximum base label length"`
	AllowedSuffixes     []string `yaml:"allowed_suffixes" json:"allowed_suffixes" jsonschema:"description=Allowed public suffixes"`
	BannedKeywords      []string `yaml:"banned_keywords" json:"banned_keywords" jsonschema:"description=Denylisted substrings"`
	MaxDigitRun         int      `yaml:"max_digit_run" json:"max_digit_run" jsonschema:"default=3,description=Longest allowed run of digits"`
	ShortNameThreshold  int      `yaml:"short_name_threshold" json:"short_name_threshold" jsonschema:"default=6,description=Labels at or below this length are admitted without keywords"`
	MinAuthority        float64  `yaml:"min_authority" json:"min_authority" jsonschema:"default=20,description=Authority admitting a name without keywords"`
	MinBacklinks        int64    `yaml:"min_backlinks" json:"min_backlinks" jsonschema:"default=100,description=Backlinks admitting a name without keywords"`
	MinReferringDomains int64    `yaml:"min_referring_domains" json:"min_referring_domains" jsonschema:"default=20,description=Referring domains admitting a name without keywords"`
}

// CacheConfig holds analysis cache settings
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" json:"ttl" jsonschema:"default=168h,description=Cache entry time-to-live"`
}

// LLMConfig holds reasoning service configuration
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"default=gpt-4o-mini,description=Model name"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=800,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override"`
	UseJSONMode  bool          `yaml:"use_json_mode" json:"use_json_mode" jsonschema:"default=false,description=Use JSON response format (not all models support this)"`
}

// AnalysisConfig holds batch analyzer settings
type AnalysisConfig struct {
	BatchSize        int            `yaml:"batch_size" json:"batch_size" jsonschema:"default=10,minimum=1,description=Candidates per batch"`
	MaxCandidates    int            `yaml:"max_candidates" json:"max_candidates" jsonschema:"default=100,description=Candidates analyzed per run"`
	CallDelay        time.Duration  `yaml:"call_delay" json:"call_delay" jsonschema:"default=2s,description=Minimum delay between external calls"`
	BatchDelay       time.Duration  `yaml:"batch_delay" json:"batch_delay" jsonschema:"default=30s,description=Pause between batches"`
	PremiumThreshold float64        `yaml:"premium_threshold" json:"premium_threshold" jsonschema:"default=6,description=Preliminary score selecting the premium prompt"`
	Weights          domain.Weights `yaml:"weights" json:"weights" jsonschema:"description=Global score weights"`
}

// RankingConfig holds opportunity ranker settings
type RankingConfig struct {
	PerSourceBonus float64 `yaml:"per_source_bonus" json:"per_source_bonus" jsonschema:"default=0.25,description=Bonus per additional independent source"`
	MaxSourceBonus float64 `yaml:"max_source_bonus" json:"max_source_bonus" jsonschema:"default=0.75,description=Cap of the source bonus"`
	MissingPenalty float64 `yaml:"missing_penalty" json:"missing_penalty" jsonschema:"default=0.5,description=Penalty for missing or zero metrics"`
	BuyNowScore    float64 `yaml:"buy_now_score" json:"buy_now_score" jsonschema:"default=8,description=Minimum composite for buy-now"`
	BuyNowROI      float64 `yaml:"buy_now_roi" json:"buy_now_roi" jsonschema:"default=200,description=Minimum ROI% for buy-now"`
	BuyScore       float64 `yaml:"buy_score" json:"buy_score" jsonschema:"default=6.5,description=Minimum composite for buy"`
	BuyROI         float64 `yaml:"buy_roi" json:"buy_roi" jsonschema:"default=100,description=Minimum ROI% for buy"`
	WatchScore     float64 `yaml:"watch_score" json:"watch_score" jsonschema:"default=5,description=Minimum composite for watch"`
	WatchROI       float64 `yaml:"watch_roi" json:"watch_roi" jsonschema:"default=50,description=Minimum ROI% for watch"`
}

// default lists, used when the config doesn't provide its own
var (
	defaultSuffixes       = []string{"com", "net", "org", "io", "co", "ai"}
	defaultValuedKeywords = []string{"seo", "ai", "tech", "cloud", "data", "shop", "store", "pay", "crypto",
		"app", "web", "digital", "market", "tools", "pro", "hub", "labs", "health", "travel", "finance"}
	defaultBannedKeywords = []string{"porn", "xxx", "sex", "casino", "viagra", "cialis", "escort",
		"nazi", "hack", "warez", "torrent", "loan"}
)

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds configuration from YAML content, expands environment variables,
// applies defaults and validates the result
func Parse(data []byte) (*Config, error) {
	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults applied and no sources
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

func setDefaults(cfg *Config) {
	// server and database
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:dropscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// collection
	if cfg.Collect.FreshnessWindow == 0 {
		cfg.Collect.FreshnessWindow = 24 * time.Hour
	}
	if cfg.Collect.MaxPerSource == 0 {
		cfg.Collect.MaxPerSource = 500
	}
	if cfg.Collect.ParallelSources == 0 {
		cfg.Collect.ParallelSources = 4
	}
	if cfg.Collect.DefaultPageDelay == 0 {
		cfg.Collect.DefaultPageDelay = 3 * time.Second
	}
	if len(cfg.Collect.ValuedKeywords) == 0 {
		cfg.Collect.ValuedKeywords = defaultValuedKeywords
	}
	for i := range cfg.Sources {
		if cfg.Sources[i].Pages == 0 {
			cfg.Sources[i].Pages = 1
		}
	}

	// proxy
	if cfg.Proxy.ProbeURL == "" {
		cfg.Proxy.ProbeURL = "https://api.ipify.org?format=json"
	}
	if cfg.Proxy.TestTimeout == 0 {
		cfg.Proxy.TestTimeout = 10 * time.Second
	}
	if cfg.Proxy.Concurrency == 0 {
		cfg.Proxy.Concurrency = 20
	}
	if cfg.Proxy.RetestAfter == 0 {
		cfg.Proxy.RetestAfter = 10 * time.Minute
	}
	if cfg.Proxy.Tries == 0 {
		cfg.Proxy.Tries = 3
	}

	// fetch
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 30 * time.Second
	}
	if cfg.Fetch.MaxRetries == 0 {
		cfg.Fetch.MaxRetries = 3
	}
	if cfg.Fetch.BaseBackoff == 0 {
		cfg.Fetch.BaseBackoff = 2 * time.Second
	}
	if cfg.Fetch.RateLimit == 0 {
		cfg.Fetch.RateLimit = 2 * time.Second
	}
	if cfg.Fetch.MaxBodySize == 0 {
		cfg.Fetch.MaxBodySize = 10 << 20
	}

	// filter
	if cfg.Filter.MinLength == 0 {
		cfg.Filter.MinLength = 4
	}
	if cfg.Filter.MaxLength == 0 {
		cfg.Filter.MaxLength = 20
	}
	if len(cfg.Filter.AllowedSuffixes) == 0 {
		cfg.Filter.AllowedSuffixes = defaultSuffixes
	}
	if len(cfg.Filter.BannedKeywords) == 0 {
		cfg.Filter.BannedKeywords = defaultBannedKeywords
	}
	if cfg.Filter.MaxDigitRun == 0 {
		cfg.Filter.MaxDigitRun = 3
	}
	if cfg.Filter.ShortNameThreshold == 0 {
		cfg.Filter.ShortNameThreshold = 6
	}
	if cfg.Filter.MinAuthority == 0 {
		cfg.Filter.MinAuthority = 20
	}
	if cfg.Filter.MinBacklinks == 0 {
		cfg.Filter.MinBacklinks = 100
	}
	if cfg.Filter.MinReferringDomains == 0 {
		cfg.Filter.MinReferringDomains = 20
	}

	// cache
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 7 * 24 * time.Hour
	}

	// llm
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 800
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}

	// analysis
	if cfg.Analysis.BatchSize == 0 {
		cfg.Analysis.BatchSize = 10
	}
	if cfg.Analysis.MaxCandidates == 0 {
		cfg.Analysis.MaxCandidates = 100
	}
	if cfg.Analysis.CallDelay == 0 {
		cfg.Analysis.CallDelay = 2 * time.Second
	}
	if cfg.Analysis.BatchDelay == 0 {
		cfg.Analysis.BatchDelay = 30 * time.Second
	}
	if cfg.Analysis.PremiumThreshold == 0 {
		cfg.Analysis.PremiumThreshold = 6
	}
	if cfg.Analysis.Weights == (domain.Weights{}) {
		cfg.Analysis.Weights = domain.Weights{SEO: 0.30, Commercial: 0.30, Brandability: 0.20, Competition: 0.10, Risk: 0.10}
	}

	// ranking
	if cfg.Ranking.PerSourceBonus == 0 {
		cfg.Ranking.PerSourceBonus = 0.25
	}
	if cfg.Ranking.MaxSourceBonus == 0 {
		cfg.Ranking.MaxSourceBonus = 0.75
	}
	if cfg.Ranking.MissingPenalty == 0 {
		cfg.Ranking.MissingPenalty = 0.5
	}
	if cfg.Ranking.BuyNowScore == 0 {
		cfg.Ranking.BuyNowScore = 8
	}
	if cfg.Ranking.BuyNowROI == 0 {
		cfg.Ranking.BuyNowROI = 200
	}
	if cfg.Ranking.BuyScore == 0 {
		cfg.Ranking.BuyScore = 6.5
	}
	if cfg.Ranking.BuyROI == 0 {
		cfg.Ranking.BuyROI = 100
	}
	if cfg.Ranking.WatchScore == 0 {
		cfg.Ranking.WatchScore = 5
	}
	if cfg.Ranking.WatchROI == 0 {
		cfg.Ranking.WatchROI = 50
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// sources
	names := make(map[string]bool, len(cfg.Sources))
	for i, src := range cfg.Sources {
		field := fmt.Sprintf("sources[%d]", i)
		if src.Name == "" {
			return &domain.ConfigError{Field: field + ".name", Reason: "is required"}
		}
		if names[src.Name] {
			return &domain.ConfigError{Field: field + ".name", Reason: fmt.Sprintf("duplicate source %q", src.Name)}
		}
		names[src.Name] = true
		if src.URL == "" {
			return &domain.ConfigError{Field: field + ".url", Reason: "is required"}
		}
		switch src.Kind {
		case "html_table", "cards", "json", "feed":
		default:
			return &domain.ConfigError{Field: field + ".kind", Reason: fmt.Sprintf("unknown parser kind %q", src.Kind)}
		}
		if src.Kind == "cards" && src.RowSelector == "" {
			return &domain.ConfigError{Field: field + ".row_selector", Reason: "is required for cards sources"}
		}
		if src.Pages < 1 {
			return &domain.ConfigError{Field: field + ".pages", Reason: "must be at least 1"}
		}
	}

	// proxy
	if cfg.Proxy.Concurrency < 1 {
		return &domain.ConfigError{Field: "proxy.concurrency", Reason: "must be at least 1"}
	}

	// fetch
	if cfg.Fetch.MaxRetries < 1 {
		return &domain.ConfigError{Field: "fetch.max_retries", Reason: "must be at least 1"}
	}
	if cfg.Fetch.Timeout < time.Second {
		return &domain.ConfigError{Field: "fetch.timeout", Reason: "must be at least 1 second"}
	}

	// filter
	if cfg.Filter.MinLength < 1 || cfg.Filter.MaxLength < cfg.Filter.MinLength {
		return &domain.ConfigError{Field: "filter.max_length", Reason: "must be >= filter.min_length >= 1"}
	}

	// llm and analysis
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return &domain.ConfigError{Field: "llm.temperature", Reason: "must be between 0 and 2"}
	}
	if cfg.Analysis.BatchSize < 1 {
		return &domain.ConfigError{Field: "analysis.batch_size", Reason: "must be at least 1"}
	}
	w := cfg.Analysis.Weights
	if w.SEO < 0 || w.Commercial < 0 || w.Brandability < 0 || w.Competition < 0 || w.Risk < 0 {
		return &domain.ConfigError{Field: "analysis.weights", Reason: "must be non-negative"}
	}
	if w.SEO+w.Commercial+w.Brandability+w.Competition+w.Risk == 0 {
		return &domain.ConfigError{Field: "analysis.weights", Reason: "must not all be zero"}
	}

	// server
	if cfg.Server.Timeout < time.Second {
		return &domain.ConfigError{Field: "server.timeout", Reason: "must be at least 1 second"}
	}

	return nil
}

// RequireLLM checks settings needed before any external reasoning call is made
func (c *Config) RequireLLM() error {
	if c.LLM.APIKey == "" {
		return &domain.ConfigError{Field: "llm.api_key", Reason: "is required for analysis"}
	}
	if c.LLM.Model == "" {
		return &domain.ConfigError{Field: "llm.model", Reason: "is required for analysis"}
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
