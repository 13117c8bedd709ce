// Package config loads service configuration from an optional file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults for options that are not set in the file or environment.
const (
	DefaultServerPort        = 8080
	DefaultWorkerPort        = 8787
	DefaultStrategy          = "browser"
	DefaultRetryCount        = 3
	DefaultRetryDelay        = time.Second
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultNavigationTimeout = 60 * time.Second
	DefaultMaxBrowsers       = 2
	DefaultRequestsPerSecond = 1.0
	DefaultCacheTTL          = 24 * time.Hour
)

// LLMConfig selects the tailoring model.
type LLMConfig struct {
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Provider    string  `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=groq openai gemini"`
	Model       string  `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Temperature float32 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"gte=0,lte=2"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" validate:"gte=0"`
}

// ScraperConfig controls job posting extraction.
type ScraperConfig struct {
	Strategy          string   `json:"strategy,omitempty" yaml:"strategy,omitempty" validate:"oneof=browser pattern worker"`
	WorkerURL         string   `json:"worker_url,omitempty" yaml:"worker_url,omitempty" validate:"omitempty,url"`
	RetryCount        int      `json:"retry_count,omitempty" yaml:"retry_count,omitempty" validate:"gte=1,lte=10"`
	RetryDelay        Duration `json:"retry_delay,omitempty" yaml:"retry_delay,omitempty"`
	Timeout           Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	NavigationTimeout Duration `json:"navigation_timeout,omitempty" yaml:"navigation_timeout,omitempty"`
	MaxBrowsers       int      `json:"max_browsers,omitempty" yaml:"max_browsers,omitempty" validate:"gte=1"`
	// RequestsPerSecond limits outbound requests per host; zero disables the limit.
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty" validate:"gte=0"`
	DebugDir          string  `json:"debug_dir,omitempty" yaml:"debug_dir,omitempty"`
	ChromePath        string  `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
}

// ServerConfig controls the REST API.
type ServerConfig struct {
	Port           int      `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=1,lte=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
	// JWTSecret enables bearer-token auth on API routes when set.
	JWTSecret string `json:"jwt_secret,omitempty" yaml:"jwt_secret,omitempty" validate:"omitempty,min=16"`
}

// WorkerConfig controls the standalone scraping worker.
type WorkerConfig struct {
	Port           int      `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=1,lte=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// Config is the full service configuration.
type Config struct {
	LLM         LLMConfig     `json:"llm" yaml:"llm"`
	Scraper     ScraperConfig `json:"scraper" yaml:"scraper"`
	Server      ServerConfig  `json:"server" yaml:"server"`
	Worker      WorkerConfig  `json:"worker" yaml:"worker"`
	DatabaseURL string        `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	CacheTTL    Duration      `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`
	Verbose     bool          `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{Provider: "groq"},
		Scraper: ScraperConfig{
			Strategy:          DefaultStrategy,
			RetryCount:        DefaultRetryCount,
			RetryDelay:        Duration(DefaultRetryDelay),
			Timeout:           Duration(DefaultHTTPTimeout),
			NavigationTimeout: Duration(DefaultNavigationTimeout),
			MaxBrowsers:       DefaultMaxBrowsers,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Server:   ServerConfig{Port: DefaultServerPort},
		Worker:   WorkerConfig{Port: DefaultWorkerPort},
		CacheTTL: Duration(DefaultCacheTTL),
	}
}

// Load reads the optional config file at path, overlays the process environment and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a YAML or JSON file on top of Default.
// The format is chosen by extension: .yaml/.yml or .json.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .json)", ext)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables read through getenv. Unset or empty variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	if strings.EqualFold(c.LLM.Provider, "gemini") {
		setString(&c.LLM.APIKey, "GEMINI_API_KEY")
	} else {
		setString(&c.LLM.APIKey, "GROQ_API_KEY", "OPENAI_API_KEY")
	}

	setString(&c.Scraper.Strategy, "SCRAPER_STRATEGY")
	setString(&c.Scraper.WorkerURL, "SCRAPER_WORKER_URL")
	setString(&c.Scraper.DebugDir, "SCRAPER_DEBUG_DIR")
	setString(&c.Scraper.ChromePath, "CHROME_PATH")

	setInt(&c.Server.Port, getenv("PORT"))
	setInt(&c.Worker.Port, getenv("WORKER_PORT"))
	if origins := parseList(getenv("ALLOWED_ORIGINS")); len(origins) > 0 {
		c.Server.AllowedOrigins = origins
		c.Worker.AllowedOrigins = origins
	}
	setString(&c.Server.JWTSecret, "JWT_SECRET")

	setString(&c.DatabaseURL, "DATABASE_URL")
	if v := getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CacheTTL = Duration(d)
		}
	}
}

var validate = validator.New()

// Validate checks option ranges and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: %s failed %q validation", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	if c.Scraper.Strategy == "worker" && c.Scraper.WorkerURL == "" {
		return fmt.Errorf("config error: 'scraper.worker_url' is required for the worker strategy")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
	}
	return nil
}

func setInt(dst *int, v string) {
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		*dst = n
	}
}

// parseList splits a comma-separated list, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
