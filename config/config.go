// Package config loads service settings from .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting.
type Config struct {
	Port     string
	GinMode  string
	DevMode  bool
	DataDir  string
	LogLevel string
	// LogPretty switches to human-readable console logs.
	LogPretty bool

	FetchTimeout time.Duration
	UserAgent    string

	CheckLinks           bool
	LinkCheckTimeout     time.Duration
	LinkCheckConcurrency int
	LinkCheckRPS         float64

	DictionaryURL string

	RateLimit float64
	RateBurst int
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		Port:                 "8082",
		GinMode:              "release",
		DataDir:              "data",
		LogLevel:             "info",
		FetchTimeout:         15 * time.Second,
		UserAgent:            "ContentLens/1.0",
		LinkCheckTimeout:     5 * time.Second,
		LinkCheckConcurrency: 10,
		LinkCheckRPS:         5,
		DictionaryURL:        "https://api.dictionaryapi.dev/api/v2/entries/en",
		RateLimit:            2,
		RateBurst:            5,
	}
}

// LoadEnv loads .env.development, falling back to .env. It reports whether
// a file was found. Variables already set in the environment win.
func LoadEnv() bool {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			return false
		}
	}
	return true
}

// Load reads .env files and then the environment.
func Load() (Config, error) {
	LoadEnv()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a variable lookup function. All invalid
// values are reported together.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str("PORT", &cfg.Port)
	p.str("GIN_MODE", &cfg.GinMode)
	p.boolean("DEV_MODE", &cfg.DevMode)
	p.str("DATA_DIR", &cfg.DataDir)
	p.str("LOG_LEVEL", &cfg.LogLevel)
	p.boolean("LOG_PRETTY", &cfg.LogPretty)
	p.duration("FETCH_TIMEOUT", &cfg.FetchTimeout)
	p.str("USER_AGENT", &cfg.UserAgent)
	p.boolean("CHECK_LINKS", &cfg.CheckLinks)
	p.duration("LINK_CHECK_TIMEOUT", &cfg.LinkCheckTimeout)
	p.integer("LINK_CHECK_CONCURRENCY", &cfg.LinkCheckConcurrency)
	p.float("LINK_CHECK_RPS", &cfg.LinkCheckRPS)
	p.str("DICTIONARY_URL", &cfg.DictionaryURL)
	p.float("RATE_LIMIT", &cfg.RateLimit)
	p.integer("RATE_BURST", &cfg.RateBurst)

	if cfg.LinkCheckConcurrency < 1 {
		p.errs = append(p.errs, fmt.Errorf("LINK_CHECK_CONCURRENCY must be at least 1"))
	}
	if cfg.RateBurst < 1 {
		p.errs = append(p.errs, fmt.Errorf("RATE_BURST must be at least 1"))
	}

	return cfg, errors.Join(p.errs...)
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) value(key string) (string, bool) {
	v, ok := p.lookup(key)
	return v, ok && v != ""
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.value(key); ok {
		*dst = v
	}
}

func (p *parser) boolean(key string, dst *bool) {
	if v, ok := p.value(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
			return
		}
		*dst = b
	}
}

func (p *parser) integer(key string, dst *int) {
	if v, ok := p.value(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
			return
		}
		*dst = n
	}
}

func (p *parser) float(key string, dst *float64) {
	if v, ok := p.value(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
			return
		}
		*dst = f
	}
}

func (p *parser) duration(key string, dst *time.Duration) {
	if v, ok := p.value(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
			return
		}
		*dst = d
	}
}
