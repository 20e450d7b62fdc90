package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"naver-shop-crawler/models"

	"github.com/joho/godotenv"
)

const envPrefix = "CRAWLER_"

type Config struct {
	Headless       bool
	UserAgent      string
	AcceptLanguage string

	RequestTimeout   time.Duration
	PageLoadTimeout  time.Duration
	ContainerTimeout time.Duration
	JobTimeout       time.Duration

	MaxScrolls     int
	MinScrollPause time.Duration
	MaxScrollPause time.Duration
	JobDelay       time.Duration

	MaxRetries   int
	RetryBackoff time.Duration
	MaxWorkers   int

	LogLevel   string
	OutputPath string

	ListenAddr      string
	RequestInterval time.Duration

	SingleURL  string
	Categories []models.Job
}

// Best-category pages crawled when the web interface gets no URLs.
var DefaultCategories = []models.Job{
	{CategoryID: "50000003", URL: "https://search.shopping.naver.com/best/category/click?categoryCategoryId=50000003&categoryDemo=A00&categoryRootCategoryId=50000003&period=P1D&tr=nwbhi"},
	{CategoryID: "50000000", URL: "https://search.shopping.naver.com/best/category/click?categoryCategoryId=50000000&categoryDemo=A00&categoryRootCategoryId=50000000&period=P1D&tr=nwbhi"},
}

func DefaultConfig() *Config {
	categories := make([]models.Job, len(DefaultCategories))
	copy(categories, DefaultCategories)

	return &Config{
		Headless:         true,
		UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		AcceptLanguage:   "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7",
		RequestTimeout:   30 * time.Second,
		PageLoadTimeout:  10 * time.Second,
		ContainerTimeout: 5 * time.Second,
		JobTimeout:       3 * time.Minute,
		MaxScrolls:       10,
		MinScrollPause:   1 * time.Second,
		MaxScrollPause:   2 * time.Second,
		JobDelay:         2 * time.Second,
		MaxRetries:       2,
		RetryBackoff:     2 * time.Second,
		MaxWorkers:       1,
		LogLevel:         "info",
		ListenAddr:       ":8080",
		RequestInterval:  5 * time.Second,
		SingleURL:        categories[0].URL,
		Categories:       categories,
	}
}

// Load builds a Config from defaults, an optional env file and CRAWLER_*
// environment variables, in that order of precedence (last wins).
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not load env file %s: %w", envFile, err)
		}
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var errs []string
	note := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	note(envBool("HEADLESS", &c.Headless))
	envString("USER_AGENT", &c.UserAgent)
	envString("ACCEPT_LANGUAGE", &c.AcceptLanguage)
	note(envDuration("REQUEST_TIMEOUT", &c.RequestTimeout))
	note(envDuration("PAGE_LOAD_TIMEOUT", &c.PageLoadTimeout))
	note(envDuration("CONTAINER_TIMEOUT", &c.ContainerTimeout))
	note(envDuration("JOB_TIMEOUT", &c.JobTimeout))
	note(envInt("MAX_SCROLLS", &c.MaxScrolls))
	note(envDuration("MIN_SCROLL_PAUSE", &c.MinScrollPause))
	note(envDuration("MAX_SCROLL_PAUSE", &c.MaxScrollPause))
	note(envDuration("JOB_DELAY", &c.JobDelay))
	note(envInt("MAX_RETRIES", &c.MaxRetries))
	note(envDuration("RETRY_BACKOFF", &c.RetryBackoff))
	note(envInt("MAX_WORKERS", &c.MaxWorkers))
	envString("LOG_LEVEL", &c.LogLevel)
	envString("OUTPUT_PATH", &c.OutputPath)
	envString("LISTEN_ADDR", &c.ListenAddr)
	note(envDuration("REQUEST_INTERVAL", &c.RequestInterval))
	envString("SINGLE_URL", &c.SingleURL)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate rejects settings the crawler cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.MaxScrolls < 0:
		return fmt.Errorf("max scrolls must be >= 0, got %d", c.MaxScrolls)
	case c.MinScrollPause < 0 || c.MaxScrollPause < c.MinScrollPause:
		return fmt.Errorf("scroll pause range %v-%v is invalid", c.MinScrollPause, c.MaxScrollPause)
	case c.JobDelay < 0:
		return fmt.Errorf("job delay must be >= 0, got %v", c.JobDelay)
	case c.MaxRetries < 0:
		return fmt.Errorf("max retries must be >= 0, got %d", c.MaxRetries)
	case c.MaxWorkers < 1:
		return fmt.Errorf("max workers must be >= 1, got %d", c.MaxWorkers)
	}
	return nil
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func envBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	*dst = b
	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	*dst = d
	return nil
}
