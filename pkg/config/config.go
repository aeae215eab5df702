package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envPrefix is prepended to every environment variable the scraper reads
const envPrefix = "MAMBASCRAPER_"

// Config holds all configuration options for the profile scraper
type Config struct {
	// Search API endpoints and fixed query values
	API APIConfig `yaml:"api" json:"api"`

	// Request pacing
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Files written by the scraper
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// Interactive filter setup
	Login LoginConfig `yaml:"login" json:"login"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig describes the search API
type APIConfig struct {
	SearchURL   string        `yaml:"search_url" json:"search_url"`
	APIURL      string        `yaml:"api_url" json:"api_url"`
	StatusNames string        `yaml:"status_names" json:"status_names"`
	Limit       int           `yaml:"limit" json:"limit"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// FetchConfig holds request pacing configuration
type FetchConfig struct {
	// RequestDelay is slept before every request, pages and images alike
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay"`
}

// PathsConfig holds the locations of persisted state
type PathsConfig struct {
	CursorFile  string `yaml:"cursor_file" json:"cursor_file"`
	CookiesFile string `yaml:"cookies_file" json:"cookies_file"`
	DumpFile    string `yaml:"dump_file" json:"dump_file"`
	ImageDir    string `yaml:"image_dir" json:"image_dir"`
}

// LoginConfig configures the browser used by --set-filters
type LoginConfig struct {
	// BrowserBin overrides the Chrome binary; empty lets rod pick or download one
	BrowserBin string        `yaml:"browser_bin" json:"browser_bin"`
	NavTimeout time.Duration `yaml:"nav_timeout" json:"nav_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			SearchURL:   "https://www.mamba.ru/ru/search/list",
			APIURL:      "https://www.mamba.ru/api/search",
			StatusNames: "hasVerifiedPhoto",
			Limit:       56,
			UserAgent:   "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			Timeout:     30 * time.Second,
		},
		Fetch: FetchConfig{
			RequestDelay: 0,
		},
		Paths: PathsConfig{
			CursorFile:  "cursor.json",
			CookiesFile: "cookies.json",
			DumpFile:    "dump.json",
			ImageDir:    "img",
		},
		Login: LoginConfig{
			NavTimeout: time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	setString := func(name string, dst *string) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	setDuration := func(name string, dst *time.Duration) {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
			return
		}
		*dst = d
	}

	setString("SEARCH_URL", &c.API.SearchURL)
	setString("API_URL", &c.API.APIURL)
	setString("STATUS_NAMES", &c.API.StatusNames)
	setString("USER_AGENT", &c.API.UserAgent)
	setDuration("TIMEOUT", &c.API.Timeout)

	if v := os.Getenv(envPrefix + "LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sLIMIT: %w", envPrefix, err))
		} else {
			c.API.Limit = limit
		}
	}

	setDuration("REQUEST_DELAY", &c.Fetch.RequestDelay)

	setString("CURSOR_FILE", &c.Paths.CursorFile)
	setString("COOKIES_FILE", &c.Paths.CookiesFile)
	setString("DUMP_FILE", &c.Paths.DumpFile)
	setString("IMAGE_DIR", &c.Paths.ImageDir)

	setString("BROWSER_BIN", &c.Login.BrowserBin)
	setDuration("NAV_TIMEOUT", &c.Login.NavTimeout)

	setString("LOG_LEVEL", &c.Logging.Level)
	setString("LOG_FILE", &c.Logging.File)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	home, _ := os.UserHomeDir()

	locations := []string{
		".mambascraper.yaml",
		".mambascraper.yml",
	}
	if home != "" {
		locations = append(locations,
			filepath.Join(home, ".config", "mambascraper", "config.yaml"),
			filepath.Join(home, ".config", "mambascraper", "config.yml"),
			filepath.Join(home, ".mambascraper.yaml"),
		)
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	for name, raw := range map[string]string{
		"search URL": c.API.SearchURL,
		"API URL":    c.API.APIURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid %s: %q", name, raw))
		}
	}
	if c.API.Limit <= 0 {
		errs = append(errs, errors.New("page limit must be positive"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Fetch.RequestDelay < 0 {
		errs = append(errs, errors.New("request delay cannot be negative"))
	}

	if c.Paths.CursorFile == "" {
		errs = append(errs, errors.New("cursor file is required"))
	}
	if c.Paths.CookiesFile == "" {
		errs = append(errs, errors.New("cookies file is required"))
	}
	if c.Paths.DumpFile == "" {
		errs = append(errs, errors.New("dump file is required"))
	}
	if c.Paths.ImageDir == "" {
		errs = append(errs, errors.New("image directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level: %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Environment variables > .env file > Config file > Defaults
func Load(configPath string) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".mambascraper.env"))
	}

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
