// Package config loads the colombia CLI configuration file and resolves the
// effective settings from flags, environment and file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	appDir   = "colombia-cli"
	fileName = "config.yaml"

	envConfigPath = "COLOMBIA_CONFIG"
)

var userConfigDir = os.UserConfigDir

// Config mirrors the YAML file. Durations are kept as strings ("30s") so the
// file and `config show` read the same way they are written.
type Config struct {
	BaseURL            string      `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout            string      `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	InsecureSkipVerify bool        `yaml:"insecure_skip_verify,omitempty" json:"insecure_skip_verify,omitempty"`
	AllowPrivate       bool        `yaml:"allow_private,omitempty" json:"allow_private,omitempty"`
	MaxRetries         int         `yaml:"max_retries,omitempty" json:"max_retries,omitempty"`
	RetryDelay         string      `yaml:"retry_delay,omitempty" json:"retry_delay,omitempty"`
	RequestsPerSecond  float64     `yaml:"requests_per_second,omitempty" json:"requests_per_second,omitempty"`
	Output             string      `yaml:"output,omitempty" json:"output,omitempty"`
	Cache              CacheConfig `yaml:"cache,omitempty" json:"cache,omitempty"`
	Serve              ServeConfig `yaml:"serve,omitempty" json:"serve,omitempty"`
}

// CacheConfig holds the response cache section.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Backend  string `yaml:"backend,omitempty" json:"backend,omitempty"`
	TTL      string `yaml:"ttl,omitempty" json:"ttl,omitempty"`
	RedisURL string `yaml:"redis_url,omitempty" json:"redis_url,omitempty"`
}

// ServeConfig holds the gateway section.
type ServeConfig struct {
	Addr      string  `yaml:"addr,omitempty" json:"addr,omitempty"`
	RateLimit float64 `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`
	Burst     int     `yaml:"burst,omitempty" json:"burst,omitempty"`
	LogFormat string  `yaml:"log_format,omitempty" json:"log_format,omitempty"`
}

// Path returns the config file location: $COLOMBIA_CONFIG when set, otherwise
// colombia-cli/config.yaml under the user config directory.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(envConfigPath)); p != "" {
		return p, nil
	}
	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the file at path. A missing file yields an empty Config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

type setter func(c *Config, value string) error

var setters = map[string]setter{
	"base_url": func(c *Config, v string) error {
		c.BaseURL = strings.TrimSuffix(v, "/")
		return nil
	},
	"timeout": func(c *Config, v string) error {
		return setDuration(&c.Timeout, v)
	},
	"insecure_skip_verify": func(c *Config, v string) error {
		return setBool(&c.InsecureSkipVerify, v)
	},
	"allow_private": func(c *Config, v string) error {
		return setBool(&c.AllowPrivate, v)
	},
	"max_retries": func(c *Config, v string) error {
		return setNonNegativeInt(&c.MaxRetries, v)
	},
	"retry_delay": func(c *Config, v string) error {
		return setDuration(&c.RetryDelay, v)
	},
	"requests_per_second": func(c *Config, v string) error {
		return setNonNegativeFloat(&c.RequestsPerSecond, v)
	},
	"output": func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case "", "text", "json", "jsonl", "ndjson":
			c.Output = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("invalid output %q: must be text, json or jsonl", v)
	},
	"cache.enabled": func(c *Config, v string) error {
		return setBool(&c.Cache.Enabled, v)
	},
	"cache.backend": func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case "", "file", "redis":
			c.Cache.Backend = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("invalid cache backend %q: must be file or redis", v)
	},
	"cache.ttl": func(c *Config, v string) error {
		return setDuration(&c.Cache.TTL, v)
	},
	"cache.redis_url": func(c *Config, v string) error {
		c.Cache.RedisURL = v
		return nil
	},
	"serve.addr": func(c *Config, v string) error {
		c.Serve.Addr = v
		return nil
	},
	"serve.rate_limit": func(c *Config, v string) error {
		return setNonNegativeFloat(&c.Serve.RateLimit, v)
	},
	"serve.burst": func(c *Config, v string) error {
		return setNonNegativeInt(&c.Serve.Burst, v)
	},
	"serve.log_format": func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case "", "text", "json":
			c.Serve.LogFormat = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("invalid log format %q: must be text or json", v)
	},
}

// Keys lists the settable keys in dotted form.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to the dotted key. An empty value resets the key.
func (c *Config) Set(key, value string) error {
	fn, ok := setters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	return fn(c, strings.TrimSpace(value))
}

// LoadDotenv loads variables from a .env file in the working directory.
// Variables already present in the environment are left alone.
func LoadDotenv(path string) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

func setDuration(dst *string, v string) error {
	if v == "" {
		*dst = ""
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fmt.Errorf("invalid duration %q (example: 30s, 2m)", v)
	}
	*dst = d.String()
	return nil
}

func setBool(dst *bool, v string) error {
	if v == "" {
		*dst = false
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid boolean %q", v)
	}
	*dst = b
	return nil
}

func setNonNegativeInt(dst *int, v string) error {
	if v == "" {
		*dst = 0
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid value %q: must be a non-negative integer", v)
	}
	*dst = n
	return nil
}

func setNonNegativeFloat(dst *float64, v string) error {
	if v == "" {
		*dst = 0
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("invalid value %q: must be a non-negative number", v)
	}
	*dst = f
	return nil
}
