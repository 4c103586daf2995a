// Package config loads tidyhouse settings from defaults, an optional YAML
// file and TIDYHOUSE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string `yaml:"port"`
	DBPath   string `yaml:"db_path"`
	Timezone string `yaml:"timezone"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Redis struct {
		// Empty disables caching.
		URL string        `yaml:"url"`
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"redis"`

	Reminder struct {
		Enabled bool   `yaml:"enabled"`
		Time    string `yaml:"time"` // HH:MM
	} `yaml:"reminder"`

	RateLimit struct {
		Requests int           `yaml:"requests"`
		Window   time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	var c Config
	c.Port = "8080"
	c.DBPath = "tidyhouse.db"
	c.Timezone = "Local"
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Redis.TTL = 5 * time.Minute
	c.Reminder.Enabled = true
	c.Reminder.Time = "08:00"
	c.RateLimit.Requests = 60
	c.RateLimit.Window = time.Minute
	return c
}

// Load applies the YAML file at path (if path is non-empty and the file
// exists) and then the environment on top of the defaults, and validates
// the result.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return c, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return c, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup("TIDYHOUSE_" + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("PORT", &c.Port)
	str("DB_PATH", &c.DBPath)
	str("TIMEZONE", &c.Timezone)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("REDIS_URL", &c.Redis.URL)
	str("REMINDER_TIME", &c.Reminder.Time)

	var ttl, window, enabled, requests string
	str("REDIS_TTL", &ttl)
	str("RATE_LIMIT_WINDOW", &window)
	str("REMINDER_ENABLED", &enabled)
	str("RATE_LIMIT_REQUESTS", &requests)

	if ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("TIDYHOUSE_REDIS_TTL: %w", err)
		}
		c.Redis.TTL = d
	}
	if window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return fmt.Errorf("TIDYHOUSE_RATE_LIMIT_WINDOW: %w", err)
		}
		c.RateLimit.Window = d
	}
	if enabled != "" {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("TIDYHOUSE_REMINDER_ENABLED: %w", err)
		}
		c.Reminder.Enabled = b
	}
	if requests != "" {
		n, err := strconv.Atoi(requests)
		if err != nil {
			return fmt.Errorf("TIDYHOUSE_RATE_LIMIT_REQUESTS: %w", err)
		}
		c.RateLimit.Requests = n
	}
	return nil
}

// Validate checks the values that cannot be defaulted safely.
func (c Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, _, err := c.ReminderClock(); err != nil {
		return err
	}
	if c.RateLimit.Requests < 1 {
		return fmt.Errorf("rate_limit.requests must be positive, got %d", c.RateLimit.Requests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}
	if c.Redis.URL != "" && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be positive, got %s", c.Redis.TTL)
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ReminderClock parses Reminder.Time into hour and minute.
func (c Config) ReminderClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.Reminder.Time)
	if err != nil {
		return 0, 0, fmt.Errorf("reminder.time %q: want HH:MM", c.Reminder.Time)
	}
	return t.Hour(), t.Minute(), nil
}
