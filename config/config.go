package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/debatify/debatify-go/model"
	"github.com/debatify/debatify-go/utils"
)

const (
	DefaultApiBase = "http://localhost:5000/api"

	// Observed poll cadence per page: discussion detail refreshes at 2s,
	// debate/blog detail and all list/navbar polls at 5s.
	DefaultPollInterval    = 5 * time.Second
	DiscussionPollInterval = 2 * time.Second

	DefaultRequestTimeoutSeconds = 10
)

type Config struct {
	ApiBase               string `yaml:"api_base"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	StatsdAddr            string `yaml:"statsd_addr"`

	// Per-type poll overrides in seconds, keyed by entity type.
	PollIntervalSeconds map[string]int `yaml:"poll_interval_seconds"`
}

// Load reads an optional YAML config file, then applies environment
// overrides. A missing file yields pure defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ApiBase:               DefaultApiBase,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "reading config file")
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "parsing config file")
			}
		}
	}

	cfg.ApiBase = utils.GetEnvOrDefault("DEBATIFY_API_BASE", cfg.ApiBase)
	cfg.StatsdAddr = utils.GetEnvOrDefault("DEBATIFY_STATSD_ADDR", cfg.StatsdAddr)
	return cfg, nil
}

func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return time.Duration(DefaultRequestTimeoutSeconds) * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// PollInterval resolves the poll cadence for an entity type, falling back
// to the observed per-page defaults.
func (c *Config) PollInterval(t model.EntityType) time.Duration {
	if c.PollIntervalSeconds != nil {
		if secs, ok := c.PollIntervalSeconds[string(t)]; ok && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return DefaultPollIntervalFor(t)
}

// DefaultPollIntervalFor is the cadence table without config overrides:
// discussion detail refreshes at 2s, everything else at 5s.
func DefaultPollIntervalFor(t model.EntityType) time.Duration {
	if t == model.EntityDiscussion {
		return DiscussionPollInterval
	}
	return DefaultPollInterval
}
