package config

import (
	"os"
	"time"

	"blackjack-server/internal/util"
	"blackjack-server/pkg/blackjack"
	"blackjack-server/pkg/table"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the blackjack server
type Config struct {
	loaded bool

	ListenAddr  string `yaml:"listenAddr" envconfig:"listen_addr"`
	MetricsAddr string `yaml:"metricsAddr" envconfig:"metrics_addr"`

	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}

	// Rules is the single ruleset every table plays
	Rules blackjack.Rules `yaml:"rules"`

	// TableTypes is the closed set of table configurations
	TableTypes []table.Type `yaml:"tableTypes"`

	SettleDelaySeconds int `yaml:"settleDelaySeconds" envconfig:"settle_delay_seconds"`
	IdleExpiryMinutes  int `yaml:"idleExpiryMinutes" envconfig:"idle_expiry_minutes"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration.
// A missing config file is not an error; defaults and environment overrides
// still apply.
func Load() error {
	config = Config{}

	configFile := util.Getenv("BJ_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("bj", &config); err != nil {
		return err
	}

	applyDefaults(&config)

	config.loaded = true
	return nil
}

func applyDefaults(c *Config) {
	if c.ListenAddr == "" {
		c.ListenAddr = ":5000"
	}

	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9091"
	}

	if c.Rules == (blackjack.Rules{}) {
		c.Rules = blackjack.DefaultRules()
	}

	if len(c.TableTypes) == 0 {
		c.TableTypes = table.DefaultTypes()
	}

	if c.SettleDelaySeconds == 0 {
		c.SettleDelaySeconds = 5
	}

	if c.IdleExpiryMinutes == 0 {
		c.IdleExpiryMinutes = 5
	}
}

// SettleDelay returns the settlement display delay as a duration
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelaySeconds) * time.Second
}

// IdleExpiry returns the empty-table grace period as a duration
func (c Config) IdleExpiry() time.Duration {
	return time.Duration(c.IdleExpiryMinutes) * time.Minute
}
