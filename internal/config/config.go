package config

import (
	"os"

	"conga-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the Conga server
type Config struct {
	loaded bool

	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}

	// JWTSigningKey signs the seat rejoin tokens. If empty, a random key
	// is generated at startup and rejoins do not survive a restart.
	JWTSigningKey string `yaml:"jwtSigningKey" envconfig:"jwt_signing_key"`

	Game struct {
		// CloseThreshold is the maximum leftover value a hand may carry to close
		CloseThreshold int `yaml:"closeThreshold" envconfig:"close_threshold"`

		// TargetScore ends the game once a player's total reaches it
		TargetScore int `yaml:"targetScore" envconfig:"target_score"`

		// ForfeitGraceSeconds is how long a vacated seat is held before forfeit
		ForfeitGraceSeconds int `yaml:"forfeitGraceSeconds" envconfig:"forfeit_grace_seconds"`
	}
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

// Load will load the configuration
// A missing config file is fine; env vars and defaults still apply.
func Load() error {
	config = Config{}

	configFile := util.Getenv("CONGA_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		err = yaml.NewDecoder(file).Decode(&config)
		_ = file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("conga", &config); err != nil {
		return err
	}

	setDefaults(&config)

	config.loaded = true
	return nil
}

func setDefaults(c *Config) {
	if c.Game.CloseThreshold == 0 {
		c.Game.CloseThreshold = 5
	}

	if c.Game.TargetScore == 0 {
		c.Game.TargetScore = 100
	}

	if c.Game.ForfeitGraceSeconds == 0 {
		c.Game.ForfeitGraceSeconds = 60
	}
}
