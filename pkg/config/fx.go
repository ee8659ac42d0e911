package config

import (
	"os"

	"github.com/pgerd/pgerd/pkg/consts"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Function attempts to load the configuration from pgerd.yaml if it exists.
	// Falls back to the built-in defaults otherwise, so projects without a
	// config file still get a fully populated Config.
	func() (*Config, error) {
		// Check if pgerd.yaml exists
		if _, err := os.Stat(consts.DefaultConfigFile); os.IsNotExist(err) {
			return Default(), nil
		}

		// Load and return the config
		return LoadConfigFile(consts.DefaultConfigFile)
	},
))
