package config

import "github.com/kelseyhightower/envconfig"

// EnvPrefix prefixes every environment variable, e.g. INKPOST_HTTP_ADDR.
const EnvPrefix = "INKPOST"

// parseEnv overlays fields whose environment variable is set; unset
// variables leave the current value in place.
func parseEnv(cfg *Config) error {
	return envconfig.Process(EnvPrefix, cfg)
}
