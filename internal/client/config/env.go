package config

import "github.com/kelseyhightower/envconfig"

const EnvPrefix = "INKPOST_CLIENT"

func parseEnv(cfg *Config) error {
	return envconfig.Process(EnvPrefix, cfg)
}
