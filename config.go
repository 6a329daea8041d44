package formcheck

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds validator configuration sourced from the environment.
type Config struct {
	// RulesPath points at the YAML rule document.
	RulesPath string `env:"FORMCHECK_RULES_PATH,required"`
	// AllowSubs enables the sub expression criterion. Off by default because
	// sub expressions evaluate configuration as code.
	AllowSubs bool `env:"FORMCHECK_ALLOW_SUBS" envDefault:"false"`
}

// LoadConfig reads Config from the environment, loading a .env file first if
// one is present.
func LoadConfig() (Config, error) {
	// Ignore errors - the .env file might not exist and that's ok
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// NewFromConfig builds a Validator from the provided Config. Additional
// options are applied after the ones derived from the config, so they win on
// conflict.
func NewFromConfig(cfg Config, opts ...Option) (*Validator, error) {
	configOpts := make([]Option, 0, 1+len(opts))
	if cfg.AllowSubs {
		configOpts = append(configOpts, WithSubExpressions())
	}
	configOpts = append(configOpts, opts...)

	return New(cfg.RulesPath, configOpts...)
}
