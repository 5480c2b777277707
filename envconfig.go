package seqio

import "github.com/caarlos0/env/v11"

// EnvDefaults holds the reader defaults a deployment can override without a
// recompile. It is parsed with env.ParseAs, so every field is driven by its
// env tag; unset variables fall back to the struct's default tag.
type EnvDefaults struct {
	InitialCapacity int     `env:"SEQIO_INITIAL_CAPACITY" envDefault:"65536"`
	GrowthCap       int64   `env:"SEQIO_GROWTH_CAP" envDefault:"1073741824"`
	GrowthFactor    float64 `env:"SEQIO_GROWTH_FACTOR" envDefault:"2"`
}

// OptionsFromEnv parses EnvDefaults from the process environment and
// translates it into the equivalent ReaderOption slice. Callers append
// their own options after the returned slice to override individual
// fields.
func OptionsFromEnv() ([]ReaderOption, error) {
	cfg, err := env.ParseAs[EnvDefaults]()
	if err != nil {
		return nil, err
	}
	return []ReaderOption{
		WithInitialCapacity(cfg.InitialCapacity),
		WithGrowthPolicy(DoublingPolicy{Factor: cfg.GrowthFactor, Cap: int(cfg.GrowthCap)}),
	}, nil
}
