// Package config provides type-safe environment configuration loading for
// the library's Config structs.
//
// Load combines optional .env file loading with struct parsing, so local
// development and deployed environments share one code path:
//
//	cfg, err := config.Load[redis.Config]()
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load populates a Config struct from the environment, first merging any
// .env files into the process environment. A missing .env file is not an
// error; deployed environments rarely carry one.
func Load[T any](files ...string) (T, error) {
	_ = godotenv.Load(files...)

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
