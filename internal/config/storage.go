package config

import "time"

type Storage struct {
	Database Database `envPrefix:"DATABASE_"`
}

type Database struct {
	DSN         string        `env:"DSN" envDefault:"data.sqlite"`
	MaxRetries  int           `env:"MAX_RETRIES,expand" envDefault:"5"`
	BaseBackoff time.Duration `env:"BASE_BACKOFF" envDefault:"50ms"`
}
