package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	Postgres Postgres
	RabbitMQ RabbitMQ
}

type Postgres struct {
	Host string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User string `env:"POSTGRES_USER" envDefault:"coffeeshop"`
	Pass string `env:"POSTGRES_PASSWORD" envDefault:"coffeeshop"`
	DB   string `env:"POSTGRES_DB" envDefault:"coffeeshop_db"`
}

type RabbitMQ struct {
	URL     string `env:"RABBITMQ_URL"`
	Enabled bool   `env:"RABBITMQ_ENABLED" envDefault:"false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (p Postgres) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Pass, p.Host, p.Port, p.DB)
}
