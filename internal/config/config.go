package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config конфигурация витрины, читается из переменных окружения
type Config struct {
	Port           string `envconfig:"PORT" default:"8081"`
	BackendURL     string `envconfig:"BACKEND_URL" default:"http://localhost:5000"`
	SuggestURL     string `envconfig:"SUGGEST_URL" default:""` // по умолчанию совпадает с BackendURL
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"file"`
	DataDir        string `envconfig:"DATA_DIR" default:"./data"`
	RedisURL       string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPTimeoutSec int    `envconfig:"HTTP_TIMEOUT" default:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SuggestURL == "" {
		cfg.SuggestURL = cfg.BackendURL
	}
	return &cfg, nil
}
