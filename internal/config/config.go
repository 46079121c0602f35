package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port string

	JWTSecret string

	GoEnv string // dev/prod
	FEURL string // frontend origin, used for CORS
}

// Load reads the environment. Database settings are read separately by
// the db package so DATABASE_URL can override the individual vars.
func Load() (Config, error) {
	cfg := Config{
		Port:      getenv("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		GoEnv:     getenv("GO_ENV", "dev"),
		FEURL:     getenv("FE_URL", "http://localhost:3000"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
