package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	Port        string        `env:"PORT" env-default:"8080"`
	DatabaseURL string        `env:"DATABASE_URL" env-required:"true"`
	RedisAddr   string        `env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
	JWTSecret   string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" env-default:"72h"`
	UploadDir   string        `env:"UPLOAD_DIR" env-default:"uploads"`
	AppURL      string        `env:"APP_URL" env-default:"http://localhost:3000"`
}

// C is the process-wide configuration, populated by MustLoad.
var C Config

// MustLoad reads the environment into C and exits on missing required values.
func MustLoad() *Config {
	_ = godotenv.Load()
	if err := cleanenv.ReadEnv(&C); err != nil {
		log.Fatalf("config: %v", err)
	}
	return &C
}
