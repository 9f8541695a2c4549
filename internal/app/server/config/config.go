package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress      = ":8080"
	defaultMigrations      = "migrations"
	defaultShutdownTimeout = 10
)

type Config struct {
	Env    string
	DB     db
	Server server
	Logger logger
	Auth   auth
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress      string        `env:"RUN_ADDRESS"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT_SECONDS"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type auth struct {
	// TokenHash bcrypt-хеш общего API-токена; пустой отключает проверку
	TokenHash string `env:"API_TOKEN_HASH"`
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", defaultRunAddress)
	v.SetDefault("migrations_path", defaultMigrations)
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout_seconds", defaultShutdownTimeout)

	cfg := &Config{
		Env: v.GetString("app_env"),
		DB: db{
			DatabaseURI: v.GetString("database_uri"),
			Migrations:  v.GetString("migrations_path"),
		},
		Server: server{
			RunAddress:      v.GetString("run_address"),
			ShutdownTimeout: time.Duration(v.GetInt("shutdown_timeout_seconds")) * time.Second,
		},
		Logger: logger{LogLevel: v.GetString("log_level")},
		Auth:   auth{TokenHash: v.GetString("api_token_hash")},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}
	if c.DB.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}
	if c.Auth.TokenHash == "" && c.Env != EnvLocal {
		return fmt.Errorf("API_TOKEN_HASH is required outside the %s environment", EnvLocal)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive")
	}
	return nil
}
