package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"edusync/internal/domain/sync"
	"edusync/internal/infrastructure/storage/sqlite"
)

const (
	defaultServerAddress  = "localhost:8080"
	defaultLogLevel       = "info"
	defaultEnv            = "local"
	defaultConfigDir      = ".edusync"
	defaultDataFile       = "edusync.db"
	defaultRequestTimeout = 15
)

type Config struct {
	Env            string        `mapstructure:"app_env"`
	ServerAddress  string        `mapstructure:"server_address"`
	LogLevel       string        `mapstructure:"log_level"`
	ConfigDir      string        `mapstructure:"config_dir"`
	DataPath       string        `mapstructure:"data_path"`
	LocalDriver    string        `mapstructure:"local_driver"`
	APIToken       string        `mapstructure:"api_token"`
	EnableTLS      bool          `mapstructure:"enable_tls"`
	RequestTimeout time.Duration `mapstructure:"request_timeout_seconds"`
	SyncInterval   time.Duration `mapstructure:"sync_interval_seconds"`
	SyncStrategy   sync.Strategy `mapstructure:"sync_strategy"`
}

// MustLoad загружает конфигурацию клиента: .env, переменные окружения и
// (если задан) файл конфигурации. Паникует на невалидных значениях.
func MustLoad(configFile string) *Config {
	cfg, err := Load(configFile)
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

func Load(configFile string) (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("LOCAL_DRIVER", sqlite.DriverCGO)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)
	v.SetDefault("SYNC_INTERVAL_SECONDS", 0)
	v.SetDefault("SYNC_STRATEGY", string(sync.StrategyServer))
	v.SetDefault("ENABLE_TLS", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("чтение %s: %w", configFile, err)
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("создание директории конфигурации: %w", err)
	}

	dataPath := v.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, defaultDataFile)
	}

	strategy, err := sync.ParseStrategy(v.GetString("SYNC_STRATEGY"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:            v.GetString("APP_ENV"),
		ServerAddress:  v.GetString("SERVER_ADDRESS"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		ConfigDir:      configDir,
		DataPath:       dataPath,
		LocalDriver:    v.GetString("LOCAL_DRIVER"),
		APIToken:       v.GetString("API_TOKEN"),
		EnableTLS:      v.GetBool("ENABLE_TLS"),
		RequestTimeout: time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		SyncInterval:   time.Duration(v.GetInt("SYNC_INTERVAL_SECONDS")) * time.Second,
		SyncStrategy:   strategy,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.DataPath == "" {
		return fmt.Errorf("data_path не может быть пустым")
	}
	if c.LocalDriver != sqlite.DriverCGO && c.LocalDriver != sqlite.DriverPure {
		return fmt.Errorf("local_driver должен быть %q или %q", sqlite.DriverCGO, sqlite.DriverPure)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds должен быть больше нуля")
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("sync_interval_seconds не может быть отрицательным")
	}
	return nil
}

// BaseURL адрес сервера документов со схемой
func (c *Config) BaseURL() string {
	if c.EnableTLS {
		return "https://" + c.ServerAddress
	}
	return "http://" + c.ServerAddress
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
