package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings for the HTTP API and its dependencies.
type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	DB     DBConfig     `yaml:"db"`
	Auth   AuthConfig   `yaml:"auth"`
	Upload UploadConfig `yaml:"upload"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type DBConfig struct {
	DSN          string        `yaml:"dsn"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	MaxIdleTime  time.Duration `yaml:"max_idle_time"`
}

type AuthConfig struct {
	TokenTTL      time.Duration `yaml:"token_ttl"`
	Secret        string        `yaml:"secret"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
}

type UploadConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

// LoadFromFile loads settings from a YAML file, then applies defaults and
// environment overrides. A missing file is not an error.
func LoadFromFile(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg = applyDefaults(cfg)
	cfg = applyEnv(cfg)
	return cfg, nil
}

func applyDefaults(cfg Config) Config {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.DB.MaxOpenConns == 0 {
		cfg.DB.MaxOpenConns = 5
	}
	if cfg.DB.MaxIdleConns == 0 {
		cfg.DB.MaxIdleConns = 2
	}
	if cfg.DB.MaxIdleTime == 0 {
		cfg.DB.MaxIdleTime = 15 * time.Minute
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 12 * time.Hour
	}
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = "dev-secret-change-me"
	}
	if cfg.Auth.AdminEmail == "" {
		cfg.Auth.AdminEmail = "admin@example.com"
	}
	if cfg.Auth.AdminPassword == "" {
		cfg.Auth.AdminPassword = "admin123"
	}
	if cfg.Upload.MaxSizeMB == 0 {
		cfg.Upload.MaxSizeMB = 32
	}
	return cfg
}

func applyEnv(cfg Config) Config {
	if val := os.Getenv("HTTP_ADDR"); val != "" {
		cfg.HTTP.Addr = val
	}
	if val := os.Getenv("PORT"); val != "" {
		cfg.HTTP.Addr = ":" + val
	}
	if val := os.Getenv("DB_DSN"); val != "" {
		cfg.DB.DSN = val
	}
	if val := os.Getenv("AUTH_SECRET"); val != "" {
		cfg.Auth.Secret = val
	}
	if val := os.Getenv("AUTH_TOKEN_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Auth.TokenTTL = d
		}
	}
	if val := os.Getenv("ADMIN_EMAIL"); val != "" {
		cfg.Auth.AdminEmail = val
	}
	if val := os.Getenv("ADMIN_PASSWORD"); val != "" {
		cfg.Auth.AdminPassword = val
	}
	if val := os.Getenv("UPLOAD_MAX_SIZE_MB"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.Upload.MaxSizeMB = n
		}
	}
	return cfg
}
