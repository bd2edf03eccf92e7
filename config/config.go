package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is built once at startup by LoadConfig and passed explicitly to
// the components that need it. Nothing mutates it afterwards.
type Config struct {
	Server struct {
		Port            string        `mapstructure:"port"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	Database struct {
		Host           string `mapstructure:"host"`
		Port           string `mapstructure:"port"`
		User           string `mapstructure:"user"`
		Password       string `mapstructure:"password"`
		Name           string `mapstructure:"name"`
		SSLMode        string `mapstructure:"sslmode"`
		MigrationsPath string `mapstructure:"migrations_path"`
	} `mapstructure:"database"`
	Redis struct {
		Host         string        `mapstructure:"host"`
		Port         string        `mapstructure:"port"`
		Password     string        `mapstructure:"password"`
		DB           int           `mapstructure:"db"`
		UserCacheTTL time.Duration `mapstructure:"user_cache_ttl"`
	} `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// JWTConfig holds the key material used to sign and verify access tokens.
type JWTConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type SecurityConfig struct {
	BcryptCost       int `mapstructure:"bcrypt_cost"`
	MaxLoginAttempts int `mapstructure:"max_login_attempts"`
}

// DatabaseURL returns the postgres connection URL used by the migrator.
func (c *Config) DatabaseURL() string {
	db := c.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		db.User, db.Password, db.Host, db.Port, db.Name, db.SSLMode)
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.SecretKey) == "" {
		return errors.New("jwt.secret_key is required")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return errors.New("jwt.access_token_ttl must be positive")
	}
	if c.Security.MaxLoginAttempts <= 0 {
		return errors.New("security.max_login_attempts must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "myappdb")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrations_path", "file://db/migrations")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.user_cache_ttl", 10*time.Minute)

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.access_token_ttl", 15*time.Minute)

	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.max_login_attempts", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadConfig reads config.yml from path, lets environment variables such as
// JWT_SECRET_KEY override any key, and validates the result. A missing
// config file is not an error; defaults and the environment still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
