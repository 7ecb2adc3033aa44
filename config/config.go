package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Environment string          `mapstructure:"environment"`
	PublicURL   string          `mapstructure:"public_url"`
	Server      ServerConfig    `mapstructure:"server"`
	JWT         JWTConfig       `mapstructure:"jwt"`
	DB          DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Scheduler   SchedulerConfig `mapstructure:"scheduler"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address     string        `mapstructure:"address"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CorsOrigins []string      `mapstructure:"cors_origins"`
}

// JWTConfig holds session token settings
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// DatabaseConfig holds database configuration. DSN wins over the individual
// connection fields when set.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SchedulerConfig controls the periodic reminder digest
type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from an optional config.yaml in path or
// ./config, then lets environment variables override it.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("EVENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return Config{}, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return config, nil
}

// bindLegacyEnv keeps the plain variable names used by existing .env files
// working next to the EVENTS_ prefixed ones.
func bindLegacyEnv(v *viper.Viper) error {
	legacy := map[string]string{
		"jwt.secret":        "JWT_SECRET",
		"database.dsn":      "DATABASE_URL",
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USER",
		"database.password": "DB_PASS",
		"database.name":     "DB_NAME",
		"server.address":    "ADDR",
	}
	for key, env := range legacy {
		prefixed := "EVENTS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("public_url", "http://localhost:8080")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", "24h")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "5m")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.interval", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// PostgresDSN returns the configured DSN or builds one from the connection
// fields.
func (c DatabaseConfig) PostgresDSN() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	if c.Host == "" || c.User == "" || c.Password == "" || c.Name == "" || c.Port == "" {
		return "", fmt.Errorf("database settings missing: set database.dsn or DB_HOST, DB_USER, DB_PASS, DB_NAME and DB_PORT")
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port,
	), nil
}

// IsDevelopment reports whether the service runs in development mode
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
