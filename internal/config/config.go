package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"shop-service/internal/domain"
)

type Database struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

type Redis struct {
	Host     string        `yaml:"host"`
	Port     string        `yaml:"port"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type Logger struct {
	Mode string `yaml:"mode"`
	File string `yaml:"file"`
}

type Config struct {
	Port         string   `yaml:"port"`
	APIUsername  string   `yaml:"api_username"`
	APIPassword  string   `yaml:"api_password"`
	UpdateMode   string   `yaml:"update_mode"`
	DeletePolicy string   `yaml:"delete_policy"`
	RabbitMQURL  string   `yaml:"rabbitmq_url"`
	Exchange     string   `yaml:"exchange"`
	Database     Database `yaml:"database"`
	Redis        Redis    `yaml:"redis"`
	Logger       Logger   `yaml:"logger"`
}

func defaults() *Config {
	return &Config{
		Port:     "8000",
		Exchange: "shop.exchange",
		Database: Database{
			Driver:          "postgres",
			Host:            "localhost",
			Name:            "ecommerce",
			MaxOpenConns:    100,
			MaxIdleConns:    20,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: time.Minute,
			AutoMigrate:     true,
		},
		Redis: Redis{
			Port:     "6379",
			CacheTTL: time.Minute,
		},
		Logger: Logger{Mode: "development"},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	str(&c.Port, "PORT")
	str(&c.APIUsername, "API_USERNAME")
	str(&c.APIPassword, "API_PASSWORD")
	str(&c.UpdateMode, "UPDATE_MODE")
	str(&c.DeletePolicy, "DELETE_POLICY")
	str(&c.RabbitMQURL, "RABBITMQ_URL")
	str(&c.Exchange, "RABBITMQ_EXCHANGE")

	str(&c.Database.Driver, "DB_DRIVER")
	switch c.Database.Driver {
	case "mysql":
		str(&c.Database.User, "MYSQL_USER")
		str(&c.Database.Password, "MYSQL_PASSWORD")
		str(&c.Database.Host, "MYSQL_HOST")
		str(&c.Database.Port, "MYSQL_PORT")
		str(&c.Database.Name, "MYSQL_DATABASE")
	default:
		str(&c.Database.User, "POSTGRES_USER")
		str(&c.Database.Password, "POSTGRES_PASSWORD")
		str(&c.Database.Host, "POSTGRES_HOST")
		str(&c.Database.Port, "POSTGRES_PORT")
		str(&c.Database.Name, "POSTGRES_DB")
	}
	if v, ok := os.LookupEnv("DB_MAX_OPEN_CONNS"); ok {
		c.Database.MaxOpenConns = cast.ToInt(v)
	}
	if v, ok := os.LookupEnv("DB_MAX_IDLE_CONNS"); ok {
		c.Database.MaxIdleConns = cast.ToInt(v)
	}
	if v, ok := os.LookupEnv("DB_AUTO_MIGRATE"); ok {
		c.Database.AutoMigrate = cast.ToBool(v)
	}

	str(&c.Redis.Host, "REDIS_HOST")
	str(&c.Redis.Port, "REDIS_PORT")
	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		c.Redis.DB = cast.ToInt(v)
	}
	if v, ok := os.LookupEnv("CACHE_TTL"); ok {
		c.Redis.CacheTTL = cast.ToDuration(v)
	}

	str(&c.Logger.Mode, "LOG_MODE")
	str(&c.Logger.File, "LOG_FILE")
}

func str(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	if c.APIUsername == "" || c.APIPassword == "" {
		return fmt.Errorf("config: API_USERNAME and API_PASSWORD are required")
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "memory":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if _, err := domain.ParseUpdateMode(c.UpdateMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := domain.ParseDeletePolicy(c.DeletePolicy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Modes returns the parsed update mode and delete policy. Validate must
// have succeeded.
func (c *Config) Modes() (domain.UpdateMode, domain.DeletePolicy) {
	m, _ := domain.ParseUpdateMode(c.UpdateMode)
	p, _ := domain.ParseDeletePolicy(c.DeletePolicy)
	return m, p
}
