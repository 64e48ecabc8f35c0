package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

type Config struct {
	Environment   string        `envconfig:"ENV" default:"development"`
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`
	StorageDriver string        `envconfig:"STORAGE_DRIVER" default:"memory"`
	StoreTimeout  time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	NotifyTimeout time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"2s"`

	DBDSN    string `envconfig:"DB_DSN"`
	DBSchema string `envconfig:"DB_SCHEMA"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"slotboard"`

	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"slotboard"`

	// RabbitMQ для публикации activity.* событий, пусто = выключено
	RabbitURL        string `envconfig:"RABBIT_URL"`
	ActivityExchange string `envconfig:"ACTIVITY_EXCHANGE" default:"slotboard.activity"`

	SentryDSN string `envconfig:"SENTRY_DSN"`

	TelegramToken  string        `envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID int64         `envconfig:"TELEGRAM_CHAT_ID"`
	DigestInterval time.Duration `envconfig:"DIGEST_INTERVAL" default:"24h"`

	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
	Timezone    string `envconfig:"TIMEZONE" default:"Local"`
	SeedMembers bool   `envconfig:"SEED_MEMBERS" default:"true"`
}

// Load читает .env, если он есть, затем переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv заполняет конфиг из окружения и проверяет его
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if cfg.DBSchema == "" {
		cfg.DBSchema = cfg.defaultSchema()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные поля выбранного хранилища и интеграций
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverRedis:
	case DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for %s storage", DriverPostgres)
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for %s storage", DriverMongo)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	if c.NotifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be positive")
	}
	if c.DigestInterval < 0 {
		return fmt.Errorf("DIGEST_INTERVAL must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// IsProduction true для ENV=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location часовой пояс, в котором считается "сегодня"
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Origins список разрешённых CORS источников
func (c *Config) Origins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

// defaultSchema отдельная схема на окружение
func (c *Config) defaultSchema() string {
	if c.IsProduction() {
		return "production"
	}
	return "development"
}
