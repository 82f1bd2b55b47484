package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	ReportsDir string `env:"REPORTS_DIR" envDefault:"reports"`

	Telegram Telegram `envPrefix:"TELEGRAM_"`
	Database Database `envPrefix:"DB_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Admin    Admin    `envPrefix:"ADMIN_"`
}

// Telegram is optional: without a token the bot is not started.
type Telegram struct {
	Token string `env:"TOKEN"`
	Debug bool   `env:"DEBUG" envDefault:"false"`
}

type Database struct {
	Host            string        `env:"HOST,required"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER,required"`
	Password        string        `env:"PASSWORD,required"`
	Name            string        `env:"NAME,required"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

// DSN returns the lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type Redis struct {
	Addr     string        `env:"ADDR,required"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"24h"`
}

type HTTP struct {
	Addr           string        `env:"ADDR" envDefault:":8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	// AdminToken guards the pricing and order endpoints. Empty disables them.
	AdminToken string `env:"ADMIN_TOKEN"`
}

type Admin struct {
	IDs       []int64  `env:"IDS" envSeparator:","`
	Phones    []string `env:"PHONES" envSeparator:","`
	ChannelID int64    `env:"CHANNEL_ID"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. Variables already set in
// the environment win over the file.
func LoadFile(path string) (*Config, error) {
	const operation = "config.Load"

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: read %s: %w", operation, path, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", operation, err)
	}

	if len(cfg.Admin.IDs) == 0 && len(cfg.Admin.Phones) == 0 {
		return nil, fmt.Errorf("%s: at least one admin ID or phone is required", operation)
	}

	return &cfg, nil
}
