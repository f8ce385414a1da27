package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StoragePostGIS = "postgis"
	StorageORM     = "orm"
)

type Config struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	Storage        string `yaml:"storage" env:"STORAGE_BACKEND" env-default:"postgis"`
	HTTPServer     `yaml:"http_server"`
	PostgresServer `yaml:"postgres_server"`
	Loader         `yaml:"loader"`
}

type HTTPServer struct {
	Address                 string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8000"`
	ReadTimeout             time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout            time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout             time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	CORSOrigins             []string      `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-default:"*"`
	RateLimit               int           `yaml:"rate_limit" env:"HTTP_RATE_LIMIT" env-default:"100"`
	RateWindow              time.Duration `yaml:"rate_window" env:"HTTP_RATE_WINDOW" env-default:"1m"`
}

// PostgresServer has no defaults for the connection parameters; they depend
// on the storage backend and are filled in by applyDefaults.
type PostgresServer struct {
	Host         string        `yaml:"host" env:"DB_HOST"`
	Port         int           `yaml:"port" env:"DB_PORT"`
	Username     string        `yaml:"username" env:"DB_USER"`
	DBname       string        `yaml:"db_name" env:"DB_NAME"`
	SSLmode      string        `yaml:"ssl_mode" env:"DB_SSLMODE" env-default:"disable"`
	Migrate      bool          `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"2"`
	MaxLifetime  time.Duration `yaml:"max_lifetime" env:"DB_MAX_LIFETIME" env-default:"30m"`
	DriverName   string        `yaml:"driver_name" env-default:"postgres"`
}

type Loader struct {
	Path        string `yaml:"path" env:"LOADER_PATH" env-default:"karnataka.geojson"`
	DefaultName string `yaml:"default_name" env:"LOADER_DEFAULT_NAME" env-default:"Karnataka Region"`
}

type Secret struct {
	PostgresPassword string `env:"DB_PASSWORD"`
}

var ErrMissingParameter = errors.New("missing database parameter")

// MustLoad reads the flags, the optional .env and YAML files and the
// environment. It exits the process on any error.
func MustLoad() (*Config, *Secret) {
	configPath, envPath := fetchPaths()

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			log.Fatalf("Env file %s does not exist", envPath)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, scr, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg, scr
}

// Load builds the configuration from an optional YAML file and the process
// environment, the latter taking precedence.
func Load(configPath string) (*Config, *Secret, error) {
	const op = "config.Load"

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%s: config file %s does not exist", op, configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	scr := &Secret{}
	if err := cleanenv.ReadEnv(scr); err != nil {
		return nil, nil, fmt.Errorf("%s: failed to get secret env: %w", op, err)
	}

	cfg.Storage = strings.ToLower(cfg.Storage)
	switch cfg.Storage {
	case StoragePostGIS, StorageORM:
	default:
		return nil, nil, fmt.Errorf("%s: unknown storage backend %q", op, cfg.Storage)
	}

	cfg.applyDefaults()

	if err := cfg.validate(scr); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, scr, nil
}

// applyDefaults fills connection parameters for the orm backend only; the
// postgis backend requires all of them to be set explicitly.
func (c *Config) applyDefaults() {
	if c.Storage != StorageORM {
		return
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.DBname == "" {
		c.DBname = "postgis_35"
	}
	if c.Username == "" {
		c.Username = "postgres"
	}
}

func (c *Config) validate(scr *Secret) error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.Port == 0 {
		missing = append(missing, "DB_PORT")
	}
	if c.DBname == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.Username == "" {
		missing = append(missing, "DB_USER")
	}
	if scr.PostgresPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(missing, ", "))
	}
	return nil
}

// DSN returns a libpq keyword/value connection string accepted by both
// lib/pq and the gorm postgres driver.
func (p PostgresServer) DSN(password string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.Username, password, p.DBname, p.SSLmode,
	)
}

func fetchPaths() (string, string) {
	var configPath, envPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&envPath, "env", "", "path to env file")
	flag.Parse()

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	return configPath, envPath
}
