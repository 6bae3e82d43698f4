package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DatasetEmbedded = "embedded"
	DatasetFile     = "file"
	DatasetPostgres = "postgres"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV"`
	Port         int    `envconfig:"PORT" default:"8000"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS"`

	// APIToken is the shared secret clients send as "Authorization: Bearer <token>".
	APIToken string `envconfig:"API_TOKEN"`

	Dataset struct {
		Source string `envconfig:"DATASET_SOURCE" default:"embedded"`
		Path   string `envconfig:"DATASET_PATH"`
	}

	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIToken) == "" {
		return errors.New("config: API_TOKEN is required")
	}
	if strings.ContainsAny(c.APIToken, " \t\r\n") {
		return errors.New("config: API_TOKEN must not contain whitespace")
	}

	switch c.Dataset.Source {
	case DatasetEmbedded, DatasetPostgres:
	case DatasetFile:
		if c.Dataset.Path == "" {
			return errors.New("config: DATASET_PATH is required when DATASET_SOURCE=file")
		}
	default:
		return fmt.Errorf("config: unknown DATASET_SOURCE %q", c.Dataset.Source)
	}

	return nil
}

// Origins splits ALLOW_ORIGINS on commas, dropping blanks.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
