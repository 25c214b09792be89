package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

// Storage backends understood by the providers.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
	BackendObject   = "object"
	BackendMemory   = "memory"
)

// Config aggregates runtime configuration used across the tool.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	QA      QAConfig      `yaml:"qa"`
	Storage StorageConfig `yaml:"storage"`
}

// Options carries command line overrides. Empty fields are ignored.
type Options struct {
	ConfigPath string
	Backend    string
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// QAConfig controls matching and write behavior of the store.
type QAConfig struct {
	SimilarityThreshold float64 `yaml:"similarityThreshold"`
	MaxSuggestions      int     `yaml:"maxSuggestions"`
	DuplicatePolicy     string  `yaml:"duplicatePolicy"`
}

// StorageConfig selects and configures the durable backend.
type StorageConfig struct {
	Backend  string         `yaml:"backend"`
	File     FileConfig     `yaml:"file"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Object   ObjectConfig   `yaml:"object"`
}

// FileConfig points at the flat record file. The extension picks JSON or YAML.
type FileConfig struct {
	Path string `yaml:"path"`
}

// SQLiteConfig points at the embedded database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information and the hash key holding pairs.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
	Key  string `yaml:"key"`
}

// ObjectConfig describes an S3-compatible bucket holding a snapshot object.
type ObjectConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Key       string `yaml:"key"`
}

// Load reads configuration from .env, a YAML file, environment variables and
// finally the command line overrides in opts.
func Load(opts Options) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	path := opts.ConfigPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("QA_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.QA.SimilarityThreshold = parsed
		}
	}
	if v := os.Getenv("QA_MAX_SUGGESTIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.QA.MaxSuggestions = parsed
		}
	}
	if v := os.Getenv("QA_DUPLICATE_POLICY"); v != "" {
		cfg.QA.DuplicatePolicy = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("STORAGE_FILE_PATH"); v != "" {
		cfg.Storage.File.Path = v
	}
	if v := os.Getenv("STORAGE_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLite.Path = v
	}
	if v := os.Getenv("STORAGE_POSTGRES_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("STORAGE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORAGE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORAGE_VALKEY_ADDR"); v != "" {
		cfg.Storage.Valkey.Addr = v
	}
	if v := os.Getenv("STORAGE_VALKEY_KEY"); v != "" {
		cfg.Storage.Valkey.Key = v
	}
	if v := os.Getenv("STORAGE_OBJECT_ENDPOINT"); v != "" {
		cfg.Storage.Object.Endpoint = v
	}
	if v := os.Getenv("STORAGE_OBJECT_ACCESS_KEY"); v != "" {
		cfg.Storage.Object.AccessKey = v
	}
	if v := os.Getenv("STORAGE_OBJECT_SECRET_KEY"); v != "" {
		cfg.Storage.Object.SecretKey = v
	}
	if v := os.Getenv("STORAGE_OBJECT_BUCKET"); v != "" {
		cfg.Storage.Object.Bucket = v
	}
	if v := os.Getenv("STORAGE_OBJECT_REGION"); v != "" {
		cfg.Storage.Object.Region = v
	}
	if v := os.Getenv("STORAGE_OBJECT_KEY"); v != "" {
		cfg.Storage.Object.Key = v
	}
}

func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		QA: QAConfig{
			SimilarityThreshold: 0.6,
			MaxSuggestions:      3,
			DuplicatePolicy:     "update",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			File: FileConfig{
				Path: "qa_pairs.json",
			},
			SQLite: SQLiteConfig{
				Path: "qa_pairs.db",
			},
			Postgres: PostgresConfig{
				MaxConns: 2,
				MinConns: 0,
			},
			Valkey: ValkeyConfig{
				Key: "askbook:pairs",
			},
			Object: ObjectConfig{
				Bucket: "askbook",
				Key:    "qa_pairs.json",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.QA.SimilarityThreshold < 0 || c.QA.SimilarityThreshold > 1 {
		return errors.New("qa.similarityThreshold must be within [0, 1]")
	}
	if c.QA.MaxSuggestions <= 0 {
		return errors.New("qa.maxSuggestions must be positive")
	}
	switch c.QA.DuplicatePolicy {
	case "update", "reject":
	default:
		return fmt.Errorf("qa.duplicatePolicy must be update or reject, got %q", c.QA.DuplicatePolicy)
	}

	s := c.Storage
	switch s.Backend {
	case BackendMemory:
	case BackendFile:
		if strings.TrimSpace(s.File.Path) == "" {
			return errors.New("storage.file.path cannot be empty")
		}
	case BackendSQLite:
		if strings.TrimSpace(s.SQLite.Path) == "" {
			return errors.New("storage.sqlite.path cannot be empty")
		}
	case BackendPostgres:
		if strings.TrimSpace(s.Postgres.DSN) == "" {
			return errors.New("storage.postgres.dsn cannot be empty when the postgres backend is selected")
		}
		if s.Postgres.MaxConns < 0 || s.Postgres.MinConns < 0 {
			return errors.New("storage.postgres connection limits cannot be negative")
		}
	case BackendValkey:
		if strings.TrimSpace(s.Valkey.Addr) == "" {
			return errors.New("storage.valkey.addr cannot be empty when the valkey backend is selected")
		}
		if strings.TrimSpace(s.Valkey.Key) == "" {
			return errors.New("storage.valkey.key cannot be empty")
		}
	case BackendObject:
		if strings.TrimSpace(s.Object.Endpoint) == "" {
			return errors.New("storage.object.endpoint cannot be empty when the object backend is selected")
		}
		if strings.TrimSpace(s.Object.Bucket) == "" || strings.TrimSpace(s.Object.Key) == "" {
			return errors.New("storage.object.bucket and storage.object.key cannot be empty")
		}
	default:
		return fmt.Errorf("storage.backend %q is not supported", s.Backend)
	}
	return nil
}
