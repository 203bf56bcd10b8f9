package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	SchemasDir         string `toml:"schemas_dir"`
	LogLevel           string `toml:"log_level"`
	LogFile            string `toml:"log_file"`
	BindAddr           string `toml:"bind_addr"`
	NullThreshold      int    `toml:"null_threshold"`
	ArrayNullThreshold int    `toml:"array_null_threshold"`
	NaNPercent         int    `toml:"nan_percent"`
	BatchSize          int    `toml:"batch_size"`
	DefaultFormat      string `toml:"default_format"`
	MaxSampleRows      int    `toml:"max_sample_rows"`
}

func defaults() *Config {
	return &Config{
		SchemasDir:         "./schemas",
		LogLevel:           "info",
		BindAddr:           ":8080",
		NullThreshold:      75,
		ArrayNullThreshold: 75,
		NaNPercent:         50,
		BatchSize:          1000,
		DefaultFormat:      "table",
		MaxSampleRows:      10000,
	}
}

// Load layers defaults, the TOML file named by COLGEN_CONFIG, and the
// environment. A .env file in the working directory fills variables that are
// not already set.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := defaults()
	if path := os.Getenv("COLGEN_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.SchemasDir = getEnv("COLGEN_SCHEMAS_DIR", cfg.SchemasDir)
	cfg.LogLevel = getEnv("COLGEN_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("COLGEN_LOG_FILE", cfg.LogFile)
	cfg.BindAddr = getEnv("COLGEN_BIND_ADDR", cfg.BindAddr)
	cfg.DefaultFormat = getEnv("COLGEN_DEFAULT_FORMAT", cfg.DefaultFormat)

	ints := []struct {
		key string
		dst *int
	}{
		{"COLGEN_NULL_THRESHOLD", &cfg.NullThreshold},
		{"COLGEN_ARRAY_NULL_THRESHOLD", &cfg.ArrayNullThreshold},
		{"COLGEN_NAN_PERCENT", &cfg.NaNPercent},
		{"COLGEN_BATCH_SIZE", &cfg.BatchSize},
		{"COLGEN_MAX_SAMPLE_ROWS", &cfg.MaxSampleRows},
	}
	for _, it := range ints {
		v, err := getEnvInt(it.key, *it.dst)
		if err != nil {
			return nil, err
		}
		*it.dst = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	for name, p := range map[string]int{
		"null_threshold":       c.NullThreshold,
		"array_null_threshold": c.ArrayNullThreshold,
		"nan_percent":          c.NaNPercent,
	} {
		if p < 0 || p > 100 {
			return fmt.Errorf("config %s must be within [0,100], got %d", name, p)
		}
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config batch_size must be > 0, got %d", c.BatchSize)
	}
	if c.MaxSampleRows <= 0 {
		return fmt.Errorf("config max_sample_rows must be > 0, got %d", c.MaxSampleRows)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// loadDotEnv fills unset variables from path. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
