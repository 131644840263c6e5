package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Data source kinds.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string  `mapstructure:"SERVER_ADDRESS"`
	DataSource    string  `mapstructure:"DATA_SOURCE"`
	DataFile      string  `mapstructure:"DATA_FILE"`
	DBSource      string  `mapstructure:"DB_SOURCE"`
	LogLevel      string  `mapstructure:"LOG_LEVEL"`
	LogFormat     string  `mapstructure:"LOG_FORMAT"`
	City          string  `mapstructure:"CITY"`
	ViewPadding   float64 `mapstructure:"VIEW_PADDING"`
	SearchLimit   int     `mapstructure:"SEARCH_LIMIT"`
}

// LoadConfig reads configuration from app.env in path, then from the environment.
// A .env file in the working directory, when present, is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DATA_SOURCE", SourceFile)
	v.SetDefault("DATA_FILE", "coordinates.json")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CITY", "RM")
	v.SetDefault("VIEW_PADDING", 0.002)
	v.SetDefault("SEARCH_LIMIT", 20)

	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	config.DataSource = strings.ToLower(config.DataSource)
	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks the values that have no usable default.
func (c Config) Validate() error {
	switch c.DataSource {
	case SourceFile:
		if c.DataFile == "" {
			return fmt.Errorf("config: DATA_FILE is required for the file source")
		}
	case SourcePostgres:
		if c.DBSource == "" {
			return fmt.Errorf("config: DB_SOURCE is required for the postgres source")
		}
	default:
		return fmt.Errorf("config: unknown DATA_SOURCE %q", c.DataSource)
	}
	if _, ok := LookupCity(c.City); !ok {
		return fmt.Errorf("config: unknown CITY %q", c.City)
	}
	return nil
}
