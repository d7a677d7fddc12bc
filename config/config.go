package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Input    InputConfig
	Output   OutputConfig
	Matching MatchingConfig
	Profile  ProfileConfig
}

// InputConfig holds the catalog and listing feed locations
type InputConfig struct {
	ProductsPath string `mapstructure:"products_path"`
	ListingsPath string `mapstructure:"listings_path"`
}

// OutputConfig holds the result destination
type OutputConfig struct {
	ResultsPath string `mapstructure:"results_path"`
}

// MatchingConfig holds matching engine configuration
type MatchingConfig struct {
	ChunkSize          int  `mapstructure:"chunk_size"`
	Workers            int  `mapstructure:"workers"` // 0 means one per CPU
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// ProfileConfig holds optional profiling output paths
type ProfileConfig struct {
	CPUPath string `mapstructure:"cpu_path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/listinglens/")

	// Environment variable settings
	v.SetEnvPrefix("LISTINGLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Input defaults
	v.SetDefault("input.products_path", "products.txt")
	v.SetDefault("input.listings_path", "listings.txt")

	// Output defaults
	v.SetDefault("output.results_path", "results.txt")

	// Matching defaults
	v.SetDefault("matching.chunk_size", 2048)
	v.SetDefault("matching.workers", 0)
	v.SetDefault("matching.enable_debug_logging", false)

	// Profiling defaults
	v.SetDefault("profile.cpu_path", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Input.ProductsPath == "" {
		return fmt.Errorf("products path is required (set LISTINGLENS_INPUT_PRODUCTS_PATH)")
	}

	if config.Input.ListingsPath == "" {
		return fmt.Errorf("listings path is required (set LISTINGLENS_INPUT_LISTINGS_PATH)")
	}

	if config.Output.ResultsPath == "" {
		return fmt.Errorf("results path is required (set LISTINGLENS_OUTPUT_RESULTS_PATH)")
	}

	if config.Matching.ChunkSize <= 0 {
		return fmt.Errorf("matching chunk size must be positive, got: %d", config.Matching.ChunkSize)
	}

	if config.Matching.Workers < 0 {
		return fmt.Errorf("matching workers must not be negative, got: %d", config.Matching.Workers)
	}

	return nil
}
