package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-gptinfo/internal/types"
)

// EnvPrefix is prepended to environment variable overrides, e.g. GPTINFO_SECTOR_SIZE.
const EnvPrefix = "GPTINFO"

// DefaultPartitions is the partition filter used when none is configured.
var DefaultPartitions = []int{1, 13, 15}

// Config holds the settings for a partition report.
type Config struct {
	SectorSize uint64 `mapstructure:"sector_size"`
	Partitions []int  `mapstructure:"partitions"`
	All        bool   `mapstructure:"all"`
	Workers    int    `mapstructure:"workers"`
	Output     string `mapstructure:"output"`
	Color      bool   `mapstructure:"color"`
}

// Validate checks the settings that the parser cannot recover from.
func (c *Config) Validate() error {
	if c.SectorSize < types.GPTHeaderSize || c.SectorSize > types.MaxSectorSize {
		return fmt.Errorf("sector_size %d out of range (%d-%d)", c.SectorSize, types.GPTHeaderSize, types.MaxSectorSize)
	}
	if c.SectorSize&(c.SectorSize-1) != 0 {
		return fmt.Errorf("sector_size %d is not a power of two", c.SectorSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q (valid: text, json, yaml)", c.Output)
	}
	if !c.All && len(c.Partitions) == 0 {
		return errors.New("partitions must list at least one partition number unless all is set")
	}
	for _, n := range c.Partitions {
		if n < 1 {
			return fmt.Errorf("partition numbers are 1-based, got %d", n)
		}
	}
	return nil
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sector_size", types.DefaultSectorSize)
	v.SetDefault("partitions", DefaultPartitions)
	v.SetDefault("all", false)
	v.SetDefault("workers", 1)
	v.SetDefault("output", "text")
	v.SetDefault("color", true)
}

// Load reads configuration from configFile, or from gptinfo-config.yaml in the
// usual search paths when configFile is empty. A missing default config file
// is not an error. Environment variables with the GPTINFO_ prefix override
// file values.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("gptinfo-config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.gptinfo")
		v.AddConfigPath("/etc/gptinfo")
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}
