package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Splitting
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	TimeCol     string `mapstructure:"time_col" yaml:"time_col"`
	AltTimeCol  string `mapstructure:"alt_time_col" yaml:"alt_time_col"`
	DeviceCol   string `mapstructure:"device_col" yaml:"device_col"`
	FileID      string `mapstructure:"file_id" yaml:"file_id"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`

	// RML generation
	RMLOutputDir string `mapstructure:"rml_output_dir" yaml:"rml_output_dir"`
	BaseURI      string `mapstructure:"base_uri" yaml:"base_uri"`
	WindowID     string `mapstructure:"window_id" yaml:"window_id"`
	TemplatePath string `mapstructure:"template_path" yaml:"template_path"`

	// GraphDB
	GraphDBURL        string `mapstructure:"graphdb_url" yaml:"graphdb_url"`
	GraphDBRepository string `mapstructure:"graphdb_repository" yaml:"graphdb_repository"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

// Keys lists every configuration key, in display order.
var Keys = []string{
	"output_dir", "time_col", "alt_time_col", "device_col", "file_id", "metrics_file",
	"rml_output_dir", "base_uri", "window_id", "template_path",
	"graphdb_url", "graphdb_repository",
	"http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", filepath.Join("Input_CSV_Datasets", "Input_CSV_Datasets_by_Devices", "CSV_PerDevices"))
	v.SetDefault("time_col", "Time")
	v.SetDefault("alt_time_col", "time")
	v.SetDefault("device_col", "")
	v.SetDefault("file_id", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("rml_output_dir", "Output")
	v.SetDefault("base_uri", "https://w3id.org/omega-x/ontology/KG/NarbonneDataSets")
	v.SetDefault("window_id", "")
	v.SetDefault("template_path", "")
	v.SetDefault("graphdb_url", "http://localhost:7200")
	v.SetDefault("graphdb_repository", "NarbonneKG")
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
}

// DefaultPath returns ~/.kgprep/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".kgprep", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.kgprep/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("KGPREP")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; a missing file is fine, a malformed one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Get returns the value of key as a string, or false for unknown keys.
func (c *Global) Get(key string) (string, bool) {
	switch key {
	case "output_dir":
		return c.OutputDir, true
	case "time_col":
		return c.TimeCol, true
	case "alt_time_col":
		return c.AltTimeCol, true
	case "device_col":
		return c.DeviceCol, true
	case "file_id":
		return c.FileID, true
	case "metrics_file":
		return c.MetricsFile, true
	case "rml_output_dir":
		return c.RMLOutputDir, true
	case "base_uri":
		return c.BaseURI, true
	case "window_id":
		return c.WindowID, true
	case "template_path":
		return c.TemplatePath, true
	case "graphdb_url":
		return c.GraphDBURL, true
	case "graphdb_repository":
		return c.GraphDBRepository, true
	case "http_timeout_sec":
		return fmt.Sprint(c.HTTPTimeoutSec), true
	case "retry_max_attempts":
		return fmt.Sprint(c.RetryMaxAttempts), true
	case "retry_base_delay_ms":
		return fmt.Sprint(c.RetryBaseDelayMs), true
	case "retry_max_delay_ms":
		return fmt.Sprint(c.RetryMaxDelayMs), true
	}
	return "", false
}

// Set assigns key from its string form.
func (c *Global) Set(key, value string) error {
	switch key {
	case "output_dir":
		c.OutputDir = value
	case "time_col":
		c.TimeCol = value
	case "alt_time_col":
		c.AltTimeCol = value
	case "device_col":
		c.DeviceCol = value
	case "file_id":
		c.FileID = value
	case "metrics_file":
		c.MetricsFile = value
	case "rml_output_dir":
		c.RMLOutputDir = value
	case "base_uri":
		c.BaseURI = value
	case "window_id":
		c.WindowID = value
	case "template_path":
		c.TemplatePath = value
	case "graphdb_url":
		c.GraphDBURL = value
	case "graphdb_repository":
		c.GraphDBRepository = value
	case "http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
		}
		switch key {
		case "http_timeout_sec":
			c.HTTPTimeoutSec = n
		case "retry_max_attempts":
			c.RetryMaxAttempts = n
		case "retry_base_delay_ms":
			c.RetryBaseDelayMs = n
		default:
			c.RetryMaxDelayMs = n
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
