package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/csv-eval/internal/debug"
)

// AppFs is the filesystem config files, .env files and inputs are read from.
var AppFs = afero.NewOsFs()

const (
	// FileName is the config file name without extension.
	FileName = ".csv-eval"
	// EnvPrefix prefixes environment overrides, e.g. CSV_EVAL_DELIMITER.
	EnvPrefix = "CSV_EVAL"
)

// Config holds the defaults of a run.
type Config struct {
	AutoQuote       bool   `mapstructure:"auto_quote"`
	HasHeader       bool   `mapstructure:"has_header"`
	PrintHeader     bool   `mapstructure:"print_header"`
	Delimiter       string `mapstructure:"delimiter"`
	Debug           bool   `mapstructure:"debug"`
	RequiredVersion string `mapstructure:"required_version"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		AutoQuote:   true,
		HasHeader:   true,
		PrintHeader: true,
		Delimiter:   ",",
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(AppFs)

	def := Default()
	v.SetDefault("auto_quote", def.AutoQuote)
	v.SetDefault("has_header", def.HasHeader)
	v.SetDefault("print_header", def.PrintHeader)
	v.SetDefault("delimiter", def.Delimiter)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("required_version", def.RequiredVersion)
	return v
}

// LoadConfig loads configuration from the config file, .env files and the
// environment. An empty file searches the working directory, the home
// directory and ~/.config/csv-eval.
func LoadConfig(file string) (*Config, error) {
	loadDotEnv()

	v := newViper()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "csv-eval"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	debug.Debug("Loaded config", "file", cfg.File, "delimiter", cfg.Delimiter,
		"has_header", cfg.HasHeader, "auto_quote", cfg.AutoQuote)
	return cfg, nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "csv-eval", FileName+".yaml"), nil
}

// SaveConfig writes cfg to path, creating its directory.
func SaveConfig(cfg *Config, path string) error {
	v := newViper()
	v.Set("auto_quote", cfg.AutoQuote)
	v.Set("has_header", cfg.HasHeader)
	v.Set("print_header", cfg.PrintHeader)
	v.Set("delimiter", cfg.Delimiter)
	v.Set("debug", cfg.Debug)
	v.Set("required_version", cfg.RequiredVersion)

	if err := AppFs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return v.WriteConfigAs(path)
}

// loadDotEnv exports .env and then .env.local; .env.local wins over .env,
// and neither overrides variables already set in the process.
func loadDotEnv() {
	preset := map[string]bool{}
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok {
			preset[k] = true
		}
	}
	for _, name := range []string{".env", ".env.local"} {
		f, err := AppFs.Open(name)
		if err != nil {
			continue
		}
		vars, err := godotenv.Parse(f)
		f.Close()
		if err != nil {
			debug.Warn("Ignoring unreadable env file", "file", name, "error", err)
			continue
		}
		for k, val := range vars {
			if preset[k] {
				continue
			}
			os.Setenv(k, val)
		}
	}
}
