package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/decl2ts/errors"
)

var (
	mu           sync.Mutex
	globalConfig *Config
)

// Load reads the configuration for the current working directory. The
// result is cached until Reset.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine working directory")
	}
	cfg, err := LoadFrom(dir)
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

// LoadFrom reads the configuration, searching for the project file from dir upward
func LoadFrom(dir string) (*Config, error) {
	v, path, err := newViper(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if path != "" {
		cfg.ProjectRoot = filepath.Dir(path)
	}
	return cfg, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, without environment overrides
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if err := readProjectFile(v, configPath); err != nil {
		return nil, err
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", configPath)
	}
	cfg.ProjectRoot = filepath.Dir(configPath)
	return cfg, nil
}

// GetViper returns a Viper instance resolved from dir with every source
// applied, for callers that need raw key access
func GetViper(dir string) (*viper.Viper, error) {
	v, _, err := newViper(dir)
	return v, err
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
}

// newViper builds a Viper instance with defaults, the project file and
// environment bindings. It returns the project file used, if any.
func newViper(dir string) (*viper.Viper, string, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	path := FindProjectConfig(dir)
	if path != "" {
		if err := readProjectFile(v, path); err != nil {
			return nil, "", err
		}
	}
	return v, path, nil
}

func readProjectFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "failed to read config file %s", path),
			"check the TOML syntax of "+filepath.Base(path))
	}
	return nil
}

// FindProjectConfig searches for decl2ts.toml by walking up from dir.
// Returns the path to the first file found, or "" if none.
func FindProjectConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}
