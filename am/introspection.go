package am

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/decl2ts/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceProject     ConfigSource = "project"     // decl2ts.toml
	SourceEnvironment ConfigSource = "environment" // DECL2TS_* or OUT_DIR
)

// SettingInfo describes one effective setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"` // file path or env var name
}

// Introspection lists the active settings with their origin
type Introspection struct {
	ConfigFile string        `json:"config_file,omitempty"`
	Settings   []SettingInfo `json:"settings"`
}

// Introspect resolves configuration from dir and reports where each setting came from
func Introspect(dir string) (*Introspection, error) {
	v, path, err := newViper(dir)
	if err != nil {
		return nil, err
	}

	file := viper.New()
	if path != "" {
		if err := readProjectFile(file, path); err != nil {
			return nil, errors.Wrap(err, "failed to read config for introspection")
		}
	}

	out := &Introspection{ConfigFile: path}
	for _, key := range v.AllKeys() {
		info := SettingInfo{Key: key, Value: v.Get(key), Source: SourceDefault}
		if env := envFor(key); env != "" {
			info.Source, info.SourcePath = SourceEnvironment, env
		} else if file.IsSet(key) {
			info.Source, info.SourcePath = SourceProject, path
		}
		out.Settings = append(out.Settings, info)
	}

	sort.Slice(out.Settings, func(i, j int) bool { return out.Settings[i].Key < out.Settings[j].Key })
	return out, nil
}

// envFor returns the environment variable that overrides key, if one is set
func envFor(key string) string {
	candidates := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	if key == "output.dir" {
		candidates = append(candidates, OutDirEnv)
	}
	for _, name := range candidates {
		if os.Getenv(name) != "" {
			return name
		}
	}
	return ""
}
