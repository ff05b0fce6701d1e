// Package config loads sectionfold settings from defaults, an optional YAML
// file, a .env file, SECTIONFOLD_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory.
const FileName = ".sectionfold.yaml"

// EnvPrefix prefixes environment overrides, e.g. SECTIONFOLD_INDENTAWARE.
const EnvPrefix = "SECTIONFOLD"

// Scan holds settings used only by the scan command.
type Scan struct {
	MaxFileSize int64    `mapstructure:"maxFileSize" yaml:"maxFileSize" json:"maxFileSize"`
	Extensions  []string `mapstructure:"extensions" yaml:"extensions" json:"extensions"`
}

// Config is the full set of settings.
type Config struct {
	Enabled        bool     `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	IndentAware    bool     `mapstructure:"indentAware" yaml:"indentAware" json:"indentAware"`
	DecorateHeader bool     `mapstructure:"decorateHeader" yaml:"decorateHeader" json:"decorateHeader"`
	ShowDivider    bool     `mapstructure:"showDivider" yaml:"showDivider" json:"showDivider"`
	Exclude        []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	Fallback       bool     `mapstructure:"fallback" yaml:"fallback" json:"fallback"`
	Scan           Scan     `mapstructure:"scan" yaml:"scan" json:"scan"`
}

// DefaultExtensions lists the file extensions considered by directory scans.
var DefaultExtensions = []string{
	".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh",
	".cs", ".java", ".js", ".ts", ".rs", ".swift",
	".py", ".rb", ".go", ".lua", ".sql", ".sh", ".bash",
	".v", ".sv", ".vhd",
	".yaml", ".yml", ".toml", ".ini",
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Enabled:        true,
		IndentAware:    true,
		DecorateHeader: true,
		ShowDivider:    true,
		Exclude:        []string{"*.m"},
		Fallback:       true,
		Scan: Scan{
			MaxFileSize: 1_000_000,
			Extensions:  append([]string(nil), DefaultExtensions...),
		},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"indent-aware":  "indentAware",
	"max-file-size": "scan.maxFileSize",
	"fallback":      "fallback",
	"exclude":       "exclude",
}

// Load resolves settings. path names an explicit config file; when empty,
// FileName is looked up in the working directory and may be absent. flags
// may be nil. A file that cannot be read or parsed yields the remaining
// layers together with a non-nil error so callers can warn and continue.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := newViper(Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Default(), fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var fileErr error
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			fileErr = fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("decoding config: %w", err)
	}
	return cfg, fileErr
}

// FromSettings overlays client-pushed settings on base. Unknown keys are
// ignored; a value of the wrong type is an error and base is returned.
func FromSettings(base Config, settings map[string]any) (Config, error) {
	v := newViper(base)
	if err := v.MergeConfigMap(settings); err != nil {
		return base, fmt.Errorf("merging settings: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return base, fmt.Errorf("decoding settings: %w", err)
	}
	return cfg, nil
}

func newViper(base Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("enabled", base.Enabled)
	v.SetDefault("indentAware", base.IndentAware)
	v.SetDefault("decorateHeader", base.DecorateHeader)
	v.SetDefault("showDivider", base.ShowDivider)
	v.SetDefault("exclude", base.Exclude)
	v.SetDefault("fallback", base.Fallback)
	v.SetDefault("scan.maxFileSize", base.Scan.MaxFileSize)
	v.SetDefault("scan.extensions", base.Scan.Extensions)
	return v
}
