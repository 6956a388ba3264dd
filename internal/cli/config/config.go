package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conduit-lang/schemagen/internal/manifest"
	"github.com/conduit-lang/schemagen/internal/pipeline"
	"github.com/conduit-lang/schemagen/internal/typegraph"
	strutil "github.com/conduit-lang/schemagen/internal/util/strings"
)

// ConfigName is the base name of the configuration file.
const ConfigName = "schemagen"

// EnvPrefix prefixes environment overrides, e.g. SCHEMAGEN_ROOT_NAMESPACE.
const EnvPrefix = "SCHEMAGEN"

// Config represents the schemagen configuration
type Config struct {
	RootNamespace string              `mapstructure:"root_namespace"`
	Separator     string              `mapstructure:"separator"`
	ClassPrefix   string              `mapstructure:"class_prefix"`
	Concurrency   int                 `mapstructure:"concurrency"`
	LogLevel      string              `mapstructure:"log_level"`
	Output        OutputConfig        `mapstructure:"output"`
	Versions      []pipeline.Version  `mapstructure:"versions"`
	Kinds         typegraph.KindRules `mapstructure:"kinds"`

	// File is the configuration file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// OutputConfig represents manifest output configuration
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// Load reads schemagen.yaml (or the file at path when set), applies defaults
// and SCHEMAGEN_* environment overrides, and validates the result. A missing
// configuration file is not an error unless path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("root_namespace", "Schemagen")
	v.SetDefault("separator", typegraph.DefaultSeparator)
	v.SetDefault("class_prefix", "")
	v.SetDefault("concurrency", pipeline.DefaultConcurrency)
	v.SetDefault("log_level", "info")
	v.SetDefault("output.format", string(manifest.FormatJSON))
	v.SetDefault("output.path", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.File = v.ConfigFileUsed()
	config.resolvePaths()

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// resolvePaths makes relative schema directories relative to the config file.
func (c *Config) resolvePaths() {
	if c.File == "" {
		return
	}
	base, err := filepath.Abs(filepath.Dir(c.File))
	if err != nil {
		base = filepath.Dir(c.File)
	}
	for i := range c.Versions {
		dir := c.Versions[i].SchemaDir
		if dir != "" && !filepath.IsAbs(dir) {
			c.Versions[i].SchemaDir = filepath.Join(base, dir)
		}
	}
}

// Format returns the parsed output format.
func (c *Config) Format() manifest.Format {
	f, err := manifest.ParseFormat(c.Output.Format)
	if err != nil {
		return manifest.FormatJSON
	}
	return f
}

// SelectVersions returns the configured versions named in names, in the given
// order, or every configured version when names is empty.
func (c *Config) SelectVersions(names []string) ([]pipeline.Version, error) {
	if len(names) == 0 {
		out := make([]pipeline.Version, len(c.Versions))
		copy(out, c.Versions)
		return out, nil
	}

	out := make([]pipeline.Version, 0, len(names))
	for _, name := range names {
		v, ok := c.Version(name)
		if !ok {
			return nil, fmt.Errorf("version %q is not configured", name)
		}
		out = append(out, v)
	}
	return out, nil
}

// Version returns the configured version with the given name, case-insensitively.
func (c *Config) Version(name string) (pipeline.Version, bool) {
	for _, v := range c.Versions {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return pipeline.Version{}, false
}

// VersionNames returns the names of all configured versions.
func (c *Config) VersionNames() []string {
	names := make([]string, 0, len(c.Versions))
	for _, v := range c.Versions {
		names = append(names, v.Name)
	}
	return names
}

// PipelineOptions translates the configuration into pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		RootNamespace: c.RootNamespace,
		Separator:     c.Separator,
		ClassPrefix:   c.ClassPrefix,
		Rules:         c.Kinds,
		Concurrency:   c.Concurrency,
	}
}

// InProject checks if the current directory holds a schemagen configuration
func InProject() bool {
	for _, ext := range []string{".yaml", ".yml"} {
		if _, err := os.Stat(ConfigName + ext); err == nil {
			return true
		}
	}
	return false
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	if !strutil.IsNamespace(cfg.RootNamespace, cfg.Separator) {
		return fmt.Errorf("root_namespace must be a %q separated list of identifiers, got: %q", cfg.Separator, cfg.RootNamespace)
	}
	if cfg.ClassPrefix != "" && !strutil.IsIdentifier(cfg.ClassPrefix) {
		return fmt.Errorf("class_prefix must be an identifier, got: %q", cfg.ClassPrefix)
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got: %d", cfg.Concurrency)
	}
	if _, err := manifest.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	seen := make(map[string]bool, len(cfg.Versions))
	for i := range cfg.Versions {
		v := &cfg.Versions[i]
		if v.Name == "" {
			return fmt.Errorf("versions[%d]: name is required", i)
		}
		if seen[strings.ToLower(v.Name)] {
			return fmt.Errorf("versions[%d]: version %q is listed more than once", i, v.Name)
		}
		seen[strings.ToLower(v.Name)] = true

		if v.Namespace == "" {
			v.Namespace = v.Name
		}
		if !strutil.IsIdentifier(v.Namespace) {
			return fmt.Errorf("versions[%d]: namespace must be an identifier, got: %q", i, v.Namespace)
		}
		if v.SchemaDir == "" {
			return fmt.Errorf("versions[%d]: schema_dir is required for version %q", i, v.Name)
		}
	}
	return nil
}
