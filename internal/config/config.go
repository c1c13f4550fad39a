// Package config loads scenectl settings from defaults, an optional YAML
// file and SCENEGRAPH_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zeusync/scenegraph/internal/core/codec"
	"github.com/zeusync/scenegraph/internal/core/observability/log"
	"github.com/zeusync/scenegraph/internal/tracing"
)

// EnvPrefix is prepended to every environment key, e.g.
// SCENEGRAPH_CODEC_FORMAT.
const EnvPrefix = "SCENEGRAPH"

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Log     log.Config     `mapstructure:"log"`
	Codec   CodecConfig    `mapstructure:"codec"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

type CodecConfig struct {
	// Format is the output format: json, json-indent or yaml.
	Format string `mapstructure:"format"`
	// Indent upgrades json output to json-indent.
	Indent bool `mapstructure:"indent"`
	// UnknownTypes is fail or skip.
	UnknownTypes string `mapstructure:"unknown_types"`
}

func Defaults() Config {
	return Config{
		Log: log.Config{
			Level:    "info",
			Encoding: "console",
		},
		Codec: CodecConfig{
			Format:       "json",
			UnknownTypes: "fail",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// New returns a viper instance carrying the defaults and environment
// binding. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("codec.format", d.Codec.Format)
	v.SetDefault("codec.indent", d.Codec.Indent)
	v.SetDefault("codec.unknown_types", d.Codec.UnknownTypes)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, when set, into v and returns the validated result.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, ok := log.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.encoding %q", ErrInvalid, c.Log.Encoding)
	}
	if _, err := codec.FormatByName(c.Codec.Format); err != nil {
		return fmt.Errorf("%w: codec.format %q", ErrInvalid, c.Codec.Format)
	}
	if _, err := codec.ParseUnknownTypePolicy(c.Codec.UnknownTypes); err != nil {
		return fmt.Errorf("%w: codec.unknown_types %q", ErrInvalid, c.Codec.UnknownTypes)
	}
	switch c.Tracing.Exporter {
	case tracing.ExporterNone, tracing.ExporterStdout, "":
	default:
		return fmt.Errorf("%w: tracing.exporter %q", ErrInvalid, c.Tracing.Exporter)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("%w: tracing.sample_rate %v", ErrInvalid, c.Tracing.SampleRate)
	}
	return nil
}

// OutputFormat resolves the configured format, applying Indent.
func (c CodecConfig) OutputFormat() (codec.Format, error) {
	f, err := codec.FormatByName(c.Format)
	if err != nil {
		return nil, err
	}
	if c.Indent && f == codec.JSON {
		return codec.JSONIndent, nil
	}
	return f, nil
}

func (c CodecConfig) Policy() (codec.UnknownTypePolicy, error) {
	return codec.ParseUnknownTypePolicy(c.UnknownTypes)
}
