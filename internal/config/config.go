// Package config provides configuration management for the oggdecode CLI
// driver using Viper. The decode pipeline library itself takes no
// configuration surface beyond its Options struct (spec.md §6); this
// package exists only so cmd/oggdecode can load that Options struct from
// a file, environment variables, or flags the way every subsystem in the
// teacher repo is configured.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultMaxBufferedVideoFrames = 20
	defaultOutputPixelFormat      = "YV12"
	defaultLogLevel               = "info"
	defaultLogFormat              = "json"
	defaultMetricsAddr            = ""
)

// Config holds all configuration for the oggdecode CLI driver.
type Config struct {
	Decode  DecodeConfig  `mapstructure:"decode"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// DecodeConfig mirrors decodepipeline.Options for file/env/flag loading.
type DecodeConfig struct {
	Input                  string `mapstructure:"input"`
	MaxBufferedVideoFrames int    `mapstructure:"max_buffered_video_frames"`
	OutputPixelFormat      string `mapstructure:"output_pixel_format"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig configures the optional debug /metrics listener.
type MetricsConfig struct {
	// ListenAddr is empty by default, disabling the listener. The core
	// library never binds a socket on its own (spec.md §6: "No CLI, no
	// environment variables" applies to the core; this listener lives
	// entirely in the driver binary).
	ListenAddr string `mapstructure:"listen_addr"`
}

// Load reads configuration from an optional file, environment variables
// prefixed OGGDECODE_, and already-bound pflag flags, in that ascending
// precedence order, mirroring the teacher's Viper-based Load.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("decode.max_buffered_video_frames", defaultMaxBufferedVideoFrames)
	v.SetDefault("decode.output_pixel_format", defaultOutputPixelFormat)
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.format", defaultLogFormat)
	v.SetDefault("metrics.listen_addr", defaultMetricsAddr)

	v.SetEnvPrefix("OGGDECODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() != "" || v.GetString("config") != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	if cfg.Decode.Input == "" {
		return nil, fmt.Errorf("config: decode.input is required")
	}
	if cfg.Decode.MaxBufferedVideoFrames <= 0 {
		return nil, fmt.Errorf("config: decode.max_buffered_video_frames must be positive")
	}

	return &cfg, nil
}
