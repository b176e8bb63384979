// Package cmd implements the CLI commands for oggdecode.
package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fathomsound/oggdecode/internal/config"
	"github.com/fathomsound/oggdecode/internal/observability"
	"github.com/fathomsound/oggdecode/internal/version"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:     "oggdecode",
	Short:   "Decode Ogg/Theora/Vorbis media into timestamped frame and sample queues",
	Version: version.String(),
	Long: `oggdecode drives a real-time-oriented Ogg container demuxer paired with
Theora video and Vorbis audio decoders, producing queues of timestamped
output a playback client pulls from at its own pace.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")
	rootCmd.PersistentFlags().String("metrics-listen-addr", "", "address to serve Prometheus metrics on (empty disables)")

	mustBindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	mustBindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	mustBindPFlag("metrics.listen_addr", rootCmd.PersistentFlags().Lookup("metrics-listen-addr"))
}

// mustBindPFlag binds a viper key to a cobra flag, panicking only on a
// programmer error (an unknown flag name), never on user input.
func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("oggdecode: binding flag %q to key %q: %v", flag.Name, key, err))
	}
}

// loadConfig resolves configuration for subcommands that decode a file,
// binding the positional input path under decode.input before calling
// config.Load.
func loadConfig(input string) (*config.Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.Set("decode.input", input)

	return config.Load(v)
}

func newLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(cfg.Logging)
}
