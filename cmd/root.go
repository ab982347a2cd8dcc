package cmd

import (
	"errors"
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "WEBSERVER"

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "webserver",
		Short:         "Minimal concurrent web server with a thread pool or task dispatcher",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(NewServeCommand())
	return root
}

// preRunE syncs WEBSERVER_* environment variables into unset flags, then
// fills the flags still unset from the optional config file.
func preRunE(configFile *string) func(cmd *cobra.Command, args []string) error {
	return cobrautil.CommandStack(
		cobrautil.SyncViperPreRunE(envPrefix),
		func(cmd *cobra.Command, _ []string) error {
			if *configFile == "" {
				return nil
			}
			return applyConfigFile(cmd.Flags(), *configFile)
		},
	)
}

func applyConfigFile(flags *pflag.FlagSet, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := flags.Set(f.Name, v.GetString(f.Name)); err != nil {
			errs = append(errs, fmt.Errorf("invalid value for %q in %s: %w", f.Name, path, err))
		}
	})
	return errors.Join(errs...)
}

func newLogger(format, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}
