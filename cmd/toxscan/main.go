package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mibig-toxins/config"
)

type globalFlags struct {
	verbose bool
	debug   bool
}

// rootCommand baut die toxscan-CLI mit allen Unterbefehlen.
func rootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "toxscan",
		Short:         "Findet Toxin-Biosynthesecluster in MIBiG",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Fortschritt ausgeben")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Debug-Ausgaben inkl. HTTP-Wiederholungen")

	rootCmd.AddCommand(
		comptoxCommand(flags),
		namesCommand(flags),
		missingIDsCommand(flags),
		antismashCommand(),
	)
	return rootCmd
}

func (f *globalFlags) level() zapcore.Level {
	switch {
	case f.debug:
		return zapcore.DebugLevel
	case f.verbose:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// newLogger schreibt auf stderr, damit CSV auf stdout sauber bleibt.
func newLogger(f *globalFlags) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(f.level())
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("konfiguration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Fehler:", err)
		os.Exit(1)
	}
}
