package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/notation/config"
)

const version = "0.1.0"

var log = commonlog.GetLogger("notation.cli")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose int
	cfg := config.Default()

	rootCmd := &cobra.Command{
		Use:     "notation",
		Short:   "Read, check and print notation documents",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded

			var logFile *string
			if cfg.LogFile != "" {
				logFile = &cfg.LogFile
			}
			commonlog.Configure(cfg.Verbosity+verbose, logFile)
			if cfg.Path != "" {
				log.Debugf("using configuration %s", cfg.Path)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newParseCmd(cfg))
	rootCmd.AddCommand(newFmtCmd(cfg))
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLSPCmd(cfg))
	rootCmd.AddCommand(newUICmd(cfg))
	rootCmd.AddCommand(newREPLCmd(cfg))

	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFrom(".")
}
