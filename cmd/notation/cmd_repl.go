package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dhamidi/notation/config"
)

func newREPLCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse and print values interactively",
		Long: `Start an interactive session. Each input is parsed and printed back.
Top-level members are remembered and a bound name prints its value.

When stdin is not a terminal, input is read one entry per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(cfg.BindOptions(), cfg.FormatOptions())
			if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
				return runREPL(s)
			}
			log.Debugf("stdin is not a terminal, reading lines")
			return runLines(cmd.InOrStdin(), cmd.OutOrStdout(), s)
		},
	}
}
