package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/notation/grammar"
)

func newGrammarCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "grammar [--check] [file...]",
		Short: "Print the EBNF grammar of the data notation",
		Long: `Print the EBNF grammar of the data notation.

With --check, verify the grammar instead and match every file argument
against its start production.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !check {
				if len(args) > 0 {
					return fmt.Errorf("file arguments need --check")
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), grammar.Source())
				return err
			}

			g, err := grammar.Load()
			if err != nil {
				return err
			}
			m := grammar.NewMatcher(g)
			failed := 0
			for _, file := range args {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				text := string(data)
				n, err := m.Match(grammar.Start, text)
				if err != nil {
					return err
				}
				if n == len(text) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", file)
					continue
				}
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: grammar stops at offset %d\n", file, max(n, 0))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files do not match", failed, len(args))
			}
			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "grammar ok: %d productions\n", len(g))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify the grammar and match files against it")

	return cmd
}
