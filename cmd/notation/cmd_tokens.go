package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/notation/format"
	"github.com/dhamidi/notation/lex"
)

func newTokensCmd() *cobra.Command {
	var context string

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a document, one per line",
		Long: `Tokenize a document and print one token per line: position, kind,
context or delimiter description, source text and, for literals, the
decoded value.

If no file is provided, reads from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			var opts []lex.Option
			if context != "" {
				opts = append(opts, lex.WithContext(context))
			}
			stream, errs := lex.Tokenize(source, opts...)
			if err := format.NewLineEncoder(cmd.OutOrStdout()).Encode(stream); err != nil {
				return err
			}
			return reportErrors(cmd.ErrOrStderr(), name, errs.Err())
		},
	}

	cmd.Flags().StringVarP(&context, "context", "c", "", "context to start in (default: the default context)")

	return cmd
}
