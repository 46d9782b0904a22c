package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/notation/config"
	"github.com/dhamidi/notation/format"
	"github.com/dhamidi/notation/lsp"
)

func newFmtCmd(cfg *config.Config) *cobra.Command {
	var overwrite, dropComments bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a notation document",
		Long: `Pretty-print a notation document to stdout.

If no file is provided, reads from stdin. Documents with errors are not
printed. Printing drops comments, so -w refuses files that contain them
unless --drop-comments is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && len(args) == 0 {
				return errors.New("-w requires a file argument")
			}
			name, source, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			doc := lsp.NewWorkspace(cfg.BindOptions()...).Update(name, source)
			if err := reportErrors(cmd.ErrOrStderr(), name, doc.Errors.Err()); err != nil {
				return err
			}
			if overwrite && doc.HasComments() && !dropComments {
				return fmt.Errorf("%s contains comments; use --drop-comments to overwrite it anyway", name)
			}

			opts := append(cfg.FormatOptions(), format.Pretty())
			output := format.Stringify(doc.Value, opts...) + "\n"

			if overwrite {
				if output == source {
					return nil
				}
				log.Infof("rewriting %s", name)
				return os.WriteFile(name, []byte(output), 0644)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVar(&dropComments, "drop-comments", false, "allow -w to drop comments")

	return cmd
}
