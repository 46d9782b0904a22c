package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/notation/bind"
	"github.com/dhamidi/notation/config"
	"github.com/dhamidi/notation/format"
)

var outputFormats = []string{"notation", "json", "yaml"}

func newEncoder(w io.Writer, name string, opts ...format.Option) (format.Encoder, error) {
	switch name {
	case "notation":
		return format.NewNotationEncoder(w, opts...), nil
	case "json":
		return format.NewJSONEncoder(w, opts...), nil
	case "yaml":
		return format.NewYAMLEncoder(w, opts...), nil
	}
	return nil, fmt.Errorf("unknown format %q (want %s)", name, strings.Join(outputFormats, ", "))
}

func newParseCmd(cfg *config.Config) *cobra.Command {
	var output string
	var pretty, types bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a notation document and print its value",
		Long: `Parse a notation document into untyped values and print them.

If no file is provided, reads from stdin. Errors are printed as
file:line:column: message and make the command fail.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			settings := *cfg
			if cmd.Flags().Changed("pretty") {
				settings.Pretty = pretty
			}
			if cmd.Flags().Changed("types") {
				settings.TypeTags = types
			}

			enc, err := newEncoder(cmd.OutOrStdout(), output, settings.FormatOptions()...)
			if err != nil {
				return err
			}

			var v any
			err = bind.Parse(source, &v, settings.BindOptions()...)
			if err := reportErrors(cmd.ErrOrStderr(), name, err); err != nil {
				return err
			}
			log.Debugf("parsed %s into %T", name, v)
			return enc.Encode(v)
		},
	}

	cmd.Flags().StringVarP(&output, "format", "f", "notation", "output format: "+strings.Join(outputFormats, ", "))
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent the output")
	cmd.Flags().BoolVar(&types, "types", false, "print type tags")

	return cmd
}
