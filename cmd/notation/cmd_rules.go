package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhamidi/notation/rules"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the tokenizer contexts and their delimiters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rules.Standard()
			w := cmd.OutOrStdout()
			for i, c := range r.Contexts() {
				if i > 0 {
					fmt.Fprintln(w)
				}
				title := c.Name
				if c == r.Default() {
					title += " (default)"
				}
				fmt.Fprintln(w, headerStyle.Render(title))

				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, d := range c.Delimiters {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", strconv.Quote(d.Text), describeDelimiter(d), d.Description)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func describeDelimiter(d *rules.Delimiter) string {
	switch {
	case d.Start && d.End:
		return "toggles " + d.Context
	case d.Start:
		return "opens " + d.Context
	case d.End:
		return "closes " + d.Context
	case d.Parse != nil:
		return "literal"
	}
	return "delimiter"
}
