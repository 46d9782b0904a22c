package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/notation/config"
	"github.com/dhamidi/notation/lsp"
)

func newLSPCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, cfg.BindOptions(), cfg.FormatOptions())
			return server.RunStdio()
		},
	}
}
