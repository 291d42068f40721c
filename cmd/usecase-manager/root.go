package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newRootCmd(log *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "usecase-manager",
		Short:         "Deploy and manage generative AI use cases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(log),
		newValidateCmd(),
		newVersionCmd(),
	)
	return root
}
