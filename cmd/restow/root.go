package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)
	return newRootCommandFor(ctx, &configFlag)
}

func newRootCommandFor(ctx *commandContext, configFlag *string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "restow",
		Short:         "Reconcile stored object keys with catalog lineage",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newReconcileCommand(ctx))
	rootCmd.AddCommand(newResolveCommand(ctx))
	rootCmd.AddCommand(newUploadCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
