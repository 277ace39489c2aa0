package main

import (
	"github.com/spf13/cobra"

	"sshdtest/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "sshdtest",
		Short:         "Disposable sshd fixture for SSH client testing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	loadConfig := func() (config.Config, error) {
		return config.Load(configFlag)
	}

	rootCmd.AddCommand(newUpCommand(loadConfig))
	rootCmd.AddCommand(newDepsCommand(loadConfig))
	rootCmd.AddCommand(newKeyCommand())
	rootCmd.AddCommand(newConfigCommand())
	return rootCmd
}
