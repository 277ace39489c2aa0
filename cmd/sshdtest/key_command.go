package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sshdtest/internal/keys"
)

func newKeyCommand() *cobra.Command {
	var generateFlag bool

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the client private key accepted by the fixture daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			material := keys.Bundled()
			if generateFlag {
				var err error
				material, err = keys.Generate()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.ErrOrStderr(), "authorized_keys entry:\n", string(material.AuthorizedKeys))
			}
			fmt.Fprint(cmd.OutOrStdout(), string(material.ClientKey))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&generateFlag, "generate", "g", false, "Mint a fresh key pair instead of the bundled one")
	return cmd
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), configSample())
			return nil
		},
	}
}
