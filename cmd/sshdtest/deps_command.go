package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sshdtest/internal/config"
	"sshdtest/internal/preflight"
)

func newDepsCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of the external binaries the fixture needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			requirements := preflight.Requirements()
			if cfg.SSHDPath != "" {
				for i := range requirements {
					if requirements[i].Name == "sshd" {
						requirements[i].Command = cfg.SSHDPath
					}
				}
			}

			statuses := preflight.Check(requirements)
			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if !status.Optional {
						missingRequired = true
					}
				}
				rows = append(rows, []string{status.Name, state, status.Detail, status.Description})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Binary", "State", "Detail", "Used for"}, rows, isTerminal(out)))
			if missingRequired {
				return fmt.Errorf("required binaries missing")
			}
			return nil
		},
	}
}
