package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"sshdtest"
	"sshdtest/internal/config"
	"sshdtest/internal/fileutil"
	"sshdtest/internal/logging"
)

func newUpCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	var dirFlag string
	var verboseFlag bool

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Launch a disposable sshd and print its coordinates",
		Long: "Launches a throwaway sshd on an ephemeral port and blocks until " +
			"interrupted. The client private key is written next to the staged " +
			"credentials so it can be passed to ssh -i.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dir := dirFlag
			if dir == "" {
				dir, err = os.MkdirTemp("", "sshdtest-*")
				if err != nil {
					return fmt.Errorf("create working directory: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "working directory: %s (not removed on exit)\n", dir)
			}

			level := cfg.LogLevel
			if verboseFlag {
				level = "debug"
			}
			logger, err := logging.New(logging.Options{
				Level:  level,
				Format: cfg.LogFormat,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			srv, err := sshdtest.New(dir, sshdtest.WithConfig(cfg), sshdtest.WithLogger(logger))
			if err != nil {
				return err
			}
			defer srv.Stop()

			if err := srv.Start(ctx); err != nil {
				srv.Stop()
				return err
			}

			keyPath := filepath.Join(dir, "client_key")
			if err := fileutil.WriteFileMode(keyPath, []byte(srv.Key()), 0o600); err != nil {
				return fmt.Errorf("write client key: %w", err)
			}

			login, err := srv.Login(ctx)
			if err != nil {
				return err
			}
			host, err := srv.Hostname(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"Host", host},
					{"Port", strconv.Itoa(srv.Port())},
					{"Login", login},
					{"Key", keyPath},
					{"Example", fmt.Sprintf("ssh -i %s -p %d %s@127.0.0.1", keyPath, srv.Port(), login)},
				},
				isTerminal(out),
			))
			fmt.Fprintln(out, "press Ctrl-C to stop")

			<-ctx.Done()
			srv.Stop()
			return nil
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Working directory (default: fresh temp dir)")
	cmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log daemon output")
	return cmd
}
