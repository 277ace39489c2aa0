package sshdtest

import (
	"errors"
	"log/slog"
	"time"

	"sshdtest/internal/config"
	"sshdtest/internal/keys"
	"sshdtest/internal/proc"
)

// Option configures a Server during construction.
type Option func(*Server) error

// WithConfig replaces the default configuration wholesale. Individual
// options applied afterwards still override its fields.
func WithConfig(cfg config.Config) Option {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

// WithLogger attaches a logger for lifecycle events and daemon output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithRunner injects a helper-process runner (primarily for tests).
func WithRunner(runner proc.Runner) Option {
	return func(s *Server) error {
		if runner == nil {
			return errors.New("runner must not be nil")
		}
		s.runner = runner
		return nil
	}
}

// WithMaterial supplies custom credential material instead of the bundled
// keys.
func WithMaterial(m keys.Material) Option {
	return func(s *Server) error {
		if len(m.HostKey) == 0 || len(m.AuthorizedKeys) == 0 || len(m.ClientKey) == 0 {
			return errors.New("credential material incomplete")
		}
		s.material = m
		return nil
	}
}

// WithGeneratedKeys mints a fresh credential set for this instance so the
// bundled repository keys never leave the package.
func WithGeneratedKeys() Option {
	return func(s *Server) error {
		m, err := keys.Generate()
		if err != nil {
			return err
		}
		s.material = m
		return nil
	}
}

// WithSSHDPath pins the daemon binary instead of probing.
func WithSSHDPath(path string) Option {
	return func(s *Server) error {
		s.cfg.SSHDPath = path
		return nil
	}
}

// WithReadyTimeout bounds the accept-poll Start performs after launching
// the daemon.
func WithReadyTimeout(d time.Duration) Option {
	return func(s *Server) error {
		if d <= 0 {
			return errors.New("ready timeout must be positive")
		}
		s.readyTimeout = d
		return nil
	}
}

// WithoutReadyWait makes Start return as soon as supervision is wired,
// preserving the historical startup race for callers that poll themselves.
func WithoutReadyWait() Option {
	return func(s *Server) error {
		s.skipReadyWait = true
		return nil
	}
}
