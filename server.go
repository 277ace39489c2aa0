package sshdtest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"sshdtest/internal/config"
	"sshdtest/internal/fileutil"
	"sshdtest/internal/keys"
	"sshdtest/internal/logging"
	"sshdtest/internal/preflight"
	"sshdtest/internal/proc"
)

const (
	hostKeyFile    = "host_rsa_key"
	authorizedFile = "authorized"
	pidFile        = "pid"
	lockFile       = "sshd.lock"

	readyPollInterval = 50 * time.Millisecond
)

// ErrDirectoryBusy indicates another fixture already owns the working
// directory.
var ErrDirectoryBusy = errors.New("working directory already holds a live sshd fixture")

// Server supervises one disposable sshd process. Construction stages
// credentials, reserves a port, and spawns the daemon; the zero value is
// not usable.
type Server struct {
	cfg      config.Config
	dir      string
	id       uuid.UUID
	logger   *slog.Logger
	runner   proc.Runner
	material keys.Material

	hostKeyPath    string
	authorizedPath string
	sshdPath       string
	port           int

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser

	lock   *flock.Flock
	output chan string

	readyTimeout  time.Duration
	skipReadyWait bool

	started  atomic.Bool
	stopOnce sync.Once
	stopped  chan struct{}
}

// New stages credentials into dir, reserves an ephemeral port, and spawns
// sshd against them. Any failure aborts construction: no partially
// initialized Server is ever returned, and no daemon is left running.
// The directory must already exist; the fixture writes into it and never
// deletes it.
func New(dir string, opts ...Option) (*Server, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("working directory: %s is not a directory", abs)
	}

	s := &Server{
		cfg:      config.Default(),
		dir:      abs,
		id:       uuid.New(),
		logger:   logging.Discard(),
		runner:   proc.CommandRunner{},
		material: keys.Bundled(),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("fixture", s.id.String())

	backlog := s.cfg.OutputBacklog
	if backlog <= 0 {
		backlog = config.Default().OutputBacklog
	}
	s.output = make(chan string, backlog)

	// One live daemon per directory: the pid file, staged keys, and
	// reserved port are all directory-scoped state.
	s.lock = flock.New(filepath.Join(abs, lockFile))
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock working directory: %w", err)
	}
	if !locked {
		return nil, ErrDirectoryBusy
	}

	if err := s.stageCredentials(); err != nil {
		_ = s.lock.Unlock()
		return nil, err
	}
	if s.port, err = reservePort(s.cfg.ListenHost); err != nil {
		_ = s.lock.Unlock()
		return nil, err
	}
	if s.sshdPath, err = preflight.FindSSHD(s.cfg.SSHDPath); err != nil {
		_ = s.lock.Unlock()
		return nil, err
	}
	if err := s.spawn(); err != nil {
		_ = s.lock.Unlock()
		return nil, err
	}

	s.logger.Info("sshd spawned",
		"pid", s.cmd.Process.Pid,
		"port", s.port,
		"dir", s.dir,
		"binary", s.sshdPath,
	)
	return s, nil
}

// stageCredentials writes the host key and authorized_keys material with
// owner-only modes. sshd refuses world-readable key files, so both are
// verified before the daemon ever sees them.
func (s *Server) stageCredentials() error {
	s.hostKeyPath = filepath.Join(s.dir, hostKeyFile)
	if err := fileutil.WriteFileMode(s.hostKeyPath, s.material.HostKey, 0o600); err != nil {
		return fmt.Errorf("stage host key: %w", err)
	}
	s.authorizedPath = filepath.Join(s.dir, authorizedFile)
	if err := fileutil.WriteFileMode(s.authorizedPath, s.material.AuthorizedKeys, 0o600); err != nil {
		return fmt.Errorf("stage authorized keys: %w", err)
	}
	for _, path := range []string{s.hostKeyPath, s.authorizedPath} {
		if err := fileutil.CheckOwnerOnly(path); err != nil {
			return fmt.Errorf("verify staged credentials: %w", err)
		}
	}
	return nil
}

// reservePort binds an OS-assigned port and releases it immediately so
// the daemon can claim it. Best-effort: the number can be reclaimed by an
// unrelated process between release and daemon bind.
func reservePort(host string) (int, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, fmt.Errorf("reserve port: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	if err := listener.Close(); err != nil {
		return 0, fmt.Errorf("release reserved port: %w", err)
	}
	return port, nil
}

func (s *Server) spawn() error {
	args := []string{
		"-p", strconv.Itoa(s.port),
		"-h", s.hostKeyPath,
		"-D",
		"-e",
		"-o", "PidFile=" + filepath.Join(s.dir, pidFile),
		"-o", "UsePAM=no",
		"-o", "AuthorizedKeysFile=" + s.authorizedPath,
		"-o", "StrictModes=no",
		"-o", "ListenAddress=" + s.cfg.ListenHost,
	}

	cmd := exec.Command(s.sshdPath, args...)
	// Own process group, so Stop can signal sshd together with the
	// per-connection children it forks.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("sshd stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("sshd stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn sshd: %w", err)
	}

	s.cmd = cmd
	s.stdout = stdout
	s.stderr = stderr
	return nil
}

// Start transitions the fixture into supervised mode: a background task
// drains the daemon's combined output, and cancelling ctx stops the
// daemon on whatever exit path the caller takes. Unless configured
// otherwise, Start then polls the reserved port until the daemon accepts
// connections.
//
// Skipping Start entirely is allowed; the daemon runs unsupervised with
// no draining and no cancellation hook, exactly as constructed.
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-s.stopped:
		return errors.New("fixture already stopped")
	default:
	}
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("fixture already started")
	}

	go s.supervise()
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.Stop()
			case <-s.stopped:
			}
		}()
	}

	if s.skipReadyWait {
		return nil
	}
	timeout := s.readyTimeout
	if timeout <= 0 {
		timeout = s.cfg.ReadyTimeout()
	}
	if err := s.WaitReady(timeout); err != nil {
		// The daemon is left running for inspection; callers decide
		// between retrying WaitReady and Stop.
		return err
	}
	s.logger.Info("sshd accepting connections", "addr", s.Addr())
	return nil
}

// supervise drains both output pipes until the daemon exits, then reaps
// the process.
func (s *Server) supervise() {
	proc.DrainAll(s.forwardLine, s.stdout, s.stderr)
	err := s.cmd.Wait()
	close(s.output)
	s.logger.Info("sshd exited", "err", err)
}

func (s *Server) forwardLine(line string) {
	s.logger.Debug("sshd output", "line", line)
	select {
	case s.output <- line:
	default:
		// Diagnostics are best-effort; never stall the drain.
	}
}

// Stop requests termination of the daemon process group and releases the
// directory lock. It does not wait for the process to exit, never fails,
// and is safe to call repeatedly, concurrently, before Start, or after
// the daemon already died.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopped)
		if s.cmd != nil && s.cmd.Process != nil {
			pid := s.cmd.Process.Pid
			if err := unix.Kill(-pid, unix.SIGTERM); err != nil {
				_ = s.cmd.Process.Kill()
			}
			s.logger.Info("sshd stop requested", "pid", pid)
		}
		_ = s.lock.Unlock()
	})
}

// WaitReady blocks until the daemon accepts a TCP connection on the
// reserved port or the timeout expires.
func (s *Server) WaitReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case <-s.stopped:
			return errors.New("fixture stopped while waiting for sshd")
		default:
		}
		conn, err := net.DialTimeout("tcp", s.Addr(), readyPollInterval)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(readyPollInterval)
	}
	return fmt.Errorf("sshd not accepting connections on %s after %v", s.Addr(), timeout)
}

// Home returns the working directory the credentials were staged into.
func (s *Server) Home() string {
	return s.dir
}

// Port returns the reserved TCP port. Stable across calls.
func (s *Server) Port() int {
	return s.port
}

// Addr returns host:port for dialing the daemon.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.ListenHost, strconv.Itoa(s.port))
}

// PID returns the daemon's process id.
func (s *Server) PID() int {
	return s.cmd.Process.Pid
}

// Login resolves the user name clients should authenticate as, via
// `id -n -u`. Blocking; fails if the helper cannot run.
func (s *Server) Login(ctx context.Context) (string, error) {
	return s.runner.Output(ctx, "id", "-n", "-u")
}

// Hostname resolves the host clients should connect to, via `hostname`.
// Blocking; fails if the helper cannot run.
func (s *Server) Hostname(ctx context.Context) (string, error) {
	return s.runner.Output(ctx, "hostname")
}

// Key returns the client private key matching the staged authorized_keys
// entry. Pure read; identical across calls.
func (s *Server) Key() string {
	return string(s.material.ClientKey)
}

// Output returns the bounded channel of drained daemon log lines. It is
// only fed after Start and is closed when the daemon exits; lines beyond
// the backlog are dropped.
func (s *Server) Output() <-chan string {
	return s.output
}
