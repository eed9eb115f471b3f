package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/aretw0/tasks/pkg/core"
)

// Connection failures, each one also matching core.ErrConnection.
var (
	ErrDial           = fmt.Errorf("%w: tcp dial failed", core.ErrConnection)
	ErrHandshake      = fmt.Errorf("%w: ssh handshake failed", core.ErrConnection)
	ErrAuthentication = fmt.Errorf("%w: ssh authentication failed", core.ErrConnection)
	ErrSubsystem      = fmt.Errorf("%w: sftp subsystem unavailable", core.ErrConnection)
)

// DefaultPort is used when Config.Host carries no port.
const DefaultPort = "22"

// Session is one open SFTP session. Closing it tears down every layer beneath.
type Session struct {
	Client  *sftp.Client
	closers []io.Closer
}

// NewSession wraps an SFTP client together with the resources to release after it.
func NewSession(client *sftp.Client, closers ...io.Closer) *Session {
	return &Session{Client: client, closers: closers}
}

// Close closes the client, then the underlying connections.
func (s *Session) Close() error {
	errs := []error{s.Client.Close()}
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Opener opens a fresh session for a single backend operation.
type Opener func(ctx context.Context) (*Session, error)

// dialOpener connects over TCP, authenticates with the keys held by the ssh-agent
// and starts the sftp subsystem.
func dialOpener(cfg Config, logger *slog.Logger) Opener {
	return func(ctx context.Context) (*Session, error) {
		addr := cfg.Host
		if _, _, err := net.SplitHostPort(addr); err != nil {
			addr = net.JoinHostPort(addr, DefaultPort)
		}

		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDial, err)
		}

		var closers []io.Closer
		auth, agentConn := agentAuth(cfg.AgentSocket, logger)
		if agentConn != nil {
			closers = append(closers, agentConn)
		}

		// Key exchange ends with the host key check, so a failure after it
		// succeeded happened while authenticating.
		var keyExchanged atomic.Bool
		verify := hostKeyCallback(cfg.KnownHostsFile, logger)
		clientConfig := &ssh.ClientConfig{
			User: cfg.User,
			Auth: auth,
			HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
				if err := verify(hostname, remote, key); err != nil {
					return err
				}
				keyExchanged.Store(true)
				return nil
			},
		}

		c, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
		if err != nil {
			_ = conn.Close()
			closeAll(closers)
			return nil, classifyHandshake(err, keyExchanged.Load())
		}
		sshClient := ssh.NewClient(c, chans, reqs)

		client, err := sftp.NewClient(sshClient)
		if err != nil {
			_ = sshClient.Close()
			closeAll(closers)
			return nil, fmt.Errorf("%w: %w", ErrSubsystem, err)
		}

		logger.Debug("sftp session opened", "addr", addr, "user", cfg.User)
		return NewSession(client, append([]io.Closer{sshClient}, closers...)...), nil
	}
}

func classifyHandshake(err error, keyExchanged bool) error {
	if keyExchanged || strings.Contains(err.Error(), "unable to authenticate") {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return fmt.Errorf("%w: %w", ErrHandshake, err)
}

// agentAuth returns the public-key methods offered by the running ssh-agent.
// Without an agent no method is offered and the server rejects the login.
func agentAuth(socket string, logger *slog.Logger) ([]ssh.AuthMethod, io.Closer) {
	if socket == "" {
		socket = os.Getenv("SSH_AUTH_SOCK")
	}
	if socket == "" {
		logger.Warn("SSH_AUTH_SOCK is not set, no keys will be offered")
		return nil, nil
	}

	conn, err := net.Dial("unix", socket)
	if err != nil {
		logger.Warn("failed to reach ssh-agent", "socket", socket, "error", err)
		return nil, nil
	}
	return []ssh.AuthMethod{ssh.PublicKeysCallback(agent.NewClient(conn).Signers)}, conn
}

func hostKeyCallback(file string, logger *slog.Logger) ssh.HostKeyCallback {
	if file == "" {
		if home, err := os.UserHomeDir(); err == nil {
			file = filepath.Join(home, ".ssh", "known_hosts")
		}
	}

	if file != "" {
		cb, err := knownhosts.New(file)
		if err == nil {
			return cb
		}
		logger.Debug("known_hosts unavailable", "file", file, "error", err)
	}

	logger.Warn("host key verification disabled, no known_hosts file")
	return ssh.InsecureIgnoreHostKey()
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
