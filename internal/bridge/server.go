package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/bnema/wallhub/internal/logger"
	"github.com/bnema/wallhub/internal/wallpaper"
)

// Server accepts invocations on a unix socket and forwards them to a Listener.
// Connections are served on their own goroutines, so the target must be safe for
// concurrent use; a wallpaper.DeferredQueue is.
type Server struct {
	mu         sync.Mutex
	listener   net.Listener
	socketPath string
	target     wallpaper.Listener
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	running    bool
	log        *log.Logger
}

// NewServer creates a server for socketPath
func NewServer(socketPath string, target wallpaper.Listener) *Server {
	return &Server{
		socketPath: socketPath,
		target:     target,
		log:        logger.WithPrefix("bridge"),
	}
}

// SocketPath returns the path the server listens on
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start starts accepting connections
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if s.target == nil {
		return fmt.Errorf("bridge server has no target listener")
	}

	// Remove a stale socket left by a previous run
	if err := removeSocket(s.socketPath); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0750); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket listener: %w", err)
	}

	// User only
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.listener = listener
	s.running = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.acceptConnections(ctx)

	s.log.Info("Bridge listening", "socket", s.socketPath)
	return nil
}

// Stop closes the listener and waits for open connections to finish
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	s.cancel()
	_ = s.listener.Close()

	s.wg.Wait()

	if err := removeSocket(s.socketPath); err != nil {
		s.log.Warn("Failed to remove socket", "socket", s.socketPath, "error", err)
	}
	s.log.Info("Bridge stopped")
}

// removeSocket deletes path if it is a unix socket. Anything else at path is left
// alone and reported as an error.
func removeSocket(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect socket path: %w", err)
	}

	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("refusing to replace non-socket %s", path)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}
	return nil
}

// Serve runs the server until ctx is cancelled
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Server) acceptConnections(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Error("Failed to accept connection", "error", err)
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(ctx, conn)
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()

	id := uuid.NewString()
	connLog := s.log.With("conn", id[:8])
	connLog.Debug("Connection opened")

	// Unblock the read below on shutdown
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		stop()
		_ = conn.Close()
		connLog.Debug("Connection closed")
	}()

	for {
		msg, err := readMessage(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				connLog.Debug("Read error", "error", err)
			}
			return
		}

		invokeErr := Invoke(s.target, msg)
		if invokeErr != nil {
			connLog.Warn("Rejected invocation", "error", invokeErr)
		}

		if err := writeMessage(conn, NewReply(invokeErr)); err != nil {
			connLog.Error("Failed to send reply", "error", err)
			return
		}
	}
}
