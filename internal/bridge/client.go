package bridge

import (
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bnema/wallhub/internal/logger"
)

// ErrNotRunning is returned when no server listens on the socket
var ErrNotRunning = errors.New("wallhub is not running")

// DefaultTimeout applies when a client is created with a zero timeout
const DefaultTimeout = 5 * time.Second

// Client sends invocations to a running bridge server, one connection per call
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for socketPath
func NewClient(socketPath string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{socketPath: socketPath, timeout: timeout}
}

// Send invokes method with args on the server
func (c *Client) Send(method string, args ...any) error {
	msg, err := NewInvocation(method, args...)
	if err != nil {
		return fmt.Errorf("failed to create invocation: %w", err)
	}
	return c.Call(msg)
}

// Call sends a prepared invocation and returns the server's verdict
func (c *Client) Call(msg *structpb.Struct) error {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return fmt.Errorf("%w: %v", ErrNotRunning, err)
		}
		return fmt.Errorf("failed to connect to wallhub: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debugf("Failed to close bridge connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		logger.Warnf("Failed to set connection deadline: %v", err)
	}

	if err := writeMessage(conn, msg); err != nil {
		return fmt.Errorf("failed to send invocation: %w", err)
	}

	reply, err := readMessage(conn)
	if err != nil {
		return fmt.Errorf("failed to read reply: %w", err)
	}

	return ReplyError(reply)
}

// Ping reports whether a server answers on the socket
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
