// Package mpv drives an mpv process over its JSON IPC socket and exposes it
// as a playback.MediaSink.
package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds every IPC request.
	DefaultTimeout = 2 * time.Second

	eventBufferSize = 64
	maxLineSize     = 1 << 20
)

var (
	// ErrTimeout is returned when mpv does not answer a request in time.
	ErrTimeout = errors.New("mpv request timed out")
	// ErrClosed is returned by requests on a closed client.
	ErrClosed = errors.New("mpv connection closed")
)

// CommandError is a request mpv answered with something other than success.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	return "mpv " + e.Command + ": " + e.Message
}

// Event is an asynchronous message from mpv.
type Event struct {
	Name     string          // "property-change", "end-file", ...
	Property string          // property name for property-change
	Reason   string          // end-file reason
	Data     json.RawMessage // property value, may be "null"
}

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type message struct {
	RequestID *int64          `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Reason    string          `json:"reason"`
}

type reply struct {
	data json.RawMessage
	err  string
}

// Client is a line-delimited JSON IPC connection to mpv.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	logger  zerolog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan reply
	closed  bool

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient starts reading from conn. A zero timeout means DefaultTimeout.
func NewClient(conn net.Conn, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		conn:    conn,
		timeout: timeout,
		logger:  logger.With().Str("component", "mpv-ipc").Logger(),
		pending: make(map[int64]chan reply),
		events:  make(chan Event, eventBufferSize),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Events returns the channel of asynchronous mpv events. It is closed when
// the connection ends.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Command sends args as an mpv command and waits for the answer.
func (c *Client) Command(ctx context.Context, args ...any) (json.RawMessage, error) {
	name := "command"
	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			name = s
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.nextID++
	id := c.nextID
	ch := make(chan reply, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	line, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", name)
	}
	line = append(line, '\n')

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.write(ctx, line); err != nil {
		return nil, errors.Wrapf(err, "send %s", name)
	}

	select {
	case r := <-ch:
		if r.err != "success" {
			return nil, &CommandError{Command: name, Message: r.err}
		}
		return r.data, nil
	case <-c.done:
		return nil, ErrClosed
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.Wrap(ErrTimeout, name)
		}
		return nil, ctx.Err()
	}
}

func (c *Client) write(ctx context.Context, line []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
	}
	_, err := c.conn.Write(line)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return ErrTimeout
		}
	}
	return err
}

// SetProperty sets an mpv property.
func (c *Client) SetProperty(ctx context.Context, name string, value any) error {
	_, err := c.Command(ctx, "set_property", name, value)
	return err
}

// GetProperty reads an mpv property into v.
func (c *Client) GetProperty(ctx context.Context, name string, v any) error {
	data, err := c.Command(ctx, "get_property", name)
	if err != nil {
		return err
	}
	return errors.WithStack(json.Unmarshal(data, v))
}

// ObserveProperty asks mpv to report changes of name as property-change events.
func (c *Client) ObserveProperty(ctx context.Context, id int, name string) error {
	_, err := c.Command(ctx, "observe_property", id, name)
	return err
}

// Close ends the connection. Pending requests fail with ErrClosed.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return errors.WithStack(err)
}

func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
		close(c.events)
	}()

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			c.logger.Warn().Err(err).Bytes("line", scanner.Bytes()).Msg("bad message")
			continue
		}

		if msg.Event != "" {
			c.events <- Event{
				Name:     msg.Event,
				Property: msg.Name,
				Reason:   msg.Reason,
				Data:     append(json.RawMessage(nil), msg.Data...),
			}
			continue
		}
		if msg.RequestID == nil {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[*msg.RequestID]
		c.mu.Unlock()
		if ok {
			ch <- reply{data: append(json.RawMessage(nil), msg.Data...), err: msg.Error}
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Debug().Err(err).Msg("read loop ended")
	}
}
