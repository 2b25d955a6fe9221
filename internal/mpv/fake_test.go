package mpv

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// fakeMPV answers IPC requests on one end of a net.Pipe.
type fakeMPV struct {
	conn net.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	commands [][]any
	// handler returns the data and error string for a command. ok=false
	// leaves the request unanswered.
	handler func(cmd []any) (data any, errStr string, ok bool)
}

func newFakeMPV(t *testing.T) (*fakeMPV, *Client) {
	t.Helper()
	server, clientConn := net.Pipe()
	f := &fakeMPV{
		conn: server,
		handler: func([]any) (any, string, bool) {
			return nil, "success", true
		},
	}
	go f.serve()
	c := NewClient(clientConn, 0, zerolog.Nop())
	t.Cleanup(func() {
		c.Close()
		server.Close()
	})
	return f, c
}

func (f *fakeMPV) serve() {
	scanner := bufio.NewScanner(f.conn)
	for scanner.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int64 `json:"request_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		handler := f.handler
		f.mu.Unlock()

		data, errStr, ok := handler(req.Command)
		if !ok {
			continue
		}
		f.send(map[string]any{"request_id": req.RequestID, "error": errStr, "data": data})
	}
}

func (f *fakeMPV) send(msg map[string]any) {
	line, _ := json.Marshal(msg)
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	_, _ = f.conn.Write(append(line, '\n'))
}

func (f *fakeMPV) property(name string, value any) {
	f.send(map[string]any{"event": "property-change", "name": name, "data": value})
}

func (f *fakeMPV) setHandler(h func(cmd []any) (any, string, bool)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = h
}

func (f *fakeMPV) received() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]any(nil), f.commands...)
}

// last returns the most recent command whose name is name.
func (f *fakeMPV) last(name string) []any {
	cmds := f.received()
	for i := len(cmds) - 1; i >= 0; i-- {
		if len(cmds[i]) > 0 && cmds[i][0] == name {
			return cmds[i]
		}
	}
	return nil
}
