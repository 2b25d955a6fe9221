package mpv

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"emperror.dev/errors"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

const (
	defaultBinary = "mpv"
	socketPoll    = 50 * time.Millisecond
	startTimeout  = 5 * time.Second
	quitTimeout   = 3 * time.Second
)

// Options configures Launch.
type Options struct {
	// Binary is the mpv executable, "mpv" by default.
	Binary string
	// Socket is the IPC socket path. Empty means a per-process file in the
	// XDG runtime dir.
	Socket string
	// Timeout bounds each IPC request.
	Timeout time.Duration
	// Args are appended to the built-in flags.
	Args   []string
	Logger *zerolog.Logger
}

// chromeArgs turn off mpv's own on-screen controls and key bindings so the
// overlay is the only way to drive playback.
var chromeArgs = []string{
	"--no-osc",
	"--osd-level=0",
	"--input-default-bindings=no",
	"--no-input-terminal",
	"--really-quiet",
}

// ErrExitedEarly is returned by Launch when mpv quits before its IPC
// socket accepts connections, as it does for --version or a bad config.
var ErrExitedEarly = errors.New("mpv exited before opening its socket")

type process struct {
	cmd    *exec.Cmd
	socket string
	exited chan struct{}
	err    error
}

// Launch starts mpv paused on path and returns a connected Sink.
func Launch(ctx context.Context, path string, opts Options) (*Sink, error) {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	socket, err := socketPath(opts.Socket)
	if err != nil {
		return nil, err
	}
	_ = os.Remove(socket)

	binary := opts.Binary
	if binary == "" {
		binary = defaultBinary
	}

	proc, err := startProcess(ctx, binary, buildArgs(socket, path, opts.Args))
	if err != nil {
		return nil, err
	}
	proc.socket = socket
	logger.Info().Str("binary", binary).Str("socket", socket).Str("path", path).Msg("mpv started")

	conn, err := proc.dial(ctx)
	if err != nil {
		proc.kill()
		return nil, err
	}

	client := NewClient(conn, opts.Timeout, logger)
	sink, err := NewSink(ctx, client, logger)
	if err != nil {
		client.Close()
		proc.kill()
		return nil, err
	}
	sink.proc = proc
	return sink, nil
}

func buildArgs(socket, path string, extra []string) []string {
	args := []string{
		"--idle=once",
		"--pause",
		"--keep-open=yes",
		"--input-ipc-server=" + socket,
	}
	args = append(args, chromeArgs...)
	args = append(args, extra...)
	// "--" keeps paths starting with a dash from being read as options
	return append(args, "--", path)
}

func socketPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	name := filepath.Join("reel", fmt.Sprintf("mpv-%d.sock", os.Getpid()))
	p, err := xdg.RuntimeFile(name)
	if err != nil {
		return filepath.Join(os.TempDir(), filepath.Base(name)), nil //nolint:nilerr // temp dir fallback
	}
	return p, nil
}

func startProcess(ctx context.Context, binary string, args []string) (*process, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", binary)
	}
	p := &process{cmd: cmd, exited: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.exited)
	}()
	return p, nil
}

// dial polls the socket until mpv accepts connections.
func (p *process) dial(ctx context.Context) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	ticker := time.NewTicker(socketPoll)
	defer ticker.Stop()

	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "unix", p.socket)
		if err == nil {
			return conn, nil
		}
		select {
		case <-p.exited:
			if p.err == nil {
				return nil, ErrExitedEarly
			}
			return nil, errors.Wrapf(ErrExitedEarly, "%v", p.err)
		case <-ctx.Done():
			return nil, errors.Wrapf(ErrTimeout, "waiting for %s", p.socket)
		case <-ticker.C:
		}
	}
}

// wait reaps mpv after a quit, killing it if it lingers.
func (p *process) wait() error {
	defer os.Remove(p.socket)
	select {
	case <-p.exited:
	case <-time.After(quitTimeout):
		p.kill()
		<-p.exited
	}
	var exitErr *exec.ExitError
	if errors.As(p.err, &exitErr) {
		// Exit status does not matter once quit was requested
		return nil
	}
	return errors.WithStack(p.err)
}

func (p *process) kill() {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = os.Remove(p.socket)
}
