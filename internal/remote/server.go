package remote

import (
	"context"
	"encoding/json"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/ui/styles"
)

const (
	defaultPingInterval = 10 * time.Second
	pongWait            = 30 * time.Second
	maxMessageSize      = 4096
)

// Commander is the part of playback.Controller the browser can drive.
type Commander interface {
	TogglePlayPause() error
	Stop() error
	ToggleRewind() error
	ToggleForward() error
	SeekToFraction(f float64) error
}

// Options configures a Server.
type Options struct {
	// PingInterval is the websocket keepalive period.
	PingInterval time.Duration
	// Title is shown in the page header.
	Title string
}

// Server serves the remote page, its websocket and a JSON state endpoint.
type Server struct {
	addr     string
	hub      *Hub
	ctrl     Commander
	opts     Options
	upgrader websocket.Upgrader
	page     *template.Template
	router   *gin.Engine
	logger   zerolog.Logger

	srv      *http.Server
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer builds the router. Start begins listening on addr.
func NewServer(addr string, hub *Hub, ctrl Commander, opts Options, logger zerolog.Logger) (*Server, error) {
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaultPingInterval
	}
	tpl, err := template.New("remote").Parse(pageTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse remote page template")
	}

	s := &Server{
		addr:   addr,
		hub:    hub,
		ctrl:   ctrl,
		opts:   opts,
		page:   tpl,
		logger: logger.With().Str("component", "remote").Logger(),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests())
	router.Use(cors.New(cors.Config{
		AllowOrigins:    []string{"*"},
		AllowMethods:    []string{http.MethodGet},
		AllowHeaders:    []string{"*"},
		AllowWebSockets: true,
	}))
	router.GET("/", s.index)
	router.GET("/ws", s.ws)
	router.GET("/api/state", s.state)
	return router
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.addr)
	}
	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info().Msgf("Starting remote on http://%s", ln.Addr())
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Server error")
		} else {
			s.logger.Info().Msg("Server closed")
		}
	}()
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop disconnects browsers and shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return errors.New("server not started")
	}
	s.logger.Info().Msg("Stopping remote")
	s.hub.closeClients()
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shutdown server")
	}
	s.wg.Wait()
	return nil
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) index(c *gin.Context) {
	t := styles.T()
	title := s.opts.Title
	if title == "" {
		title = "reel"
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	err := s.page.Execute(c.Writer, pageData{
		Title:     title,
		Primary:   string(t.Primary),
		Secondary: string(t.Secondary),
		BarWidth:  BarWidth,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to execute template")
	}
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.hub.State())
}

func (s *Server) ws(ctx *gin.Context) {
	conn, err := s.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	cl := newClient(conn, s.logger)
	s.hub.register(cl)
	defer func() {
		s.hub.unregister(cl)
		cl.close()
	}()
	go cl.writeLoop(s.opts.PingInterval)

	if msg, err := s.hub.stateMessage(); err == nil {
		cl.trySend(msg)
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				s.replyError(cl, errors.Wrap(err, "malformed event"))
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				cl.logger.Debug().Err(err).Msg("connection lost")
			}
			return
		}
		if err := s.dispatch(ev); err != nil {
			cl.logger.Warn().Err(err).Str("type", string(ev.Type)).Msg("command failed")
			s.replyError(cl, err)
		}
	}
}

func (s *Server) dispatch(ev Event) error {
	switch ev.Type {
	case TypePlayPause:
		return s.ctrl.TogglePlayPause()
	case TypeStop:
		return s.ctrl.Stop()
	case TypeRewind:
		return s.ctrl.ToggleRewind()
	case TypeForward:
		return s.ctrl.ToggleForward()
	case TypeSeek:
		var f float64
		if err := json.Unmarshal(ev.Data, &f); err != nil {
			return errors.Wrap(err, "seek needs a fraction")
		}
		return s.ctrl.SeekToFraction(f)
	case TypeState, TypeError:
	}
	return errors.Errorf("unknown event type %q", ev.Type)
}

func (s *Server) replyError(cl *client, err error) {
	ev, mErr := NewEvent(TypeError, err.Error())
	if mErr != nil {
		return
	}
	msg, mErr := json.Marshal(ev)
	if mErr != nil {
		return
	}
	cl.trySend(msg)
}
