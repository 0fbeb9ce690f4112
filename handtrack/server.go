package handtrack

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r2"
)

// Path is the websocket endpoint camera sidecars connect to.
const Path = "/hands"

// Options configures a Server.
type Options struct {
	Addr           string
	PinchThreshold float64
	Mirror         bool
}

// Server receives hand frames over a websocket and keeps the latest one.
// It implements TargetSource.
type Server struct {
	opts     Options
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	sample  Sample
	live    bool
	clients int
	frames  int64
}

// NewServer creates a server. It does not listen until ListenAndServe.
func NewServer(opts Options) *Server {
	if opts.PinchThreshold <= 0 {
		opts.PinchThreshold = DefaultPinchThreshold
	}
	return &Server{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Sidecar pages are served from file:// or a dev server
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler serving Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.serveWS)
	return mux
}

// ListenAndServe serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("hand tracking listening", "addr", ln.Addr().String(), "path", Path)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("hand tracking upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.clients++
	s.mu.Unlock()
	slog.Info("hand tracking client connected", "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		s.clients--
		s.mu.Unlock()
		slog.Info("hand tracking client disconnected", "remote", r.RemoteAddr)
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("hand tracking read failed", "error", err)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		sample, err := ParseFrame(message, s.opts.PinchThreshold)
		switch {
		case errors.Is(err, ErrNoHand):
			continue
		case err != nil:
			slog.Debug("hand tracking frame rejected", "error", err)
			continue
		}
		s.Observe(sample)
	}
}

// Observe records a sample as the latest hand state.
func (s *Server) Observe(sample Sample) {
	s.mu.Lock()
	s.sample = sample
	s.live = true
	s.frames++
	s.mu.Unlock()
}

// Target implements TargetSource.
func (s *Server) Target(width, height int) (r2.Vec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.live {
		return r2.Vec{}, false
	}
	return s.sample.Project(width, height, s.opts.Mirror), true
}

// Interacting implements TargetSource. It reports the last pinch state.
func (s *Server) Interacting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live && s.sample.Pinch
}

// Status implements TargetSource. The server stays Pending until the first
// frame arrives and Live afterwards, even if the sidecar disconnects.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.live {
		return StatusLive
	}
	return StatusPending
}

// Clients returns the number of connected sidecars.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clients
}

// Frames returns the number of accepted frames.
func (s *Server) Frames() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}
