package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/fiber/pkg/fiber"
)

// DefaultHistory is how many summaries a Server keeps by default.
const DefaultHistory = 50

// Server records pass summaries and serves them over HTTP.
type Server struct {
	history  int
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	now      func() time.Time

	mu     sync.RWMutex
	seq    uint64
	recent []Summary

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]bool
	writeMu   sync.Mutex
	upgrader  websocket.Upgrader

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithHistory sets how many summaries are kept.
func WithHistory(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.history = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer sets what /metrics serves (default: prometheus.DefaultGatherer).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		history:  DefaultHistory,
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
		now:      time.Now,
		clients:  make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // devtools run locally
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/passes", s.handlePasses)
	r.Get("/passes/{seq}", s.handlePass)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.handleWebSocket)
	s.router = r
	return s
}

// Handler returns the devtools HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Observe records p and pushes its summary to every subscriber. It has the
// signature fiber.WithObserver expects.
func (s *Server) Observe(p *fiber.Pass) {
	s.mu.Lock()
	s.seq++
	sum := Summarize(p, s.seq, s.now())
	s.recent = append(s.recent, sum)
	if over := len(s.recent) - s.history; over > 0 {
		s.recent = append(s.recent[:0:0], s.recent[over:]...)
	}
	s.mu.Unlock()

	s.broadcast(sum)
}

// Recent returns up to limit of the newest summaries, oldest first.
// A limit <= 0 returns all of them.
func (s *Server) Recent(limit int) []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && limit < len(s.recent) {
		start = len(s.recent) - limit
	}
	return append([]Summary(nil), s.recent[start:]...)
}

func (s *Server) handlePasses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, s.Recent(limit))
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.ParseUint(chi.URLParam(r, "seq"), 10, 64)
	if err != nil {
		http.Error(w, "invalid sequence number", http.StatusBadRequest)
		return
	}
	for _, sum := range s.Recent(0) {
		if sum.Seq == seq {
			writeJSON(w, sum)
			return
		}
	}
	http.NotFound(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("devtools upgrade failed", "error", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	// Subscribers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Debug("devtools subscriber dropped", "error", err)
			}
			break
		}
	}

	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
	conn.Close()
}

func (s *Server) broadcast(sum Summary) {
	data, err := json.Marshal(sum)
	if err != nil {
		s.logger.Warn("devtools marshal failed", "error", err)
		return
	}

	s.clientsMu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	for _, c := range clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			s.clientsMu.Lock()
			delete(s.clients, c)
			s.clientsMu.Unlock()
			c.Close()
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Close disconnects every subscriber.
func (s *Server) Close() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		c.Close()
		delete(s.clients, c)
	}
}

// ListenAndServe serves the devtools on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devtools listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
