// Package live serves a running simulation's status over HTTP: a websocket
// stream of disk-head snapshots for dashboards, a Prometheus /metrics
// endpoint, and /health and /ready for whatever process supervises disksim
// when it runs in -watch mode.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/diskscan/diskscan/internal/domain"
	"github.com/diskscan/diskscan/internal/health"
	"github.com/diskscan/diskscan/internal/infra/config"
	"github.com/diskscan/diskscan/internal/reliability"
	"github.com/diskscan/diskscan/metrics"
)

// StatusProvider returns the current disk snapshot. The harness's disk is
// single-writer; implementations must be safe to call from the server's
// goroutines (disk.Disk.Snapshot already is).
type StatusProvider func() domain.DiskStatus

// Server exposes a running simulation over HTTP: a websocket status stream,
// Prometheus metrics, and health/readiness checks. It is independent of the
// harness's own tick loop; StatusProvider is the only coupling.
type Server struct {
	cfg    *config.Config
	status StatusProvider
	logger *slog.Logger

	server *http.Server

	health  *health.HealthService
	breaker *reliability.CircuitBreaker

	ctx    context.Context
	cancel context.CancelFunc

	connMutex   sync.RWMutex
	connections map[*websocket.Conn]context.CancelFunc
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// NewServer builds a Server bound to cfg's HTTP/WebSocket/Monitoring/CircuitBreaker
// settings. Each websocket connection polls status once on connect and then
// every StatusUpdateInterval, feeding both the stream and the head-position
// gauges.
func NewServer(cfg *config.Config, status StatusProvider, logger *slog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg:         cfg,
		status:      status,
		logger:      logger,
		health:      health.NewHealthService(30 * time.Second),
		breaker:     reliability.NewCircuitBreaker(cfg.CircuitBreakerMaxFailures, cfg.CircuitBreakerResetTimeout, cfg.CircuitBreakerHalfOpenLimit),
		ctx:         ctx,
		cancel:      cancel,
		connections: make(map[*websocket.Conn]context.CancelFunc),
	}

	s.health.Register(health.NewLivenessChecker())
	s.health.Register(health.NewSystemResourceChecker(85.0, 1000))
	s.health.Register(health.NewComponentHealthChecker("disk", func(ctx context.Context) (bool, string, map[string]interface{}) {
		snap := s.status()
		return true, "disk responding", map[string]interface{}{
			"tick":  snap.Tick,
			"track": snap.Track,
			"mode":  snap.Mode,
		}
	}))

	mux := http.NewServeMux()
	if cfg.WebSocketEnabled {
		mux.HandleFunc(cfg.WebSocketPath, s.withCORS(s.statusHandler))
	}
	if cfg.MetricsEnabled {
		mux.Handle(cfg.MetricsPath, promhttp.Handler())
	}
	if cfg.HealthEnabled {
		mux.HandleFunc(cfg.HealthPath, s.healthHandler)
		mux.HandleFunc("/ready", s.readyHandler)
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET")
		w.Header().Set("Access-Control-Allow-Headers", "Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version")
		next(w, r)
	}
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting live server", slog.String("addr", s.server.Addr))
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown closes every open websocket connection and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	s.closeAllConnections()
	return s.server.Shutdown(ctx)
}

func (s *Server) addConnection(conn *websocket.Conn, cancel context.CancelFunc) {
	s.connMutex.Lock()
	defer s.connMutex.Unlock()
	s.connections[conn] = cancel
	metrics.SetWebSocketConnections(len(s.connections))
}

func (s *Server) removeConnection(conn *websocket.Conn) {
	s.connMutex.Lock()
	defer s.connMutex.Unlock()
	if cancel, ok := s.connections[conn]; ok {
		cancel()
		delete(s.connections, conn)
	}
	metrics.SetWebSocketConnections(len(s.connections))
}

func (s *Server) closeAllConnections() {
	s.connMutex.Lock()
	defer s.connMutex.Unlock()

	for conn, cancel := range s.connections {
		if err := conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutdown"),
			time.Now().Add(time.Second)); err != nil {
			s.logger.Error("failed to send close message", slog.String("error", err.Error()))
		}
		cancel()
		if err := conn.Close(); err != nil {
			s.logger.Error("failed to close websocket connection", slog.String("error", err.Error()))
		}
	}
	s.connections = make(map[*websocket.Conn]context.CancelFunc)
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Error("failed to close websocket connection", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(s.ctx)
	s.addConnection(conn, cancel)
	defer s.removeConnection(conn)

	s.logger.Info("websocket connection established", slog.String("component", "live-server"))

	writeWait := s.cfg.WebSocketWriteTimeout
	pongWait := s.cfg.WebSocketReadTimeout
	pingPeriod := s.cfg.WebSocketPingInterval
	statusInterval := s.cfg.StatusUpdateInterval

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error("failed to set read deadline", slog.String("error", err.Error()))
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := s.writeStatus(conn, writeWait); err != nil {
		s.logger.Error("failed to send initial status", slog.String("error", err.Error()))
		return
	}

	statusTicker := time.NewTicker(statusInterval)
	defer statusTicker.Stop()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					s.logger.Warn("websocket connection closed unexpectedly", slog.String("error", err.Error()))
				}
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return

		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutdown"),
				time.Now().Add(writeWait))
			return

		case <-pingTicker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error("failed to set write deadline for ping", slog.String("error", err.Error()))
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Error("failed to send ping", slog.String("error", err.Error()))
				return
			}

		case <-statusTicker.C:
			err := s.breaker.Execute(ctx, func() error {
				return s.writeStatus(conn, writeWait)
			})
			if err != nil {
				s.logger.Warn("dropping status update", slog.String("error", err.Error()))
				if s.breaker.GetState() != reliability.StateOpen {
					return
				}
			}
		}
	}
}

func (s *Server) writeStatus(conn *websocket.Conn, writeWait time.Duration) error {
	snap := s.status()
	metrics.SetHeadPosition(snap.Track, snap.Angle)

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(snap)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, results := s.health.GetOverallStatus(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if status != health.StatusHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": results,
	})
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.health.Check(r.Context(), "disk")

	w.Header().Set("Content-Type", "application/json")
	if err != nil || result.Status != health.StatusHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
