// Package web serves the m17-nexus dashboard: a small status page, a JSON
// API over the receptions log, and a WebSocket stream of decoded link setup
// and SMS events.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dbehnke/m17-nexus/pkg/database"
	"github.com/dbehnke/m17-nexus/pkg/logger"
	"github.com/dbehnke/m17-nexus/pkg/modem"
)

// Config holds web server configuration.
type Config struct {
	Host string
	Port int
}

// Server represents the web dashboard HTTP server
type Server struct {
	config Config
	logger *logger.Logger
	hub    *WebSocketHub

	receptions *database.ReceptionRepository
}

// NewServer creates a new web server instance
func NewServer(cfg Config, log *logger.Logger) *Server {
	return &Server{
		config: cfg,
		logger: log,
		hub:    NewWebSocketHub(log),
	}
}

// WithReceptions injects the receptions repository for API exposure.
func (s *Server) WithReceptions(repo *database.ReceptionRepository) *Server {
	s.receptions = repo
	return s
}

// PublishFields broadcasts a decoded link-setup record to dashboard clients.
func (s *Server) PublishFields(f modem.Fields) {
	data := map[string]interface{}{
		"src":    f.Src,
		"dst":    f.Dst,
		"type":   fmt.Sprintf("%02X%02X", f.Type[0], f.Type[1]),
		"meta":   fmt.Sprintf("%X", f.Meta),
		"crc_ok": f.CRCOK,
	}
	evType := "lsf"
	if f.SMS != "" {
		evType = "sms"
		data["sms"] = f.SMS
	}
	s.hub.Broadcast(Event{Type: evType, Data: data})
}

// PublishSignature broadcasts a stream signature verification result.
func (s *Server) PublishSignature(valid bool) {
	s.hub.Broadcast(Event{
		Type: "signature",
		Data: map[string]interface{}{"valid": valid},
	})
}

// Start runs the web server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.hub.HandleWebSocket)
	mux.HandleFunc("/api/receptions", s.handleReceptions)

	srv := &http.Server{
		Addr:              net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("web listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("Web dashboard listening", logger.String("addr", srv.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleReceptions(w http.ResponseWriter, r *http.Request) {
	if s.receptions == nil {
		http.Error(w, "receptions database disabled", http.StatusServiceUnavailable)
		return
	}

	recs, err := s.receptions.Recent(50)
	if err != nil {
		s.logger.Error("Failed to query receptions", logger.Error(err))
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recs)
}
