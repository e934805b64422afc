package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dbehnke/m17-nexus/pkg/logger"
)

// PrometheusConfig holds Prometheus server configuration
type PrometheusConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// PrometheusHandler handles Prometheus metrics HTTP requests
type PrometheusHandler struct {
	collector *Collector
}

// NewPrometheusHandler creates a new Prometheus handler
func NewPrometheusHandler(collector *Collector) *PrometheusHandler {
	return &PrometheusHandler{collector: collector}
}

// ServeHTTP handles HTTP requests for metrics
func (h *PrometheusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	var output strings.Builder

	counter := func(name, help string, val uint64) {
		output.WriteString(fmt.Sprintf("# HELP %s %s\n", name, help))
		output.WriteString(fmt.Sprintf("# TYPE %s counter\n", name))
		output.WriteString(fmt.Sprintf("%s %d\n", name, val))
	}

	c := h.collector
	counter("m17_sync_acquired_total", "Syncword locks acquired", c.SyncAcquired())
	counter("m17_frames_lsf_total", "Link setup frames decoded", c.LSFFrames())
	counter("m17_frames_stream_total", "Stream frames decoded", c.StreamFrames())
	counter("m17_frames_packet_total", "Packet frames decoded", c.PacketFrames())
	counter("m17_frames_bert_total", "BERT frames decoded", c.BERTFrames())
	counter("m17_crc_errors_total", "CRC mismatches on decoded frames", c.CRCErrors())
	counter("m17_viterbi_drops_total", "Payloads blanked by the Viterbi threshold", c.ViterbiDrops())
	counter("m17_lich_failures_total", "LICH chunks with Golay decode failures", c.LICHFailures())
	counter("m17_signatures_valid_total", "Stream signatures verified", c.SignaturesOK())
	counter("m17_signatures_invalid_total", "Stream signatures rejected", c.SignaturesFail())
	counter("m17_sms_received_total", "SMS packets received", c.SMSReceived())

	_, _ = w.Write([]byte(output.String()))
}

// PrometheusServer serves the metrics endpoint.
type PrometheusServer struct {
	config  PrometheusConfig
	handler *PrometheusHandler
	logger  *logger.Logger
}

// NewPrometheusServer creates a metrics server.
func NewPrometheusServer(cfg PrometheusConfig, collector *Collector, log *logger.Logger) *PrometheusServer {
	return &PrometheusServer{
		config:  cfg,
		handler: NewPrometheusHandler(collector),
		logger:  log,
	}
}

// Start runs the metrics server until the context is cancelled.
func (s *PrometheusServer) Start(ctx context.Context) error {
	path := s.config.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, s.handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("metrics listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("Metrics server listening",
		logger.Int("port", s.config.Port),
		logger.String("path", path))

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
