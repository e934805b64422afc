package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dbehnke/m17-nexus/pkg/config"
	"github.com/dbehnke/m17-nexus/pkg/database"
	"github.com/dbehnke/m17-nexus/pkg/logger"
	"github.com/dbehnke/m17-nexus/pkg/metrics"
	"github.com/dbehnke/m17-nexus/pkg/modem"
	"github.com/dbehnke/m17-nexus/pkg/web"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("M17-Nexus %s\n", version)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		fmt.Printf("Built: %s\n", buildTime)
		os.Exit(0)
	}

	log := logger.New(logger.Config{
		Level:  "info",
		Format: "text",
	})

	log.Info("Starting M17-Nexus",
		logger.String("version", version),
		logger.String("commit", gitCommit))

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	if *validate {
		log.Info("Configuration is valid")
		os.Exit(0)
	}

	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	metricsCollector := metrics.NewCollector()

	// Receptions database
	var receptions *database.ReceptionRepository
	if cfg.Database.Enabled {
		db, err := database.NewDB(database.Config{Path: cfg.Database.Path},
			log.WithComponent("database"))
		if err != nil {
			log.Error("Failed to initialize database", logger.Error(err))
			os.Exit(1)
		}
		defer db.Close()
		receptions = database.NewReceptionRepository(db.GetDB())
	}

	// Web dashboard
	var webServer *web.Server
	if cfg.Web.Enabled {
		webServer = web.NewServer(web.Config{
			Host: cfg.Web.Host,
			Port: cfg.Web.Port,
		}, log.WithComponent("web"))
		if receptions != nil {
			webServer.WithReceptions(receptions)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := webServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Web server error", logger.Error(err))
			}
		}()
	}

	// Prometheus metrics
	if cfg.Metrics.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			srv := metrics.NewPrometheusServer(metrics.PrometheusConfig{
				Enabled: true,
				Port:    cfg.Metrics.Port,
				Path:    cfg.Metrics.Path,
			}, metricsCollector, log.WithComponent("metrics"))
			if err := srv.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Metrics server error", logger.Error(err))
			}
		}()
	}

	// Decoder pipeline
	decoderLog := log.WithComponent("decoder")
	decoder := modem.NewDecoder(cfg.DecoderConfig(),
		modem.WithDecoderLogger(decoderLog),
		modem.WithStats(metricsCollector),
		modem.WithFieldsHandler(func(f modem.Fields) {
			decoderLog.Info("link setup",
				logger.String("src", f.Src),
				logger.String("dst", f.Dst))
			if webServer != nil {
				webServer.PublishFields(f)
			}
			if receptions != nil {
				rec := &database.Reception{
					Src:       f.Src,
					Dst:       f.Dst,
					TypeField: uint16(f.Type[0])<<8 | uint16(f.Type[1]),
					CAN:       uint8((uint16(f.Type[0])<<8 | uint16(f.Type[1])) >> 7 & 0x0F),
					Signed:    (uint16(f.Type[0])<<8|uint16(f.Type[1]))>>11&1 != 0,
					SMS:       f.SMS,
					HeardAt:   time.Now(),
				}
				if err := receptions.Create(rec); err != nil {
					decoderLog.Warn("Failed to store reception", logger.Error(err))
				}
			}
		}),
		modem.WithSignatureHandler(func(valid bool) {
			if webServer != nil {
				webServer.PublishSignature(valid)
			}
		}),
	)

	// Symbol input
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		if err := runInput(ctx, cfg, decoder, log.WithComponent("input")); err != nil {
			log.Error("Symbol input error", logger.Error(err))
		}
	}()

	select {
	case sig := <-sigChan:
		log.Info("Shutting down", logger.String("signal", sig.String()))
		cancel()
	case <-ctx.Done():
	}

	wg.Wait()
}

// runInput feeds received symbols into the decoder and writes recovered
// payload bytes to stdout.
func runInput(ctx context.Context, cfg *config.Config, decoder *modem.Decoder, log *logger.Logger) error {
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	feed := func(symbols []float32) error {
		payload := decoder.Work(symbols)
		if len(payload) == 0 {
			return nil
		}
		if _, err := out.Write(payload); err != nil {
			return err
		}
		return out.Flush()
	}

	switch strings.ToLower(cfg.Input.Source) {
	case "udp":
		return runUDPInput(ctx, cfg, feed, log)
	default:
		return runStdinInput(ctx, cfg, feed)
	}
}

func runStdinInput(ctx context.Context, cfg *config.Config, feed func([]float32) error) error {
	in := bufio.NewReader(os.Stdin)
	buf := make([]byte, 4096)
	pending := 0 // bytes carried over to keep float32 reads aligned

	width := 4
	if strings.EqualFold(cfg.Input.Format, "int8") {
		width = 1
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := in.Read(buf[pending:])
		total := pending + n
		aligned := total - total%width
		if aligned > 0 {
			if err := feed(decodeSymbols(buf[:aligned], cfg.Input.Format)); err != nil {
				return err
			}
		}
		pending = copy(buf, buf[aligned:total])
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func runUDPInput(ctx context.Context, cfg *config.Config, feed func([]float32) error, log *logger.Logger) error {
	addr, err := net.ResolveUDPAddr("udp", cfg.Input.Listen)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", cfg.Input.Listen, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Input.Listen, err)
	}
	defer conn.Close()

	log.Info("Listening for symbols", logger.String("addr", cfg.Input.Listen))

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, 65536)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := feed(decodeSymbols(buf[:n], cfg.Input.Format)); err != nil {
			return err
		}
	}
}

// decodeSymbols converts raw input bytes to symbols in the configured
// representation.
func decodeSymbols(raw []byte, format string) []float32 {
	if strings.EqualFold(format, "int8") {
		out := make([]float32, len(raw))
		for i, b := range raw {
			out[i] = float32(int8(b))
		}
		return out
	}

	n := len(raw) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out
}
