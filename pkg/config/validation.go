package config

import (
	"fmt"
	"strings"

	"github.com/dbehnke/m17-nexus/pkg/callsign"
)

func validate(cfg *Config) error {
	if cfg.Station.SrcID == "" {
		return fmt.Errorf("station.src_id is required")
	}
	if _, err := callsign.Encode(cfg.Station.SrcID); err != nil {
		return fmt.Errorf("station.src_id: %w", err)
	}
	if _, err := callsign.Encode(cfg.Station.DstID); err != nil {
		return fmt.Errorf("station.dst_id: %w", err)
	}

	switch strings.ToLower(cfg.Station.Mode) {
	case "stream", "packet":
	default:
		return fmt.Errorf("station.mode must be stream or packet, got %q", cfg.Station.Mode)
	}

	switch strings.ToLower(cfg.Station.Data) {
	case "data", "voice", "voice+data":
	default:
		return fmt.Errorf("station.data must be data, voice or voice+data, got %q", cfg.Station.Data)
	}

	switch strings.ToLower(cfg.Station.EncrType) {
	case "none", "scramble", "aes":
	default:
		return fmt.Errorf("station.encr_type must be none, scramble or aes, got %q", cfg.Station.EncrType)
	}

	if cfg.Station.CAN < 0 || cfg.Station.CAN > 15 {
		return fmt.Errorf("station.can must be 0..15, got %d", cfg.Station.CAN)
	}
	if len(cfg.Station.Meta) > 14 {
		return fmt.Errorf("station.meta must be at most 14 bytes, got %d", len(cfg.Station.Meta))
	}

	if cfg.Decoder.SyncwordThreshold <= 0 {
		return fmt.Errorf("decoder.syncword_threshold must be positive")
	}
	if cfg.Decoder.ViterbiThreshold <= 0 {
		return fmt.Errorf("decoder.viterbi_threshold must be positive")
	}

	switch strings.ToLower(cfg.Input.Source) {
	case "stdin", "udp":
	default:
		return fmt.Errorf("input.source must be stdin or udp, got %q", cfg.Input.Source)
	}
	switch strings.ToLower(cfg.Input.Format) {
	case "float32", "int8":
	default:
		return fmt.Errorf("input.format must be float32 or int8, got %q", cfg.Input.Format)
	}

	if cfg.Web.Enabled && (cfg.Web.Port < 1 || cfg.Web.Port > 65535) {
		return fmt.Errorf("web.port must be 1..65535, got %d", cfg.Web.Port)
	}
	if cfg.Metrics.Enabled && (cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port must be 1..65535, got %d", cfg.Metrics.Port)
	}

	return nil
}
