// Package config loads and validates the m17-nexus YAML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Station  StationConfig  `mapstructure:"station"`
	Decoder  DecoderConfig  `mapstructure:"decoder"`
	Input    InputConfig    `mapstructure:"input"`
	Web      WebConfig      `mapstructure:"web"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// StationConfig holds the transmit-side link setup parameters.
type StationConfig struct {
	SrcID        string `mapstructure:"src_id"`        // source callsign, up to 9 chars
	DstID        string `mapstructure:"dst_id"`        // destination callsign or "@ALL"
	Mode         string `mapstructure:"mode"`          // stream or packet
	Data         string `mapstructure:"data"`          // data, voice, voice+data
	EncrType     string `mapstructure:"encr_type"`     // none, scramble, aes
	EncrSubtype  int    `mapstructure:"encr_subtype"`  // META layout / AES key size
	CAN          int    `mapstructure:"can"`           // Channel Access Number, 0..15
	Meta         string `mapstructure:"meta"`          // META payload text
	SignedStream bool   `mapstructure:"signed_stream"` // sign the stream digest
}

// DecoderConfig holds receive-side thresholds and verbosity.
type DecoderConfig struct {
	SyncwordThreshold float64 `mapstructure:"syncword_threshold"`
	ViterbiThreshold  float64 `mapstructure:"viterbi_threshold"`
	CallsignDisplay   bool    `mapstructure:"callsign_display"`
	DebugData         bool    `mapstructure:"debug_data"`
	DebugCtrl         bool    `mapstructure:"debug_ctrl"`
}

// InputConfig selects the symbol source for the RX daemon.
type InputConfig struct {
	Source string `mapstructure:"source"` // stdin or udp
	Listen string `mapstructure:"listen"` // UDP listen address
	Format string `mapstructure:"format"` // float32 or int8
}

// WebConfig holds web dashboard configuration
type WebConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig holds the receptions database configuration.
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MetricsConfig holds the Prometheus exporter configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads, parses and validates a configuration file.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configFile)
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("station.dst_id", "@ALL")
	v.SetDefault("station.mode", "stream")
	v.SetDefault("station.data", "voice")
	v.SetDefault("station.encr_type", "none")
	v.SetDefault("station.can", 0)

	v.SetDefault("decoder.syncword_threshold", 0.9)
	v.SetDefault("decoder.viterbi_threshold", 2.0)
	v.SetDefault("decoder.callsign_display", true)

	v.SetDefault("input.source", "stdin")
	v.SetDefault("input.listen", "0.0.0.0:17000")
	v.SetDefault("input.format", "float32")

	v.SetDefault("web.enabled", true)
	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("web.port", 8080)

	v.SetDefault("database.enabled", true)
	v.SetDefault("database.path", "data/m17-nexus.db")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9100)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
