package config

import (
	"strings"

	"github.com/dbehnke/m17-nexus/pkg/modem"
)

// CoderConfig maps the station section onto a modem coder configuration.
func (c *Config) CoderConfig() modem.CoderConfig {
	cfg := modem.CoderConfig{
		SrcID:       strings.ToUpper(c.Station.SrcID),
		DstID:       strings.ToUpper(c.Station.DstID),
		EncrSubtype: uint8(c.Station.EncrSubtype),
		CAN:         uint8(c.Station.CAN),
		Meta:        []byte(c.Station.Meta),
		Signed:      c.Station.SignedStream,
	}

	if strings.EqualFold(c.Station.Mode, "packet") {
		cfg.Mode = modem.ModePacket
	} else {
		cfg.Mode = modem.ModeStream
	}

	switch strings.ToLower(c.Station.Data) {
	case "data":
		cfg.Payload = modem.PayloadData
	case "voice+data":
		cfg.Payload = modem.PayloadVoiceData
	default:
		cfg.Payload = modem.PayloadVoice
	}

	switch strings.ToLower(c.Station.EncrType) {
	case "scramble":
		cfg.Encryption = modem.EncrScramble
	case "aes":
		cfg.Encryption = modem.EncrAES
	default:
		cfg.Encryption = modem.EncrNone
	}

	return cfg
}

// DecoderConfig maps the decoder section onto a modem decoder configuration.
func (c *Config) DecoderConfig() modem.DecoderConfig {
	return modem.DecoderConfig{
		SyncwordThreshold: float32(c.Decoder.SyncwordThreshold),
		ViterbiThreshold:  float32(c.Decoder.ViterbiThreshold),
		CallsignDisplay:   c.Decoder.CallsignDisplay,
		DebugData:         c.Decoder.DebugData,
		DebugCtrl:         c.Decoder.DebugCtrl,
	}
}
