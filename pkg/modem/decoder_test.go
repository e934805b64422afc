package modem

import (
	"testing"

	"github.com/dbehnke/m17-nexus/pkg/frame"
)

// transmitStream runs a minimal stream transmission and returns all symbols.
func transmitStream(t *testing.T, cfg CoderConfig, blocks int, opts ...CoderOption) []float32 {
	t.Helper()
	c, err := NewCoder(cfg, opts...)
	if err != nil {
		t.Fatalf("NewCoder: %v", err)
	}

	var out []float32
	for i := 0; i < blocks; i++ {
		b := make([]byte, 16)
		for j := range b {
			b[j] = byte(i + j)
		}
		syms, err := c.Encode(b)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		out = append(out, syms...)
	}
	syms, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return append(out, syms...)
}

// TestDecoder_LSFFromLICHOnly drops the dedicated LSF frame and expects the
// decoder to rebuild the link setup from six LICH chunks.
func TestDecoder_LSFFromLICHOnly(t *testing.T) {
	cfg := CoderConfig{
		SrcID:   "AB1CDE",
		DstID:   "N0CALL",
		Mode:    ModeStream,
		Payload: PayloadVoice,
		CAN:     9,
	}
	syms := transmitStream(t, cfg, 8)

	// Strip the preamble and the LSF frame; acquisition starts mid-stream.
	syms = syms[2*frame.SymbolsPerFrame:]

	var fields []Fields
	d := NewDecoder(DecoderConfig{CallsignDisplay: true},
		WithFieldsHandler(func(f Fields) { fields = append(fields, f) }))
	d.Work(syms)

	if len(fields) == 0 {
		t.Fatal("no fields published from LICH reassembly")
	}
	got := fields[len(fields)-1]
	if got.Src != "AB1CDE" || got.Dst != "N0CALL" {
		t.Errorf("fields = %+v", got)
	}
	gotLSF := d.LSF()
	if gotLSF.ChannelAccessNum() != 9 {
		t.Errorf("CAN = %d, want 9", gotLSF.ChannelAccessNum())
	}
}

// TestDecoder_BlanksHighMetricPayload corrupts the first stream frame, sets a
// tight Viterbi threshold and expects that frame's payload blanked to zero.
func TestDecoder_BlanksHighMetricPayload(t *testing.T) {
	cfg := CoderConfig{
		SrcID:   "N0CALL",
		DstID:   "@ALL",
		Mode:    ModeStream,
		Payload: PayloadVoice,
	}
	syms := transmitStream(t, cfg, 2)

	// Corrupt a run of payload symbols in the first stream frame.
	off := 2*frame.SymbolsPerFrame + 20
	for i := 0; i < 60; i++ {
		syms[off+i] = -syms[off+i]
	}

	d := NewDecoder(DecoderConfig{ViterbiThreshold: 0.001})
	payload := d.Work(syms)

	if len(payload) != 2*16 {
		t.Fatalf("payload length %d, want 32", len(payload))
	}
	for i := 0; i < 16; i++ {
		if payload[i] != 0 {
			t.Fatalf("corrupted frame not blanked: byte %d = %02X", i, payload[i])
		}
	}
}

// TestDecoder_SecondTransmission verifies the decoder keeps working after a
// transmission ends and a new one begins.
func TestDecoder_SecondTransmission(t *testing.T) {
	cfg := CoderConfig{
		SrcID:   "N0CALL",
		DstID:   "@ALL",
		Mode:    ModeStream,
		Payload: PayloadVoice,
	}

	first := transmitStream(t, cfg, 2)
	second := transmitStream(t, cfg, 3)

	d := NewDecoder(DecoderConfig{})
	got := d.Work(append(first, second...))
	if len(got) != (2+3)*16 {
		t.Errorf("payload length %d, want %d", len(got), (2+3)*16)
	}
}
