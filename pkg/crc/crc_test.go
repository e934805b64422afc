package crc

import (
	"testing"

	"pgregory.net/rapid"
)

// TestChecksum_ReferenceVectors validates the M17 CRC against the published
// check values.
func TestChecksum_ReferenceVectors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint16
	}{
		{"empty", []byte{}, 0xFFFF},
		{"check string", []byte("123456789"), 0x772B},
		{"byte ramp", byteRamp(), 0x1C31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.in); got != tt.want {
				t.Errorf("Checksum(%q) = 0x%04X, want 0x%04X", tt.in, got, tt.want)
			}
		})
	}
}

func byteRamp() []byte {
	out := make([]byte, 256)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

// TestChecksum_RoundTrip verifies that appending the big-endian CRC drives
// the checksum of the whole buffer to zero.
func TestChecksum_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "data")

		sum := Checksum(data)
		full := append(append([]byte(nil), data...), byte(sum>>8), byte(sum))

		if got := Checksum(full); got != 0 {
			t.Fatalf("Checksum(data||crc) = 0x%04X, want 0", got)
		}
	})
}
