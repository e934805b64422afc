package callsign

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

// TestEncode_ReferenceVectors checks the published encodings.
func TestEncode_ReferenceVectors(t *testing.T) {
	tests := []struct {
		call string
		want [6]byte
	}{
		{"N0CALL", [6]byte{0x00, 0x00, 0x4B, 0x13, 0xD1, 0x06}},
		{"@ALL", [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"", [6]byte{0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			got, err := Encode(tt.call)
			if err != nil {
				t.Fatalf("Encode(%q) error: %v", tt.call, err)
			}
			if got != tt.want {
				t.Errorf("Encode(%q) = % X, want % X", tt.call, got, tt.want)
			}
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	if _, err := Encode("TOOLONGCALL"); !errors.Is(err, ErrTooLong) {
		t.Errorf("expected ErrTooLong, got %v", err)
	}
	if _, err := Encode("lower"); !errors.Is(err, ErrBadCharacter) {
		t.Errorf("expected ErrBadCharacter, got %v", err)
	}
}

func TestDecode_SpecialAddresses(t *testing.T) {
	if got := DecodeValue(Broadcast); got != "@ALL" {
		t.Errorf("DecodeValue(broadcast) = %q, want @ALL", got)
	}

	// Values just above the hash range are reserved and decode empty.
	if got := DecodeValue(base40x9 + base40x8 + 1); got != "" {
		t.Errorf("reserved value decoded to %q, want empty", got)
	}
}

func TestHashAddress_RoundTrip(t *testing.T) {
	enc, err := Encode("#PARROT")
	if err != nil {
		t.Fatalf("Encode(#PARROT) error: %v", err)
	}
	if got := Decode(enc); got != "#PARROT" {
		t.Errorf("Decode(Encode(#PARROT)) = %q", got)
	}
}

// TestRoundTrip checks decode(encode(s)) == s over the full alphabet.
func TestRoundTrip(t *testing.T) {
	alphabetChars := []rune(Alphabet[1:]) // trailing spaces do not survive

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 9).Draw(t, "len")
		call := ""
		for i := 0; i < n; i++ {
			call += string(rapid.SampledFrom(alphabetChars).Draw(t, "char"))
		}

		enc, err := Encode(call)
		if err != nil {
			t.Fatalf("Encode(%q) error: %v", call, err)
		}
		if got := Decode(enc); got != call {
			t.Fatalf("Decode(Encode(%q)) = %q", call, got)
		}
	})
}
