package golay

import (
	"testing"

	"pgregory.net/rapid"
)

// hardSoft expands a 24-bit codeword into hard-valued soft bits in
// transmitted order (MSB first).
func hardSoft(cw uint32) [24]uint16 {
	var out [24]uint16
	for i := 0; i < 24; i++ {
		if cw&(1<<(23-i)) != 0 {
			out[i] = 0xFFFF
		}
	}
	return out
}

func TestEncode_ReferenceVector(t *testing.T) {
	if got := Encode(0xD78); got != 0x0D7880F {
		t.Fatalf("Encode(0xD78) = 0x%07X, want 0x0D7880F", got)
	}
}

func TestSoftDecode_Clean(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.Uint16Range(0, 0xFFF).Draw(t, "data")
		soft := hardSoft(Encode(data))
		if got := SoftDecode(soft[:]); got != data {
			t.Fatalf("SoftDecode(Encode(%03X)) = %03X", data, got)
		}
	})
}

// TestSoftDecode_SingleBitErrors flips every single bit of a codeword and
// expects full correction, covering the reference vector from the encode
// test.
func TestSoftDecode_SingleBitErrors(t *testing.T) {
	cw := Encode(0xD78)
	for bit := 0; bit < 24; bit++ {
		soft := hardSoft(cw ^ 1<<bit)
		if got := SoftDecode(soft[:]); got != 0xD78 {
			t.Errorf("bit %d flipped: decoded %03X, want 0xD78", bit, got)
		}
	}
}

func TestSoftDecode_DoubleBitErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.Uint16Range(0, 0xFFF).Draw(t, "data")
		b1 := rapid.IntRange(0, 23).Draw(t, "b1")
		b2 := rapid.IntRange(0, 23).Filter(func(v int) bool { return v != b1 }).Draw(t, "b2")

		soft := hardSoft(Encode(data) ^ 1<<b1 ^ 1<<b2)
		if got := SoftDecode(soft[:]); got != data {
			t.Fatalf("bits %d,%d flipped on %03X: decoded %03X", b1, b2, data, got)
		}
	})
}

func TestSoftDecode_TripleBitErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.Uint16Range(0, 0xFFF).Draw(t, "data")
		b1 := rapid.IntRange(0, 23).Draw(t, "b1")
		b2 := rapid.IntRange(0, 23).Filter(func(v int) bool { return v != b1 }).Draw(t, "b2")
		b3 := rapid.IntRange(0, 23).Filter(func(v int) bool { return v != b1 && v != b2 }).Draw(t, "b3")

		soft := hardSoft(Encode(data) ^ 1<<b1 ^ 1<<b2 ^ 1<<b3)
		if got := SoftDecode(soft[:]); got != data {
			t.Fatalf("bits %d,%d,%d flipped on %03X: decoded %03X", b1, b2, b3, data, got)
		}
	})
}

func TestSoftDecode_ErasuresTolerated(t *testing.T) {
	// A couple of erasures on an otherwise clean codeword still decode.
	soft := hardSoft(Encode(0xABC))
	soft[3] = 0x7FFF
	soft[17] = 0x7FFF
	if got := SoftDecode(soft[:]); got != 0xABC {
		t.Fatalf("decode with erasures = %03X, want 0xABC", got)
	}
}

func TestLICH_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chunkSlice := rapid.SliceOfN(rapid.Byte(), 6, 6).Draw(t, "chunk")

		var encoded [12]byte
		EncodeLICH(encoded[:], chunkSlice)

		// Expand the packed codewords to hard soft bits.
		var soft [96]uint16
		for i := 0; i < 96; i++ {
			if encoded[i/8]&(1<<(7-i%8)) != 0 {
				soft[i] = 0xFFFF
			}
		}

		var decoded [6]byte
		if !DecodeLICH(decoded[:], soft[:]) {
			t.Fatalf("clean LICH failed to decode")
		}
		for i := range chunkSlice {
			if decoded[i] != chunkSlice[i] {
				t.Fatalf("byte %d: got %02X, want %02X", i, decoded[i], chunkSlice[i])
			}
		}
	})
}
