package bits

import (
	"testing"

	"pgregory.net/rapid"
)

func TestPackUnpack_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 1, 46).Draw(t, "data")

		unpacked := make([]byte, 8*len(data))
		Unpack(unpacked, data)

		packed := make([]byte, len(data))
		Pack(packed, unpacked)

		for i := range data {
			if packed[i] != data[i] {
				t.Fatalf("byte %d: got %02X, want %02X", i, packed[i], data[i])
			}
		}
	})
}

func TestUnpack_MSBFirst(t *testing.T) {
	out := make([]byte, 8)
	Unpack(out, []byte{0xA5})
	want := []byte{1, 0, 1, 0, 0, 1, 0, 1}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("bit %d: got %d, want %d", i, out[i], want[i])
		}
	}
}

func TestSymbols_DibitMap(t *testing.T) {
	// dibit 00 -> +1, 01 -> +3, 10 -> -1, 11 -> -3
	out := make([]float32, 4)
	Symbols(out, []byte{0, 0, 0, 1, 1, 0, 1, 1})
	want := []float32{+1, +3, -1, -3}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("symbol %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestInt8Conversion_Lossless(t *testing.T) {
	in := []float32{-3, -1, +1, +3, -3}
	back := Int8ToSymbols(SymbolsToInt8(in))
	for i := range in {
		if back[i] != in[i] {
			t.Errorf("symbol %d: got %v, want %v", i, back[i], in[i])
		}
	}
}

func TestEuclNorm(t *testing.T) {
	in := []float32{+3, +3, -3, -3}
	ref := []int8{+3, +3, -3, -3}
	if got := EuclNorm(in, ref); got != 0 {
		t.Errorf("identical vectors: norm %v, want 0", got)
	}

	ref2 := []int8{+3, +3, -3, +3}
	if got := EuclNorm(in, ref2); got != 6 {
		t.Errorf("one symbol off by 6: norm %v, want 6", got)
	}
}

func TestSoftXOR_HardValues(t *testing.T) {
	tests := []struct {
		a, b, want uint16
	}{
		{0x0000, 0x0000, 0x0000},
		{0xFFFF, 0x0000, 0xFFFE}, // saturated fixed-point one
		{0x0000, 0xFFFF, 0xFFFE},
		{0xFFFF, 0xFFFF, 0x0000},
	}
	for _, tt := range tests {
		got := SoftXOR(tt.a, tt.b)
		// Allow one LSB of fixed-point rounding.
		if AbsDiff(got, tt.want) > 1 {
			t.Errorf("SoftXOR(%04X, %04X) = %04X, want ~%04X", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSoftXOR_ErasureFixpoint(t *testing.T) {
	got := SoftXOR(0x7FFF, 0x7FFF)
	if AbsDiff(got, 0x7FFF) > 2 {
		t.Errorf("SoftXOR(erasure, erasure) = %04X, want ~0x7FFF", got)
	}
}

func TestSoftNOT(t *testing.T) {
	if got := SoftNOT(0x0000); got != 0xFFFF {
		t.Errorf("SoftNOT(0) = %04X", got)
	}
	if got := SoftNOT(0x7FFF); got != 0x8000 {
		t.Errorf("SoftNOT(erasure) = %04X", got)
	}
}

func TestIntToSoft_SoftToInt(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint16Range(0, 0x0FFF).Draw(t, "v")
		var soft [12]uint16
		IntToSoft(soft[:], v, 12)
		if got := SoftToInt(soft[:], 12); got != v {
			t.Fatalf("SoftToInt(IntToSoft(%03X)) = %03X", v, got)
		}
	})
}

func TestSlice_AlphabetPoints(t *testing.T) {
	tests := []struct {
		sym   float32
		want0 uint16 // dibit MSB
		want1 uint16 // dibit LSB
	}{
		{+3, 0x0000, 0xFFFF},
		{+1, 0x0000, 0x0000},
		{-1, 0xFFFF, 0x0000},
		{-3, 0xFFFF, 0xFFFF},
	}
	for _, tt := range tests {
		var out [2]uint16
		Slice(out[:], []float32{tt.sym})
		if out[0] != tt.want0 || out[1] != tt.want1 {
			t.Errorf("Slice(%v) = (%04X, %04X), want (%04X, %04X)",
				tt.sym, out[0], out[1], tt.want0, tt.want1)
		}
	}
}

func TestSlice_Thresholds(t *testing.T) {
	// The decision thresholds at -2, 0 and +2 land on the erasure value.
	var out [2]uint16

	Slice(out[:], []float32{0})
	if AbsDiff(out[0], 0x7FFF) > 2 {
		t.Errorf("symbol 0: MSB soft bit %04X, want ~erasure", out[0])
	}

	Slice(out[:], []float32{+2})
	if AbsDiff(out[1], 0x7FFF) > 2 {
		t.Errorf("symbol +2: LSB soft bit %04X, want ~erasure", out[1])
	}

	Slice(out[:], []float32{-2})
	if AbsDiff(out[1], 0x7FFF) > 2 {
		t.Errorf("symbol -2: LSB soft bit %04X, want ~erasure", out[1])
	}
}

func TestSlice_Saturation(t *testing.T) {
	var out [2]uint16
	Slice(out[:], []float32{+5})
	if out[0] != 0x0000 || out[1] != 0xFFFF {
		t.Errorf("overdriven +5 sliced to (%04X, %04X)", out[0], out[1])
	}
	Slice(out[:], []float32{-5})
	if out[0] != 0xFFFF || out[1] != 0xFFFF {
		t.Errorf("overdriven -5 sliced to (%04X, %04X)", out[0], out[1])
	}
}
