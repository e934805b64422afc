package whiten

import (
	"testing"

	"pgregory.net/rapid"
)

// TestInterleave_Bijection verifies the permutation visits every position
// exactly once.
func TestInterleave_Bijection(t *testing.T) {
	seen := make([]bool, PayloadBits)
	for i := 0; i < PayloadBits; i++ {
		p := (45*i + 92*i*i) % PayloadBits
		if seen[p] {
			t.Fatalf("position %d hit twice", p)
		}
		seen[p] = true
	}
}

// TestInterleave_Involution verifies that applying the permutation twice is
// the identity, which lets one table serve both directions.
func TestInterleave_Involution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.SliceOfN(rapid.ByteRange(0, 1), PayloadBits, PayloadBits).Draw(t, "bits")

		once := make([]byte, PayloadBits)
		twice := make([]byte, PayloadBits)
		ReorderBits(once, in)
		ReorderBits(twice, once)

		for i := range in {
			if twice[i] != in[i] {
				t.Fatalf("bit %d: got %d, want %d", i, twice[i], in[i])
			}
		}
	})
}

func TestRandomize_SelfInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.SliceOfN(rapid.ByteRange(0, 1), PayloadBits, PayloadBits).Draw(t, "bits")

		work := append([]byte(nil), in...)
		RandomizeBits(work)
		RandomizeBits(work)

		for i := range in {
			if work[i] != in[i] {
				t.Fatalf("bit %d: got %d, want %d", i, work[i], in[i])
			}
		}
	})
}

func TestRandomizeSoft_MatchesHard(t *testing.T) {
	// Soft derandomization of hard-valued bits must agree with the hard
	// randomizer.
	hard := make([]byte, PayloadBits)
	soft := make([]uint16, PayloadBits)
	for i := range hard {
		if i%3 == 0 {
			hard[i] = 1
			soft[i] = 0xFFFF
		}
	}

	RandomizeBits(hard)
	RandomizeSoftBits(soft)

	for i := range hard {
		got := byte(0)
		if soft[i] > 0x7FFF {
			got = 1
		}
		if got != hard[i] {
			t.Fatalf("bit %d: soft %04X vs hard %d", i, soft[i], hard[i])
		}
	}
}

func TestRandomizeSoft_PreservesErasures(t *testing.T) {
	soft := make([]uint16, PayloadBits)
	for i := range soft {
		soft[i] = 0x7FFF
	}
	RandomizeSoftBits(soft)
	for i, v := range soft {
		if v != 0x7FFF && v != 0x8000 {
			t.Fatalf("bit %d: erasure became %04X", i, v)
		}
	}
}
