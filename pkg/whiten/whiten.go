// Package whiten implements the two channel-whitening stages applied to every
// 368-bit M17 frame payload: the fixed quadratic interleaver and the additive
// randomizer.
package whiten

// PayloadBits is the number of channel bits in a frame payload.
const PayloadBits = 368

// randSeq is the fixed 46-byte additive randomizer sequence.
var randSeq = [46]byte{
	0xD6, 0xB5, 0xE2, 0x30, 0x82, 0xFF, 0x84, 0x62,
	0xBA, 0x4A, 0x96, 0x90, 0xD8, 0x98, 0xDD, 0x5D,
	0x0C, 0xC8, 0x52, 0x43, 0x91, 0x1D, 0xF8, 0x6E,
	0x68, 0x2F, 0x35, 0xDA, 0x14, 0xEA, 0xCD, 0x76,
	0x19, 0x8D, 0xD5, 0x80, 0xD1, 0x33, 0x87, 0x13,
	0x57, 0x18, 0x2D, 0x29, 0x78, 0xC3,
}

// interleaveSeq is the quadratic permutation pi(i) = (45i + 92i^2) mod 368.
// The permutation is an involution, so the same table serves both encode and
// decode.
var interleaveSeq [PayloadBits]uint16

func init() {
	for i := 0; i < PayloadBits; i++ {
		interleaveSeq[i] = uint16((45*i + 92*i*i) % PayloadBits)
	}
}

// ReorderBits applies the interleave permutation to unpacked bits.
func ReorderBits(out, in []byte) {
	for i := 0; i < PayloadBits; i++ {
		out[i] = in[interleaveSeq[i]]
	}
}

// ReorderSoftBits applies the interleave permutation to soft bits.
func ReorderSoftBits(out, in []uint16) {
	for i := 0; i < PayloadBits; i++ {
		out[i] = in[interleaveSeq[i]]
	}
}

// RandomizeBits XORs unpacked bits with the randomizer sequence in place.
func RandomizeBits(inout []byte) {
	for i := 0; i < PayloadBits; i++ {
		if randSeq[i/8]&(1<<(7-i%8)) != 0 {
			inout[i] ^= 1
		}
	}
}

// RandomizeSoftBits reverses the randomizer on soft bits in place. A set
// pattern bit inverts the soft value; a clear one leaves it alone.
func RandomizeSoftBits(inout []uint16) {
	for i := 0; i < PayloadBits; i++ {
		if randSeq[i/8]&(1<<(7-i%8)) != 0 {
			inout[i] = 0xFFFF - inout[i]
		}
	}
}
