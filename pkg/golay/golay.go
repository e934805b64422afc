// Package golay implements the Golay(24,12) block code used by the M17 Link
// Information Channel: a hard encoder and a soft-decision syndrome decoder
// that corrects up to 3 bit errors per codeword.
package golay

import (
	"github.com/dbehnke/m17-nexus/pkg/bits"
)

// encodeMatrix holds the twelve 12-bit parity rows of the generator matrix.
var encodeMatrix = [12]uint16{
	0x8eb, 0x93e, 0xa97, 0xdc6, 0x367, 0x6cd,
	0xd99, 0x3da, 0x7b4, 0xf68, 0x63b, 0xc75,
}

// decodeMatrix holds the rows of the parity-check matrix used for the
// inverse-syndrome search.
var decodeMatrix = [12]uint16{
	0xc75, 0x49f, 0x93e, 0x6e3, 0xdc6, 0xf13,
	0xab9, 0x1ed, 0x3da, 0x7b4, 0xf68, 0xa4f,
}

// decodeFailed is the internal sentinel for an uncorrectable codeword.
const decodeFailed uint32 = 0xFFFFFFFF

// Encode encodes a 12-bit value into a 24-bit Golay codeword, data in the
// upper half.
func Encode(data uint16) uint32 {
	var checksum uint16
	for i := 0; i < 12; i++ {
		if data&(1<<i) != 0 {
			checksum ^= encodeMatrix[i]
		}
	}
	return uint32(data)<<12 | uint32(checksum)
}

// softChecksum recomputes the parity of a soft-valued data half. A data bit
// above the erasure midpoint contributes its parity row.
func softChecksum(out, value []uint16) {
	var checksum [12]uint16
	var row [12]uint16

	for i := 0; i < 12; i++ {
		if value[i] > 0x7FFF {
			bits.IntToSoft(row[:], encodeMatrix[i], 12)
			bits.SoftXORVec(checksum[:], checksum[:], row[:])
		}
	}
	copy(out, checksum[:])
}

// detectErrors runs the confidence-weighted syndrome search over a 24-soft-bit
// codeword (LSB at index 0) and returns the 24-bit error vector, or
// decodeFailed when no candidate falls below the weight thresholds.
func detectErrors(codeword []uint16) uint32 {
	data := codeword[12:24]
	parity := codeword[0:12]

	var cksum, syndrome [12]uint16
	softChecksum(cksum[:], data)
	bits.SoftXORVec(syndrome[:], parity, cksum[:])

	// All errors (fewer than 4) in the parity half.
	if bits.SoftWeight(syndrome[:]) < 4*0xFFFE {
		return uint32(bits.SoftToInt(syndrome[:], 12))
	}

	// One error in the data half, up to 3 in parity.
	var coded, sc [12]uint16
	for i := 0; i < 12; i++ {
		e := uint16(1) << i
		codedError := encodeMatrix[i]

		bits.IntToSoft(coded[:], codedError, 12)
		bits.SoftXORVec(sc[:], syndrome[:], coded[:])

		if bits.SoftWeight(sc[:]) < 3*0xFFFE {
			s := bits.SoftToInt(syndrome[:], 12)
			return uint32(e)<<12 | uint32(s^codedError)
		}
	}

	// Two errors in the data half, up to 2 in parity.
	for i := 0; i < 11; i++ {
		for j := i + 1; j < 12; j++ {
			e := uint16(1)<<i | uint16(1)<<j
			codedError := encodeMatrix[i] ^ encodeMatrix[j]

			bits.IntToSoft(coded[:], codedError, 12)
			bits.SoftXORVec(sc[:], syndrome[:], coded[:])

			if bits.SoftWeight(sc[:]) < 2*0xFFFF {
				s := bits.SoftToInt(syndrome[:], 12)
				return uint32(e)<<12 | uint32(s^codedError)
			}
		}
	}

	// Invert the syndrome through the decode matrix and repeat the search
	// against the data half directly.
	var invSyndrome, dm [12]uint16
	for i := 0; i < 12; i++ {
		if syndrome[i] > 0x7FFF {
			bits.IntToSoft(dm[:], decodeMatrix[i], 12)
			bits.SoftXORVec(invSyndrome[:], invSyndrome[:], dm[:])
		}
	}

	// All errors (fewer than 4) in the data half.
	if bits.SoftWeight(invSyndrome[:]) < 4*0xFFFF {
		return uint32(bits.SoftToInt(invSyndrome[:], 12)) << 12
	}

	// One error in the parity half, up to 3 in data.
	var tmp [12]uint16
	for i := 0; i < 12; i++ {
		e := uint16(1) << i
		codingError := decodeMatrix[i]

		bits.IntToSoft(coded[:], codingError, 12)
		bits.SoftXORVec(tmp[:], invSyndrome[:], coded[:])

		if bits.SoftWeight(tmp[:]) < 3*(0xFFFF+2) {
			return uint32(bits.SoftToInt(invSyndrome[:], 12)^codingError)<<12 | uint32(e)
		}
	}

	return decodeFailed
}

// SoftDecode decodes a 24-element soft codeword (transmitted bit order, MSB
// first) into its 12-bit data value. It returns 0xFFFF when the codeword is
// uncorrectable.
func SoftDecode(codeword []uint16) uint16 {
	// Flip to the LSB-first order the syndrome search works in.
	var cw [24]uint16
	for i := 0; i < 24; i++ {
		cw[i] = codeword[23-i]
	}

	errs := detectErrors(cw[:])
	if errs == decodeFailed {
		return 0xFFFF
	}

	word := uint32(bits.SoftToInt(cw[0:16], 16)) | uint32(bits.SoftToInt(cw[16:24], 8))<<16
	return uint16(((word ^ errs) >> 12) & 0x0FFF)
}
