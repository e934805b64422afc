// Package convol implements the M17 rate-1/2, K=5 convolutional encoder with
// the three puncture patterns used for LSF, stream/BERT, and packet frames.
//
// Generator polynomials: G1 = x^4 + x + 1, G2 = x^4 + x^3 + x^2 + 1. Inputs
// are zero-prepended and zero-flushed with 4 bits each so the encoder starts
// and ends in state 0.
package convol

// Puncture patterns, applied round-robin over the interleaved G1/G2 output
// stream.
var (
	// PuncturePattern1 (46/61) for Link Setup Frames.
	PuncturePattern1 = []byte{
		1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1,
		1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1,
		1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1,
		1, 0, 1, 1, 1, 0, 1, 1, 1, 0, 1, 1,
	}

	// PuncturePattern2 (11/12) for stream and BERT frames.
	PuncturePattern2 = []byte{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0}

	// PuncturePattern3 (7/8) for packet frames.
	PuncturePattern3 = []byte{1, 1, 1, 1, 1, 1, 1, 0}
)

// encode runs the convolutional encoder over ud, an unpacked bit vector
// already carrying the 4-bit zero prefix and with 4 flush steps implied, and
// appends the punctured output to out. ud must have 4 + n entries with
// indices beyond n+4 readable as zero, which the callers arrange by
// allocating 4 + n + 4 entries.
func encode(out []byte, ud []byte, steps int, pattern []byte) []byte {
	p := 0
	for i := 0; i < steps; i++ {
		g1 := (ud[i+4] + ud[i+1] + ud[i+0]) & 1
		g2 := (ud[i+4] + ud[i+3] + ud[i+2] + ud[i+0]) & 1

		if pattern[p] != 0 {
			out = append(out, g1)
		}
		p = (p + 1) % len(pattern)

		if pattern[p] != 0 {
			out = append(out, g2)
		}
		p = (p + 1) % len(pattern)
	}
	return out
}

// EncodeStreamFrame encodes a 16-bit frame number and a 16-byte stream
// payload into 272 punctured channel bits (unpacked).
func EncodeStreamFrame(payload []byte, fn uint16) []byte {
	ud := make([]byte, 4+144+4)

	for i := 0; i < 16; i++ {
		ud[4+i] = byte(fn>>(15-i)) & 1
	}
	for i := 0; i < 16; i++ {
		for j := 0; j < 8; j++ {
			ud[4+16+i*8+j] = (payload[i] >> (7 - j)) & 1
		}
	}

	return encode(make([]byte, 0, 272), ud, 144+4, PuncturePattern2)
}

// EncodeLSF encodes a 30-byte Link Setup Frame into 368 punctured channel
// bits (unpacked).
func EncodeLSF(lsfBytes []byte) []byte {
	ud := make([]byte, 4+240+4)

	for i := 0; i < 30; i++ {
		for j := 0; j < 8; j++ {
			ud[4+i*8+j] = (lsfBytes[i] >> (7 - j)) & 1
		}
	}

	return encode(make([]byte, 0, 368), ud, 240+4, PuncturePattern1)
}

// EncodePacketFrame encodes a 26-byte packet frame (200 data bits, EOF flag,
// 5-bit counter) into 368 punctured channel bits (unpacked).
func EncodePacketFrame(in []byte) []byte {
	ud := make([]byte, 4+206+4)

	for i := 0; i < 26; i++ {
		for j := 0; j < 8; j++ {
			if i <= 24 || j <= 5 {
				ud[4+i*8+j] = (in[i] >> (7 - j)) & 1
			}
		}
	}

	return encode(make([]byte, 0, 368), ud, 206+4, PuncturePattern3)
}

// EncodeBERTFrame encodes 197 BERT bits packed into 25 bytes. The punctured
// output of the 201 encoder steps is one bit longer than a frame payload;
// the trailing bit is truncated to fit the 368-bit frame.
func EncodeBERTFrame(in []byte) []byte {
	ud := make([]byte, 4+197+4)

	for i := 0; i < 197; i++ {
		ud[4+i] = (in[i/8] >> (7 - i%8)) & 1
	}

	out := encode(make([]byte, 0, 376), ud, 197+4, PuncturePattern2)
	return out[:368]
}
