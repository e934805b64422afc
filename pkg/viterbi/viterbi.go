// Package viterbi implements the 16-state soft-input Viterbi decoder for the
// M17 rate-1/2, K=5 convolutional code.
//
// Decoder state is held per instance; each codec pipeline owns its own
// Decoder and there is no shared scratch between decodes.
package viterbi

import "github.com/dbehnke/m17-nexus/pkg/bits"

const (
	// ConstraintLen is the convolutional code constraint length K.
	ConstraintLen = 5
	// NumStates is the trellis state count, 2^(K-1).
	NumStates = 1 << (ConstraintLen - 1)
	// maxHistory bounds the trellis depth: the 244 decoded bits of an LSF.
	maxHistory = 244
)

// Branch output costs for the high (G1) and low (G2) coded bit, indexed by
// the eight butterfly positions (0..NumStates/2-1).
var (
	costTable0 = [8]uint16{0, 0, 0, 0, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}
	costTable1 = [8]uint16{0, 0xFFFF, 0xFFFF, 0, 0, 0xFFFF, 0xFFFF, 0}
)

// Decoder holds the metric arrays and survivor history for one decode at a
// time. The zero value is ready for use; Decode resets the state on entry.
type Decoder struct {
	prevMetrics [NumStates]uint32
	currMetrics [NumStates]uint32
	history     [maxHistory]uint16
}

// NewDecoder returns a decoder with freshly allocated working state.
func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) reset() {
	for i := range d.history {
		d.history[i] = 0
	}
	for i := 0; i < NumStates; i++ {
		d.prevMetrics[i] = 0
		d.currMetrics[i] = 0
	}
}

// Decode decodes an unpunctured soft-bit stream into out, packed MSB-first,
// and returns the accumulated error metric. len(in) must be even and no
// larger than 2*244; out must hold at least (len(in)/2+4+7)/8 bytes.
func (d *Decoder) Decode(out []byte, in []uint16) uint32 {
	d.reset()

	pos := 0
	for i := 0; i < len(in); i += 2 {
		d.decodeBit(in[i], in[i+1], pos)
		pos++
	}

	return d.chainback(out, pos, len(in)/2)
}

// DecodePunctured decodes a punctured soft-bit stream. Positions erased by
// the puncture pattern are filled with the erasure value before decoding and
// their cost is subtracted from the returned metric, so only true received
// errors are reflected.
func (d *Decoder) DecodePunctured(out []byte, in []uint16, punct []byte) uint32 {
	umsg := make([]uint16, 0, 2*maxHistory)

	p := 0
	for i := 0; i < len(in); {
		if punct[p] != 0 {
			umsg = append(umsg, in[i])
			i++
		} else {
			umsg = append(umsg, bits.SoftErasure)
		}
		p = (p + 1) % len(punct)
	}
	// An odd depunctured length can only arise from a truncated trailing
	// bit; pad with one more erasure to complete the pair.
	if len(umsg)%2 != 0 {
		umsg = append(umsg, bits.SoftErasure)
	}

	erased := uint32(len(umsg) - len(in))
	return d.Decode(out, umsg) - erased*uint32(bits.SoftErasure)
}

// decodeBit advances the trellis by one step.
func (d *Decoder) decodeBit(s0, s1 uint16, pos int) {
	for i := 0; i < NumStates/2; i++ {
		metric := uint32(bits.AbsDiff(costTable0[i], s0)) +
			uint32(bits.AbsDiff(costTable1[i], s1))

		m0 := d.prevMetrics[i] + metric
		m1 := d.prevMetrics[i+NumStates/2] + (0x1FFFE - metric)

		m2 := d.prevMetrics[i] + (0x1FFFE - metric)
		m3 := d.prevMetrics[i+NumStates/2] + metric

		i0 := 2 * i
		i1 := i0 + 1

		if m0 >= m1 {
			d.history[pos] |= 1 << i0
			d.currMetrics[i0] = m1
		} else {
			d.history[pos] &^= 1 << i0
			d.currMetrics[i0] = m0
		}

		if m2 >= m3 {
			d.history[pos] |= 1 << i1
			d.currMetrics[i1] = m3
		} else {
			d.history[pos] &^= 1 << i1
			d.currMetrics[i1] = m2
		}
	}

	d.prevMetrics, d.currMetrics = d.currMetrics, d.prevMetrics
}

// chainback walks the survivor history from the minimum-metric end state,
// writing decoded bits MSB-first into out after a 4-bit zero prefix, and
// returns the minimum final metric.
func (d *Decoder) chainback(out []byte, pos, length int) uint32 {
	var state uint8
	bitPos := length + 4

	for i := range out {
		out[i] = 0
	}

	for pos > 0 {
		bitPos--
		pos--
		bit := d.history[pos] & (1 << (state >> 4))
		state >>= 1
		if bit != 0 {
			state |= 0x80
			out[bitPos/8] |= 1 << (7 - bitPos%8)
		}
	}

	cost := d.prevMetrics[0]
	for i := 1; i < NumStates; i++ {
		if d.prevMetrics[i] < cost {
			cost = d.prevMetrics[i]
		}
	}
	return cost
}
