package frame

import (
	"github.com/dbehnke/m17-nexus/pkg/bits"
	"github.com/dbehnke/m17-nexus/pkg/convol"
	"github.com/dbehnke/m17-nexus/pkg/golay"
	"github.com/dbehnke/m17-nexus/pkg/lsf"
	"github.com/dbehnke/m17-nexus/pkg/viterbi"
	"github.com/dbehnke/m17-nexus/pkg/whiten"
)

// conditionPayload reverses the channel whitening on 184 received payload
// symbols: slice to soft bits, derandomize, de-interleave.
func conditionPayload(pld []float32) []uint16 {
	soft := make([]uint16, whiten.PayloadBits)
	bits.Slice(soft, pld)
	whiten.RandomizeSoftBits(soft)

	deinterleaved := make([]uint16, whiten.PayloadBits)
	whiten.ReorderSoftBits(deinterleaved, soft)
	return deinterleaved
}

// DecodeLSF decodes a Link Setup Frame from 184 payload symbols and returns
// the Viterbi error metric alongside it. The caller validates the CRC.
func DecodeLSF(vd *viterbi.Decoder, pld []float32) (lsf.LSF, uint32) {
	soft := conditionPayload(pld)

	// 244 trellis steps: 4 flush bits plus the 240 LSF bits.
	var decoded [31]byte
	e := vd.DecodePunctured(decoded[:], soft, convol.PuncturePattern1)

	var l lsf.LSF
	l.FromBytes(decoded[1:31])
	return l, e
}

// StreamFrame is a decoded stream frame before any crypto reversal.
type StreamFrame struct {
	FN      uint16
	LICHCnt uint8
	LICH    [5]byte
	LICHOK  bool
	Payload [16]byte
	Metric  uint32
}

// DecodeStream decodes a stream frame from 184 payload symbols: the
// Golay-protected LICH chunk and the convolutionally coded FN plus payload.
func DecodeStream(vd *viterbi.Decoder, pld []float32) StreamFrame {
	soft := conditionPayload(pld)

	var sf StreamFrame

	var chunk [6]byte
	sf.LICHOK = golay.DecodeLICH(chunk[:], soft[:96])
	copy(sf.LICH[:], chunk[:5])
	sf.LICHCnt = chunk[5] >> 5

	// 148 trellis steps: 4 flush bits, 16 FN bits, 128 payload bits.
	var decoded [19]byte
	sf.Metric = vd.DecodePunctured(decoded[:], soft[96:], convol.PuncturePattern2)

	sf.FN = uint16(decoded[1])<<8 | uint16(decoded[2])
	copy(sf.Payload[:], decoded[3:19])
	return sf
}

// PacketFrame is a decoded packet frame.
type PacketFrame struct {
	Payload [25]byte
	EOF     bool
	Counter uint8 // frame index, or byte count when EOF is set
	Metric  uint32
}

// DecodePacket decodes a packet frame from 184 payload symbols.
func DecodePacket(vd *viterbi.Decoder, pld []float32) PacketFrame {
	soft := conditionPayload(pld)

	// 210 trellis steps: 4 flush bits plus 206 frame bits.
	var decoded [27]byte
	var pf PacketFrame
	pf.Metric = vd.DecodePunctured(decoded[:], soft, convol.PuncturePattern3)

	copy(pf.Payload[:], decoded[1:26])
	pf.Counter = (decoded[26] >> 2) & 0x1F
	pf.EOF = decoded[26]>>7 != 0
	return pf
}

// DecodeBERT decodes the 197 reference bits of a BERT frame into 25 bytes.
func DecodeBERT(vd *viterbi.Decoder, pld []float32) ([25]byte, uint32) {
	soft := conditionPayload(pld)

	// 201 trellis steps: 4 flush bits plus 197 reference bits.
	var decoded [26]byte
	e := vd.DecodePunctured(decoded[:], soft, convol.PuncturePattern2)

	var out [25]byte
	// Decoded data sits after the 8-bit flush-and-pad prefix; shift left by
	// one byte.
	copy(out[:], decoded[1:26])
	return out, e
}
