// Package frame assembles and disassembles 40 ms M17 frames: preamble,
// syncword, channel-coded payload, and the End-of-Transmission marker.
package frame

import (
	"github.com/dbehnke/m17-nexus/pkg/bits"
	"github.com/dbehnke/m17-nexus/pkg/convol"
	"github.com/dbehnke/m17-nexus/pkg/golay"
	"github.com/dbehnke/m17-nexus/pkg/lsf"
	"github.com/dbehnke/m17-nexus/pkg/whiten"
)

// Frame geometry in symbols.
const (
	SymbolsPerSyncword = 8
	SymbolsPerPayload  = 184
	SymbolsPerFrame    = 192
)

// Syncwords, one per frame type, plus the EOT marker pattern.
const (
	SyncLSF    uint16 = 0x55F7
	SyncStream uint16 = 0xFF5D
	SyncPacket uint16 = 0x75FF
	SyncBERT   uint16 = 0xDF55
	EOTMarker  uint16 = 0x555D
)

// Kind identifies a frame type.
type Kind int

const (
	KindLSF Kind = iota
	KindStream
	KindPacket
	KindBERT
)

// Preamble selects the preamble polarity: LSF transmissions start +3,-3,
// BERT transmissions start -3,+3.
type Preamble int

const (
	PreambleLSF Preamble = iota
	PreambleBERT
)

// RX hard-symbol patterns for syncword correlation, derived from the
// syncwords through the symbol map.
var (
	LSFSyncSymbols    = syncPattern(SyncLSF)
	StreamSyncSymbols = syncPattern(SyncStream)
	PacketSyncSymbols = syncPattern(SyncPacket)
	BERTSyncSymbols   = syncPattern(SyncBERT)
	EOTSymbols        = syncPattern(EOTMarker)
)

func syncPattern(word uint16) [8]int8 {
	var out [8]int8
	for i := 0; i < 8; i++ {
		out[i] = int8(bits.SymbolMap[(word>>(14-2*i))&3])
	}
	return out
}

// GenPreamble emits the 192-symbol alternating preamble.
func GenPreamble(p Preamble) []float32 {
	out := make([]float32, SymbolsPerFrame)
	a, b := float32(+3), float32(-3)
	if p == PreambleBERT {
		a, b = b, a
	}
	for i := 0; i < SymbolsPerFrame; i += 2 {
		out[i] = a
		out[i+1] = b
	}
	return out
}

// GenSyncword emits the 8 symbols of a 16-bit syncword, dibits MSB-first.
func GenSyncword(word uint16) []float32 {
	out := make([]float32, SymbolsPerSyncword)
	for i := 0; i < SymbolsPerSyncword; i++ {
		out[i] = bits.SymbolMap[(word>>(14-2*i))&3]
	}
	return out
}

// GenEOT emits the 192-symbol End-of-Transmission marker: the EOT pattern
// repeated 24 times.
func GenEOT() []float32 {
	pattern := GenSyncword(EOTMarker)
	out := make([]float32, SymbolsPerFrame)
	for i := range out {
		out[i] = pattern[i%SymbolsPerSyncword]
	}
	return out
}

// Generate composes a full 192-symbol frame: syncword followed by the
// channel-coded payload. For stream frames the first 96 payload bits carry
// the Golay-coded LICH and data holds the 16-byte payload; for LSF frames
// data is ignored; packet frames take 26 bytes, BERT frames 25.
func Generate(kind Kind, data []byte, l *lsf.LSF, lichCnt uint8, fn uint16) []float32 {
	encBits := make([]byte, whiten.PayloadBits)
	out := make([]float32, 0, SymbolsPerFrame)

	switch kind {
	case KindLSF:
		out = append(out, GenSyncword(SyncLSF)...)
		copy(encBits, convol.EncodeLSF(l.Bytes()))
	case KindStream:
		out = append(out, GenSyncword(SyncStream)...)
		lich := l.ExtractLICH(lichCnt)
		var lichEncoded [12]byte
		golay.EncodeLICH(lichEncoded[:], lich[:])
		bits.Unpack(encBits[:96], lichEncoded[:])
		copy(encBits[96:], convol.EncodeStreamFrame(data, fn))
	case KindPacket:
		out = append(out, GenSyncword(SyncPacket)...)
		copy(encBits, convol.EncodePacketFrame(data))
	case KindBERT:
		out = append(out, GenSyncword(SyncBERT)...)
		copy(encBits, convol.EncodeBERTFrame(data))
	}

	rfBits := make([]byte, whiten.PayloadBits)
	whiten.ReorderBits(rfBits, encBits)
	whiten.RandomizeBits(rfBits)

	payload := make([]float32, SymbolsPerPayload)
	bits.Symbols(payload, rfBits)
	return append(out, payload...)
}
