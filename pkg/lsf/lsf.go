// Package lsf models the M17 Link Setup Frame: the 240-bit structure opening
// every transmission, its TYPE field layout, and the META field formats.
package lsf

import (
	"fmt"

	"github.com/dbehnke/m17-nexus/pkg/callsign"
	"github.com/dbehnke/m17-nexus/pkg/crc"
)

// Size is the LSF length in bytes.
const Size = 30

// TYPE field bits.
const (
	TypePacket uint16 = 0
	TypeStream uint16 = 1

	TypeData      uint16 = 1 << 1
	TypeVoice     uint16 = 2 << 1
	TypeVoiceData uint16 = 3 << 1

	TypeEncrNone     uint16 = 0 << 3
	TypeEncrScramble uint16 = 1 << 3
	TypeEncrAES      uint16 = 2 << 3
	TypeEncrReserved uint16 = 3 << 3

	TypeScramble8  uint16 = 0 << 5
	TypeScramble16 uint16 = 1 << 5
	TypeScramble24 uint16 = 2 << 5

	TypeAES128 uint16 = 0 << 5
	TypeAES192 uint16 = 1 << 5
	TypeAES256 uint16 = 2 << 5

	// META format selectors when no encryption is in use.
	TypeMetaText     uint16 = 0 << 5
	TypeMetaPosition uint16 = 1 << 5
	TypeMetaExtCall  uint16 = 2 << 5

	TypeSigned uint16 = 1 << 11
)

// CAN returns the TYPE bits for a Channel Access Number.
func CAN(n uint8) uint16 {
	return uint16(n&0x0F) << 7
}

// LSF is a value-typed Link Setup Frame. Copies are cheap (30 bytes).
type LSF struct {
	DST  [6]byte
	SRC  [6]byte
	Type [2]byte
	Meta [14]byte
	CRC  [2]byte
}

// New builds an LSF from callsigns, a TYPE value and an optional META field,
// and seals it with a fresh CRC.
func New(src, dst string, typ uint16, meta []byte) (LSF, error) {
	var l LSF

	srcEnc, err := callsign.Encode(src)
	if err != nil {
		return l, fmt.Errorf("source callsign: %w", err)
	}
	dstEnc, err := callsign.Encode(dst)
	if err != nil {
		return l, fmt.Errorf("destination callsign: %w", err)
	}

	l.SRC = srcEnc
	l.DST = dstEnc
	l.SetType(typ)
	l.SetMeta(meta)
	return l, nil
}

// Bytes serializes the LSF into its 30-byte wire layout.
func (l *LSF) Bytes() []byte {
	out := make([]byte, 0, Size)
	out = append(out, l.DST[:]...)
	out = append(out, l.SRC[:]...)
	out = append(out, l.Type[:]...)
	out = append(out, l.Meta[:]...)
	out = append(out, l.CRC[:]...)
	return out
}

// FromBytes fills the LSF from a 30-byte wire image.
func (l *LSF) FromBytes(b []byte) {
	copy(l.DST[:], b[0:6])
	copy(l.SRC[:], b[6:12])
	copy(l.Type[:], b[12:14])
	copy(l.Meta[:], b[14:28])
	copy(l.CRC[:], b[28:30])
}

// WriteChunk overwrites the 5-byte slice of the wire image at offset cnt*5,
// used when reassembling an LSF from received LICH chunks.
func (l *LSF) WriteChunk(cnt uint8, chunk []byte) {
	b := l.Bytes()
	copy(b[int(cnt)*5:int(cnt)*5+5], chunk[:5])
	l.FromBytes(b)
}

// TypeField returns the TYPE field as a 16-bit value.
func (l *LSF) TypeField() uint16 {
	return uint16(l.Type[0])<<8 | uint16(l.Type[1])
}

// SetType stores a TYPE value and refreshes the CRC.
func (l *LSF) SetType(typ uint16) {
	l.Type[0] = byte(typ >> 8)
	l.Type[1] = byte(typ)
	l.UpdateCRC()
}

// IsStream reports whether the stream/packet bit selects stream mode.
func (l *LSF) IsStream() bool { return l.TypeField()&1 == TypeStream }

// IsSigned reports whether the signed-stream flag is set.
func (l *LSF) IsSigned() bool { return l.TypeField()&TypeSigned != 0 }

// EncrType returns the 2-bit encryption family.
func (l *LSF) EncrType() uint16 { return (l.TypeField() >> 3) & 3 }

// EncrSubtype returns the 2-bit encryption subtype (or META format selector
// when unencrypted).
func (l *LSF) EncrSubtype() uint16 { return (l.TypeField() >> 5) & 3 }

// ChannelAccessNum returns the 4-bit Channel Access Number.
func (l *LSF) ChannelAccessNum() uint8 { return uint8((l.TypeField() >> 7) & 0x0F) }

// ValidType reports whether the TYPE field decodes to one of the defined
// combinations: a known data subtype and a non-reserved encryption family.
func (l *LSF) ValidType() bool {
	t := l.TypeField()
	if (t>>1)&3 == 0 && t&1 == TypeStream {
		return false // stream with reserved data subtype
	}
	if (t>>3)&3 == 3 {
		return false // reserved encryption family
	}
	return t>>12 == 0 // bits above the signed flag must be clear
}

// ComputeCRC computes the CRC over the first 28 bytes of the wire image.
func (l *LSF) ComputeCRC() uint16 {
	return crc.Checksum(l.Bytes()[:Size-2])
}

// UpdateCRC writes the big-endian CRC into the CRC field.
func (l *LSF) UpdateCRC() {
	c := l.ComputeCRC()
	l.CRC[0] = byte(c >> 8)
	l.CRC[1] = byte(c)
}

// CheckCRC reports whether the stored CRC matches the field contents. The
// CRC of the full 30-byte image, checksum included, is zero exactly when the
// frame is intact.
func (l *LSF) CheckCRC() bool {
	return crc.Checksum(l.Bytes()) == 0
}
