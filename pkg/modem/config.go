package modem

import (
	"fmt"

	"github.com/dbehnke/m17-nexus/pkg/lsf"
)

// Mode selects stream or packet operation.
type Mode uint8

const (
	ModeStream Mode = iota
	ModePacket
)

// PayloadType is the data subtype carried in the LSF TYPE field.
type PayloadType uint8

const (
	PayloadData PayloadType = iota + 1
	PayloadVoice
	PayloadVoiceData
)

// Encryption selects the encryption family.
type Encryption uint8

const (
	EncrNone Encryption = iota
	EncrScramble
	EncrAES
)

// CoderConfig is the construction-time configuration of a Coder.
type CoderConfig struct {
	SrcID       string      // source callsign, up to 9 characters
	DstID       string      // destination callsign or "@ALL"
	Mode        Mode
	Payload     PayloadType
	Encryption  Encryption
	EncrSubtype uint8  // META layout when unencrypted, AES key size selector otherwise
	CAN         uint8  // Channel Access Number, 0..15
	Meta        []byte // META payload, up to 14 bytes
	Signed      bool   // sign the stream digest at end of transmission
}

// typeField assembles the LSF TYPE value from the configuration. The
// scrambler subtype is filled in by the Coder once the scrambler is known.
func (c *CoderConfig) typeField() uint16 {
	var t uint16
	if c.Mode == ModeStream {
		t |= lsf.TypeStream
	}
	t |= uint16(c.Payload) << 1
	t |= uint16(c.Encryption) << 3
	t |= uint16(c.EncrSubtype&3) << 5
	t |= lsf.CAN(c.CAN)
	if c.Signed {
		t |= lsf.TypeSigned
	}
	return t
}

// validate rejects configurations that would produce an invalid LSF.
func (c *CoderConfig) validate() error {
	if c.CAN > 15 {
		return fmt.Errorf("channel access number %d out of range", c.CAN)
	}
	if c.Payload < PayloadData || c.Payload > PayloadVoiceData {
		return fmt.Errorf("invalid payload type %d", c.Payload)
	}
	if len(c.Meta) > 14 {
		return fmt.Errorf("meta field %d bytes, limit 14", len(c.Meta))
	}
	if c.Mode == ModePacket && c.Signed {
		return fmt.Errorf("signed streams are stream mode only")
	}
	return nil
}

// DecoderConfig is the construction-time configuration of a Decoder.
type DecoderConfig struct {
	// SyncwordThreshold is the maximum Euclidean distance between the
	// 8-symbol window and a syncword pattern to declare lock.
	SyncwordThreshold float32
	// ViterbiThreshold is the maximum error metric, as a proportion of
	// 0xFFFF, to accept a stream payload. Payloads above it are blanked to
	// zero to suppress codec artifacts.
	ViterbiThreshold float32
	// CallsignDisplay publishes decoded callsigns as ASCII strings.
	CallsignDisplay bool
	// DebugData and DebugCtrl raise diagnostic verbosity.
	DebugData bool
	DebugCtrl bool
}

// Defaults applied by NewDecoder for zero-valued thresholds.
const (
	DefaultSyncwordThreshold float32 = 0.9
	DefaultViterbiThreshold  float32 = 2.0
)
