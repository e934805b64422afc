package modem

import (
	"errors"
	"fmt"

	"github.com/dbehnke/m17-nexus/pkg/bert"
	"github.com/dbehnke/m17-nexus/pkg/crc"
	"github.com/dbehnke/m17-nexus/pkg/frame"
	"github.com/dbehnke/m17-nexus/pkg/logger"
	"github.com/dbehnke/m17-nexus/pkg/lsf"
	"github.com/dbehnke/m17-nexus/pkg/mcrypto"
)

// txState is the coder's frame-emission sub-state.
type txState uint8

const (
	txSendingPayload txState = iota
	txSendingSignature
	txSentEOT
)

// Frame-number constants: the EOT flag bit and the four-frame signature
// window at the top of the counter range.
const (
	fnEOTFlag      uint16 = 0x8000
	fnWrap         uint16 = 0x8000
	fnSignatureLo  uint16 = 0x7FFC
	fnSignatureHi  uint16 = 0x7FFF
	streamBlockLen        = 16
)

var (
	// ErrFinished is returned once the coder has emitted its EOT marker.
	ErrFinished = errors.New("transmission already finished")
)

// Coder is the end-to-end transmit pipeline: it buffers payload blocks,
// applies the selected crypto, maintains the stream digest and frame
// numbering, and drives the frame assembler. One Coder serves one
// transmission.
type Coder struct {
	cfg CoderConfig
	log *logger.Logger

	lsf     lsf.LSF
	nextLSF *lsf.LSF

	fn      uint16
	lichCnt uint8

	gotLSF       bool
	sendPreamble bool
	state        txState

	pending   []byte // one-block lookahead so Finish can flag the last frame
	digest    *streamDigest
	cipher    mcrypto.StreamCipher
	signer    mcrypto.Signer
	scrambler *Scrambler
	iv        [14]byte // AES IV prefix carried in the LSF META field
}

// CoderOption configures collaborator handles on a Coder.
type CoderOption func(*Coder)

// WithAES attaches a stream cipher and the 14-byte IV prefix that is carried
// in the LSF META field. The low two IV bytes mirror the frame number.
func WithAES(cipher mcrypto.StreamCipher, iv [14]byte) CoderOption {
	return func(c *Coder) {
		c.cipher = cipher
		c.iv = iv
	}
}

// WithScrambler attaches the pseudo-noise scrambler for ENCR_SCRAM.
func WithScrambler(s *Scrambler) CoderOption {
	return func(c *Coder) { c.scrambler = s }
}

// WithSigner attaches the digest signer for signed streams.
func WithSigner(s mcrypto.Signer) CoderOption {
	return func(c *Coder) { c.signer = s }
}

// WithCoderLogger attaches a logger; frame-level events log at debug.
func WithCoderLogger(log *logger.Logger) CoderOption {
	return func(c *Coder) { c.log = log }
}

// NewCoder validates the configuration, builds the initial LSF and primes
// the transmit state.
func NewCoder(cfg CoderConfig, opts ...CoderOption) (*Coder, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("coder config: %w", err)
	}

	c := &Coder{
		cfg:          cfg,
		log:          logger.Nop(),
		sendPreamble: true,
		digest:       newStreamDigest(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.Signed && c.signer == nil {
		return nil, fmt.Errorf("coder config: signed stream without a signer")
	}
	if cfg.Encryption == EncrAES && c.cipher == nil {
		return nil, fmt.Errorf("coder config: AES selected without a cipher")
	}
	if cfg.Encryption == EncrScramble && c.scrambler == nil {
		return nil, fmt.Errorf("coder config: scrambler selected without a seed")
	}

	typ := cfg.typeField()
	if cfg.Encryption == EncrScramble {
		// The subtype bits carry the LFSR width.
		typ &^= 3 << 5
		typ |= uint16(c.scrambler.Subtype()) << 5
	}

	l, err := lsf.New(cfg.SrcID, cfg.DstID, typ, cfg.Meta)
	if err != nil {
		return nil, fmt.Errorf("coder config: %w", err)
	}
	if cfg.Encryption == EncrAES {
		// The META field carries the IV prefix.
		l.SetMeta(c.iv[:])
	}
	c.lsf = l

	return c, nil
}

// LSF returns a copy of the current Link Setup Frame.
func (c *Coder) LSF() lsf.LSF { return c.lsf }

// SetNextLSF queues an updated LSF to be swapped in at the next superframe
// boundary.
func (c *Coder) SetNextLSF(next lsf.LSF) {
	next.UpdateCRC()
	c.nextLSF = &next
}

// Encode accepts one 16-byte payload block and returns the symbols emitted
// for it. The preamble and LSF frame precede the first stream frame; each
// block is held back one call so Finish can mark the final frame.
func (c *Coder) Encode(block []byte) ([]float32, error) {
	if c.state == txSentEOT {
		return nil, ErrFinished
	}
	if len(block) != streamBlockLen {
		return nil, fmt.Errorf("stream payload must be %d bytes, got %d", streamBlockLen, len(block))
	}
	if c.cfg.Mode != ModeStream {
		return nil, fmt.Errorf("coder is not in stream mode")
	}

	var out []float32
	out = c.emitPrologue(out)

	if c.pending != nil {
		out = c.emitStreamFrame(out, c.pending, c.fn)
		c.advance()
	}
	c.pending = append([]byte(nil), block...)
	return out, nil
}

// Finish drains the buffered payload, emits the signature frames when the
// stream is signed, and closes the transmission with the EOT marker. A
// signing failure aborts the transmission: no symbols are returned.
func (c *Coder) Finish() ([]float32, error) {
	if c.state == txSentEOT {
		return nil, ErrFinished
	}

	var out []float32
	out = c.emitPrologue(out)

	if c.pending != nil {
		fn := c.fn
		if !c.cfg.Signed {
			fn |= fnEOTFlag
		}
		out = c.emitStreamFrame(out, c.pending, fn)
		c.advance()
		c.pending = nil
	}

	if c.cfg.Signed {
		sig, err := c.signer.Sign(c.digest.Sum())
		if err != nil {
			return nil, fmt.Errorf("stream signing: %w", err)
		}

		c.state = txSendingSignature
		for i := 0; i < 4; i++ {
			fn := fnSignatureLo + uint16(i)
			if fn == fnSignatureHi {
				fn |= fnEOTFlag
			}
			out = append(out, frame.Generate(frame.KindStream, sig[i*16:(i+1)*16], &c.lsf, c.lichCnt, fn)...)
			c.lichCnt = (c.lichCnt + 1) % lsf.LICHChunks
		}
	}

	out = append(out, frame.GenEOT()...)
	c.state = txSentEOT
	c.log.Debug("transmission finished", logger.Int("final_fn", int(c.fn)))
	return out, nil
}

// emitPrologue sends the preamble and LSF frame once per transmission.
func (c *Coder) emitPrologue(out []float32) []float32 {
	if c.sendPreamble {
		out = append(out, frame.GenPreamble(frame.PreambleLSF)...)
		c.sendPreamble = false
	}
	if !c.gotLSF {
		out = append(out, frame.Generate(frame.KindLSF, nil, &c.lsf, 0, 0)...)
		c.gotLSF = true
	}
	return out
}

// emitStreamFrame applies the digest and crypto to one payload block and
// appends the resulting stream frame.
func (c *Coder) emitStreamFrame(out []float32, block []byte, fn uint16) []float32 {
	// The digest covers the plaintext; the receive side mirrors this after
	// reversing the crypto.
	if c.cfg.Signed {
		c.digest.Update(block)
	}

	data := make([]byte, streamBlockLen)
	copy(data, block)

	switch c.cfg.Encryption {
	case EncrAES:
		c.cipher.Crypt(c.frameIV(fn), data)
	case EncrScramble:
		pn := c.scrambler.NextFrame()
		for i := range data {
			data[i] ^= pn[i]
		}
	}

	return append(out, frame.Generate(frame.KindStream, data, &c.lsf, c.lichCnt, fn)...)
}

// frameIV builds the AES-CTR counter block: the 14-byte META IV prefix plus
// the frame number with the EOT flag masked off.
func (c *Coder) frameIV(fn uint16) [16]byte {
	var iv [16]byte
	copy(iv[:14], c.iv[:])
	iv[14] = byte(fn>>8) & 0x7F
	iv[15] = byte(fn)
	return iv
}

// advance steps the frame number and LICH counter, refreshing the LSF at
// superframe boundaries.
func (c *Coder) advance() {
	c.fn = (c.fn + 1) % fnWrap
	c.lichCnt = (c.lichCnt + 1) % lsf.LICHChunks

	if c.lichCnt == 0 && c.nextLSF != nil {
		c.lsf = *c.nextLSF
		c.nextLSF = nil
		c.log.Debug("link setup frame refreshed at superframe boundary")
	}
}

// EncodePacket emits a complete packet-mode transmission for up to 798 bytes
// of payload: preamble, LSF, CRC-terminated packet frames, and the EOT
// marker.
func (c *Coder) EncodePacket(data []byte) ([]float32, error) {
	if c.state == txSentEOT {
		return nil, ErrFinished
	}
	if c.cfg.Mode != ModePacket {
		return nil, fmt.Errorf("coder is not in packet mode")
	}
	// 32 frames of 25 bytes, less the 2-byte CRC.
	if len(data) > 32*25-2 {
		return nil, fmt.Errorf("packet payload %d bytes, limit %d", len(data), 32*25-2)
	}

	var out []float32
	out = c.emitPrologue(out)

	// The packet ends with its CRC; the checksum of the whole thing is zero.
	sum := crc.Checksum(data)
	pkt := append(append([]byte(nil), data...), byte(sum>>8), byte(sum))

	for i, n := 0, 0; i < len(pkt); n++ {
		chunk := make([]byte, 26)
		remaining := len(pkt) - i
		if remaining > 25 {
			copy(chunk, pkt[i:i+25])
			chunk[25] = byte(n&0x1F) << 2
		} else {
			copy(chunk, pkt[i:])
			chunk[25] = 1<<7 | byte(remaining&0x1F)<<2
		}
		out = append(out, frame.Generate(frame.KindPacket, chunk, &c.lsf, 0, 0)...)
		i += 25
	}

	out = append(out, frame.GenEOT()...)
	c.state = txSentEOT
	return out, nil
}

// EncodeBERT emits a BERT transmission of n frames of the PRBS9 reference
// sequence, framed by the BERT preamble and the EOT marker.
func (c *Coder) EncodeBERT(n int) ([]float32, error) {
	if c.state == txSentEOT {
		return nil, ErrFinished
	}

	out := frame.GenPreamble(frame.PreambleBERT)
	gen := bert.NewGenerator()
	for i := 0; i < n; i++ {
		data := gen.NextFrame()
		out = append(out, frame.Generate(frame.KindBERT, data[:], &c.lsf, 0, 0)...)
	}
	out = append(out, frame.GenEOT()...)
	c.state = txSentEOT
	return out, nil
}
