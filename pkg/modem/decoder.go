package modem

import (
	"strings"

	"github.com/dbehnke/m17-nexus/pkg/bert"
	"github.com/dbehnke/m17-nexus/pkg/callsign"
	"github.com/dbehnke/m17-nexus/pkg/crc"
	"github.com/dbehnke/m17-nexus/pkg/frame"
	"github.com/dbehnke/m17-nexus/pkg/logger"
	"github.com/dbehnke/m17-nexus/pkg/lsf"
	"github.com/dbehnke/m17-nexus/pkg/mcrypto"
	"github.com/dbehnke/m17-nexus/pkg/viterbi"
)

// Fields is the record published to the upper layer for each completed link
// setup: decoded addresses, the raw TYPE and META fields, and optionally an
// SMS payload recovered from a packet transmission.
type Fields struct {
	Src   string
	Dst   string
	Type  [2]byte
	Meta  [14]byte
	CRCOK bool
	SMS   string
}

// packetTypeSMS is the packet protocol identifier for text messages.
const packetTypeSMS = 0x05

// Decoder is the end-to-end receive pipeline. It owns the acquisition state
// machine and the Viterbi working set, reverses crypto, reassembles the LSF
// from LICH chunks and packets from packet frames, maintains the stream
// digest, and verifies stream signatures.
type Decoder struct {
	cfg DecoderConfig
	log *logger.Logger

	rx *Receiver
	vd *viterbi.Decoder

	lsf        lsf.LSF
	lichBitmap uint8

	expectedFN uint16
	digest     *streamDigest
	sig        [mcrypto.SignatureSize]byte

	cipher    mcrypto.StreamCipher
	verifier  mcrypto.Verifier
	scrambler *Scrambler
	bertCnt   *bert.Counter

	packetBuf []byte

	onFields    func(Fields)
	onSignature func(valid bool)
	onBERT      func(errors int, total uint64)

	stats Stats
}

// DecoderOption configures collaborator handles and event sinks.
type DecoderOption func(*Decoder)

// WithDecoderAES attaches the stream cipher used to reverse AES-CTR payload
// encryption. The IV is rebuilt from the received LSF META field and frame
// number.
func WithDecoderAES(cipher mcrypto.StreamCipher) DecoderOption {
	return func(d *Decoder) { d.cipher = cipher }
}

// WithDecoderScrambler attaches the descrambler for ENCR_SCRAM streams.
func WithDecoderScrambler(s *Scrambler) DecoderOption {
	return func(d *Decoder) { d.scrambler = s }
}

// WithVerifier attaches the signature verifier for signed streams.
func WithVerifier(v mcrypto.Verifier) DecoderOption {
	return func(d *Decoder) { d.verifier = v }
}

// WithFieldsHandler registers the sink for completed link-setup records.
func WithFieldsHandler(fn func(Fields)) DecoderOption {
	return func(d *Decoder) { d.onFields = fn }
}

// WithSignatureHandler registers the sink for signature verification
// results.
func WithSignatureHandler(fn func(valid bool)) DecoderOption {
	return func(d *Decoder) { d.onSignature = fn }
}

// WithBERTHandler registers the sink for per-frame BERT error counts.
func WithBERTHandler(fn func(errors int, total uint64)) DecoderOption {
	return func(d *Decoder) { d.onBERT = fn }
}

// WithDecoderLogger attaches a logger; frame-level events log at debug.
func WithDecoderLogger(log *logger.Logger) DecoderOption {
	return func(d *Decoder) { d.log = log }
}

// NewDecoder builds a decoder with its own acquisition and Viterbi state.
func NewDecoder(cfg DecoderConfig, opts ...DecoderOption) *Decoder {
	if cfg.SyncwordThreshold <= 0 {
		cfg.SyncwordThreshold = DefaultSyncwordThreshold
	}
	if cfg.ViterbiThreshold <= 0 {
		cfg.ViterbiThreshold = DefaultViterbiThreshold
	}

	d := &Decoder{
		cfg:     cfg,
		log:     logger.Nop(),
		rx:      NewReceiver(cfg.SyncwordThreshold),
		vd:      viterbi.NewDecoder(),
		digest:  newStreamDigest(),
		bertCnt: bert.NewCounter(),
		stats:   nopStats{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// LSF returns a copy of the most recently reconstructed Link Setup Frame.
func (d *Decoder) LSF() lsf.LSF { return d.lsf }

// Work consumes a block of received soft symbols and returns any plaintext
// payload recovered from them. Field records, signature results and BERT
// statistics are delivered through the registered handlers.
func (d *Decoder) Work(samples []float32) []byte {
	var out []byte
	for _, s := range samples {
		ready, kind, pld := d.rx.Feed(s)
		if !ready {
			continue
		}
		d.stats.IncSyncAcquired()

		switch kind {
		case frame.KindLSF:
			d.stats.IncLSFFrames()
			d.handleLSF(pld)
		case frame.KindStream:
			d.stats.IncStreamFrames()
			out = d.handleStream(out, pld)
		case frame.KindPacket:
			d.stats.IncPacketFrames()
			d.handlePacket(pld)
		case frame.KindBERT:
			d.stats.IncBERTFrames()
			d.handleBERT(pld)
		}
	}
	return out
}

// handleLSF decodes a standalone LSF frame. A frame whose CRC fails or whose
// TYPE field is undefined is discarded and the hunt continues.
func (d *Decoder) handleLSF(pld []float32) {
	l, e := frame.DecodeLSF(d.vd, pld)
	if !l.CheckCRC() || !l.ValidType() {
		d.stats.IncCRCErrors()
		d.log.Debug("link setup frame rejected", logger.Uint32("metric", e))
		return
	}

	d.lsf = l
	d.lichBitmap = 0
	d.publishFields("")
	d.log.Debug("link setup frame accepted", logger.Uint32("metric", e))
}

// handleStream processes one stream frame: LICH reassembly, crypto
// reversal, digest maintenance, signature collection, and payload output.
func (d *Decoder) handleStream(out []byte, pld []float32) []byte {
	sf := frame.DecodeStream(d.vd, pld)
	signed := d.lsf.IsSigned()
	fn := sf.FN & 0x7FFF

	payload := sf.Payload

	// Signature frames carry the signature in clear; everything else is
	// reversed through the selected encryption family.
	isSignature := signed && fn >= fnSignatureLo
	if !isSignature {
		switch {
		case d.lsf.EncrType() == uint16(EncrAES) && d.cipher != nil:
			d.cipher.Crypt(d.receiveIV(fn), payload[:])
		case d.lsf.EncrType() == uint16(EncrScramble) && d.scrambler != nil:
			if fn == 0 {
				d.scrambler.Reset()
			} else if sf.FN%fnWrap != d.expectedFN {
				d.scrambler.SeedFor(fn)
			}
			pn := d.scrambler.NextFrame()
			for i := range payload {
				payload[i] ^= pn[i]
			}
		}
	}

	// The running digest covers the plaintext payload of every
	// pre-signature frame, mirroring the transmit side.
	if signed && fn < fnSignatureLo {
		if fn == 0 {
			d.digest.Reset()
		}
		d.digest.Update(payload[:])
	}

	// Blank payloads whose error metric exceeds the threshold; frame
	// tracking still advances.
	if float32(sf.Metric)/0xFFFF <= d.cfg.ViterbiThreshold {
		out = append(out, payload[:]...)
	} else {
		out = append(out, make([]byte, streamBlockLen)...)
		d.stats.IncViterbiDrops()
	}

	if d.cfg.DebugData {
		d.log.Debug("stream frame",
			logger.Int("fn", int(sf.FN)),
			logger.Uint32("metric", sf.Metric))
	}

	d.collectLICH(sf, fn)

	if isSignature {
		copy(d.sig[(fn-fnSignatureLo)*16:], payload[:])
		if sf.FN == fnSignatureHi|fnEOTFlag {
			d.verifySignature()
		}
	}

	d.expectedFN = (sf.FN + 1) % fnWrap
	return out
}

// collectLICH folds a received LICH chunk into the partial LSF. The bitmap
// is cleared at superframe starts and after frame discontinuities so the
// receiver recovers cleanly from missed frames.
func (d *Decoder) collectLICH(sf frame.StreamFrame, fn uint16) {
	if sf.LICHCnt >= lsf.LICHChunks {
		return
	}
	if sf.LICHCnt == 0 || (sf.FN%fnWrap != d.expectedFN && fn < fnSignatureLo) {
		d.lichBitmap = 0
	}
	if !sf.LICHOK {
		d.stats.IncLICHFailures()
		return
	}

	d.lichBitmap |= 1 << sf.LICHCnt
	d.lsf.WriteChunk(sf.LICHCnt, sf.LICH[:])

	if d.lichBitmap == 0x3F {
		if d.lsf.CheckCRC() {
			d.publishFields("")
		} else {
			d.stats.IncCRCErrors()
			d.log.Debug("reassembled link setup frame failed crc")
		}
		d.lichBitmap = 0
	}
}

// receiveIV rebuilds the AES-CTR counter block from the LSF META field and
// the frame number, the EOT flag masked off.
func (d *Decoder) receiveIV(fn uint16) [16]byte {
	var iv [16]byte
	copy(iv[:14], d.lsf.Meta[:])
	iv[14] = byte(fn>>8) & 0x7F
	iv[15] = byte(fn)
	return iv
}

// verifySignature checks the accumulated 64-byte signature against the
// finalized stream digest and publishes the result. A failed verification
// does not poison normal payload output.
func (d *Decoder) verifySignature() {
	if d.verifier == nil {
		return
	}
	valid := d.verifier.Verify(d.digest.Sum(), d.sig)
	d.stats.IncSignatures(valid)
	if d.onSignature != nil {
		d.onSignature(valid)
	}
	d.log.Info("stream signature", logger.Bool("valid", valid))
}

// handlePacket accumulates packet frames until the end-of-packet flag, then
// validates the packet CRC and publishes SMS payloads.
func (d *Decoder) handlePacket(pld []float32) {
	pf := frame.DecodePacket(d.vd, pld)
	if float32(pf.Metric)/0xFFFF > d.cfg.ViterbiThreshold {
		d.log.Debug("packet frame dropped", logger.Uint32("metric", pf.Metric))
		return
	}

	if !pf.EOF {
		// Counter is the frame index; index 0 starts a new packet.
		if pf.Counter == 0 {
			d.packetBuf = d.packetBuf[:0]
		}
		d.packetBuf = append(d.packetBuf, pf.Payload[:]...)
		return
	}

	// Final frame: the counter is the byte count used in it.
	n := int(pf.Counter)
	if n > len(pf.Payload) {
		n = len(pf.Payload)
	}
	full := append(append([]byte(nil), d.packetBuf...), pf.Payload[:n]...)
	d.packetBuf = d.packetBuf[:0]

	if len(full) < 3 || crc.Checksum(full) != 0 {
		d.stats.IncCRCErrors()
		d.log.Debug("packet crc mismatch", logger.Int("len", len(full)))
		return
	}
	content := full[:len(full)-2]

	if content[0] == packetTypeSMS {
		sms := strings.TrimRight(string(content[1:]), "\x00")
		d.stats.IncSMSReceived()
		d.publishFields(sms)
	}
}

// handleBERT feeds a decoded BERT frame into the error counter.
func (d *Decoder) handleBERT(pld []float32) {
	data, e := frame.DecodeBERT(d.vd, pld)
	if float32(e)/0xFFFF > d.cfg.ViterbiThreshold {
		return
	}
	errs := d.bertCnt.Feed(data)
	if d.onBERT != nil {
		d.onBERT(errs, d.bertCnt.TotalBits)
	}
}

// BER returns the running BERT bit error rate.
func (d *Decoder) BER() float64 { return d.bertCnt.BER() }

// publishFields delivers the current LSF contents to the registered sink.
func (d *Decoder) publishFields(sms string) {
	if d.onFields == nil {
		return
	}

	f := Fields{
		Type:  d.lsf.Type,
		Meta:  d.lsf.Meta,
		CRCOK: true,
		SMS:   sms,
	}
	if d.cfg.CallsignDisplay {
		f.Src = callsign.Decode(d.lsf.SRC)
		f.Dst = callsign.Decode(d.lsf.DST)
	}
	d.onFields(f)
}
