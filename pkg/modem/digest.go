package modem

import (
	"crypto/sha256"
	"hash"

	"github.com/dbehnke/m17-nexus/pkg/mcrypto"
)

// streamDigest is the running SHA-256 over every pre-signature frame payload
// of a signed stream. Both ends digest the plaintext, so the transmitted
// signature verifies independently of the encryption family in use.
type streamDigest struct {
	h hash.Hash
}

func newStreamDigest() *streamDigest {
	return &streamDigest{h: sha256.New()}
}

func (d *streamDigest) Reset() {
	d.h.Reset()
}

func (d *streamDigest) Update(payload []byte) {
	d.h.Write(payload)
}

func (d *streamDigest) Sum() [mcrypto.DigestSize]byte {
	var out [mcrypto.DigestSize]byte
	d.h.Sum(out[:0])
	return out
}
