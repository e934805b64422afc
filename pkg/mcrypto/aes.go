package mcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// AESCTR is a StreamCipher running AES in counter mode with the 16-byte
// frame IV as the initial counter block. Key sizes 16, 24 and 32 select
// AES-128/192/256.
type AESCTR struct {
	block cipher.Block
}

// NewAESCTR builds an AES-CTR stream cipher. The key slice is not retained.
func NewAESCTR(key []byte) (*AESCTR, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("aes key must be 16, 24 or 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}
	return &AESCTR{block: block}, nil
}

// Crypt applies the AES-CTR keystream for iv to payload in place.
func (a *AESCTR) Crypt(iv [16]byte, payload []byte) {
	ctr := cipher.NewCTR(a.block, iv[:])
	ctr.XORKeyStream(payload, payload)
}
