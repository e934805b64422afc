package mcrypto

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// PacketSealer authenticates and encrypts whole packet-mode payloads with
// ChaCha20-Poly1305 before they enter the frame chunker. Unlike the
// per-frame stream cipher this operates on the complete packet, so the
// receiver can reject tampered packets before publishing them.
type PacketSealer struct {
	aead cipher.AEAD
}

// NewPacketSealer builds a sealer from a 32-byte key. The key slice is not
// retained.
func NewPacketSealer(key []byte) (*PacketSealer, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("chacha20poly1305: %w", err)
	}
	return &PacketSealer{aead: aead}, nil
}

// Seal encrypts a packet payload under a 12-byte nonce, binding the LSF
// addresses passed as associated data.
func (s *PacketSealer) Seal(nonce [12]byte, plaintext, aad []byte) []byte {
	return s.aead.Seal(nil, nonce[:], plaintext, aad)
}

// Open decrypts and authenticates a sealed packet payload.
func (s *PacketSealer) Open(nonce [12]byte, ciphertext, aad []byte) ([]byte, error) {
	out, err := s.aead.Open(nil, nonce[:], ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("packet authentication failed: %w", err)
	}
	return out, nil
}
