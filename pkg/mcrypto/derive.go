package mcrypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// HKDFDeriver derives session key material with HKDF-SHA256.
type HKDFDeriver struct{}

// Derive expands n bytes of key material from a shared secret.
func (HKDFDeriver) Derive(secret, salt, info []byte, n int) ([]byte, error) {
	out := make([]byte, n)
	r := hkdf.New(sha256.New, secret, salt, info)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	return out, nil
}

// ECDH computes a Curve25519 shared secret between a local private key and
// a peer public key, the input to session-key derivation.
func ECDH(priv, peerPub [32]byte) ([32]byte, error) {
	var out [32]byte
	shared, err := curve25519.X25519(priv[:], peerPub[:])
	if err != nil {
		return out, fmt.Errorf("curve25519: %w", err)
	}
	copy(out[:], shared)
	return out, nil
}

// SessionKey is the conventional derivation of a stream-cipher key from an
// ECDH agreement: HKDF-SHA256 over the shared secret with the transmission
// nonce as salt.
func SessionKey(priv, peerPub [32]byte, nonce []byte, size int) ([]byte, error) {
	shared, err := ECDH(priv, peerPub)
	if err != nil {
		return nil, err
	}
	return HKDFDeriver{}.Derive(shared[:], nonce, []byte("m17 stream key"), size)
}
