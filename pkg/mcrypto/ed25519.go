package mcrypto

import (
	"crypto/ed25519"
	"fmt"
)

// Ed25519Signer signs stream digests with an Ed25519 private key.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
}

// NewEd25519Signer wraps an Ed25519 private key.
func NewEd25519Signer(priv ed25519.PrivateKey) (*Ed25519Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("ed25519 private key must be %d bytes, got %d",
			ed25519.PrivateKeySize, len(priv))
	}
	return &Ed25519Signer{priv: priv}, nil
}

// Sign signs the 32-byte stream digest.
func (s *Ed25519Signer) Sign(digest [DigestSize]byte) ([SignatureSize]byte, error) {
	var out [SignatureSize]byte
	sig := ed25519.Sign(s.priv, digest[:])
	copy(out[:], sig)
	return out, nil
}

// Ed25519Verifier checks stream signatures against a public key.
type Ed25519Verifier struct {
	pub ed25519.PublicKey
}

// NewEd25519Verifier wraps an Ed25519 public key.
func NewEd25519Verifier(pub ed25519.PublicKey) (*Ed25519Verifier, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 public key must be %d bytes, got %d",
			ed25519.PublicKeySize, len(pub))
	}
	return &Ed25519Verifier{pub: pub}, nil
}

// Verify reports whether sig is a valid signature over digest.
func (v *Ed25519Verifier) Verify(digest [DigestSize]byte, sig [SignatureSize]byte) bool {
	return ed25519.Verify(v.pub, digest[:], sig[:])
}
