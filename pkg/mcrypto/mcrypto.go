// Package mcrypto defines the cryptographic capability set the codec
// pipelines depend on, together with backends built on the standard library
// and golang.org/x/crypto.
//
// The codec core never owns key material: it holds these interfaces for the
// duration of a transmission and treats every operation as opaque. Nothing
// in this package logs or otherwise discloses keys, seeds, IVs, or
// signatures.
package mcrypto

// DigestSize is the stream digest length in bytes (SHA-256).
const DigestSize = 32

// SignatureSize is the stream signature length in bytes.
const SignatureSize = 64

// Signer signs a finalized stream digest.
type Signer interface {
	Sign(digest [DigestSize]byte) ([SignatureSize]byte, error)
}

// Verifier checks a stream signature against a digest.
type Verifier interface {
	Verify(digest [DigestSize]byte, sig [SignatureSize]byte) bool
}

// StreamCipher encrypts or decrypts a 16-byte frame payload in place under
// a per-frame IV. CTR-style ciphers are their own inverse.
type StreamCipher interface {
	Crypt(iv [16]byte, payload []byte)
}

// Deriver derives key material from a shared secret.
type Deriver interface {
	Derive(secret, salt, info []byte, n int) ([]byte, error)
}
