// Package callsign implements the M17 base-40 callsign address codec.
//
// A callsign of up to 9 characters over the 40-character alphabet is encoded
// as a 48-bit big-endian value in 6 bytes. The broadcast address "@ALL"
// encodes as all ones; addresses starting with '#' occupy the hash range
// above 40^9; the remaining range up to the broadcast value is reserved.
package callsign

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet is the base-40 character map, index 0 being the space character.
const Alphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-/."

const (
	// Broadcast is the encoded value of the "@ALL" address.
	Broadcast uint64 = 0xFFFFFFFFFFFF

	base40x9 uint64 = 262144000000000 // 40^9, start of the hash range
	base40x8 uint64 = 6553600000000   // 40^8, size of the hash range
)

var (
	ErrTooLong      = errors.New("callsign longer than 9 characters")
	ErrBadCharacter = errors.New("character outside the callsign alphabet")
)

// EncodeValue encodes a callsign string into its 48-bit address value.
func EncodeValue(call string) (uint64, error) {
	if call == "@ALL" {
		return Broadcast, nil
	}
	if len(call) > 9 {
		return 0, fmt.Errorf("%q: %w", call, ErrTooLong)
	}

	start := 0
	if strings.HasPrefix(call, "#") {
		start = 1
	}

	var v uint64
	for i := len(call) - 1; i >= start; i-- {
		idx := strings.IndexByte(Alphabet, call[i])
		if idx < 0 {
			return 0, fmt.Errorf("%q: %w", call, ErrBadCharacter)
		}
		v = v*40 + uint64(idx)
	}

	if start == 1 {
		v += base40x9
	}
	return v, nil
}

// Encode encodes a callsign string into its 6-byte big-endian address.
func Encode(call string) ([6]byte, error) {
	var out [6]byte
	v, err := EncodeValue(call)
	if err != nil {
		return out, err
	}
	for i := 0; i < 6; i++ {
		out[5-i] = byte(v >> (8 * i))
	}
	return out, nil
}

// DecodeValue decodes a 48-bit address value into a callsign string. The
// decoder is total: the broadcast value decodes to "@ALL" and reserved
// values decode to the empty string.
func DecodeValue(v uint64) string {
	var sb strings.Builder

	if v >= base40x9 {
		switch {
		case v == Broadcast:
			return "@ALL"
		case v <= base40x9+base40x8:
			sb.WriteByte('#')
			v -= base40x9
		default: // reserved range
			return ""
		}
	}

	for v > 0 {
		sb.WriteByte(Alphabet[v%40])
		v /= 40
	}
	return sb.String()
}

// Decode decodes a 6-byte big-endian address into a callsign string.
func Decode(addr [6]byte) string {
	var v uint64
	for i := 0; i < 6; i++ {
		v |= uint64(addr[5-i]) << (8 * i)
	}
	return DecodeValue(v)
}
