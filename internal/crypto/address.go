package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// Uncompressed public key layout: 0x04 marker (1) + X (32) + Y (32) = 65
	PubKeyMarker   = 0x04
	PubKeyLen      = 1 + 32 + 32
	AddressLen     = 20
	AddressHexLen  = AddressLen * 2
	PrivateKeyLen  = 32
	addressHashOff = 32 - AddressLen
)

var (
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

// AddressFromPubKeyInto hashes the 64 coordinate bytes of an uncompressed public key
// and writes the 20-byte address into addrBuf. Reuses the provided hasher to avoid
// allocations; hashBuf must be at least 32 bytes.
func AddressFromPubKeyInto(hasher hash.Hash, pub, hashBuf, addrBuf []byte) {
	hasher.Reset()
	hasher.Write(pub[1:PubKeyLen])
	sum := hasher.Sum(hashBuf[:0])
	copy(addrBuf, sum[addressHashOff:32])
}

// AddressFromPubKey returns the 20-byte address of an uncompressed public key.
func AddressFromPubKey(pub []byte) ([]byte, error) {
	if len(pub) != PubKeyLen || pub[0] != PubKeyMarker {
		return nil, fmt.Errorf("public key must be %d bytes uncompressed", PubKeyLen)
	}
	return keccak256Bytes(pub[1:])[addressHashOff:], nil
}

// ChecksumAddress converts a 20-byte address to its 0x-prefixed EIP-55 string.
// Only call when you need the string (e.g. for result output).
func ChecksumAddress(addr20 []byte) string {
	if len(addr20) != AddressLen {
		panic(errors.New("address must be 20 bytes"))
	}
	return "0x" + ChecksumEncode(hex.EncodeToString(addr20))
}

// ChecksumEncode applies EIP-55 casing to a 40-character lowercase hex body (no 0x).
func ChecksumEncode(lower string) string {
	buf := make([]byte, len(lower))
	checksumInto(sha3.NewLegacyKeccak256(), buf, lower)
	return string(buf)
}

// Encoder applies EIP-55 casing on the hot path with a reusable hasher.
// Not safe for concurrent use; each worker owns one.
type Encoder struct {
	hasher  hash.Hash
	hashBuf [32]byte
	out     [AddressHexLen]byte
}

// NewEncoder creates an encoder with its own keccak state
func NewEncoder() *Encoder {
	return &Encoder{hasher: sha3.NewLegacyKeccak256()}
}

// Encode returns the EIP-55 form of a 40-character lowercase hex body.
func (e *Encoder) Encode(lower string) string {
	if len(lower) != AddressHexLen {
		return ChecksumEncode(lower)
	}
	e.hasher.Reset()
	e.hasher.Write([]byte(lower))
	sum := e.hasher.Sum(e.hashBuf[:0])
	applyChecksum(e.out[:], lower, sum)
	return string(e.out[:])
}

func checksumInto(hasher hash.Hash, dst []byte, lower string) {
	hasher.Write([]byte(lower))
	applyChecksum(dst, lower, hasher.Sum(nil))
}

func applyChecksum(dst []byte, lower string, sum []byte) {
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= '0' && c <= '9' {
			dst[i] = c
			continue
		}
		// high nibble for even positions, low nibble for odd
		n := sum[i/2] >> 4
		if i%2 == 1 {
			n = sum[i/2] & 0x0f
		}
		if n >= 8 && c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		dst[i] = c
	}
}

// IsChecksumValid reports whether a mixed-case address carries a correct EIP-55
// checksum. All-lowercase and all-uppercase addresses carry no checksum and are
// accepted as long as they are valid hex.
func IsChecksumValid(address string) bool {
	body := TrimHexPrefix(strings.TrimSpace(address))
	if len(body) != AddressHexLen {
		return false
	}
	if _, err := hex.DecodeString(body); err != nil {
		return false
	}
	lower := strings.ToLower(body)
	if body == lower || body == strings.ToUpper(body) {
		return true
	}
	return ChecksumEncode(lower) == body
}

// ---- helpers ----

func keccak256Bytes(b []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(b)
	return h.Sum(nil)
}

// TrimHexPrefix strips a leading 0x or 0X.
func TrimHexPrefix(s string) string {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		return s[2:]
	}
	return s
}

// MustAddressBytes converts a hex address string to bytes
func MustAddressBytes(addr string) ([]byte, error) {
	h := TrimHexPrefix(strings.TrimSpace(addr))
	if len(h) != AddressHexLen {
		return nil, fmt.Errorf("%w: got %d hex chars, want %d", ErrInvalidAddress, len(h), AddressHexLen)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return b, nil
}

// PrivateKeyBytes decodes a 64-character hex private key, with or without 0x.
func PrivateKeyBytes(key string) ([]byte, error) {
	h := TrimHexPrefix(strings.TrimSpace(key))
	if len(h) != PrivateKeyLen*2 {
		return nil, fmt.Errorf("%w: got %d hex chars, want %d", ErrInvalidPrivateKey, len(h), PrivateKeyLen*2)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return b, nil
}
