package crypto

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"hash"
	"io"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"github.com/screa/hashhunter/pkg/types"
)

// Random bytes are pulled from the OS in chunks of this many scalars.
const randBatchScalars = 256

// ErrRandomSource is returned when the secure random source cannot be read.
var ErrRandomSource = errors.New("secure random source unavailable")

// KeyGenerator produces random secp256k1 key pairs and their addresses.
// Each worker owns one; it is not safe for concurrent use.
type KeyGenerator struct {
	rand    *bufio.Reader
	hasher  hash.Hash
	secret  [PrivateKeyLen]byte
	hashBuf [32]byte
}

// NewKeyGenerator creates a generator reading from crypto/rand.
// The initial read happens here so that an unavailable source fails at startup.
func NewKeyGenerator() (*KeyGenerator, error) {
	return NewKeyGeneratorFrom(rand.Reader)
}

// NewKeyGeneratorFrom creates a generator over an arbitrary entropy source.
func NewKeyGeneratorFrom(src io.Reader) (*KeyGenerator, error) {
	r := bufio.NewReaderSize(src, PrivateKeyLen*randBatchScalars)
	if _, err := r.Peek(PrivateKeyLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return &KeyGenerator{
		rand:   r,
		hasher: sha3.NewLegacyKeccak256(),
	}, nil
}

// Generate draws a fresh secret scalar and derives its candidate.
// An out-of-range scalar is reported as an error, never silently redrawn.
func (g *KeyGenerator) Generate() (*types.Candidate, error) {
	if _, err := io.ReadFull(g.rand, g.secret[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return deriveInto(g.hasher, g.hashBuf[:], g.secret[:])
}

// DeriveCandidate derives the public key and address for a given secret scalar.
func DeriveCandidate(secret []byte) (*types.Candidate, error) {
	var hashBuf [32]byte
	return deriveInto(sha3.NewLegacyKeccak256(), hashBuf[:], secret)
}

func deriveInto(hasher hash.Hash, hashBuf, secret []byte) (*types.Candidate, error) {
	// ToECDSA rejects zero and scalars >= N
	key, err := ethcrypto.ToECDSA(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	c := &types.Candidate{}
	copy(c.PrivateKey[:], secret)
	copy(c.PublicKey[:], ethcrypto.FromECDSAPub(&key.PublicKey))
	AddressFromPubKeyInto(hasher, c.PublicKey[:], hashBuf, c.Address[:])
	return c, nil
}
