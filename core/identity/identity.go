package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

var (
	// ErrEmptyName is returned when an identity is created without a name.
	ErrEmptyName = errors.New("identity name cannot be empty")

	// ErrInvalidSeed is returned for seeds of the wrong length.
	ErrInvalidSeed = errors.New("seed must be 32 bytes")
)

// Identity is a node identity: a stable name plus an ed25519 key pair
// used to sign outgoing messages. Payloads are hashed with BLAKE2b-256
// before signing so signatures stay constant-size regardless of payload
// length.
type Identity struct {
	name string
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// New generates a fresh identity with a random key pair.
func New(name string) (*Identity, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	return &Identity{name: name, pub: pub, priv: priv}, nil
}

// FromSeed derives a deterministic identity from a 32-byte seed.
// The same seed always yields the same key pair, which is how a node
// keeps its identity across restarts.
func FromSeed(name string, seed []byte) (*Identity, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidSeed
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &Identity{
		name: name,
		pub:  priv.Public().(ed25519.PublicKey),
		priv: priv,
	}, nil
}

// Name returns the node's stable name.
func (id *Identity) Name() string {
	return id.name
}

// Sign hashes payload with BLAKE2b-256 and signs the digest.
func (id *Identity) Sign(payload []byte) []byte {
	digest := blake2b.Sum256(payload)
	return ed25519.Sign(id.priv, digest[:])
}

// Verify reports whether sig is a valid signature of payload by this
// identity's key.
func (id *Identity) Verify(payload, sig []byte) bool {
	digest := blake2b.Sum256(payload)
	return ed25519.Verify(id.pub, digest[:], sig)
}

// PublicKeyHex returns the hex-encoded public key, the form exchanged
// with peers and embedded in message envelopes.
func (id *Identity) PublicKeyHex() string {
	return hex.EncodeToString(id.pub)
}
