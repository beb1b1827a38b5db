package intake

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Fingerprinter re-keys client session hashes before they are stored or compared.
type Fingerprinter struct {
	key []byte
}

// NewFingerprinter returns a Fingerprinter keyed with key. An empty key leaves session
// hashes unchanged. Keys longer than 64 bytes are rejected by blake2b.
func NewFingerprinter(key string) (*Fingerprinter, error) {
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("session hash key must be at most %d bytes", blake2b.Size)
	}
	return &Fingerprinter{key: []byte(key)}, nil
}

func (f *Fingerprinter) Keyed() bool { return f != nil && len(f.key) > 0 }

// Apply returns the stored form of a client session hash.
func (f *Fingerprinter) Apply(sessionHash string) string {
	if !f.Keyed() {
		return sessionHash
	}
	h, err := blake2b.New256(f.key)
	if err != nil {
		// Key length is checked in NewFingerprinter.
		panic(err)
	}
	_, _ = h.Write([]byte(sessionHash))
	return hex.EncodeToString(h.Sum(nil))
}
