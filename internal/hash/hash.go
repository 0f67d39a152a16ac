// Package hash fingerprints save-file content.
//
// The editor records a SHA-256 fingerprint of a save file when it is loaded
// and compares it against the file on disk before saving, so changes made by
// another program (usually the running game) are not silently overwritten.
// The package provides both a real implementation using crypto/sha256 and a
// fake implementation for testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Hasher fingerprints file content. Callers read the bytes themselves,
// through whatever filesystem they were loaded from.
type Hasher interface {
	// HashBytes computes the hash of data already in memory.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes computes the SHA-256 hash of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with deterministic hashes for testing.
type FakeHasher struct {
	mu       sync.Mutex
	contents map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		contents: make(map[string]string),
	}
}

// SetContentHash sets the hash returned by HashBytes for data.
func (h *FakeHasher) SetContentHash(data []byte, hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.contents[string(data)] = hash
}

// HashBytes returns the predetermined hash for data.
func (h *FakeHasher) HashBytes(data []byte) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hash, ok := h.contents[string(data)]; ok {
		return hash
	}
	return "fakehash"
}
