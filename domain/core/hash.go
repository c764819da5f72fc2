package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashDigest is a hex-encoded SHA-256 digest used for reproducibility
// fingerprints.
type HashDigest string

// NewHashDigest creates a digest from raw bytes.
func NewHashDigest(data []byte) HashDigest {
	sum := sha256.Sum256(data)
	return HashDigest(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h HashDigest) String() string {
	return string(h)
}

// IsEmpty checks if the digest is empty
func (h HashDigest) IsEmpty() bool {
	return h == ""
}
