package oplog

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomIDSuffix returns 16 lowercase hex characters from 8 cryptographically
// random bytes, the suffix half of the identifier grammar.
func RandomIDSuffix() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand.Read only fails when the OS entropy source is broken
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// NewOperationID returns a conforming identifier for the given label.
func NewOperationID(label string) string {
	return label + ":" + RandomIDSuffix()
}
