package util

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns an opaque unique record identifier.
func NewID() string {
	return uuid.NewString()
}

// NewSuffix returns a short random hex suffix for collision avoidance in
// generated file names.
func NewSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
