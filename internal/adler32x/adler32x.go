// SPDX-License-Identifier: GPL-2.0-only

// Package adler32x wraps the standard library's hash/adler32 behind the
// small incremental interface the compression engine's driver needs: a
// value that can be fed consumed input in arbitrary chunks across many
// calls and queried for its current checksum at any point. hash/adler32
// only exposes whole-buffer Checksum and the hash.Hash32 interface, so
// this keeps the underlying hash.Hash32 alive across Write calls rather
// than trying to resume from a bare checksum value.
package adler32x

import (
	"hash"
	"hash/adler32"
)

// Hash is a running Adler-32 checksum over data written to it so far.
type Hash struct {
	h hash.Hash32
}

// New returns a Hash seeded to the canonical Adler-32 initial state.
func New() *Hash {
	return &Hash{h: adler32.New()}
}

// Write folds p into the running checksum. Never returns an error:
// hash.Hash32's Write is defined to always succeed.
func (a *Hash) Write(p []byte) {
	_, _ = a.h.Write(p)
}

// Sum32 returns the checksum of everything written so far.
func (a *Hash) Sum32() uint32 { return a.h.Sum32() }
