// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package tdeflate

// lzCodeBufSize bounds the interleaved symbol buffer; block emission is
// forced well before this fills (see engine_normal.go / engine_fast.go).
const lzCodeBufSize = 64 * 1024

// lzBuffer stages literals and back-references as an interleaved packed
// stream: every 8 ops share one leading flag byte, bit i set meaning op i
// is a back-reference. A literal is 1 byte; a back-reference is 3 bytes,
// (length-3) then distance-1 little-endian (§3).
type lzBuffer struct {
	codes        [lzCodeBufSize]byte
	codePosition int
	flagPosition int
	numFlagsLeft int
	totalBytes   uint32
}

func (b *lzBuffer) reset() {
	b.codePosition = 0
	b.numFlagsLeft = 8
	b.totalBytes = 0
	b.initFlag()
}

func newLZBuffer() *lzBuffer {
	b := &lzBuffer{}
	b.reset()
	return b
}

func (b *lzBuffer) writeCode(c byte) {
	b.codes[b.codePosition] = c
	b.codePosition++
}

// initFlag reserves the next byte as a flag byte and remembers its
// position so later ops can set their bit in plantFlag. Called once at
// reset and once every time consumeFlag wraps a group of 8 ops.
func (b *lzBuffer) initFlag() {
	b.flagPosition = b.codePosition
	b.codePosition++
}

func (b *lzBuffer) getFlag() byte {
	return b.codes[b.flagPosition]
}

func (b *lzBuffer) plantFlag(flag byte) {
	b.codes[b.flagPosition] = flag
}

func (b *lzBuffer) consumeFlag() {
	b.numFlagsLeft--
	if b.numFlagsLeft == 0 {
		b.numFlagsLeft = 8
		b.initFlag()
	}
}

// finalizeFlags right-justifies the trailing, possibly-partial flag byte
// down to bit 0 before the block is emitted. A completed group of 8 ops
// already has its bits in their final bit-i-per-op-i position, migrated
// there one shift at a time by consumeFlag as later ops in the group were
// recorded. A partial trailing group never got those remaining shifts, so
// its bits still sit shifted left by the number of ops that were never
// recorded into it; this is the real finalization step (the reference
// calls it plant_flag) that compressLZCodes' bit-0-per-op reader depends
// on. If the trailing group has no ops at all, the flag byte reserved for
// it by initFlag was never needed and is dropped instead.
func (b *lzBuffer) finalizeFlags() {
	if b.numFlagsLeft == 8 {
		b.codes[b.flagPosition] = 0
		b.codePosition--
	} else {
		b.codes[b.flagPosition] >>= uint(b.numFlagsLeft)
	}
}

// recordLiteral stages a literal byte, bumps its frequency count, and
// advances the flag-byte bookkeeping.
func (h *huffmanTables) recordLiteral(b *lzBuffer, lit byte) {
	b.totalBytes++
	b.writeCode(lit)
	flag := b.getFlag() >> 1
	b.plantFlag(flag)
	b.consumeFlag()
	h.count[litLenTable][lit]++
}

// recordMatch stages a back-reference. The caller guarantees
// length >= minMatchLen and dist in [1, lzDictSize]; recordMatch bumps the
// length/distance frequency counts via the
// LEN_SYM/SMALL_DIST_SYM/LARGE_DIST_SYM tables (§4.5).
func (h *huffmanTables) recordMatch(b *lzBuffer, length, dist uint32) {
	b.totalBytes += length

	b.writeCode(byte(length - minMatchLen))
	d := dist - 1
	b.writeCode(byte(d))
	b.writeCode(byte(d >> 8))

	flag := (b.getFlag() >> 1) | 0x80
	b.plantFlag(flag)
	b.consumeFlag()

	h.count[litLenTable][lenSym[length-minMatchLen]]++
	if d < 512 {
		h.count[distTable][smallDistSym[d]]++
	} else {
		h.count[distTable][largeDistSym[d>>8]]++
	}
}
