// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package tdeflate

// Flag bits control the engine's output format and matching behavior. They
// are assembled by hand or via CreateFlags and passed to NewCompressor.
const (
	// FlagWriteZlibWrapper wraps the stream in the zlib container: a 2-byte
	// header before the first block and a big-endian Adler-32 trailer after
	// the final block.
	FlagWriteZlibWrapper uint32 = 0x1000

	// FlagComputeAdler32 maintains a running Adler-32 over consumed input
	// even when the zlib wrapper itself is not requested.
	FlagComputeAdler32 uint32 = 0x2000

	// FlagGreedyParsing disables lazy match deferral: a candidate match is
	// taken immediately instead of checking whether the next position
	// yields a longer one.
	FlagGreedyParsing uint32 = 0x4000

	// flagNondeterministicParsing is accepted for flag-word compatibility
	// with the original C/Rust flag layout but has no effect here: this
	// engine's fast path is already deterministic.
	flagNondeterministicParsing uint32 = 0x8000

	// FlagRLEMatches restricts all matches to distance 1, turning the
	// match finder into a pure run-length coder.
	FlagRLEMatches uint32 = 0x10000

	// FlagFilterMatches discards any match shorter than 6 bytes, trading
	// match density for a smaller, more regular symbol alphabet.
	FlagFilterMatches uint32 = 0x20000

	// FlagForceStaticBlocks never emits a dynamic Huffman table; every
	// compressed block uses the fixed RFC 1951 code lengths.
	FlagForceStaticBlocks uint32 = 0x40000

	// FlagForceRawBlocks never emits a compressed block; every block is
	// stored verbatim.
	FlagForceRawBlocks uint32 = 0x80000

	// maxProbesMask isolates the 12-bit probe budget from the flag word.
	maxProbesMask uint32 = 0xFFF
)

// Status reports the outcome of a Compress or CompressToOutput call.
type Status int

const (
	// StatusBadParam indicates an invalid argument, such as calling
	// Compress again with a flush mode other than FlushFinish after
	// FlushFinish has already been accepted.
	StatusBadParam Status = -2

	// StatusPutBufFailed indicates the output sink rejected a write.
	StatusPutBufFailed Status = -1

	// StatusOkay indicates the call consumed as much input and produced
	// as much output as it could; more calls are expected.
	StatusOkay Status = 0

	// StatusDone indicates FlushFinish was requested and the stream,
	// including any zlib trailer, has been fully emitted.
	StatusDone Status = 1
)

// String renders the status the way the teacher's enums render: a short,
// lowercase, code-like name.
func (s Status) String() string {
	switch s {
	case StatusBadParam:
		return "bad_param"
	case StatusPutBufFailed:
		return "put_buf_failed"
	case StatusOkay:
		return "okay"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// FlushMode selects what the engine does with already-buffered data that
// doesn't yet fill a block.
type FlushMode int

const (
	// FlushNone buffers as much as possible before emitting a block.
	FlushNone FlushMode = 0

	// FlushSync flushes all pending data to a byte boundary and emits an
	// empty stored block, so a decoder can resynchronize mid-stream.
	FlushSync FlushMode = 2

	// FlushFull behaves like FlushSync and additionally resets the
	// dictionary's hash tables, so future matches cannot reference data
	// before this point.
	FlushFull FlushMode = 3

	// FlushFinish flushes all pending data, emits the final-block bit,
	// and (if the zlib wrapper is enabled) the Adler-32 trailer. Once
	// accepted, every subsequent call must also request FlushFinish.
	FlushFinish FlushMode = 4
)

// Strategy biases the match finder and block emitter away from the default
// lazy-matching behavior.
type Strategy int

const (
	// StrategyDefault uses lazy matching with no restrictions.
	StrategyDefault Strategy = 0

	// StrategyFiltered sets FlagFilterMatches.
	StrategyFiltered Strategy = 1

	// StrategyHuffmanOnly disables match finding entirely (zero probe
	// budget), encoding every input byte as a literal.
	StrategyHuffmanOnly Strategy = 2

	// StrategyRLE sets FlagRLEMatches.
	StrategyRLE Strategy = 3

	// StrategyFixed sets FlagForceStaticBlocks.
	StrategyFixed Strategy = 4
)

// CreateFlags builds a flag word from a zlib-style (level, windowBits,
// strategy) triple, the same mapping zlib's deflateInit2 performs.
//
// level is clamped to [0, 10]; a negative level selects the default (6).
// windowBits > 0 requests the zlib wrapper; windowBits <= 0 produces a
// raw DEFLATE stream.
func CreateFlags(level, windowBits int, strategy Strategy) uint32 {
	if level < 0 {
		level = 6
	}
	if level > 10 {
		level = 10
	}

	var flags uint32
	if strategy == StrategyHuffmanOnly {
		flags = 0
	} else {
		flags = numProbesTable[level]
	}

	if level <= 3 {
		flags |= FlagGreedyParsing
	}
	if level == 0 {
		flags |= FlagForceRawBlocks
	}
	if windowBits > 0 {
		flags |= FlagWriteZlibWrapper
	}

	switch strategy {
	case StrategyFiltered:
		flags |= FlagFilterMatches
	case StrategyHuffmanOnly:
		flags &^= maxProbesMask
	case StrategyRLE:
		flags |= FlagRLEMatches
	case StrategyFixed:
		flags |= FlagForceStaticBlocks
	}

	return flags
}

// probeBudgets derives the two-entry max-probes table from the low 12
// flag bits: element 0 bounds an initial match attempt, element 1 bounds
// a follow-up (lazy) attempt.
func probeBudgets(flags uint32) [2]uint32 {
	p := flags & maxProbesMask
	return [2]uint32{
		1 + (p+2)/3,
		1 + ((p>>2)+2)/3,
	}
}
