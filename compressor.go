// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package tdeflate

import "github.com/streamdeflate/tdeflate/internal/adler32x"

// Stats accumulates per-stream counters an embedding caller (the CLI's
// logging, say) can use to report a compression ratio. Generalizes the
// teacher's per-match-type counters (matchBytes/litBytes) to DEFLATE's
// two-symbol-class model.
type Stats struct {
	LiteralBytes uint64
	MatchBytes   uint64
	MatchCount   uint64
}

// Compressor is a single-threaded, synchronous DEFLATE engine. It owns
// all of its working memory (dictionary, symbol buffer, Huffman tables)
// and reuses it across blocks; see the resource model for why none of
// this is pooled or reallocated per call.
type Compressor struct {
	dict dictionary
	lz   lzBuffer
	huff huffmanTables

	flags    uint32
	probes   [2]uint32
	greedy   bool
	rle      bool
	filter   bool
	fastPath bool

	blockIndex uint32
	adler      *adler32x.Hash
	finished   bool
	prevStatus Status

	hasSaved   bool
	savedLit   byte
	savedMatch matchResult

	stats Stats
}

// NewCompressor builds a Compressor from a flag word, typically produced
// by CreateFlags.
func NewCompressor(flags uint32) *Compressor {
	c := &Compressor{flags: flags, adler: adler32x.New()}
	c.dict.reset()
	c.lz.reset()
	c.probes = probeBudgets(flags)
	c.greedy = flags&FlagGreedyParsing != 0
	c.rle = flags&FlagRLEMatches != 0
	c.filter = flags&FlagFilterMatches != 0
	c.fastPath = flags&maxProbesMask == 1 && c.greedy && !c.rle && !c.filter && flags&FlagForceRawBlocks == 0
	c.prevStatus = StatusOkay
	return c
}

// Adler32 returns the running Adler-32 of all input passed to Compress or
// CompressToOutput so far (every call that does not fail consumes all of
// its input). Only meaningful when FlagComputeAdler32 or
// FlagWriteZlibWrapper is set.
func (c *Compressor) Adler32() uint32 { return c.adler.Sum32() }

// PrevStatus returns the status returned by the most recent Compress or
// CompressToOutput call.
func (c *Compressor) PrevStatus() Status { return c.prevStatus }

// Flags returns the flag word the Compressor was constructed with.
func (c *Compressor) Flags() uint32 { return c.flags }

// Stats returns a snapshot of the literal/match byte counters accumulated
// across the whole stream.
func (c *Compressor) Stats() Stats { return c.stats }

func (c *Compressor) updateAdler(data []byte) {
	if c.flags&(FlagWriteZlibWrapper|FlagComputeAdler32) == 0 {
		return
	}
	c.adler.Write(data)
}

// Compress consumes from in and writes compressed output into out,
// returning the resulting status plus how much of each buffer was used.
func (c *Compressor) Compress(in, out []byte, flush FlushMode) (Status, int, int) {
	ob := &outputBuffer{buf: out}
	consumed, status := c.compressInner(in, ob, flush)
	return status, consumed, ob.pos
}

// CompressToOutput behaves like Compress but delivers output through sink
// instead of a caller-owned buffer. sink receives a slice valid only for
// the duration of the call and returns whether the write succeeded.
func (c *Compressor) CompressToOutput(in []byte, sink func([]byte) bool, flush FlushMode) (Status, int) {
	local := make([]byte, 64*1024)
	total := 0
	remaining := in
	for {
		ob := &outputBuffer{buf: local}
		consumed, status := c.compressInner(remaining, ob, flush)
		total += consumed
		remaining = remaining[consumed:]
		if ob.pos > 0 && !sink(local[:ob.pos]) {
			c.prevStatus = StatusPutBufFailed
			return StatusPutBufFailed, total
		}
		if status != StatusOkay {
			return status, total
		}
		if len(remaining) == 0 {
			return status, total
		}
	}
}

// compressInner is the top-level state machine: it keeps a PutBufFailed
// status sticky, validates the flush-finish-once invariant, updates the
// running Adler-32 over this call's input, and dispatches to the fast or
// normal path.
func (c *Compressor) compressInner(in []byte, ob *outputBuffer, flush FlushMode) (int, Status) {
	if c.prevStatus == StatusPutBufFailed {
		return 0, StatusPutBufFailed
	}
	if c.finished && flush != FlushFinish {
		c.prevStatus = StatusBadParam
		return 0, StatusBadParam
	}
	if c.finished {
		c.prevStatus = StatusDone
		return 0, StatusDone
	}

	// The zlib trailer is written by the path's final flushBlock, so the
	// checksum must already cover this call's input when the path runs.
	c.updateAdler(in)

	var consumed int
	var ok bool
	if c.fastPath {
		consumed, ok = c.compressFast(in, ob, flush)
	} else {
		consumed, ok = c.compressNormal(in, ob, flush)
	}

	if !ok {
		c.prevStatus = StatusPutBufFailed
		return consumed, StatusPutBufFailed
	}

	if flush == FlushFinish && consumed == len(in) {
		c.finished = true
		c.prevStatus = StatusDone
		return consumed, StatusDone
	}

	c.prevStatus = StatusOkay
	return consumed, StatusOkay
}
