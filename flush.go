// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package tdeflate

// flushBlock closes out the currently staged block: writes the zlib
// header ahead of the very first block, then chooses among compressed
// (static/dynamic), a static fallback, or a stored block per the
// block-selection heuristic in §4.7 — each candidate writes its own
// final-block bit(s), since a stored block split across maxStoredBlockLen
// may expand to more than one physical DEFLATE block. After the block is
// committed it resets the staging buffers and, for Sync/Full/Finish,
// appends the corresponding flush marker.
func (c *Compressor) flushBlock(ob *outputBuffer, flush FlushMode) bool {
	if c.blockIndex == 0 && c.flags&FlagWriteZlibWrapper != 0 {
		if !ob.putBits(0x78, 8) || !ob.putBits(0x01, 8) {
			return false
		}
	}

	c.lz.finalizeFlags()

	final := flush == FlushFinish

	saved := ob.save()
	useRaw := c.flags&FlagForceRawBlocks != 0
	wantStatic := c.flags&FlagForceStaticBlocks != 0 || c.lz.totalBytes < 48

	ok := true
	if !useRaw {
		ok = c.compressBlock(ob, wantStatic, final)
		if !ok {
			ob.load(saved)
			ok = c.compressBlock(ob, true, final)
		}
	}

	expanded := false
	if ok && !useRaw && c.lz.totalBytes > 32 && c.lz.totalBytes+c.dict.lookaheadSize <= lzDictSize {
		// Compares byte positions with a one-byte slack, matching the
		// reference engine's expansion check exactly (§9, open question).
		// A stored block copies the block's bytes back out of the window,
		// so it is only an option while the lookahead has not overwritten
		// any of them.
		if ob.pos-saved.pos+1 >= int(c.lz.totalBytes) {
			expanded = true
		}
	}

	if useRaw || !ok || expanded {
		ob.load(saved)
		if !c.writeStoredBlock(ob, final) {
			return false
		}
	}

	// Zero padding after a non-final block would be read as the next block's
	// header, so only the final block pads. A None-flush block that ends
	// mid-byte is closed with an empty stored block, which aligns the output
	// so no bits are left pending when the call returns; Sync/Full get the
	// same marker below.
	if final {
		if !ob.padToBytes() {
			return false
		}
	} else if flush == FlushNone && ob.bitsIn != 0 {
		if !writeEmptyStoredBlock(ob) {
			return false
		}
	}

	c.dict.codeBufDictPos += c.lz.totalBytes
	c.lz.reset()
	c.huff.resetCounts()
	c.blockIndex++

	switch flush {
	case FlushSync, FlushFull:
		if !writeEmptyStoredBlock(ob) {
			return false
		}
		if flush == FlushFull {
			c.dict.clearHistory()
		}
	case FlushFinish:
		if c.flags&FlagWriteZlibWrapper != 0 {
			a := c.adler.Sum32()
			if !ob.putBits((a>>24)&0xFF, 8) || !ob.putBits((a>>16)&0xFF, 8) ||
				!ob.putBits((a>>8)&0xFF, 8) || !ob.putBits(a&0xFF, 8) {
				return false
			}
		}
	}

	return true
}

// writeEmptyStoredBlock emits the canonical sync-point marker: a
// non-final stored block with zero payload, bytes 00 00 00 FF FF once
// byte-aligned (§8, testable property 8).
func writeEmptyStoredBlock(ob *outputBuffer) bool {
	ok := ob.putBits(0, 1)
	ok = ob.putBits(blockTypeStored, 2) && ok
	ok = ob.padToBytes() && ok
	ok = ob.putBits(0, 16) && ok
	ok = ob.putBits(0xFFFF, 16) && ok
	return ok
}
