// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package tdeflate

// fillWindow copies bytes from in[*pos:] into the dictionary window,
// inserting each new triple into the hash chain as soon as it is fully
// available, until the lookahead reaches limit or in is exhausted (§4.2).
// History slots overwritten by the new lookahead bytes are dropped from
// size, so size+lookaheadSize never exceeds the window.
func (c *Compressor) fillWindow(in []byte, pos *int, limit uint32) {
	for *pos < len(in) && c.dict.lookaheadSize < limit {
		b := in[*pos]
		*pos++
		p := c.dict.lookaheadPos + c.dict.lookaheadSize
		c.dict.insertByte(p, b)
		c.dict.lookaheadSize++

		total := c.dict.lookaheadPos + c.dict.lookaheadSize
		if total >= minMatchLen {
			c.dict.insertHash(total - minMatchLen)
		}
	}
	if c.dict.size > lzDictSize-c.dict.lookaheadSize {
		c.dict.size = lzDictSize - c.dict.lookaheadSize
	}
}

// advance moves count bytes from lookahead into history, growing size up
// to its lzDictSize cap (fillWindow/fillWindowFast keep it lower while a
// lookahead is present).
func (c *Compressor) advance(count uint32) {
	c.dict.lookaheadPos += count
	c.dict.lookaheadSize -= count
	c.dict.size += count
	if c.dict.size > lzDictSize {
		c.dict.size = lzDictSize
	}
}

// bufferUnderPressure reports whether the staged symbol buffer is close
// enough to full, or the block is compressing poorly enough, to force an
// intermediate None-flush block (§4.8 step 6).
func (c *Compressor) bufferUnderPressure() bool {
	if c.lz.codePosition > lzCodeBufSize-8 {
		return true
	}
	tb := c.lz.totalBytes
	if tb > 31*1024 && (uint64(c.lz.codePosition)*115)>>7 >= uint64(tb) {
		return true
	}
	return false
}

// runLength returns the length of the run of dict.readByte(from-1)
// starting at from, capped at limit, used by the RLE strategy.
func (c *Compressor) runLength(from uint32, limit uint32) uint32 {
	if c.dict.size == 0 {
		return 0
	}
	ref := c.dict.readByte(from - 1)
	var n uint32
	for n < limit && c.dict.readByte(from+n) == ref {
		n++
	}
	return n
}

// commitSaved emits the deferred match saved by an earlier iteration's
// lazy decision.
func (c *Compressor) commitSaved() {
	h := &c.huff
	h.recordMatch(&c.lz, c.savedMatch.len, c.savedMatch.dist)
	c.stats.MatchBytes += uint64(c.savedMatch.len)
	c.stats.MatchCount++
	c.advance(c.savedMatch.len - 1)
	c.hasSaved = false
}

// compressNormal implements the lazy-matching driver loop (§4.8): fill
// the window, find a candidate match at the current position, apply the
// lazy commit/defer decision against any previously saved candidate, and
// periodically force an intermediate block when the symbol buffer nears
// capacity.
func (c *Compressor) compressNormal(in []byte, ob *outputBuffer, flush FlushMode) (int, bool) {
	h := &c.huff
	inPos := 0

	for {
		c.fillWindow(in, &inPos, maxMatchLen)

		if c.dict.lookaheadSize == 0 {
			if c.hasSaved {
				c.commitSaved()
				if c.bufferUnderPressure() {
					if !c.flushBlock(ob, FlushNone) {
						return inPos, false
					}
				}
				continue
			}
			break
		}

		if c.dict.lookaheadSize < maxMatchLen && flush == FlushNone && inPos == len(in) {
			break
		}

		curPos := c.dict.lookaheadPos
		maxLen := c.dict.lookaheadSize
		if maxLen > maxMatchLen {
			maxLen = maxMatchLen
		}

		// FlagForceRawBlocks always emits stored blocks, which carry raw
		// window bytes rather than the symbol stream, so finding (and
		// staging) matches here would be pure wasted work; every position
		// falls through to the literal path below instead.
		var cur matchResult
		if c.flags&FlagForceRawBlocks == 0 {
			if c.rle {
				if run := c.runLength(curPos, maxLen); run >= minMatchLen {
					cur = matchResult{dist: 1, len: run}
				}
			} else {
				seedLen, seedDist := uint32(minMatchLen-1), uint32(0)
				if c.hasSaved {
					seedLen, seedDist = c.savedMatch.len, c.savedMatch.dist
				}
				probeIdx := 0
				if seedLen >= 32 {
					probeIdx = 1
				}
				cur = c.dict.findMatch(curPos, c.dict.size, maxLen, matchResult{dist: seedDist, len: seedLen}, c.probes[probeIdx])
			}
		}

		if cur.len == 3 && cur.dist >= 8192 {
			cur.len = 0
		}
		if c.filter && cur.len <= 5 {
			cur.len = 0
		}
		if cur.dist == curPos {
			cur.len = 0
		}

		switch {
		case c.hasSaved && cur.len > c.savedMatch.len:
			h.recordLiteral(&c.lz, c.savedLit)
			c.stats.LiteralBytes++
			if cur.len >= 128 {
				h.recordMatch(&c.lz, cur.len, cur.dist)
				c.stats.MatchBytes += uint64(cur.len)
				c.stats.MatchCount++
				c.advance(cur.len)
				c.hasSaved = false
			} else {
				lit := c.dict.readByte(curPos)
				c.advance(1)
				c.savedMatch = cur
				c.savedLit = lit
				c.hasSaved = true
			}

		case c.hasSaved:
			c.commitSaved()

		case cur.len < minMatchLen:
			h.recordLiteral(&c.lz, c.dict.readByte(curPos))
			c.stats.LiteralBytes++
			c.advance(1)

		case c.greedy || c.rle || cur.len >= 128:
			h.recordMatch(&c.lz, cur.len, cur.dist)
			c.stats.MatchBytes += uint64(cur.len)
			c.stats.MatchCount++
			c.advance(cur.len)

		default:
			lit := c.dict.readByte(curPos)
			c.advance(1)
			c.savedMatch = cur
			c.savedLit = lit
			c.hasSaved = true
		}

		if c.bufferUnderPressure() {
			if !c.flushBlock(ob, FlushNone) {
				return inPos, false
			}
		}
	}

	if flush != FlushNone {
		if !c.flushBlock(ob, flush) {
			return inPos, false
		}
	}
	return inPos, true
}
