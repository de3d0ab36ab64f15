// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package tdeflate

// fillWindowFast copies bytes into the window without touching the
// chained hash table; the fast path only ever consults its own
// single-slot trigram table (§4.4). Like fillWindow, it keeps
// size+lookaheadSize within the window.
func (c *Compressor) fillWindowFast(in []byte, pos *int, limit uint32) {
	for *pos < len(in) && c.dict.lookaheadSize < limit {
		b := in[*pos]
		*pos++
		p := c.dict.lookaheadPos + c.dict.lookaheadSize
		c.dict.insertByte(p, b)
		c.dict.lookaheadSize++
	}
	if c.dict.size > lzDictSize-c.dict.lookaheadSize {
		c.dict.size = lzDictSize - c.dict.lookaheadSize
	}
}

// compressFast implements the trigram-hash fast path (§4.4, §4.8): a
// single head-slot table, popped and immediately reinstalled, no lazy
// deferral, and a 4096-byte lookahead instead of 258.
func (c *Compressor) compressFast(in []byte, ob *outputBuffer, flush FlushMode) (int, bool) {
	h := &c.huff
	inPos := 0

	for {
		c.fillWindowFast(in, &inPos, compFastLookaheadSize)

		if c.dict.lookaheadSize == 0 {
			break
		}
		if c.dict.lookaheadSize < minMatchLen {
			if flush == FlushNone && inPos == len(in) {
				break
			}
			h.recordLiteral(&c.lz, c.dict.readByte(c.dict.lookaheadPos))
			c.stats.LiteralBytes++
			c.advance(1)
			continue
		}
		if c.dict.lookaheadSize < compFastLookaheadSize && flush == FlushNone && inPos == len(in) {
			break
		}

		curPos := c.dict.lookaheadPos
		maxLen := c.dict.lookaheadSize
		if maxLen > maxMatchLen {
			maxLen = maxMatchLen
		}

		h3 := c.dict.fastTrigramHash(curPos)
		probe := c.dict.fastHash[h3]
		c.dict.fastHash[h3] = uint16(curPos)

		var cur matchResult
		if probe != 0 {
			dist := (curPos - uint32(probe)) & 0xFFFF
			if dist >= 1 && dist <= c.dict.size {
				src := curPos - dist
				if c.dict.read16(curPos) == c.dict.read16(src) &&
					c.dict.readByte(curPos+2) == c.dict.readByte(src+2) {
					cur = matchResult{dist: dist, len: c.dict.extendMatch(curPos, src, maxLen)}
				}
			}
		}
		if cur.len == 3 && cur.dist >= 8192 {
			cur.len = 0
		}

		if cur.len >= minMatchLen {
			h.recordMatch(&c.lz, cur.len, cur.dist)
			c.stats.MatchBytes += uint64(cur.len)
			c.stats.MatchCount++
			c.advance(cur.len)
		} else {
			h.recordLiteral(&c.lz, c.dict.readByte(curPos))
			c.stats.LiteralBytes++
			c.advance(1)
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
