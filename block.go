// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package tdeflate

const (
	blockTypeStored  = 0
	blockTypeStatic  = 1
	blockTypeDynamic = 2
)

// clCode is one entry of the packed code-length-alphabet stream built by
// packCodeLengths: a symbol (0-18) plus however many extra bits its
// repeat count needs.
type clCode struct {
	sym       uint8
	extraBits uint8
	extraVal  uint32
}

// packCodeLengths RLE-encodes a concatenated lit/len + distance code
// length vector using the RFC 1951 code-length alphabet (symbols 16/17/18
// for repeat/zero runs, §4.7), incrementing h's code-length frequency
// table as it goes so the alphabet's own Huffman table can be built from
// the result.
func packCodeLengths(h *huffmanTables, lens []uint8) []clCode {
	var out []clCode
	n := len(lens)
	for i := 0; i < n; {
		cs := lens[i]
		runLen := 1
		for i+runLen < n && lens[i+runLen] == cs && runLen < 138 {
			runLen++
		}

		if cs == 0 {
			rem := runLen
			for rem > 0 {
				switch {
				case rem < 3:
					for k := 0; k < rem; k++ {
						out = append(out, clCode{sym: 0})
						h.count[codeLenTable][0]++
					}
					rem = 0
				case rem <= 10:
					out = append(out, clCode{sym: 17, extraBits: 3, extraVal: uint32(rem - 3)})
					h.count[codeLenTable][17]++
					rem = 0
				default:
					take := rem
					if take > 138 {
						take = 138
					}
					out = append(out, clCode{sym: 18, extraBits: 7, extraVal: uint32(take - 11)})
					h.count[codeLenTable][18]++
					rem -= take
				}
			}
		} else {
			out = append(out, clCode{sym: cs})
			h.count[codeLenTable][cs]++
			rem := runLen - 1
			for rem > 0 {
				if rem < 3 {
					for k := 0; k < rem; k++ {
						out = append(out, clCode{sym: cs})
						h.count[codeLenTable][cs]++
					}
					rem = 0
				} else {
					take := rem
					if take > 6 {
						take = 6
					}
					out = append(out, clCode{sym: 16, extraBits: 2, extraVal: uint32(take - 3)})
					h.count[codeLenTable][16]++
					rem -= take
				}
			}
		}
		i += runLen
	}
	return out
}

// startStaticBlock writes the BTYPE=static header and derives canonical
// codes from the RFC 1951 fixed code lengths.
func (c *Compressor) startStaticBlock(ob *outputBuffer) bool {
	ok := ob.putBits(blockTypeStatic, 2)
	c.huff.startStaticBlock()
	return ok
}

// startDynamicBlock writes the BTYPE=dynamic header, the HLIT/HDIST/HCLEN
// triple, the code-length-alphabet lengths in transmission order, and the
// packed lit/len+distance code-length stream (§4.7).
func (c *Compressor) startDynamicBlock(ob *outputBuffer) bool {
	h := &c.huff
	h.count[litLenTable][endOfBlockSymbol] = 1
	h.optimizeTable(litLenTable, maxHuffSymbols0, 15, false)
	h.optimizeTable(distTable, maxHuffSymbols1, 15, false)

	numLitCodes := 286
	for numLitCodes > 257 && h.codeSizes[litLenTable][numLitCodes-1] == 0 {
		numLitCodes--
	}
	numDistCodes := 30
	for numDistCodes > 1 && h.codeSizes[distTable][numDistCodes-1] == 0 {
		numDistCodes--
	}

	lens := make([]uint8, 0, numLitCodes+numDistCodes)
	lens = append(lens, h.codeSizes[litLenTable][:numLitCodes]...)
	lens = append(lens, h.codeSizes[distTable][:numDistCodes]...)

	for i := range h.count[codeLenTable] {
		h.count[codeLenTable][i] = 0
	}
	packed := packCodeLengths(h, lens)
	h.optimizeTable(codeLenTable, maxHuffSymbols2, 7, false)

	numCLCodes := 19
	for numCLCodes > 4 && h.codeSizes[codeLenTable][huffmanLengthOrder[numCLCodes-1]] == 0 {
		numCLCodes--
	}

	ok := ob.putBits(blockTypeDynamic, 2)
	ok = ob.putBits(uint32(numLitCodes-257), 5) && ok
	ok = ob.putBits(uint32(numDistCodes-1), 5) && ok
	ok = ob.putBits(uint32(numCLCodes-4), 4) && ok
	for i := 0; i < numCLCodes; i++ {
		ok = ob.putBits(uint32(h.codeSizes[codeLenTable][huffmanLengthOrder[i]]), 3) && ok
	}
	for _, p := range packed {
		code := h.codes[codeLenTable][p.sym]
		size := h.codeSizes[codeLenTable][p.sym]
		ok = ob.putBits(uint32(code), uint32(size)) && ok
		if p.extraBits > 0 {
			ok = ob.putBits(p.extraVal, uint32(p.extraBits)) && ok
		}
	}
	return ok
}

// compressLZCodes walks the staged symbol buffer, emitting for each
// literal its lit/len code and for each back-reference the length symbol
// plus extra bits followed by the distance symbol plus extra bits, via
// the fast 64-bit accumulator, then the end-of-block code (§4.5, §4.7).
func (c *Compressor) compressLZCodes(ob *outputBuffer) bool {
	h := &c.huff
	lz := &c.lz

	// Continue from the bits the block header left pending in ob, so the
	// byte-wise flush lands right after them.
	fb := fastBitWriter{bitBuf: uint64(ob.bitBuf), bitsIn: ob.bitsIn}
	ob.bitBuf, ob.bitsIn = 0, 0
	ok := true
	pos := 0
	end := lz.codePosition

	for pos < end {
		flags := uint32(lz.codes[pos])
		pos++
		for bit := 0; bit < 8 && pos < end; bit++ {
			isMatch := flags & 1
			flags >>= 1

			if isMatch != 0 {
				lenByte := lz.codes[pos]
				distLo := lz.codes[pos+1]
				distHi := lz.codes[pos+2]
				pos += 3

				sym := lenSym[lenByte]
				extra := lenExtra[lenByte]
				length := uint32(lenByte) + minMatchLen
				fb.putFast(uint64(h.codes[litLenTable][sym]), uint32(h.codeSizes[litLenTable][sym]))
				if extra > 0 {
					fb.putFast(uint64(length-lenBase[sym-257]), uint32(extra))
				}
				if fb.bitsIn >= 32 {
					ok = fb.flush(ob) && ok
				}

				d := uint32(distLo) | uint32(distHi)<<8
				var dsym uint8
				if d < 512 {
					dsym = smallDistSym[d]
				} else {
					dsym = largeDistSym[d>>8]
				}
				dextra := uint8(0)
				if d < 512 {
					dextra = smallDistExtra[d]
				} else {
					dextra = largeDistExtra[d>>8]
				}
				fb.putFast(uint64(h.codes[distTable][dsym]), uint32(h.codeSizes[distTable][dsym]))
				if dextra > 0 {
					fb.putFast(uint64(d+1-distBase[dsym]), uint32(dextra))
				}
			} else {
				lit := lz.codes[pos]
				pos++
				fb.putFast(uint64(h.codes[litLenTable][lit]), uint32(h.codeSizes[litLenTable][lit]))
			}

			if fb.bitsIn >= 32 {
				ok = fb.flush(ob) && ok
			}
		}
	}

	ok = fb.drain(ob) && ok
	ok = ob.putBits(uint32(h.codes[litLenTable][endOfBlockSymbol]), uint32(h.codeSizes[litLenTable][endOfBlockSymbol])) && ok
	return ok
}

// compressBlock writes the final-block bit, a compressed block's header
// (static or dynamic), and then its symbol stream.
func (c *Compressor) compressBlock(ob *outputBuffer, staticBlock, final bool) bool {
	finalBit := uint32(0)
	if final {
		finalBit = 1
	}
	ok := ob.putBits(finalBit, 1)
	if staticBlock {
		ok = c.startStaticBlock(ob) && ok
	} else {
		ok = c.startDynamicBlock(ob) && ok
	}
	return c.compressLZCodes(ob) && ok
}

// maxStoredBlockLen is RFC 1951 §3.2.4's stored-block payload limit: LEN is
// a 16-bit field, so a single stored block can carry at most 65535 bytes.
const maxStoredBlockLen = 65535

// writeStoredBlock emits the current block's bytes as one or more
// BTYPE=stored sub-blocks, each padded to a byte boundary with its own
// LEN/~LEN pair and raw payload (§4.7), splitting at maxStoredBlockLen so
// LEN never overflows its 16 bits. Only the last sub-block carries the
// final-block bit, and only when final is set.
func (c *Compressor) writeStoredBlock(ob *outputBuffer, final bool) bool {
	n := c.lz.totalBytes
	ok := true
	for off := uint32(0); ; {
		chunk := n - off
		if chunk > maxStoredBlockLen {
			chunk = maxStoredBlockLen
		}
		last := off+chunk >= n

		finalBit := uint32(0)
		if final && last {
			finalBit = 1
		}
		ok = ob.putBits(finalBit, 1) && ok
		ok = ob.putBits(blockTypeStored, 2) && ok
		ok = ob.padToBytes() && ok
		ok = ob.putBits(chunk&0xFFFF, 16) && ok
		ok = ob.putBits((^chunk)&0xFFFF, 16) && ok

		for i := uint32(0); i < chunk; i++ {
			b := c.dict.readByte(c.dict.codeBufDictPos + off + i)
			ok = ob.putBits(uint32(b), 8) && ok
		}

		off += chunk
		if off >= n {
			break
		}
	}
	return ok
}
