package tdeflate

import "testing"

func fillDict(d *dictionary, data []byte) {
	for i, b := range data {
		d.insertByte(uint32(i), b)
		total := uint32(i) + 1
		if total >= minMatchLen {
			d.insertHash(total - minMatchLen)
		}
	}
}

func TestDictionary_InsertByteMirrorsTailPastBoundary(t *testing.T) {
	var d dictionary
	d.reset()
	d.insertByte(0, 0xAB)
	if d.dict[0] != 0xAB {
		t.Fatal("byte not written at its primary slot")
	}
	if d.dict[lzDictSize] != 0xAB {
		t.Fatal("byte within the first maxMatchLen-1 slots must be mirrored past lzDictSize")
	}

	d.insertByte(maxMatchLen, 0xCD)
	if d.dict[lzDictSize+maxMatchLen] != 0 {
		t.Fatal("byte at or beyond maxMatchLen-1 must not be mirrored")
	}
}

func TestDictionary_FindMatch_FindsExactRepeat(t *testing.T) {
	var d dictionary
	d.reset()

	// A leading filler byte keeps the real copy of the pattern off window
	// position 0: the sentinel value 0 doubles as "empty chain" in hash/
	// next, so a genuine match source at position 0 is unreachable.
	pattern := []byte("abcdefgh")
	buf := append([]byte{'_'}, append(append([]byte{}, pattern...), pattern...)...)

	for i, b := range buf {
		d.insertByte(uint32(i), b)
	}
	for ins := uint32(1); ins+minMatchLen <= 1+uint32(len(pattern)); ins++ {
		d.insertHash(ins)
	}

	lookaheadPos := uint32(1 + len(pattern))
	got := d.findMatch(lookaheadPos, lzDictSize, maxMatchLen, matchResult{len: minMatchLen - 1}, 128)

	if got.len < uint32(len(pattern))-minMatchLen+1 {
		t.Fatalf("expected a long match, got len=%d dist=%d", got.len, got.dist)
	}
	if got.dist != uint32(len(pattern)) {
		t.Fatalf("expected dist=%d, got %d", len(pattern), got.dist)
	}
}

func TestDictionary_FindMatch_NoMatchReturnsSeed(t *testing.T) {
	var d dictionary
	d.reset()
	fillDict(&d, []byte("xyz"))

	seed := matchResult{len: minMatchLen - 1}
	got := d.findMatch(3, lzDictSize, maxMatchLen, seed, 32)
	if got.len != seed.len {
		t.Fatalf("expected no improvement over seed, got len=%d", got.len)
	}
}

func TestDictionary_ExtendMatch_CapsAtMaxLen(t *testing.T) {
	var d dictionary
	d.reset()
	for i := 0; i < 470; i++ {
		d.insertByte(uint32(i), 'a')
	}
	got := d.extendMatch(0, 200, 258)
	if got != 258 {
		t.Fatalf("extendMatch should cap at maxLen=258, got %d", got)
	}
}

func TestDictionary_ExtendMatch_StopsAtMismatch(t *testing.T) {
	var d dictionary
	d.reset()
	for i := 0; i < 20; i++ {
		d.insertByte(uint32(i), 'a')
	}
	d.insertByte(10, 'b') // window[2:10] matches window[12:20]; slot 10 ('b') then differs from unwritten slot 20

	got := d.extendMatch(0, 10, 258) // compares window at 0 against window at 10, from offset 2
	if got != 10 {
		t.Fatalf("expected extendMatch to stop exactly at the mismatch, got %d, want 10", got)
	}
}

func TestDictionary_ClearHistoryResetsSizeAndChains(t *testing.T) {
	var d dictionary
	d.reset()
	fillDict(&d, []byte("hello world"))
	d.size = 11

	d.clearHistory()

	if d.size != 0 {
		t.Fatalf("clearHistory must reset size, got %d", d.size)
	}
	for _, h := range d.hash {
		if h != 0 {
			t.Fatal("clearHistory must zero the hash table")
		}
	}
	// window bytes are left untouched per the Full-flush open question.
	if d.dict[0] != 'h' {
		t.Fatal("clearHistory must not zero the window bytes themselves")
	}
}

func TestTrailingZeroBytes(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0x0000000000000001, 0},
		{0x0000000000000100, 1},
		{0x0000000000010000, 2},
		{0, 8},
	}
	for _, c := range cases {
		if got := trailingZeroBytes(c.v); got != c.want {
			t.Errorf("trailingZeroBytes(%#x) = %d, want %d", c.v, got, c.want)
		}
	}
}
