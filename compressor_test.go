package tdeflate

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"io"
	"testing"
)

func compressAll(t *testing.T, flags uint32, data []byte) []byte {
	t.Helper()
	c := NewCompressor(flags)
	out := make([]byte, len(data)+4096)
	status, consumed, produced := c.Compress(data, out, FlushFinish)
	if status != StatusDone {
		t.Fatalf("expected StatusDone, got %s", status)
	}
	if consumed != len(data) {
		t.Fatalf("expected to consume all %d bytes, consumed %d", len(data), consumed)
	}
	return out[:produced]
}

func TestCompress_EmptyInputFinish(t *testing.T) {
	c := NewCompressor(0)
	out := make([]byte, 8)
	status, consumed, produced := c.Compress(nil, out, FlushFinish)

	if status != StatusDone {
		t.Fatalf("expected StatusDone, got %s", status)
	}
	if consumed != 0 {
		t.Fatalf("expected 0 bytes consumed, got %d", consumed)
	}
	want := []byte{0x03, 0x00}
	if !bytes.Equal(out[:produced], want) {
		t.Fatalf("got % x, want % x", out[:produced], want)
	}
}

func TestCompress_ZlibWrapperHeaderAndAdler32(t *testing.T) {
	flags := CreateFlags(6, 15, StrategyDefault)
	data := []byte("Hello, World!\n")

	out := compressAll(t, flags, data)

	if out[0] != 0x78 || out[1] != 0x01 {
		t.Fatalf("expected zlib header 78 01, got %02x %02x", out[0], out[1])
	}
	tail := out[len(out)-4:]
	want := uint32(0x24120474)
	got := uint32(tail[0])<<24 | uint32(tail[1])<<16 | uint32(tail[2])<<8 | uint32(tail[3])
	if got != want {
		t.Fatalf("Adler-32 trailer = %#x, want %#x", got, want)
	}

	zr, err := zlib.NewReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("zlib.NewReader: %v", err)
	}
	defer zr.Close()
	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("zlib read: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch: got %q, want %q", decoded, data)
	}
}

func TestCompress_RepeatedBytesCompactViaBackReferences(t *testing.T) {
	data := bytes.Repeat([]byte{'a'}, 1024)
	out := compressAll(t, CreateFlags(6, 0, StrategyDefault), data)

	if len(out) >= 20 {
		t.Fatalf("expected heavily compacted output for 1024 identical bytes, got %d bytes", len(out))
	}

	r := flate.NewReader(bytes.NewReader(out))
	defer r.Close()
	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate read: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatal("round-trip mismatch for repeated-byte input")
	}
}

func TestCompress_LevelZeroProducesStoredBlocks(t *testing.T) {
	flags := CreateFlags(0, 0, StrategyDefault)
	data := make([]byte, 2000)
	for i := range data {
		data[i] = byte(i * 37 % 251) // repeats every 251 bytes, so a compressed block would shrink it
	}

	out := compressAll(t, flags, data)

	// One final block: BFINAL in bit 0, BTYPE in bits 1..2.
	if btype := (out[0] >> 1) & 3; btype != blockTypeStored {
		t.Fatalf("expected a stored block at level 0, got BTYPE=%d", btype)
	}

	r := flate.NewReader(bytes.NewReader(out))
	defer r.Close()
	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate read: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatal("round-trip mismatch for level-0 stored stream")
	}
}

func TestCompress_StoredBlockSplitsAboveSixtyFiveKiB(t *testing.T) {
	flags := CreateFlags(0, 0, StrategyDefault)
	data := make([]byte, maxStoredBlockLen+1000)
	for i := range data {
		data[i] = byte(i * 37 % 251)
	}

	out := compressAll(t, flags, data)

	// RFC 1951 §3.2.4 caps a stored block's LEN field at 65535: a payload
	// this large must be carried by more than one physical block.
	blockCount := 0
	pos := 0
	for pos < len(out) {
		lenLo, lenHi := out[pos+1], out[pos+2]
		n := int(lenLo) | int(lenHi)<<8
		blockCount++
		pos += 5 + n
	}
	if blockCount < 2 {
		t.Fatalf("expected more than one stored sub-block for %d bytes, got %d", len(data), blockCount)
	}

	r := flate.NewReader(bytes.NewReader(out))
	defer r.Close()
	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate read: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatal("round-trip mismatch for multi-chunk stored stream")
	}
}

func TestCompress_SplitCallsAcrossFinish(t *testing.T) {
	first := []byte("the quick brown fox ")
	second := []byte("jumps over the lazy dog")

	c := NewCompressor(0)
	out := make([]byte, 4096)

	status, consumed, n1 := c.Compress(first, out, FlushNone)
	if status != StatusOkay {
		t.Fatalf("expected StatusOkay after first call, got %s", status)
	}
	if consumed != len(first) {
		t.Fatalf("expected first call to consume all of its input, consumed %d of %d", consumed, len(first))
	}

	status, consumed, n2 := c.Compress(second, out[n1:], FlushFinish)
	if status != StatusDone {
		t.Fatalf("expected StatusDone after second call, got %s", status)
	}
	if consumed != len(second) {
		t.Fatalf("expected second call to consume all of its input, consumed %d of %d", consumed, len(second))
	}

	combined := out[:n1+n2]
	r := flate.NewReader(bytes.NewReader(combined))
	defer r.Close()
	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate read: %v", err)
	}
	want := append(append([]byte{}, first...), second...)
	if !bytes.Equal(decoded, want) {
		t.Fatalf("split-call round trip mismatch: got %q, want %q", decoded, want)
	}
}

func TestCompress_SyncFlushBoundaryMarker(t *testing.T) {
	data := []byte("resync me please")

	c := NewCompressor(0)
	out := make([]byte, 4096)

	_, _, n1 := c.Compress(data, out, FlushSync)
	marker := out[n1-5 : n1]
	want := []byte{0x00, 0x00, 0x00, 0xFF, 0xFF}
	if !bytes.Equal(marker, want) {
		t.Fatalf("expected sync marker % x at the boundary, got % x", want, marker)
	}

	status, _, n2 := c.Compress(nil, out[n1:], FlushFinish)
	if status != StatusDone {
		t.Fatalf("expected StatusDone, got %s", status)
	}

	combined := out[:n1+n2]
	r := flate.NewReader(bytes.NewReader(combined))
	defer r.Close()
	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate read: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("data up to the sync point mismatch: got %q, want %q", decoded, data)
	}
}

func TestCompress_FinishIsIdempotent(t *testing.T) {
	c := NewCompressor(0)
	out := make([]byte, 64)

	status, _, n1 := c.Compress([]byte("abc"), out, FlushFinish)
	if status != StatusDone {
		t.Fatalf("expected StatusDone, got %s", status)
	}

	status, consumed, n2 := c.Compress(nil, out[n1:], FlushFinish)
	if status != StatusDone {
		t.Fatalf("expected repeated Finish to report StatusDone, got %s", status)
	}
	if consumed != 0 || n2 != 0 {
		t.Fatalf("expected no additional input consumed or output produced, got consumed=%d produced=%d", consumed, n2)
	}
}

func TestCompress_BadParamAfterFinishWithoutFinish(t *testing.T) {
	c := NewCompressor(0)
	out := make([]byte, 64)

	c.Compress([]byte("abc"), out, FlushFinish)

	status, _, _ := c.Compress([]byte("more"), out, FlushNone)
	if status != StatusBadParam {
		t.Fatalf("expected StatusBadParam for a non-Finish call after Finish, got %s", status)
	}
}

func TestCompress_StatsAccountForLiteralsAndMatches(t *testing.T) {
	c := NewCompressor(CreateFlags(6, 0, StrategyDefault))
	data := bytes.Repeat([]byte("abcabc"), 200)
	out := make([]byte, len(data)+256)
	c.Compress(data, out, FlushFinish)

	stats := c.Stats()
	if stats.LiteralBytes+stats.MatchBytes != uint64(len(data)) {
		t.Fatalf("literal+match bytes should account for all input: got %d, want %d", stats.LiteralBytes+stats.MatchBytes, len(data))
	}
	if stats.MatchCount == 0 {
		t.Fatal("expected at least one match for a repetitive input")
	}
}

func TestCompressToOutput_SinkReceivesFullStream(t *testing.T) {
	data := bytes.Repeat([]byte("streamed output test "), 500)
	c := NewCompressor(0)

	var buf bytes.Buffer
	status, consumed := c.CompressToOutput(data, func(p []byte) bool {
		buf.Write(p)
		return true
	}, FlushFinish)

	if status != StatusDone {
		t.Fatalf("expected StatusDone, got %s", status)
	}
	if consumed != len(data) {
		t.Fatalf("expected to consume all input, got %d of %d", consumed, len(data))
	}

	r := flate.NewReader(bytes.NewReader(buf.Bytes()))
	defer r.Close()
	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate read: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatal("sink-based round trip mismatch")
	}
}

func TestCompressToOutput_SinkFailureReportsPutBufFailed(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 5000)
	c := NewCompressor(0)

	calls := 0
	status, _ := c.CompressToOutput(data, func(p []byte) bool {
		calls++
		return false
	}, FlushFinish)

	if status != StatusPutBufFailed {
		t.Fatalf("expected StatusPutBufFailed, got %s", status)
	}
	if calls == 0 {
		t.Fatal("expected the sink to have been invoked at least once")
	}
}
