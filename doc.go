// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

/*
Package tdeflate implements a streaming DEFLATE (RFC 1951) compression
engine, optionally wrapped in the zlib container format (RFC 1950).

The engine consumes input in arbitrary-sized increments and produces a
conformant compressed bitstream incrementally, so it can be embedded in
file-format tooling (gzip, zlib, PNG, ZIP) and network codecs that need to
compress without holding the whole payload in memory.

# Compress

Flags are built with CreateFlags (mirroring zlib's level/windowBits/strategy
triple) or assembled directly from the Flag* bit constants:

	c := tdeflate.NewCompressor(tdeflate.CreateFlags(6, 15, tdeflate.StrategyDefault))
	status, _, n := c.Compress(src, dst, tdeflate.FlushFinish)

Compress writes into a caller-supplied buffer. CompressToOutput instead
delivers output through a callback, for callers that want to stream
directly to a socket or file without an intermediate buffer:

	status, _ := c.CompressToOutput(src, func(p []byte) bool {
		_, err := w.Write(p)
		return err == nil
	}, tdeflate.FlushFinish)

Non-goals: decompression, parallel compression of a single stream, preset
dictionaries, and zlib-level API compatibility beyond flag mapping.
*/
package tdeflate
