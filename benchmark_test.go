// SPDX-License-Identifier: GPL-2.0-only

package tdeflate

import (
	"bytes"
	"fmt"
	"testing"
)

func benchmarkInputSets() map[string][]byte {
	return map[string][]byte{
		"small-text-4k":   bytes.Repeat([]byte("tdeflate benchmark text payload "), 128),
		"pattern-128k":    bytes.Repeat([]byte("ABCDEF0123456789"), 8192),
		"byte-cycle-256k": bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 26214),
	}
}

func BenchmarkCompress(b *testing.B) {
	levels := []int{0, 1, 6, 9}
	for inputName, inputData := range benchmarkInputSets() {
		for _, level := range levels {
			name := fmt.Sprintf("%s/level-%d", inputName, level)
			b.Run(name, func(b *testing.B) {
				flags := CreateFlags(level, 15, StrategyDefault)
				out := make([]byte, len(inputData)+4096)
				b.ReportAllocs()
				b.SetBytes(int64(len(inputData)))
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					c := NewCompressor(flags)
					if status, _, _ := c.Compress(inputData, out, FlushFinish); status != StatusDone {
						b.Fatalf("Compress failed: %s", status)
					}
				}
			})
		}
	}
}

func BenchmarkCompress_FastVsNormalPath(b *testing.B) {
	inputData := bytes.Repeat([]byte("fast path exercise data "), 4096)
	variants := map[string]uint32{
		"fast":   CreateFlags(1, 15, StrategyDefault),
		"normal": CreateFlags(9, 15, StrategyDefault),
	}
	for name, flags := range variants {
		b.Run(name, func(b *testing.B) {
			out := make([]byte, len(inputData)+4096)
			b.ReportAllocs()
			b.SetBytes(int64(len(inputData)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				c := NewCompressor(flags)
				c.Compress(inputData, out, FlushFinish)
			}
		})
	}
}

func BenchmarkCompressToOutput(b *testing.B) {
	inputData := bytes.Repeat([]byte("sink-based compression benchmark "), 2048)
	flags := CreateFlags(6, 15, StrategyDefault)
	b.ReportAllocs()
	b.SetBytes(int64(len(inputData)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c := NewCompressor(flags)
		c.CompressToOutput(inputData, func(p []byte) bool { return true }, FlushFinish)
	}
}
