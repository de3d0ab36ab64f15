// SPDX-License-Identifier: GPL-2.0-only

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/streamdeflate/tdeflate"
)

type compressOptions struct {
	level      int
	windowBits int
	strategy   string
	sync       bool
	fullFlush  bool
	jobs       int
	verbose    bool
}

// runCompress expands glob patterns in args, then compresses each
// matched file independently. Each file gets its own single-threaded
// Compressor; concurrency here is across files, never inside one
// stream, matching the engine's single-threaded design.
func runCompress(ctx context.Context, opts *compressOptions, args []string) error {
	strategy, err := parseStrategy(opts.strategy)
	if err != nil {
		return err
	}
	flags := tdeflate.CreateFlags(opts.level, opts.windowBits, strategy)

	var flush tdeflate.FlushMode = tdeflate.FlushFinish
	switch {
	case opts.fullFlush:
		flush = tdeflate.FlushFull
	case opts.sync:
		flush = tdeflate.FlushSync
	}

	files, err := expandGlobs(args)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for _, f := range files {
		f := f
		g.Go(func() error {
			return compressFile(f, flags, flush, opts.verbose)
		})
	}
	return g.Wait()
}

// expandGlobs takes each argument as a literal path when it names an
// existing file, and otherwise resolves it as a doublestar pattern (so
// "**" works for recursive matches) relative to the working directory.
func expandGlobs(args []string) ([]string, error) {
	var out []string
	for _, pattern := range args {
		if _, err := os.Stat(pattern); err == nil {
			out = append(out, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files matched %q", pattern)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func compressFile(path string, flags uint32, flush tdeflate.FlushMode, verbose bool) error {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	digest := xxhash.Sum64(data)

	c := tdeflate.NewCompressor(flags)
	dst := make([]byte, len(data)+len(data)/2+512)

	status, consumed, produced := c.Compress(data, dst, flush)
	// A sync or full flush leaves the stream open, so Okay is its success.
	ok := status == tdeflate.StatusDone ||
		(flush != tdeflate.FlushFinish && status == tdeflate.StatusOkay)
	if !ok {
		return fmt.Errorf("compress %s: unexpected status %s (consumed %d of %d)", path, status, consumed, len(data))
	}

	out := path + ".tdz"
	if err := os.WriteFile(out, dst[:produced], 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	if verbose {
		stats := c.Stats()
		ratio := 1.0
		if len(data) > 0 {
			ratio = float64(produced) / float64(len(data))
		}
		logrus.WithFields(logrus.Fields{
			"file":        path,
			"fingerprint": fmt.Sprintf("%016x", digest),
			"in_bytes":    len(data),
			"out_bytes":   produced,
			"ratio":       ratio,
			"literals":    stats.LiteralBytes,
			"match_bytes": stats.MatchBytes,
			"matches":     stats.MatchCount,
			"elapsed":     time.Since(start),
		}).Info("compressed")
	}

	return nil
}
