// SPDX-License-Identifier: GPL-2.0-only

// Command tdeflate compresses files with the tdeflate engine, matching
// the "embeddable in file-format tooling" framing the engine itself is
// scoped around: this is one such consumer.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/streamdeflate/tdeflate"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &compressOptions{}

	cmd := &cobra.Command{
		Use:   "tdeflate [flags] file...",
		Short: "Compress files with the streaming DEFLATE engine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(cmd.Context(), opts, args)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.level, "level", 6, "compression level (0-10)")
	flags.IntVar(&opts.windowBits, "window-bits", 15, "zlib window bits; <= 0 emits raw DEFLATE")
	flags.StringVar(&opts.strategy, "strategy", "default", "default|filtered|huffman-only|rle|fixed")
	flags.BoolVar(&opts.sync, "sync", false, "end the stream with a sync flush instead of finish")
	flags.BoolVar(&opts.fullFlush, "full-flush", false, "end the stream with a full flush instead of finish")
	flags.IntVar(&opts.jobs, "jobs", 4, "maximum files compressed concurrently")
	flags.BoolVar(&opts.verbose, "verbose", false, "log per-file compression stats")

	return cmd
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func parseStrategy(s string) (tdeflate.Strategy, error) {
	switch s {
	case "default":
		return tdeflate.StrategyDefault, nil
	case "filtered":
		return tdeflate.StrategyFiltered, nil
	case "huffman-only":
		return tdeflate.StrategyHuffmanOnly, nil
	case "rle":
		return tdeflate.StrategyRLE, nil
	case "fixed":
		return tdeflate.StrategyFixed, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", s)
	}
}
