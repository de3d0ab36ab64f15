// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo

package tdeflate

import "errors"

// Sentinel errors. Compress and CompressToOutput report failure through
// their Status result and return neither of these values themselves.
var (
	// ErrInternal names an internal invariant violation (e.g. an
	// out-of-range match or a symbol-buffer overrun).
	// Callers can use errors.Is(err, tdeflate.ErrInternal).
	ErrInternal = errors.New("tdeflate: internal compressor error")

	// ErrSinkFailed names a failed write by the caller-supplied output
	// callback. The compressor reports that failure as StatusPutBufFailed,
	// and further calls to Compress/CompressToOutput return
	// StatusPutBufFailed until the compressor is discarded.
	ErrSinkFailed = errors.New("tdeflate: output sink failed")
)
