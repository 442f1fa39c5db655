// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	"fmt"
	"io"
	"sync"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/yeka/zip"
)

// ZIP wire identifiers for the supported compression methods.
const (
	zipMethodStore   uint16 = 0
	zipMethodDeflate uint16 = 8
	zipMethodBzip2   uint16 = 12
	zipMethodLZMA    uint16 = 14
)

// methodToZip maps a resolved method to its ZIP wire identifier.
func methodToZip(method Method) (uint16, error) {
	switch method {
	case MethodStore:
		return zipMethodStore, nil
	case MethodDeflate:
		return zipMethodDeflate, nil
	case MethodBzip2:
		return zipMethodBzip2, nil
	case MethodLZMA:
		return zipMethodLZMA, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// methodFromZip maps a ZIP wire identifier to a method. Identifiers outside
// the supported set map to MethodDefault; such entries can be listed but not
// decoded.
func methodFromZip(id uint16) Method {
	switch id {
	case zipMethodStore:
		return MethodStore
	case zipMethodDeflate:
		return MethodDeflate
	case zipMethodBzip2:
		return MethodBzip2
	case zipMethodLZMA:
		return MethodLZMA
	default:
		return MethodDefault
	}
}

// validateCompressionLevel checks level bounds for the paired method.
// A nil level always passes; the archive default is used instead.
func validateCompressionLevel(method Method, level *int) error {
	switch method {
	case MethodStore:
		if level != nil {
			return fmt.Errorf("%w: store accepts no level, got %d", ErrInvalidCompressionLevel, *level)
		}
	case MethodDeflate:
		if level != nil && (*level < 0 || *level > 9) {
			return fmt.Errorf("%w: deflate level %d, want 0-9", ErrInvalidCompressionLevel, *level)
		}
	case MethodBzip2:
		if level != nil && (*level < 1 || *level > 9) {
			return fmt.Errorf("%w: bzip2 level %d, want 1-9", ErrInvalidCompressionLevel, *level)
		}
	case MethodLZMA:
		// LZMA entries ignore the level entirely.
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMethod, uint16(method))
	}

	return nil
}

// resolveCompressionLevel picks effective level: entry override first, then
// archive-wide default, then per-method baseline.
func resolveCompressionLevel(method Method, override *int, archiveDefault *int) int {
	if override != nil {
		return *override
	}
	if archiveDefault != nil {
		return *archiveDefault
	}

	switch method {
	case MethodBzip2:
		return DefaultBzip2Level
	default:
		return DefaultDeflateLevel
	}
}

// newDeflateCompressor returns a DEFLATE encode stream factory reading the
// current level from the owning write handle. The factory runs inside the
// codec's entry-open while the archive lock is held, so the level read is
// always consistent with the entry being created.
func newDeflateCompressor(a *Archive) func(w io.Writer) (io.WriteCloser, error) {
	return func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, a.deflateLevel)
	}
}

// newBzip2Compressor returns a Bzip2 encode stream factory bound to the
// owning write handle, same locking contract as newDeflateCompressor.
func newBzip2Compressor(a *Archive) func(w io.Writer) (io.WriteCloser, error) {
	return func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: a.bzip2Level})
	}
}

// newBzip2Decompressor returns a Bzip2 decode stream over one entry payload.
func newBzip2Decompressor(r io.Reader) io.ReadCloser {
	return newLazyDecompressor(r, func(r io.Reader) (io.Reader, error) {
		br, err := bzip2.NewReader(r, nil)
		if err != nil {
			return nil, fmt.Errorf("bzip2 stream: %w", err)
		}

		return br, nil
	})
}

var registerDecompressorsOnce sync.Once

// registerDecompressors installs the Bzip2 and LZMA decoders in the read
// codec's registry. That registry is process-global and panics on duplicate
// method ids, so installation runs once per process; store and deflate stay
// on the codec's built-in decoders.
func registerDecompressors() {
	registerDecompressorsOnce.Do(func() {
		zip.RegisterDecompressor(zipMethodBzip2, newBzip2Decompressor)
		zip.RegisterDecompressor(zipMethodLZMA, newLZMAZipReader)
	})
}

// lazyDecompressor defers decoder construction to the first Read so header
// parse failures surface as stream errors, which is the only error channel
// the codec decompressor hook provides.
type lazyDecompressor struct {
	src   io.Reader
	open  func(io.Reader) (io.Reader, error)
	inner io.Reader
}

// newLazyDecompressor wraps open into a ReadCloser with deferred construction.
func newLazyDecompressor(src io.Reader, open func(io.Reader) (io.Reader, error)) io.ReadCloser {
	return &lazyDecompressor{src: src, open: open}
}

// Read constructs the decoder on first use and delegates afterwards.
func (d *lazyDecompressor) Read(p []byte) (int, error) {
	if d.inner == nil {
		inner, err := d.open(d.src)
		if err != nil {
			return 0, err
		}

		d.inner = inner
	}

	return d.inner.Read(p)
}

// Close closes the decoder when it implements io.Closer.
func (d *lazyDecompressor) Close() error {
	if closer, ok := d.inner.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}
