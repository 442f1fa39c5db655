// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// ZIP method 14 payload framing: 2 version bytes, uint16 LE properties size,
// then raw LZMA properties and stream. The classic .lzma container instead
// carries a 13-byte header (5 properties bytes plus uint64 LE uncompressed
// size). The shims below rewrite between the two framings on the fly.
const (
	// lzmaVersionMajor / lzmaVersionMinor identify the producing SDK in the
	// method 14 preamble (7-Zip 9.20 convention).
	lzmaVersionMajor = 9
	lzmaVersionMinor = 20
	// lzmaPropsSize is LZMA properties block length in both framings.
	lzmaPropsSize = 5
	// lzmaClassicHeaderSize is full classic .lzma header length.
	lzmaClassicHeaderSize = 13
)

// lzmaZipWriter adapts a classic LZMA encode stream to method 14 framing.
type lzmaZipWriter struct {
	lw *lzma.Writer
	fr *lzmaFrameRewriter
}

// newLZMAZipWriter returns a method 14 encode stream writing to w.
// The encoder emits an end-of-stream marker since entry size is unknown.
func newLZMAZipWriter(w io.Writer) (io.WriteCloser, error) {
	fr := &lzmaFrameRewriter{dst: w}
	lw, err := lzma.NewWriter(fr)
	if err != nil {
		return nil, fmt.Errorf("lzma writer: %w", err)
	}

	return &lzmaZipWriter{lw: lw, fr: fr}, nil
}

// Write appends uncompressed bytes to the encode stream.
func (w *lzmaZipWriter) Write(p []byte) (int, error) {
	return w.lw.Write(p)
}

// Close flushes the encoder and its end-of-stream marker.
func (w *lzmaZipWriter) Close() error {
	if err := w.lw.Close(); err != nil {
		return fmt.Errorf("lzma close: %w", err)
	}

	return w.fr.finish()
}

// lzmaFrameRewriter rewrites the classic 13-byte header into the method 14
// preamble and drops the 8-byte size field, passing everything else through.
type lzmaFrameRewriter struct {
	dst      io.Writer
	header   [lzmaClassicHeaderSize]byte
	consumed int
}

// Write consumes classic header bytes positionally, then passes data through.
func (f *lzmaFrameRewriter) Write(p []byte) (int, error) {
	total := len(p)
	for f.consumed < lzmaClassicHeaderSize && len(p) > 0 {
		n := copy(f.header[f.consumed:], p)
		f.consumed += n
		p = p[n:]

		if f.consumed == lzmaClassicHeaderSize {
			if err := f.emitPreamble(); err != nil {
				return total - len(p), err
			}
		}
	}

	if len(p) == 0 {
		return total, nil
	}

	n, err := f.dst.Write(p)
	return total - len(p) + n, err
}

// emitPreamble writes version, properties size, and properties to destination.
func (f *lzmaFrameRewriter) emitPreamble() error {
	preamble := make([]byte, 0, 4+lzmaPropsSize)
	preamble = append(preamble, lzmaVersionMajor, lzmaVersionMinor)
	preamble = binary.LittleEndian.AppendUint16(preamble, lzmaPropsSize)
	preamble = append(preamble, f.header[:lzmaPropsSize]...)

	if _, err := f.dst.Write(preamble); err != nil {
		return fmt.Errorf("lzma preamble: %w", err)
	}

	return nil
}

// finish validates that a full header passed through during encoding.
func (f *lzmaFrameRewriter) finish() error {
	if f.consumed < lzmaClassicHeaderSize {
		return fmt.Errorf("lzma stream: short header, %d bytes", f.consumed)
	}

	return nil
}

// newLZMAZipReader returns a decode stream over one method 14 entry payload.
func newLZMAZipReader(r io.Reader) io.ReadCloser {
	return newLazyDecompressor(r, func(r io.Reader) (io.Reader, error) {
		header, err := parseLZMAZipPreamble(r)
		if err != nil {
			return nil, err
		}

		lr, err := lzma.NewReader(io.MultiReader(bytes.NewReader(header), r))
		if err != nil {
			return nil, fmt.Errorf("lzma reader: %w", err)
		}

		return lr, nil
	})
}

// parseLZMAZipPreamble reads the method 14 preamble and rebuilds a classic
// header with unknown size, so the decoder reads until end-of-stream marker.
func parseLZMAZipPreamble(r io.Reader) ([]byte, error) {
	var preamble [4]byte
	if _, err := io.ReadFull(r, preamble[:]); err != nil {
		return nil, fmt.Errorf("lzma preamble: %w", err)
	}

	propsSize := int(binary.LittleEndian.Uint16(preamble[2:4]))
	if propsSize < lzmaPropsSize {
		return nil, fmt.Errorf("lzma preamble: properties size %d, want at least %d", propsSize, lzmaPropsSize)
	}

	props := make([]byte, propsSize)
	if _, err := io.ReadFull(r, props); err != nil {
		return nil, fmt.Errorf("lzma properties: %w", err)
	}

	// The rebuilt header declares unknown size, so the decoder reads until
	// the end-of-stream marker. Streams written here always carry the
	// marker; entries that declare a known size without one cannot be
	// decoded, since the decode hook exposes no header flags to consult.
	header := make([]byte, 0, lzmaClassicHeaderSize)
	header = append(header, props[:lzmaPropsSize]...)
	for idx := 0; idx < 8; idx++ {
		header = append(header, 0xFF)
	}

	return header, nil
}
