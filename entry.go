// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	"bytes"
	"fmt"
	"io"
)

// Entry is a short-lived cursor streaming bytes into or out of exactly one
// archive entry.
//
// The cursor owns the archive lock for its whole lifetime: the data view it
// wraps borrows state guarded by that lock and must never outlive it. Close
// discards the view first and releases the lock second, on every path; after
// Close all operations fail with ErrClosed. Exactly one cursor may be live
// per archive at any instant.
type Entry struct {
	// ar is the owning archive whose lock this cursor holds.
	ar *Archive
	// rc is the decode stream in read mode; nil otherwise.
	rc io.ReadCloser
	// w is the encode stream in write mode; nil otherwise.
	w io.Writer
	// probe holds decrypted bytes consumed while checking the password
	// verifier; returned ahead of the stream.
	probe []byte
	// name is the entry path for diagnostics.
	name string
	// sizeHint is uncompressed size from the index, zero when unknown.
	sizeHint uint64
	// mode selects read or write behavior of this cursor.
	mode Mode
	// encrypted reports whether the decode stream is a decryptor.
	encrypted bool
	// closed reports whether Close already ran.
	closed bool
}

// Name returns the entry path inside the archive.
func (e *Entry) Name() string {
	if e == nil {
		return ""
	}

	return e.name
}

// ReadAll drains the remaining entry bytes into one buffer.
//
// The index size hint only seeds buffer capacity; the decode stream stays
// authoritative for actual length. Corruption detected by the codec (CRC
// mismatch, truncated stream) is returned as the codec's own error.
func (e *Entry) ReadAll() ([]byte, error) {
	if err := e.readable(); err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, e.readCapHint()))
	if len(e.probe) > 0 {
		_, _ = buf.Write(e.probe)
		e.probe = nil
	}

	if _, err := buf.ReadFrom(e.rc); err != nil {
		if e.encrypted {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecryption, e.name, err)
		}

		return nil, fmt.Errorf("read entry %s: %w", e.name, err)
	}

	return buf.Bytes(), nil
}

// Read implements io.Reader over the remaining entry bytes.
func (e *Entry) Read(p []byte) (int, error) {
	if err := e.readable(); err != nil {
		return 0, err
	}

	if len(e.probe) > 0 {
		n := copy(p, e.probe)
		e.probe = e.probe[n:]
		if len(e.probe) == 0 {
			e.probe = nil
		}

		return n, nil
	}

	return e.rc.Read(p)
}

// Write appends bytes to the entry's encode stream. The codec buffers and
// flushes per chunk; Write may be called any number of times before Close.
func (e *Entry) Write(p []byte) (int, error) {
	if e == nil || e.closed {
		return 0, ErrClosed
	}
	if e.mode != ModeWrite {
		return 0, fmt.Errorf("%w: entry is read-only", ErrUnsupportedMode)
	}

	n, err := e.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("write entry %s: %w", e.name, err)
	}

	return n, nil
}

// Close releases the cursor.
//
// The data view is discarded before the archive lock is released; this
// ordering is what keeps the view from outliving the state it borrows.
// Close is idempotent: the second and later calls are no-ops. For write
// cursors the codec finalizes the entry itself lazily, on the next entry
// create or on archive close.
func (e *Entry) Close() error {
	if e == nil || e.closed {
		return nil
	}

	e.closed = true

	var err error
	if e.rc != nil {
		err = e.rc.Close()
		e.rc = nil
	}
	e.w = nil
	e.probe = nil

	e.ar.mu.Unlock()

	if err != nil {
		return fmt.Errorf("close entry %s: %w", e.name, err)
	}

	return nil
}

// readable validates cursor state for read operations.
func (e *Entry) readable() error {
	if e == nil || e.closed {
		return ErrClosed
	}
	if e.mode != ModeRead {
		return fmt.Errorf("%w: entry is write-only", ErrUnsupportedMode)
	}

	return nil
}

// readCapHint bounds initial ReadAll buffer capacity.
func (e *Entry) readCapHint() int {
	hint := e.sizeHint
	if hint > readAllCapHint {
		hint = readAllCapHint
	}

	return int(hint)
}

// probeRead pulls one byte from the decode stream ahead of time, forcing the
// decryptor to validate its password verifier during entry open.
func (e *Entry) probeRead() error {
	var one [1]byte
	n, err := e.rc.Read(one[:])
	if n > 0 {
		e.probe = append(e.probe, one[:n]...)
	}
	if err != nil && err != io.EOF {
		return err
	}

	return nil
}
