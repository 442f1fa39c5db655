// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	stdzip "archive/zip"
	"bufio"
	"fmt"
	"os"
	"time"
)

// CreateWriter creates or truncates path and begins a new, empty archive.
//
// The handle must be finalized with Close: only Close writes the central
// directory and flushes buffered bytes, an abandoned handle leaves a
// truncated file behind.
func CreateWriter(path string, opts WriterOptions) (*Archive, error) {
	opts.applyDefaults()

	method := opts.Method
	if method == MethodDefault {
		method = MethodStore
	}
	if err := validateCompressionLevel(method, opts.Level); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create archive file: %w", err)
	}

	buf := bufio.NewWriterSize(f, opts.WriterBufferSize)
	wr := stdzip.NewWriter(buf)

	a := &Archive{
		mode:          ModeWrite,
		path:          path,
		wr:            wr,
		file:          f,
		buf:           buf,
		defaultMethod: method,
		defaultLevel:  opts.Level,
	}

	// The write codec carries a per-instance compressor registry, so each
	// handle gets its own encode stream factories. The factories read the
	// per-entry level from the handle; they run under the archive lock
	// during entry create, and levels on one handle never leak to another.
	wr.RegisterCompressor(zipMethodDeflate, newDeflateCompressor(a))
	wr.RegisterCompressor(zipMethodBzip2, newBzip2Compressor(a))
	wr.RegisterCompressor(zipMethodLZMA, newLZMAZipWriter)

	return a, nil
}

// Create starts the named entry with archive-wide defaults and returns its
// write cursor. The cursor holds the archive lock until closed; a second
// Create before that fails with ErrBusy.
func (a *Archive) Create(name string) (*Entry, error) {
	return a.CreateWithDescriptor(EntryDescriptor{Name: name})
}

// CreateWithDescriptor starts one entry described by desc and returns its
// write cursor.
//
// The descriptor is validated before the codec registers anything: a level
// out of range for the method fails with ErrInvalidCompressionLevel, and a
// non-empty Password fails with ErrUnsupportedMode (encrypted creation is
// not supported). The previous entry, if any, is finalized by the codec as
// a side effect of starting this one.
func (a *Archive) CreateWithDescriptor(desc EntryDescriptor) (*Entry, error) {
	if a == nil {
		return nil, ErrNilArchive
	}
	if a.mode != ModeWrite {
		return nil, fmt.Errorf("%w: entry create requires write mode", ErrUnsupportedMode)
	}
	if desc.Password != "" {
		return nil, fmt.Errorf("%w: encrypted entry creation", ErrUnsupportedMode)
	}

	name, err := normalizeEntryName(desc.Name)
	if err != nil {
		return nil, err
	}

	method := desc.Method
	if method == MethodDefault {
		method = a.defaultMethod
	}
	if err := validateCompressionLevel(method, desc.Level); err != nil {
		return nil, err
	}

	if !a.mu.TryLock() {
		return nil, fmt.Errorf("%w: cannot create %s", ErrBusy, name)
	}

	ent, err := a.createEntryLocked(name, method, desc.Level)
	if err != nil {
		// Never leak a held lock on the error path.
		a.mu.Unlock()
		return nil, err
	}

	return ent, nil
}

// createEntryLocked asks the codec to start one entry. Caller holds mu;
// on error the caller releases it.
func (a *Archive) createEntryLocked(name string, method Method, level *int) (*Entry, error) {
	if a.wr == nil {
		return nil, ErrClosed
	}

	wireMethod, err := methodToZip(method)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodDeflate:
		a.deflateLevel = resolveCompressionLevel(method, level, a.defaultLevel)
	case MethodBzip2:
		a.bzip2Level = resolveCompressionLevel(method, level, a.defaultLevel)
	}

	fh := &stdzip.FileHeader{
		Name:     name,
		Method:   wireMethod,
		Modified: time.Now().UTC(),
	}

	w, err := a.wr.CreateHeader(fh)
	if err != nil {
		return nil, fmt.Errorf("create entry %s: %w", name, err)
	}

	return &Entry{
		name: name,
		mode: ModeWrite,
		ar:   a,
		w:    w,
	}, nil
}

// closeWriteLocked finalizes the archive and drains the write codec slot.
// Caller holds mu. Every step runs even when an earlier one fails, so the
// file handle is released on all paths; the first failure is returned.
func (a *Archive) closeWriteLocked() error {
	if a.wr == nil {
		return nil
	}

	wr := a.wr
	a.wr = nil

	var firstErr error
	if err := wr.Close(); err != nil {
		firstErr = fmt.Errorf("finalize archive: %w", err)
	}
	if err := a.buf.Flush(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("flush archive: %w", err)
	}
	if err := a.file.Sync(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("sync archive: %w", err)
	}
	if err := a.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close archive file: %w", err)
	}

	a.file = nil
	a.buf = nil
	return firstErr
}
