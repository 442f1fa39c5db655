// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	stdzip "archive/zip"
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/yeka/zip"
)

// Archive is a mode-tagged handle over one ZIP file.
//
// All mutable codec state sits behind mu in an optional slot (rd for read
// mode, wr for write mode); the slot is nil once the archive is closed. The
// lock is acquired without blocking everywhere: at most one entry cursor may
// be open per archive, and contention is reported as ErrBusy instead of
// waiting. A live Entry holds mu for its whole lifetime, so concurrent
// Close, List, or a second entry open fail fast until the cursor is closed.
type Archive struct {
	// rd is the read-mode codec slot; nil in write mode or after close.
	rd *zip.ReadCloser
	// wr is the write-mode codec slot; nil in read mode or after close.
	// Write and read sides use different codecs: the write codec has a
	// per-instance compressor registry, the read codec handles decryption.
	wr *stdzip.Writer
	// file is the owned output file in write mode.
	file *os.File
	// buf is buffered writer between wr and file.
	buf *bufio.Writer
	// defaultLevel is archive-wide compression level; nil means per-method baseline.
	defaultLevel *int
	// path is the archive path for diagnostics.
	path string
	// mu guards the codec slot; held exclusively by an open entry cursor.
	mu sync.Mutex
	// deflateLevel and bzip2Level hold the level for the entry currently
	// being created; mutated only under mu.
	deflateLevel int
	bzip2Level   int
	// defaultMethod is archive-wide compression method for created entries.
	defaultMethod Method
	// mode selects read or write behavior of this handle.
	mode Mode
}

// OpenArchive opens path with zipfile-style mode string.
// Mode "r" reads an existing archive, "w" creates or truncates a new one.
// Modes "a" and "x" are rejected with ErrUnsupportedMode.
func OpenArchive(path string, mode string) (*Archive, error) {
	parsed, err := parseMode(mode)
	if err != nil {
		return nil, err
	}

	switch parsed {
	case ModeWrite:
		return CreateWriter(path, WriterOptions{})
	default:
		return OpenReader(path)
	}
}

// Mode returns the handle mode.
func (a *Archive) Mode() Mode {
	if a == nil {
		return ModeRead
	}

	return a.mode
}

// Path returns the archive file path.
func (a *Archive) Path() string {
	if a == nil {
		return ""
	}

	return a.path
}

// Close closes the archive handle.
//
// Read mode drops the codec and closes the underlying file. Write mode
// finalizes the central directory, flushes buffered bytes, and syncs the
// file; finalize failures are surfaced and the archive is left closed
// regardless. A second Close is a silent no-op. Close fails with ErrBusy
// while an entry cursor is still open.
func (a *Archive) Close() error {
	if a == nil {
		return ErrNilArchive
	}

	if !a.mu.TryLock() {
		return fmt.Errorf("%w: cannot close archive", ErrBusy)
	}
	defer a.mu.Unlock()

	if a.mode == ModeWrite {
		return a.closeWriteLocked()
	}

	return a.closeReadLocked()
}

// List returns entry names in central directory order. Read mode only.
func (a *Archive) List() ([]string, error) {
	if a == nil {
		return nil, ErrNilArchive
	}
	if a.mode != ModeRead {
		return nil, fmt.Errorf("%w: listing requires read mode", ErrUnsupportedMode)
	}

	if !a.mu.TryLock() {
		return nil, fmt.Errorf("%w: cannot list archive", ErrBusy)
	}
	defer a.mu.Unlock()

	if a.rd == nil {
		return nil, ErrClosed
	}

	names := make([]string, 0, len(a.rd.File))
	for _, f := range a.rd.File {
		names = append(names, f.Name)
	}

	return names, nil
}

// Entries returns entry metadata in central directory order. Read mode only.
func (a *Archive) Entries() ([]EntryInfo, error) {
	if a == nil {
		return nil, ErrNilArchive
	}
	if a.mode != ModeRead {
		return nil, fmt.Errorf("%w: listing requires read mode", ErrUnsupportedMode)
	}

	if !a.mu.TryLock() {
		return nil, fmt.Errorf("%w: cannot list archive", ErrBusy)
	}
	defer a.mu.Unlock()

	return a.entriesLocked()
}

// entriesLocked builds entry metadata snapshot. Caller holds mu.
func (a *Archive) entriesLocked() ([]EntryInfo, error) {
	if a.rd == nil {
		return nil, ErrClosed
	}

	entries := make([]EntryInfo, 0, len(a.rd.File))
	for _, f := range a.rd.File {
		entries = append(entries, entryInfoFromHeader(f))
	}

	return entries, nil
}

// entryInfoFromHeader converts one codec index record to EntryInfo.
func entryInfoFromHeader(f *zip.File) EntryInfo {
	return EntryInfo{
		Path:           f.Name,
		Method:         methodFromZip(f.Method),
		CompressedSize: f.CompressedSize64,
		OriginalSize:   f.UncompressedSize64,
		CRC32:          f.CRC32,
		Modified:       f.ModTime(),
		Encrypted:      f.IsEncrypted(),
	}
}
