// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yeka/zip"
)

// OpenReader opens an existing ZIP archive for reading.
// Fails with ErrBadArchive when the container index is unreadable or corrupt.
func OpenReader(path string) (*Archive, error) {
	registerDecompressors()

	rd, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrBadArchive, path)
		}

		return nil, fmt.Errorf("open archive: %w", err)
	}

	return &Archive{
		mode: ModeRead,
		path: path,
		rd:   rd,
	}, nil
}

// Open opens the named entry for reading and returns its cursor.
// The cursor holds the archive lock until closed; a second Open before that
// fails with ErrBusy. Encrypted entries require OpenWithPassword.
func (a *Archive) Open(name string) (*Entry, error) {
	return a.OpenWithPassword(name, "")
}

// OpenWithPassword opens the named entry for reading, decrypting with
// password when the entry is encrypted.
func (a *Archive) OpenWithPassword(name string, password string) (*Entry, error) {
	if a == nil {
		return nil, ErrNilArchive
	}
	if a.mode != ModeRead {
		return nil, fmt.Errorf("%w: entry read requires read mode", ErrUnsupportedMode)
	}

	if !a.mu.TryLock() {
		return nil, fmt.Errorf("%w: cannot open %s", ErrBusy, name)
	}

	ent, err := a.openEntryLocked(name, password)
	if err != nil {
		// Never leak a held lock on the error path.
		a.mu.Unlock()
		return nil, err
	}

	return ent, nil
}

// OpenIndex opens the entry at central directory position i for reading.
func (a *Archive) OpenIndex(i int) (*Entry, error) {
	return a.OpenIndexWithPassword(i, "")
}

// OpenIndexWithPassword opens the entry at central directory position i,
// decrypting with password when the entry is encrypted.
func (a *Archive) OpenIndexWithPassword(i int, password string) (*Entry, error) {
	if a == nil {
		return nil, ErrNilArchive
	}
	if a.mode != ModeRead {
		return nil, fmt.Errorf("%w: entry read requires read mode", ErrUnsupportedMode)
	}

	if !a.mu.TryLock() {
		return nil, fmt.Errorf("%w: cannot open entry %d", ErrBusy, i)
	}

	ent, err := a.openIndexLocked(i, password)
	if err != nil {
		a.mu.Unlock()
		return nil, err
	}

	return ent, nil
}

// openEntryLocked resolves name and builds a read cursor. Caller holds mu;
// on error the caller releases it.
func (a *Archive) openEntryLocked(name string, password string) (*Entry, error) {
	if a.rd == nil {
		return nil, ErrClosed
	}

	idx := a.indexForName(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	return a.openIndexLocked(idx, password)
}

// openIndexLocked builds a read cursor for index idx. Caller holds mu;
// on error the caller releases it.
func (a *Archive) openIndexLocked(idx int, password string) (*Entry, error) {
	if a.rd == nil {
		return nil, ErrClosed
	}
	if idx < 0 || idx >= len(a.rd.File) {
		return nil, fmt.Errorf("%w: index %d", ErrEntryNotFound, idx)
	}

	f := a.rd.File[idx]
	encrypted := f.IsEncrypted()
	if encrypted {
		if password == "" {
			return nil, fmt.Errorf("%w: %s", ErrPasswordRequired, f.Name)
		}

		f.SetPassword(password)
	}

	rc, err := f.Open()
	if err != nil {
		if encrypted {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecryption, f.Name, err)
		}

		return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
	}

	ent := &Entry{
		name:      f.Name,
		mode:      ModeRead,
		ar:        a,
		rc:        rc,
		sizeHint:  f.UncompressedSize64,
		encrypted: encrypted,
	}

	if encrypted {
		// Force the decryptor to check its password verifier now, so a wrong
		// password fails the open instead of the first read.
		if err := ent.probeRead(); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrDecryption, f.Name, err)
		}
	}

	return ent, nil
}

// indexForName resolves one entry index by normalized path, or -1.
func (a *Archive) indexForName(name string) int {
	lookup := NormalizePath(name)
	for i, f := range a.rd.File {
		if NormalizePath(f.Name) == lookup {
			return i
		}
	}

	return -1
}

// closeReadLocked drains the read codec slot. Caller holds mu.
func (a *Archive) closeReadLocked() error {
	if a.rd == nil {
		return nil
	}

	rd := a.rd
	a.rd = nil
	if err := rd.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	return nil
}

// Verify drains every readable entry so the codec validates each checksum.
// Encrypted entries are skipped (their payload needs a password). Read mode
// only; fails with ErrBusy while an entry cursor is open.
func (a *Archive) Verify(ctx context.Context) error {
	if a == nil {
		return ErrNilArchive
	}
	if a.mode != ModeRead {
		return fmt.Errorf("%w: verify requires read mode", ErrUnsupportedMode)
	}

	entries, err := a.Entries()
	if err != nil {
		return err
	}

	for idx, info := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.Encrypted {
			continue
		}

		if err := a.verifyIndex(idx, info.Path); err != nil {
			return err
		}
	}

	return nil
}

// verifyIndex drains one entry through a short-lived cursor.
func (a *Archive) verifyIndex(idx int, name string) error {
	ent, err := a.OpenIndex(idx)
	if err != nil {
		return err
	}
	defer func() { _ = ent.Close() }()

	if _, err := io.Copy(io.Discard, ent); err != nil {
		return fmt.Errorf("verify %s: %w", name, err)
	}

	return nil
}
