// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import "errors"

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrBadArchive means the file is not a ZIP archive or its index is corrupt.
	ErrBadArchive = errors.New("invalid ZIP file: missing or bad archive structure")
	// ErrClosed means the archive or entry handle is already closed.
	ErrClosed = errors.New("archive or entry already closed")
	// ErrBusy means another entry handle is still open against this archive.
	ErrBusy = errors.New("another entry handle is still open")
	// ErrEntryNotFound means the entry is not found by name or index.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrPasswordRequired means the entry is encrypted and no password was supplied.
	ErrPasswordRequired = errors.New("entry is encrypted, password required")
	// ErrDecryption means entry decryption failed (wrong password or corrupt payload).
	ErrDecryption = errors.New("entry decryption failed")
	// ErrUnsupportedMode means the operation is not supported for the handle mode.
	ErrUnsupportedMode = errors.New("operation not supported for this mode")
	// ErrInvalidMode means the archive mode string is not a recognized mode.
	ErrInvalidMode = errors.New("invalid archive mode")
	// ErrUnknownMethod means the compression method is not one of the supported set.
	ErrUnknownMethod = errors.New("unknown compression method")
	// ErrInvalidCompressionLevel means the compression level is out of range for the method.
	ErrInvalidCompressionLevel = errors.New("compression level out of range for method")
	// ErrInvalidEntryName means the entry name is empty or invalid after normalization.
	ErrInvalidEntryName = errors.New("invalid entry name")
	// ErrNilArchive means the archive handle is nil.
	ErrNilArchive = errors.New("archive is nil")
	// ErrInvalidExtractPath means archive entry path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
)
