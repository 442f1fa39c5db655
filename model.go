// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	"fmt"
	"time"

	"github.com/woozymasta/pathrules"
)

// Default writer tuning values.
const (
	// DefaultWriteBuffer is buffered writer size used by CreateWriter.
	DefaultWriteBuffer = 256 * 1024
	// DefaultDeflateLevel is archive-wide Deflate level when none is configured.
	DefaultDeflateLevel = 6
	// DefaultBzip2Level is archive-wide Bzip2 level when none is configured.
	DefaultBzip2Level = 6
)

// readAllCapHint bounds initial buffer capacity derived from the index size
// hint. The decode stream stays authoritative for actual entry length.
const readAllCapHint = 64 * 1024 * 1024

// Mode selects archive handle behavior.
type Mode uint8

// Archive handle modes.
const (
	// ModeRead opens an existing archive for entry reads and listing.
	ModeRead Mode = iota
	// ModeWrite creates a new archive for entry writes.
	ModeWrite
)

// String returns mode name for diagnostics.
func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// parseMode maps zipfile-style mode strings to handle modes.
// Modes "a" (append) and "x" (exclusive create) are recognized but not
// implemented; anything else is rejected as invalid.
func parseMode(mode string) (Mode, error) {
	switch mode {
	case "r":
		return ModeRead, nil
	case "w":
		return ModeWrite, nil
	case "a", "x":
		return 0, fmt.Errorf("%w: mode %q is not implemented", ErrUnsupportedMode, mode)
	default:
		return 0, fmt.Errorf("%w: %q (want \"r\", \"w\", \"x\" or \"a\")", ErrInvalidMode, mode)
	}
}

// Method selects entry compression. The zero value defers to the
// archive-wide default configured in WriterOptions.
type Method uint8

// Supported entry compression methods.
const (
	// MethodDefault defers to the archive-wide default method.
	MethodDefault Method = iota
	// MethodStore stores payload without compression.
	MethodStore
	// MethodDeflate compresses payload with DEFLATE, levels 0-9.
	MethodDeflate
	// MethodBzip2 compresses payload with Bzip2, levels 1-9.
	MethodBzip2
	// MethodLZMA compresses payload with LZMA; level is ignored.
	MethodLZMA
)

// String returns method name for diagnostics.
func (m Method) String() string {
	switch m {
	case MethodDefault:
		return "default"
	case MethodStore:
		return "store"
	case MethodDeflate:
		return "deflate"
	case MethodBzip2:
		return "bzip2"
	case MethodLZMA:
		return "lzma"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

// EntryInfo describes a single archive entry from the central directory.
type EntryInfo struct {
	// Modified is entry modification time from the index record.
	Modified time.Time `json:"modified,omitzero" yaml:"modified,omitempty"`
	// Path is the entry path as stored in the archive index.
	Path string `json:"path" yaml:"path"`
	// CompressedSize is stored payload size in bytes.
	CompressedSize uint64 `json:"compressed_size" yaml:"compressed_size"`
	// OriginalSize is uncompressed payload size in bytes.
	OriginalSize uint64 `json:"original_size" yaml:"original_size"`
	// CRC32 is payload checksum from the index record.
	CRC32 uint32 `json:"crc32,omitempty" yaml:"crc32,omitempty"`
	// Method is entry compression method.
	Method Method `json:"method" yaml:"method"`
	// Encrypted reports whether payload requires a password.
	Encrypted bool `json:"encrypted,omitempty" yaml:"encrypted,omitempty"`
}

// IsCompressed reports whether this entry is stored with compression.
func (e *EntryInfo) IsCompressed() bool {
	return e.Method != MethodStore
}

// EntryDescriptor describes one entry to be created in a write-mode archive.
// The zero value (with Name set) inherits the archive-wide method and level.
//
// Level validity is checked against the paired method at entry-open time,
// not at construction, so a descriptor can be built before an archive exists.
type EntryDescriptor struct {
	// Level is optional compression level; nil selects the archive default.
	Level *int `json:"level,omitempty" yaml:"level,omitempty"`
	// Name is destination path inside the archive.
	Name string `json:"name" yaml:"name"`
	// Password requests entry encryption. Encrypted creation is not
	// supported; any non-empty value fails the open.
	Password string `json:"-" yaml:"-"`
	// Method is entry compression method.
	Method Method `json:"method" yaml:"method"`
}

// Level returns a pointer to n for use in descriptors and writer options.
func Level(n int) *int {
	return &n
}

// WriterOptions configures archive-wide defaults for a write-mode handle.
// Per-entry descriptor settings take precedence over these defaults.
type WriterOptions struct {
	// Level is default compression level; nil selects per-method defaults.
	Level *int `json:"level,omitempty" yaml:"level,omitempty"`
	// Method is default compression method for created entries.
	Method Method `json:"method" yaml:"method"`
	// WriterBufferSize is buffered writer size in bytes.
	WriterBufferSize int `json:"writer_buffer_size,omitempty" yaml:"writer_buffer_size,omitempty"`
}

// applyDefaults replaces zero values with defaults.
func (o *WriterOptions) applyDefaults() {
	if o.WriterBufferSize <= 0 {
		o.WriterBufferSize = DefaultWriteBuffer
	}
}

// ExtractOptions configures ExtractAll behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to destination.
	OnEntryDone func(entry EntryInfo, written int64, outputPath string) `json:"-" yaml:"-"`
	// Rules defines ordered path rules selecting entries to extract.
	// Empty rules extract everything.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control extract path rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitempty"`
	// Password decrypts encrypted entries during extraction.
	Password string `json:"-" yaml:"-"`
	// SkipEncrypted skips encrypted entries instead of failing when no
	// password is supplied.
	SkipEncrypted bool `json:"skip_encrypted,omitempty" yaml:"skip_encrypted,omitempty"`
	// RawNames disables destination path sanitization. Zip-slip defense
	// (absolute paths, "..", drive prefixes) stays active regardless.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
}
