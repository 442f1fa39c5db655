// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/pathrules"
	"github.com/yeka/zip"
)

// testEntry describes one fixture entry for archive builders.
type testEntry struct {
	level  *int
	name   string
	data   []byte
	method Method
}

// writeTestArchive builds an archive at path through the write handle.
func writeTestArchive(t *testing.T, path string, entries []testEntry) {
	t.Helper()

	a, err := CreateWriter(path, WriterOptions{})
	if err != nil {
		t.Fatalf("CreateWriter: %v", err)
	}

	for _, e := range entries {
		ent, err := a.CreateWithDescriptor(EntryDescriptor{
			Name:   e.name,
			Method: e.method,
			Level:  e.level,
		})
		if err != nil {
			t.Fatalf("create %s: %v", e.name, err)
		}

		if _, err := ent.Write(e.data); err != nil {
			t.Fatalf("write %s: %v", e.name, err)
		}
		if err := ent.Close(); err != nil {
			t.Fatalf("close %s: %v", e.name, err)
		}
	}

	if err := a.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
}

// writeEncryptedFixture builds an archive with one AES-256 encrypted entry
// directly through the codec (the write handle refuses encrypted creation).
func writeEncryptedFixture(t *testing.T, path string, name string, content []byte, password string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}

	zw := zip.NewWriter(f)
	w, err := zw.Encrypt(name, password, zip.AES256Encryption)
	if err != nil {
		t.Fatalf("encrypt %s: %v", name, err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("finalize fixture: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
}

// writeRawNameFixture builds an archive with entry names taken verbatim,
// including names a well-formed writer would refuse.
func writeRawNameFixture(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}

	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("finalize fixture: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
}

// corruptPayloadByte flips one byte inside the first occurrence of needle.
func corruptPayloadByte(t *testing.T, path string, needle []byte) {
	t.Helper()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}

	idx := bytes.Index(raw, needle)
	if idx < 0 {
		t.Fatalf("payload needle not found in %s", path)
	}

	raw[idx] ^= 0xFF
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
}

// includeRules builds ordered include rules from patterns.
func includeRules(patterns ...string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: pattern,
		})
	}

	return rules
}

// testArchivePath returns a per-test archive path inside a temp dir.
func testArchivePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.zip")
}
