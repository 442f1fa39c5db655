// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

// List opens an archive and returns entry names without keeping a handle.
func List(path string) ([]string, error) {
	a, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	return a.List()
}

// ListEntries opens an archive and returns entry metadata without keeping a handle.
func ListEntries(path string) ([]EntryInfo, error) {
	a, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	return a.Entries()
}

// ReadEntry opens an archive and reads one named entry fully.
func ReadEntry(path string, name string) ([]byte, error) {
	return ReadEntryWithPassword(path, name, "")
}

// ReadEntryWithPassword opens an archive and reads one named entry fully,
// decrypting with password when the entry is encrypted.
func ReadEntryWithPassword(path string, name string, password string) ([]byte, error) {
	a, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	ent, err := a.OpenWithPassword(name, password)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ent.Close() }()

	return ent.ReadAll()
}
