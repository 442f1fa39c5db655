// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	"errors"
	"testing"
)

func TestOpenArchive_ModeStrings(t *testing.T) {
	t.Parallel()

	path := testArchivePath(t)
	writeTestArchive(t, path, []testEntry{{name: "a.txt", data: []byte("a")}})

	a, err := OpenArchive(path, "r")
	if err != nil {
		t.Fatalf("OpenArchive r: %v", err)
	}
	if a.Mode() != ModeRead {
		t.Errorf("mode = %v, want read", a.Mode())
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, mode := range []string{"a", "x"} {
		_, err := OpenArchive(path, mode)
		if !errors.Is(err, ErrUnsupportedMode) {
			t.Errorf("mode %q: err = %v, want ErrUnsupportedMode", mode, err)
		}
	}

	_, err = OpenArchive(path, "rb")
	if !errors.Is(err, ErrInvalidMode) {
		t.Errorf("mode rb: err = %v, want ErrInvalidMode", err)
	}
}

func TestOpenArchive_WriteMode(t *testing.T) {
	t.Parallel()

	path := testArchivePath(t)
	a, err := OpenArchive(path, "w")
	if err != nil {
		t.Fatalf("OpenArchive w: %v", err)
	}
	if a.Mode() != ModeWrite {
		t.Errorf("mode = %v, want write", a.Mode())
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	names, err := List(path)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}
}

func TestOpen_SecondCursorFailsFast(t *testing.T) {
	t.Parallel()

	path := testArchivePath(t)
	writeTestArchive(t, path, []testEntry{
		{name: "a.txt", data: []byte("a")},
		{name: "b.txt", data: []byte("b")},
	})

	a, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = a.Close() }()

	first, err := a.Open("a.txt")
	if err != nil {
		t.Fatalf("open first: %v", err)
	}

	if _, err := a.Open("b.txt"); !errors.Is(err, ErrBusy) {
		t.Errorf("second open: err = %v, want ErrBusy", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("close first: %v", err)
	}

	second, err := a.Open("b.txt")
	if err != nil {
		t.Fatalf("open after close: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("close second: %v", err)
	}
}

func TestCreate_SecondCursorFailsFast(t *testing.T) {
	t.Parallel()

	a, err := CreateWriter(testArchivePath(t), WriterOptions{})
	if err != nil {
		t.Fatalf("CreateWriter: %v", err)
	}

	first, err := a.Create("a.txt")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	if _, err := a.Create("b.txt"); !errors.Is(err, ErrBusy) {
		t.Errorf("second create: err = %v, want ErrBusy", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("close first: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
}

func TestCloseAndList_BusyWhileStreaming(t *testing.T) {
	t.Parallel()

	path := testArchivePath(t)
	writeTestArchive(t, path, []testEntry{{name: "a.txt", data: []byte("a")}})

	a, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}

	ent, err := a.Open("a.txt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := a.Close(); !errors.Is(err, ErrBusy) {
		t.Errorf("close while streaming: err = %v, want ErrBusy", err)
	}
	if _, err := a.List(); !errors.Is(err, ErrBusy) {
		t.Errorf("list while streaming: err = %v, want ErrBusy", err)
	}
	if _, err := a.Entries(); !errors.Is(err, ErrBusy) {
		t.Errorf("entries while streaming: err = %v, want ErrBusy", err)
	}

	if err := ent.Close(); err != nil {
		t.Fatalf("close entry: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
}

func TestClosedArchive_OperationsFail(t *testing.T) {
	t.Parallel()

	path := testArchivePath(t)
	writeTestArchive(t, path, []testEntry{{name: "a.txt", data: []byte("a")}})

	a, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := a.Open("a.txt"); !errors.Is(err, ErrClosed) {
		t.Errorf("open: err = %v, want ErrClosed", err)
	}
	if _, err := a.List(); !errors.Is(err, ErrClosed) {
		t.Errorf("list: err = %v, want ErrClosed", err)
	}
	if _, err := a.Entries(); !errors.Is(err, ErrClosed) {
		t.Errorf("entries: err = %v, want ErrClosed", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	path := testArchivePath(t)
	writeTestArchive(t, path, []testEntry{{name: "a.txt", data: []byte("a")}})

	a, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}

	ent, err := a.Open("a.txt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := ent.Close(); err != nil {
		t.Fatalf("first entry close: %v", err)
	}
	if err := ent.Close(); err != nil {
		t.Errorf("second entry close: %v, want nil", err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("first archive close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second archive close: %v, want nil", err)
	}
}

func TestOpen_LockReleasedOnError(t *testing.T) {
	t.Parallel()

	path := testArchivePath(t)
	writeTestArchive(t, path, []testEntry{{name: "a.txt", data: []byte("a")}})

	a, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = a.Close() }()

	if _, err := a.Open("missing.txt"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("open missing: err = %v, want ErrEntryNotFound", err)
	}

	// A failed resolution must not leave the lock held.
	ent, err := a.Open("a.txt")
	if err != nil {
		t.Fatalf("open after failure: %v", err)
	}
	if err := ent.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestModeMismatch_Rejected(t *testing.T) {
	t.Parallel()

	path := testArchivePath(t)
	writeTestArchive(t, path, []testEntry{{name: "a.txt", data: []byte("a")}})

	rd, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = rd.Close() }()

	if _, err := rd.Create("new.txt"); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("create on read handle: err = %v, want ErrUnsupportedMode", err)
	}

	wr, err := CreateWriter(testArchivePath(t), WriterOptions{})
	if err != nil {
		t.Fatalf("CreateWriter: %v", err)
	}
	defer func() { _ = wr.Close() }()

	if _, err := wr.Open("a.txt"); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("open on write handle: err = %v, want ErrUnsupportedMode", err)
	}
	if _, err := wr.List(); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("list on write handle: err = %v, want ErrUnsupportedMode", err)
	}
}

func TestEntryCursor_ModeMismatch(t *testing.T) {
	t.Parallel()

	a, err := CreateWriter(testArchivePath(t), WriterOptions{})
	if err != nil {
		t.Fatalf("CreateWriter: %v", err)
	}

	ent, err := a.Create("a.txt")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := ent.ReadAll(); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("read on write cursor: err = %v, want ErrUnsupportedMode", err)
	}

	if err := ent.Close(); err != nil {
		t.Fatalf("close entry: %v", err)
	}
	if _, err := ent.Write([]byte("x")); !errors.Is(err, ErrClosed) {
		t.Errorf("write after close: err = %v, want ErrClosed", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
}

func TestNilArchive(t *testing.T) {
	t.Parallel()

	var a *Archive
	if err := a.Close(); !errors.Is(err, ErrNilArchive) {
		t.Errorf("close: err = %v, want ErrNilArchive", err)
	}
	if _, err := a.Open("a"); !errors.Is(err, ErrNilArchive) {
		t.Errorf("open: err = %v, want ErrNilArchive", err)
	}
	if _, err := a.List(); !errors.Is(err, ErrNilArchive) {
		t.Errorf("list: err = %v, want ErrNilArchive", err)
	}
}
