// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

/*
Package zipfile provides controlled, one-entry-at-a-time access to ZIP
archives through a single mode-tagged handle. Multiple logical entries live
inside one physical file; callers open entries by name or index, stream bytes
in or out through a cursor, and close them, while the archive itself may be
opened, listed, and closed independently of entry activity.

The access discipline is deliberately restrictive: at most one entry cursor
may be open against an archive handle at any time. A cursor holds the
archive's lock for its whole lifetime, and every acquisition is non-blocking,
so a second entry open, a concurrent Close, or a List while streaming fails
immediately with ErrBusy instead of waiting. Contention is a usage error
reported to the caller, never hidden behind blocking or queuing.

# Reading

Open an archive and stream an entry:

	a, err := zipfile.OpenReader("bundle.zip")
	if err != nil {
	    return err
	}
	defer a.Close()

	ent, err := a.Open("config.json")
	if err != nil {
	    return err
	}
	data, err := ent.ReadAll()
	if err != nil {
	    return err
	}
	if err := ent.Close(); err != nil {
	    return err
	}
	// use data

Encrypted entries need OpenWithPassword; opening them without a password
fails with ErrPasswordRequired, and a wrong password with ErrDecryption.

For one-shot reads without handle management:

	data, err := zipfile.ReadEntry("bundle.zip", "config.json")
	names, err := zipfile.List("bundle.zip")
	_, _, _ = data, names, err

# Writing

Create an archive, stream entries, and finalize with Close. Close writes the
central directory and flushes the file; an abandoned handle leaves a
truncated archive behind.

	a, err := zipfile.CreateWriter("bundle.zip", zipfile.WriterOptions{
	    Method: zipfile.MethodDeflate,
	})
	if err != nil {
	    return err
	}

	ent, err := a.CreateWithDescriptor(zipfile.EntryDescriptor{
	    Name:   "config.json",
	    Method: zipfile.MethodDeflate,
	    Level:  zipfile.Level(9),
	})
	if err != nil {
	    return err
	}
	if _, err := ent.Write(payload); err != nil {
	    return err
	}
	if err := ent.Close(); err != nil {
	    return err
	}

	if err := a.Close(); err != nil {
	    return err
	}

Store, Deflate (levels 0-9), Bzip2 (levels 1-9), and LZMA are supported.
Level bounds are validated at entry-open time, before anything is registered
in the container index. Creating encrypted entries is not supported.

# Extraction

ExtractAll streams selected entries to a destination directory with
filesystem-safe sanitized names and zip-slip protection:

	err = a.ExtractAll(ctx, "out", zipfile.ExtractOptions{
	    Rules: []pathrules.Rule{{Action: pathrules.ActionInclude, Pattern: "docs/*"}},
	})

# Modes

OpenArchive accepts zipfile-style mode strings: "r" opens for reading, "w"
creates a new archive. Modes "a" (append) and "x" (exclusive create) are
recognized but rejected with ErrUnsupportedMode. Operations invalid for a
handle's mode (listing a write handle, creating on a read handle) also fail
with ErrUnsupportedMode rather than misbehaving.
*/
package zipfile
