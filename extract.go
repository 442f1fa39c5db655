// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipfile

package zipfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/pathrules"
)

// extractCopyBufferSize defines the buffer size for entry copy during extraction.
const extractCopyBufferSize = 64 * 1024

// extractWorkItem stores one selected entry with prepared output relative paths.
type extractWorkItem struct {
	relPath string
	relDir  string
	entry   EntryInfo
	index   int
}

// ExtractAll writes selected entries to dstDir. Read mode only.
//
// Entries stream one at a time through short-lived cursors: the exclusive
// entry discipline allows no parallel reads on one handle, so extraction is
// sequential and fails with ErrBusy while another cursor is open. Encrypted
// entries need ExtractOptions.Password, or ExtractOptions.SkipEncrypted to
// be skipped. On failure the first encountered error is returned.
func (a *Archive) ExtractAll(ctx context.Context, dstDir string, opts ExtractOptions) error {
	if a == nil {
		return ErrNilArchive
	}
	if a.mode != ModeRead {
		return fmt.Errorf("%w: extract requires read mode", ErrUnsupportedMode)
	}

	matcherOpts := opts.MatcherOptions
	if matcherOpts == (pathrules.MatcherOptions{}) {
		matcherOpts = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}
	if matcherOpts.DefaultAction == pathrules.ActionUnknown {
		matcherOpts.DefaultAction = pathrules.ActionExclude
	}

	matcher, err := newExtractMatcher(opts.Rules, matcherOpts)
	if err != nil {
		return err
	}

	entries, err := a.Entries()
	if err != nil {
		return err
	}

	workItems, err := prepareExtractWorkItems(entries, matcher, opts.RawNames)
	if err != nil {
		return err
	}

	if len(workItems) == 0 {
		return nil
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := prepareExtractDirs(dstRootAbs, workItems); err != nil {
		return err
	}

	copyBuf := make([]byte, extractCopyBufferSize)
	for _, task := range workItems {
		if err := ctx.Err(); err != nil {
			return err
		}

		if task.entry.Encrypted && opts.Password == "" {
			if opts.SkipEncrypted {
				continue
			}

			return fmt.Errorf("%w: %s", ErrPasswordRequired, task.entry.Path)
		}

		if err := a.extractPreparedEntry(dstRootAbs, task, opts.Password, copyBuf, opts.OnEntryDone); err != nil {
			return err
		}
	}

	return nil
}

// extractPreparedEntry writes one prepared work item to destination root.
func (a *Archive) extractPreparedEntry(
	dstRootAbs string,
	task extractWorkItem,
	password string,
	copyBuf []byte,
	onEntryDone func(entry EntryInfo, written int64, outputPath string),
) error {
	ent, err := a.OpenIndexWithPassword(task.index, password)
	if err != nil {
		return err
	}
	defer func() { _ = ent.Close() }()

	outPath := filepath.Join(dstRootAbs, task.relPath)
	file, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", task.entry.Path, err)
	}

	written, copyErr := io.CopyBuffer(file, ent, copyBuf)
	closeErr := file.Close()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", task.entry.Path, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", task.entry.Path, closeErr)
	}

	if onEntryDone != nil {
		onEntryDone(task.entry, written, outPath)
	}

	return nil
}

// prepareExtractWorkItems selects entries, validates destination paths, and
// prepares relative fs paths. Directory records (trailing "/") become parent
// directories of other items and are not extracted themselves.
func prepareExtractWorkItems(entries []EntryInfo, matcher *extractMatcher, rawNames bool) ([]extractWorkItem, error) {
	selected := make([]extractWorkItem, 0, len(entries))
	relPaths := make([]string, 0, len(entries))
	for idx, entry := range entries {
		if strings.TrimSpace(entry.Path) == "" || strings.HasSuffix(entry.Path, "/") {
			continue
		}
		if !matcher.Match(entry.Path) {
			continue
		}

		normalizedPath, err := normalizeExtractEntryPath(entry.Path)
		if err != nil {
			return nil, fmt.Errorf("normalize entry path %s: %w", entry.Path, err)
		}

		selected = append(selected, extractWorkItem{entry: entry, index: idx})
		relPaths = append(relPaths, normalizedPath)
	}

	if !rawNames {
		sanitizedPaths, err := sanitizeEntryPaths(relPaths)
		if err != nil {
			return nil, err
		}

		relPaths = sanitizedPaths
	}

	for i := range selected {
		relPath := filepath.FromSlash(relPaths[i])
		relDir := filepath.Dir(relPath)
		if relDir == "." {
			relDir = ""
		}

		selected[i].relPath = relPath
		selected[i].relDir = relDir
	}

	return selected, nil
}

// prepareExtractDirs creates all unique parent directories needed by work items.
func prepareExtractDirs(dstRootAbs string, workItems []extractWorkItem) error {
	seen := make(map[string]struct{}, len(workItems))
	for _, task := range workItems {
		if task.relDir == "" {
			continue
		}

		dirPath := filepath.Join(dstRootAbs, task.relDir)
		key := strings.ToLower(dirPath)
		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		if err := os.MkdirAll(dirPath, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", dirPath, err)
		}
	}

	return nil
}

// extractMatcher holds compiled rules selecting entries for extraction.
type extractMatcher struct {
	matcher *pathrules.Matcher
}

// newExtractMatcher compiles extract path rules; empty rules match everything.
func newExtractMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*extractMatcher, error) {
	rules = normalizeExtractRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile extract rules: %w", ErrInvalidExtractPath, err)
	}

	return &extractMatcher{matcher: matcher}, nil
}

// normalizeExtractRules normalizes rule patterns and drops empty patterns.
func normalizeExtractRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := NormalizePath(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether path is selected for extraction.
func (m *extractMatcher) Match(path string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	candidate := NormalizePath(path)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}
