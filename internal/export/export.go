// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package export writes a snapshot of the current conversation to a file.
// The conversation itself stays in memory; export is an explicit,
// user-requested copy in Markdown, JSON, or plain text.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/seleneforge/astroscope/internal/model"
	"github.com/seleneforge/astroscope/internal/util"
)

// =============================================================================
// EXPORTER INTERFACE
// =============================================================================

// Exporter converts a conversation into one output format.
type Exporter interface {
	// Export renders the conversation as file content.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the extension including the dot, e.g. ".md".
	FileExtension() string
}

// ErrEmptyConversation is returned when there is nothing to export.
var ErrEmptyConversation = errors.New("conversation has no turns")

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures export output.
type Options struct {
	// OutputDir is where files are written. Default: current directory.
	OutputDir string

	// IncludeMetadata adds a header with session info.
	IncludeMetadata bool

	// IncludeTimestamps adds per-turn timestamps.
	IncludeTimestamps bool
}

// DefaultOptions returns the stock export behavior.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

// =============================================================================
// FORMAT SELECTION
// =============================================================================

// ForFormat returns the exporter for a format name: "markdown" (or "md"),
// "json", or "text" (or "txt").
func ForFormat(format string, opts *Options) (Exporter, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	switch format {
	case "markdown", "md", "":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "text", "txt":
		return NewTextExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// ToFile exports a conversation and writes it under opts.OutputDir. Returns
// the output path.
func ToFile(conv *model.Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if conv == nil || conv.IsEmpty() {
		return "", ErrEmptyConversation
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	name := fmt.Sprintf("astroscope_%s_%s%s",
		sanitizeFilename(conv.Title),
		time.Now().Format("20060102_150405"),
		exporter.FileExtension(),
	)

	path := filepath.Join(opts.OutputDir, name)
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// sanitizeFilename converts a conversation title into a safe filename
// component.
func sanitizeFilename(s string) string {
	s = util.TruncateRunes(s, 40)

	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ' || r == '\t':
			out = append(out, '_')
		case r == '-' || r == '_' || r == '.':
			out = append(out, r)
		default:
			// Drop everything else, including path separators.
		}
	}

	if len(out) == 0 {
		return "conversation"
	}
	return string(out)
}
