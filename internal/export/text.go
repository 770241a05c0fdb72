// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package export

import (
	"fmt"
	"strings"

	"github.com/seleneforge/astroscope/internal/model"
)

// =============================================================================
// PLAIN TEXT EXPORTER
// =============================================================================

// TextExporter renders conversations as plain text, suitable for piping.
type TextExporter struct {
	options *Options
}

// NewTextExporter creates a plain text exporter.
func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

// FileExtension returns ".txt".
func (e *TextExporter) FileExtension() string { return ".txt" }

// Export converts a conversation to plain text.
func (e *TextExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil || conv.IsEmpty() {
		return nil, ErrEmptyConversation
	}

	var sb strings.Builder
	for i, turn := range conv.Turns {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if e.options.IncludeTimestamps {
			fmt.Fprintf(&sb, "[%s] %s:\n", turn.Timestamp.Format("15:04:05"), turn.Role.DisplayName())
		} else {
			fmt.Fprintf(&sb, "%s:\n", turn.Role.DisplayName())
		}
		sb.WriteString(turn.PlainText())
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}
