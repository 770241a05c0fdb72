// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/seleneforge/astroscope/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders conversations as Markdown with optional YAML
// frontmatter.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// Export converts a conversation to Markdown.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil || conv.IsEmpty() {
		return nil, ErrEmptyConversation
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "title: %q\n", conv.Title)
		fmt.Fprintf(&sb, "date: %s\n", conv.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "turns: %d\n", conv.Len())
		fmt.Fprintf(&sb, "exported: %s\n", time.Now().Format(time.RFC3339))
		sb.WriteString("generator: astroscope\n")
		sb.WriteString("---\n\n")
	}

	title := conv.Title
	if title == "" {
		title = "Conversation"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	for i, turn := range conv.Turns {
		if e.options.IncludeTimestamps {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n",
				turn.Role.DisplayName(), turn.Timestamp.Format("15:04:05"))
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", turn.Role.DisplayName())
		}

		for _, f := range turn.Fragments {
			sb.WriteString(markdownFragment(f))
			sb.WriteString("\n\n")
		}

		if i < conv.Len()-1 {
			sb.WriteString("---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

func markdownFragment(f model.Fragment) string {
	switch f.Kind {
	case model.KindText:
		return f.Text
	case model.KindLink:
		return markdownLink(f)
	case model.KindList:
		var sb strings.Builder
		for i, item := range f.Items {
			if i > 0 {
				sb.WriteString("\n")
			}
			for j, line := range item.Lines {
				if j == 0 {
					fmt.Fprintf(&sb, "%d. %s", i+1, markdownFragment(line))
				} else {
					fmt.Fprintf(&sb, "  \n   %s", markdownFragment(line))
				}
			}
		}
		return sb.String()
	default:
		return ""
	}
}

func markdownLink(f model.Fragment) string {
	label := strings.NewReplacer("[", "\\[", "]", "\\]").Replace(f.Text)
	if f.URL == "" {
		return label
	}
	return fmt.Sprintf("[%s](%s)", label, f.URL)
}
