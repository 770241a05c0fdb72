// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"strings"

	"github.com/seleneforge/astroscope/internal/model"
	"github.com/seleneforge/astroscope/internal/ui/styles"
)

// listIndent aligns wrapped list lines under their entry text.
const listIndent = "   "

// Renderer turns typed fragments into styled terminal text. Content reaches
// this layer already sanitized by the fragment constructors; the renderer
// decides presentation only and never interprets content as markup.
type Renderer struct {
	theme          *styles.Theme
	width          int
	showTimestamps bool
}

// New creates a renderer with a default width of 80 columns.
func New(theme *styles.Theme) *Renderer {
	return &Renderer{theme: theme, width: 80}
}

// SetWidth adjusts the wrap width, typically on terminal resize.
func (r *Renderer) SetWidth(w int) {
	if w > 0 {
		r.width = w
	}
}

// SetShowTimestamps toggles per-turn timestamps.
func (r *Renderer) SetShowTimestamps(show bool) {
	r.showTimestamps = show
}

// Conversation renders all turns separated by blank lines.
func (r *Renderer) Conversation(conv *model.Conversation) string {
	parts := make([]string, 0, conv.Len())
	for _, turn := range conv.Turns {
		parts = append(parts, r.Turn(turn))
	}
	return strings.Join(parts, "\n\n")
}

// Turn renders one turn: a role header line followed by the styled body.
func (r *Renderer) Turn(turn *model.Turn) string {
	header := r.roleLabel(turn.Role)
	if r.showTimestamps {
		header += " " + r.theme.Timestamp.Render(turn.Timestamp.Format("15:04"))
	}

	body := r.body(turn)
	style := r.theme.BotBubble
	if turn.Role == model.RoleUser {
		style = r.theme.UserBubble
	}

	wrapWidth := r.width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	return header + "\n" + style.Width(wrapWidth).Render(body)
}

func (r *Renderer) roleLabel(role model.Role) string {
	if role == model.RoleUser {
		return r.theme.UserLabel.Render(role.DisplayName())
	}
	return r.theme.BotLabel.Render(role.DisplayName())
}

func (r *Renderer) body(turn *model.Turn) string {
	parts := make([]string, 0, len(turn.Fragments))
	for _, f := range turn.Fragments {
		parts = append(parts, r.Fragment(f))
	}
	return strings.Join(parts, "\n")
}

// Fragment renders one fragment according to its kind.
func (r *Renderer) Fragment(f model.Fragment) string {
	switch f.Kind {
	case model.KindText:
		return f.Text
	case model.KindLink:
		if f.URL == "" {
			return r.theme.Link.Render(f.Text)
		}
		return r.theme.Link.Render(f.Text) + " " + r.theme.URL.Render("("+f.URL+")")
	case model.KindList:
		return r.list(f.Items)
	default:
		return ""
	}
}

// list renders 1-indexed entries. The first line of an entry follows the
// index; the rest are indented beneath it.
func (r *Renderer) list(items []model.ListItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		idx := r.theme.ListIndex.Render(fmt.Sprintf("%d.", i+1))
		for j, line := range item.Lines {
			if j == 0 {
				b.WriteString(idx + " " + r.Fragment(line))
				continue
			}
			rendered := r.Fragment(line)
			if line.Kind == model.KindText && looksLikeMeta(line.Text) {
				rendered = r.theme.MetaText.Render(line.Text)
			}
			b.WriteString("\n" + listIndent + rendered)
		}
	}
	return b.String()
}

// looksLikeMeta marks the short labeled lines (published date) so they get
// secondary styling inside list entries.
func looksLikeMeta(s string) bool {
	return strings.HasPrefix(s, "Published: ")
}
