// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/seleneforge/astroscope/internal/util"
)

// =============================================================================
// ROLES
// =============================================================================

// Role identifies the author of a turn.
type Role string

const (
	// RoleUser marks turns typed by the user.
	RoleUser Role = "user"

	// RoleBot marks turns derived from the analysis service.
	RoleBot Role = "bot"
)

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleBot:
		return "AstroScope"
	default:
		return string(r)
	}
}

// =============================================================================
// FRAGMENTS
// =============================================================================

// FragmentKind discriminates the typed content units a turn is built from.
// External text never reaches the display layer as raw markup; it is carried
// in fragments and sanitized where the fragment is constructed.
type FragmentKind int

const (
	// KindText is a plain text block.
	KindText FragmentKind = iota

	// KindLink is a labeled hyperlink.
	KindLink

	// KindList is an ordered list of items, each item a sequence of lines.
	KindList
)

// Fragment is one typed content unit inside a turn.
type Fragment struct {
	Kind  FragmentKind
	Text  string     // KindText body, or KindLink label
	URL   string     // KindLink target
	Items []ListItem // KindList entries, in display order
}

// ListItem is one entry of a list fragment. Each line is itself a text or
// link fragment so list entries can mix prose and hyperlinks.
type ListItem struct {
	Lines []Fragment
}

// TextFragment builds a sanitized plain-text fragment.
func TextFragment(text string) Fragment {
	return Fragment{Kind: KindText, Text: util.SanitizeText(text)}
}

// LinkFragment builds a sanitized link fragment. The label collapses to a
// single line; the URL is kept verbatim apart from control characters.
func LinkFragment(label, url string) Fragment {
	return Fragment{Kind: KindLink, Text: util.SanitizeLine(label), URL: util.SanitizeLine(url)}
}

// ListFragment builds a list fragment from already-constructed items.
func ListFragment(items []ListItem) Fragment {
	return Fragment{Kind: KindList, Items: items}
}

// PlainText flattens the fragment to unstyled text. Lists are 1-indexed to
// match their rendered form.
func (f Fragment) PlainText() string {
	switch f.Kind {
	case KindText:
		return f.Text
	case KindLink:
		if f.URL == "" {
			return f.Text
		}
		return fmt.Sprintf("%s (%s)", f.Text, f.URL)
	case KindList:
		var b strings.Builder
		for i, item := range f.Items {
			if i > 0 {
				b.WriteString("\n")
			}
			for j, line := range item.Lines {
				if j == 0 {
					fmt.Fprintf(&b, "%d. %s", i+1, line.PlainText())
				} else {
					fmt.Fprintf(&b, "\n   %s", line.PlainText())
				}
			}
		}
		return b.String()
	default:
		return ""
	}
}

// =============================================================================
// TURNS
// =============================================================================

// Turn is one chat entry. Immutable once created; ordering inside a
// conversation is creation order.
type Turn struct {
	ID        string
	Role      Role
	Timestamp time.Time
	Fragments []Fragment
}

// NewUserTurn creates a turn holding the user's topic text.
func NewUserTurn(text string) *Turn {
	return &Turn{
		ID:        generateID("turn"),
		Role:      RoleUser,
		Timestamp: time.Now(),
		Fragments: []Fragment{TextFragment(text)},
	}
}

// NewBotTurn creates a bot turn from typed fragments.
func NewBotTurn(fragments ...Fragment) *Turn {
	return &Turn{
		ID:        generateID("turn"),
		Role:      RoleBot,
		Timestamp: time.Now(),
		Fragments: fragments,
	}
}

// PlainText flattens the turn's fragments to unstyled text.
func (t *Turn) PlainText() string {
	parts := make([]string, 0, len(t.Fragments))
	for _, f := range t.Fragments {
		parts = append(parts, f.PlainText())
	}
	return strings.Join(parts, "\n")
}

// Preview returns a single-line summary of the turn, truncated to maxLen
// runes.
func (t *Turn) Preview(maxLen int) string {
	line := strings.Join(strings.Fields(t.PlainText()), " ")
	return util.TruncateRunes(line, maxLen)
}

// generateID returns a prefixed random hex identifier, e.g. "turn_a1b2c3d4".
func generateID(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fall back to a timestamp-derived ID if the entropy source fails.
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}
