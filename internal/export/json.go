// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package export

import (
	"encoding/json"
	"time"

	"github.com/seleneforge/astroscope/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter renders conversations as a structured JSON document. Turn
// content stays typed (kind, text, url, items) so consumers do not have to
// re-parse rendered text.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string { return ".json" }

type jsonDocument struct {
	Title      string     `json:"title,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExportedAt time.Time  `json:"exported_at"`
	Turns      []jsonTurn `json:"turns"`
}

type jsonTurn struct {
	Role      string         `json:"role"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Fragments []jsonFragment `json:"fragments"`
}

type jsonFragment struct {
	Kind  string     `json:"kind"`
	Text  string     `json:"text,omitempty"`
	URL   string     `json:"url,omitempty"`
	Items [][]jsonFragment `json:"items,omitempty"`
}

// Export converts a conversation to JSON.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil || conv.IsEmpty() {
		return nil, ErrEmptyConversation
	}

	doc := jsonDocument{
		Title:      conv.Title,
		CreatedAt:  conv.CreatedAt,
		ExportedAt: time.Now(),
		Turns:      make([]jsonTurn, 0, conv.Len()),
	}

	for _, turn := range conv.Turns {
		jt := jsonTurn{
			Role:      string(turn.Role),
			Fragments: make([]jsonFragment, 0, len(turn.Fragments)),
		}
		if e.options.IncludeTimestamps {
			ts := turn.Timestamp
			jt.Timestamp = &ts
		}
		for _, f := range turn.Fragments {
			jt.Fragments = append(jt.Fragments, toJSONFragment(f))
		}
		doc.Turns = append(doc.Turns, jt)
	}

	return json.MarshalIndent(doc, "", "  ")
}

func toJSONFragment(f model.Fragment) jsonFragment {
	jf := jsonFragment{Kind: kindName(f.Kind), Text: f.Text, URL: f.URL}
	for _, item := range f.Items {
		lines := make([]jsonFragment, 0, len(item.Lines))
		for _, line := range item.Lines {
			lines = append(lines, toJSONFragment(line))
		}
		jf.Items = append(jf.Items, lines)
	}
	return jf
}

func kindName(k model.FragmentKind) string {
	switch k {
	case model.KindText:
		return "text"
	case model.KindLink:
		return "link"
	case model.KindList:
		return "list"
	default:
		return "unknown"
	}
}
