// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seleneforge/astroscope/internal/model"
)

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.Append(
		model.NewUserTurn("exoplanets"),
		model.NewBotTurn(model.TextFragment("Overview text")),
		model.NewBotTurn(model.ListFragment([]model.ListItem{
			{Lines: []model.Fragment{
				model.LinkFragment("P1 [draft]", "http://a"),
				model.TextFragment("A, B"),
				model.TextFragment("S1"),
			}},
		})),
	)
	return conv
}

func TestMarkdownExport(t *testing.T) {
	data, err := NewMarkdownExporter(nil).Export(sampleConversation())
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# exoplanets")
	assert.Contains(t, md, "### You")
	assert.Contains(t, md, "### AstroScope")
	assert.Contains(t, md, "Overview text")
	// Links become markdown links with brackets escaped in the label.
	assert.Contains(t, md, `[P1 \[draft\]](http://a)`)
	assert.Contains(t, md, "1. ")
	assert.Contains(t, md, "generator: astroscope")
}

func TestMarkdownExportWithoutMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	data, err := NewMarkdownExporter(opts).Export(sampleConversation())
	require.NoError(t, err)
	md := string(data)

	assert.NotContains(t, md, "---\ntitle:")
	assert.NotContains(t, md, "<sub>")
}

func TestJSONExportRoundTrip(t *testing.T) {
	data, err := NewJSONExporter(nil).Export(sampleConversation())
	require.NoError(t, err)

	var doc struct {
		Title string `json:"title"`
		Turns []struct {
			Role      string `json:"role"`
			Fragments []struct {
				Kind string `json:"kind"`
				Text string `json:"text"`
				URL  string `json:"url"`
			} `json:"fragments"`
		} `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "exoplanets", doc.Title)
	require.Len(t, doc.Turns, 3)
	assert.Equal(t, "user", doc.Turns[0].Role)
	assert.Equal(t, "text", doc.Turns[0].Fragments[0].Kind)
	assert.Equal(t, "list", doc.Turns[2].Fragments[0].Kind)
}

func TestTextExport(t *testing.T) {
	data, err := NewTextExporter(nil).Export(sampleConversation())
	require.NoError(t, err)
	txt := string(data)

	assert.Contains(t, txt, "You:")
	assert.Contains(t, txt, "AstroScope:")
	assert.Contains(t, txt, "exoplanets")
	assert.Contains(t, txt, "1. P1 [draft] (http://a)")
}

func TestExportEmptyConversation(t *testing.T) {
	empty := model.NewConversation()
	for _, e := range []Exporter{
		NewMarkdownExporter(nil), NewJSONExporter(nil), NewTextExporter(nil),
	} {
		_, err := e.Export(empty)
		assert.ErrorIs(t, err, ErrEmptyConversation)
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"markdown", ".md"},
		{"md", ".md"},
		{"", ".md"},
		{"json", ".json"},
		{"text", ".txt"},
		{"txt", ".txt"},
	}
	for _, tt := range tests {
		e, err := ForFormat(tt.format, nil)
		require.NoError(t, err, tt.format)
		assert.Equal(t, tt.ext, e.FileExtension(), tt.format)
	}

	_, err := ForFormat("pdf", nil)
	assert.Error(t, err)
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ToFile(sampleConversation(), NewMarkdownExporter(opts), opts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, ".md"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "exoplanets")

	_, err = ToFile(model.NewConversation(), NewMarkdownExporter(opts), opts)
	assert.ErrorIs(t, err, ErrEmptyConversation)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "dark_matter", sanitizeFilename("dark matter"))
	assert.Equal(t, "conversation", sanitizeFilename("///"))
	assert.Equal(t, "conversation", sanitizeFilename(""))
	assert.NotContains(t, sanitizeFilename("a/b\\c:d"), "/")
}
