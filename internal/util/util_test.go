// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"zero max", "hello", 0, ""},
		{"tiny max skips ellipsis", "hello", 2, "he"},
		{"multibyte safe", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateRunes(tt.in, tt.max))
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	// CJK characters occupy two columns each.
	assert.Equal(t, "日本", TruncateWidth("日本", 4))
	got := TruncateWidth("日本語テキスト", 8)
	assert.LessOrEqual(t, StringWidth(got), 8)
	assert.Contains(t, got, "...")

	assert.Equal(t, "abc", TruncateWidth("abc", 10))
	assert.Equal(t, "", TruncateWidth("abc", 0))
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "plain text", "plain text"},
		{"ansi escape stripped", "red\x1b[31mtext", "red[31mtext"},
		{"bell stripped", "ding\adong", "dingdong"},
		{"newline preserved", "line one\nline two", "line one\nline two"},
		{"tab preserved", "a\tb", "a\tb"},
		{"carriage return stripped", "a\rb", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}

func TestSanitizeLine(t *testing.T) {
	assert.Equal(t, "a b", SanitizeLine("a\nb"))
	assert.Equal(t, "a b", SanitizeLine("a\tb"))
	assert.Equal(t, "title", SanitizeLine("\x1b[2Jtitle\n"))
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0644))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	// Overwrite replaces the whole file.
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
