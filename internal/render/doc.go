// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package render converts chat turns into styled terminal text. It is the
// single display layer for turn content: fragments arrive sanitized and
// typed, and the renderer maps each kind (text, link, list) to its visual
// form without ever treating content as markup.
package render
