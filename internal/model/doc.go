// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package model holds the chat domain types: Turn (one chat entry built from
// typed, sanitized fragments), Conversation (the append-only in-memory turn
// sequence), and Role.
package model
