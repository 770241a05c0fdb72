// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package chat implements the interactive chat screen: a Bubble Tea model
// wiring the conversation viewport, the topic input, the loading spinner,
// and the slash command system around the chat controller.
package chat
