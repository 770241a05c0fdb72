// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package util provides small helpers shared across astroscope: UTF-8 safe
// truncation, display-width measurement, sanitization of untrusted text
// before terminal rendering, and crash-safe file writes.
package util
