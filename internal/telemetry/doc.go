// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package telemetry keeps a local, per-session log of analysis requests
// (topic, duration, outcome, paper count) as JSON files under
// ~/.astroscope/sessions. Nothing leaves the machine; the history command
// reads these files back.
package telemetry
