// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// setup.go - Dependency wiring shared by the TUI and the CLI commands.

package cli

import (
	"context"
	"time"

	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/controller"
	"github.com/seleneforge/astroscope/internal/library"
	"github.com/seleneforge/astroscope/internal/report"
	"github.com/seleneforge/astroscope/internal/telemetry"
)

// BuildClient constructs the service client from config.
func BuildClient(cfg *config.Config) *report.Client {
	client := report.NewClient(cfg.Server.BaseURL)
	if cfg.Server.TimeoutSeconds > 0 {
		client = client.WithTimeout(time.Duration(cfg.Server.TimeoutSeconds) * time.Second)
	}
	if cfg.Server.RateLimitMS > 0 {
		client = client.WithRateLimit(time.Duration(cfg.Server.RateLimitMS) * time.Millisecond)
	}
	return client
}

// Runtime bundles the controller with the resources behind its observers.
type Runtime struct {
	Client     *report.Client
	Controller *controller.Controller
	Library    *library.Library
	Tracker    *telemetry.Tracker
}

// Close releases the runtime's resources.
func (r *Runtime) Close() {
	if r.Library != nil {
		r.Library.Close()
	}
}

// librarySink saves each report's papers into the library. Failures are
// ignored: a broken library must never break the conversation.
type librarySink struct {
	lib *library.Library
}

func (s *librarySink) ReportReceived(topic string, rep *report.Report, elapsed time.Duration) {
	if rep == nil || len(rep.Papers) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.lib.SavePapers(ctx, topic, rep.Papers)
}

func (s *librarySink) ReportFailed(topic string, err error, elapsed time.Duration) {}

// BuildRuntime wires the controller with the telemetry and library
// observers the config enables. Setup failures of optional subsystems are
// swallowed; the core chat loop works without them.
func BuildRuntime(cfg *config.Config) *Runtime {
	client := BuildClient(cfg)
	ctrl := controller.New(client, controller.ConfigFrom(cfg))

	rt := &Runtime{Client: client, Controller: ctrl}

	if cfg.Telemetry.Enabled {
		if dir, err := cfg.TelemetryDir(); err == nil {
			if store, err := telemetry.NewStorage(dir); err == nil {
				rt.Tracker = telemetry.NewTracker(store)
				ctrl.AddObserver(rt.Tracker)
			}
		}
	}

	if cfg.Library.Enabled {
		if path, err := cfg.LibraryPath(); err == nil {
			if lib, err := library.Open(path); err == nil {
				rt.Library = lib
				ctrl.AddObserver(&librarySink{lib: lib})
			}
		}
	}

	return rt
}
