// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// health.go - Service health check command.
//
// Command: health
//
// Exits 0 when the analysis service answers its health endpoint with
// status "ok", nonzero otherwise, so it works as a scriptable probe:
//   astroscope health && ./run-nightly-analysis.sh

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/ui/styles"
)

const healthTimeout = 10 * time.Second

// RunHealth checks the analysis service and reports the result.
func RunHealth(args Args) error {
	cfg := config.Global()
	client := BuildClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	start := time.Now()
	status, err := client.Health(ctx)
	latency := time.Since(start)

	if args.JSON {
		out := map[string]any{
			"base_url":   cfg.Server.BaseURL,
			"healthy":    err == nil && status.OK(),
			"latency_ms": latency.Milliseconds(),
		}
		if err != nil {
			out["error"] = err.Error()
		} else {
			out["status"] = status.Status
		}
		data, merr := json.MarshalIndent(out, "", "  ")
		if merr != nil {
			return merr
		}
		fmt.Println(string(data))
		if err != nil || !status.OK() {
			return fmt.Errorf("service unhealthy")
		}
		return nil
	}

	if err != nil {
		fmt.Println(styles.RenderError("service unreachable at " + cfg.Server.BaseURL))
		return err
	}
	if !status.OK() {
		fmt.Println(styles.RenderWarning(fmt.Sprintf("service at %s reports %q", cfg.Server.BaseURL, status.Status)))
		return fmt.Errorf("service unhealthy: %s", status.Status)
	}

	fmt.Println(styles.RenderSuccess(fmt.Sprintf("service up at %s (%s)", cfg.Server.BaseURL, latency.Round(time.Millisecond))))
	return nil
}
