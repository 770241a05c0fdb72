// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package report implements the client side of the analysis service
// contract: the wire types of an analysis report and a single-attempt HTTP
// client for the analyze-topic and health endpoints.
package report
