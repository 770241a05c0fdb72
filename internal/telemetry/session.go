// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/seleneforge/astroscope/internal/report"
)

// =============================================================================
// SESSION TYPES
// =============================================================================

// Outcome classifies how a request resolved.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// RequestRecord is one analysis request as seen by the client.
type RequestRecord struct {
	Topic      string    `json:"topic"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Outcome    Outcome   `json:"outcome"`
	PaperCount int       `json:"paper_count"`
	Error      string    `json:"error,omitempty"`
}

// Session groups the requests of one program run.
type Session struct {
	ID        string          `json:"id"`
	StartedAt time.Time       `json:"started_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Requests  []RequestRecord `json:"requests"`
}

// NewSession creates a session with a timestamp-derived ID, unique enough
// for one machine: "20060102-150405-000000" (microseconds).
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        fmt.Sprintf("%s-%06d", now.Format("20060102-150405"), now.Nanosecond()/1000),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// RequestCount returns the number of recorded requests.
func (s *Session) RequestCount() int {
	return len(s.Requests)
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker records analysis requests into the current session and persists
// after each one. It satisfies the controller's Observer shape. Safe for
// concurrent use.
type Tracker struct {
	mu      sync.Mutex
	session *Session
	store   *Storage
}

// NewTracker starts a fresh session persisted through store. A nil store
// keeps the session in memory only.
func NewTracker(store *Storage) *Tracker {
	return &Tracker{
		session: NewSession(),
		store:   store,
	}
}

// Session returns a snapshot of the current session.
func (t *Tracker) Session() Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := *t.session
	snap.Requests = append([]RequestRecord(nil), t.session.Requests...)
	return snap
}

// ReportReceived records a successful analysis request.
func (t *Tracker) ReportReceived(topic string, rep *report.Report, elapsed time.Duration) {
	record := RequestRecord{
		Topic:      topic,
		StartedAt:  time.Now().Add(-elapsed),
		DurationMS: elapsed.Milliseconds(),
		Outcome:    OutcomeOK,
	}
	if rep != nil {
		record.PaperCount = len(rep.Papers)
	}
	t.append(record)
}

// ReportFailed records a failed analysis request. Only the error text is
// kept; the user-visible side is a single generic error turn.
func (t *Tracker) ReportFailed(topic string, err error, elapsed time.Duration) {
	record := RequestRecord{
		Topic:      topic,
		StartedAt:  time.Now().Add(-elapsed),
		DurationMS: elapsed.Milliseconds(),
		Outcome:    OutcomeError,
	}
	if err != nil {
		record.Error = err.Error()
	}
	t.append(record)
}

func (t *Tracker) append(record RequestRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.session.Requests = append(t.session.Requests, record)
	t.session.UpdatedAt = time.Now()

	if t.store != nil {
		// Persistence failures never disturb the chat flow.
		_ = t.store.Save(t.session)
	}
}
