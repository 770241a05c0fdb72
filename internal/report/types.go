// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// AnalyzeRequest is the JSON body sent to the analyze-topic endpoint.
type AnalyzeRequest struct {
	Topic     string `json:"topic"`
	MaxPapers int    `json:"max_papers"`
}

// Paper is one literature entry of a report.
type Paper struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Authors   []string `json:"authors"`
	Published Date     `json:"published"`
	Summary   string   `json:"summary"`
}

// AuthorLine joins the author list for display, "A, B, C". Empty when the
// paper carries no authors.
func (p Paper) AuthorLine() string {
	return strings.Join(p.Authors, ", ")
}

// Calculation is one derived quantity of a report.
type Calculation struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Details string `json:"details"`
}

// Report is the structured payload returned by the analysis service. All
// content fields are optional; absent and empty both mean "nothing to show",
// except Papers where present-but-empty is distinguishable from absent
// (nil slice = key absent, empty non-nil slice = key present and empty).
type Report struct {
	Topic        string        `json:"topic"`
	Overview     string        `json:"overview"`
	Papers       []Paper       `json:"papers"`
	Calculations []Calculation `json:"calculations"`
	FutureWork   string        `json:"future_work"`
}

// HasPapersField reports whether the papers key was present in the payload,
// even if empty.
func (r *Report) HasPapersField() bool {
	return r.Papers != nil
}

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status string `json:"status"`
}

// OK reports whether the service declared itself healthy.
func (h HealthStatus) OK() bool {
	return h.Status == "ok"
}

// =============================================================================
// DATES
// =============================================================================

// dateLayouts are the timestamp shapes the service is known to emit. The
// backend serializes datetimes without a zone suffix, so bare ISO forms come
// first after RFC3339.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date is a time.Time that tolerates the service's zone-less ISO timestamps.
type Date struct {
	time.Time
}

// UnmarshalJSON accepts any of the known service date layouts.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

// MarshalJSON writes the date back in RFC3339.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format(time.RFC3339))
}

// LocaleString formats the date the way it is shown in chat turns.
func (d Date) LocaleString() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}
