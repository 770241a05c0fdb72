// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seleneforge/astroscope/internal/model"
	"github.com/seleneforge/astroscope/internal/report"
)

// fakeService records calls and returns a canned response.
type fakeService struct {
	calls     []report.AnalyzeRequest
	rep       *report.Report
	err       error
	onRequest func()
}

func (f *fakeService) AnalyzeTopic(ctx context.Context, topic string, maxPapers int) (*report.Report, error) {
	f.calls = append(f.calls, report.AnalyzeRequest{Topic: topic, MaxPapers: maxPapers})
	if f.onRequest != nil {
		f.onRequest()
	}
	return f.rep, f.err
}

func fullReport() *report.Report {
	return &report.Report{
		Topic:    "exoplanets",
		Overview: "X",
		Papers: []report.Paper{{
			Title:   "P1",
			URL:     "http://a",
			Authors: []string{"A", "B"},
			Summary: "S1",
		}},
		Calculations: []report.Calculation{{Label: "Orbital period", Value: "365 d", Details: "Kepler's third law"}},
		FutureWork:   "Gather more transit data",
	}
}

func TestSubmitEmptyTopicIsNoOp(t *testing.T) {
	svc := &fakeService{rep: fullReport()}
	c := New(svc, DefaultConfig())

	for _, draft := range []string{"", "   ", "\t\n"} {
		_, err := c.Submit(context.Background(), draft)
		assert.ErrorIs(t, err, ErrEmptyTopic, "draft %q", draft)
	}

	assert.Empty(t, svc.calls, "no request for blank topics")
	assert.True(t, c.Conversation().IsEmpty(), "no turn for blank topics")
	assert.False(t, c.Loading())
}

func TestSubmitAppendsUserTurnAndIssuesOneRequest(t *testing.T) {
	svc := &fakeService{rep: &report.Report{}}
	c := New(svc, DefaultConfig())

	_, err := c.Submit(context.Background(), "  dark matter  ")
	require.NoError(t, err)

	require.Len(t, svc.calls, 1)
	assert.Equal(t, "dark matter", svc.calls[0].Topic)
	assert.Equal(t, report.DefaultMaxPapers, svc.calls[0].MaxPapers)

	conv := c.Conversation()
	require.Equal(t, 1, conv.Len(), "report with no fields appends no bot turns")
	assert.Equal(t, model.RoleUser, conv.Turns[0].Role)
	assert.Equal(t, "dark matter", conv.Turns[0].PlainText())
}

func TestSubmitFullReportOrder(t *testing.T) {
	svc := &fakeService{rep: fullReport()}
	c := New(svc, DefaultConfig())

	turns, err := c.Submit(context.Background(), "exoplanets")
	require.NoError(t, err)
	require.Len(t, turns, 4)

	assert.Equal(t, "X", turns[0].PlainText())
	assert.Contains(t, turns[1].PlainText(), "1. P1 (http://a)")
	assert.Contains(t, turns[1].PlainText(), "A, B")
	assert.Contains(t, turns[1].PlainText(), "S1")
	assert.Contains(t, turns[2].PlainText(), "Orbital period: 365 d")
	assert.Contains(t, turns[2].PlainText(), "Kepler's third law")
	assert.Contains(t, turns[3].PlainText(), "Next steps: Gather more transit data")

	// Conversation ends with [user, overview, papers, calculations, future].
	conv := c.Conversation()
	require.Equal(t, 5, conv.Len())
	assert.Equal(t, model.RoleUser, conv.Turns[0].Role)
	for _, turn := range conv.Turns[1:] {
		assert.Equal(t, model.RoleBot, turn.Role)
	}
}

func TestBuildTurnsEmptyPapersVariants(t *testing.T) {
	present := &report.Report{Papers: []report.Paper{}}
	absent := &report.Report{}

	withNotice := New(&fakeService{}, DefaultConfig())
	turns := withNotice.BuildTurns(present)
	require.Len(t, turns, 1)
	assert.Equal(t, "No papers found.", turns[0].PlainText())
	assert.Empty(t, withNotice.BuildTurns(absent), "absent papers never produce a notice")

	cfg := DefaultConfig()
	cfg.EmptyPapersNotice = false
	silent := New(&fakeService{}, cfg)
	assert.Empty(t, silent.BuildTurns(present))
	assert.Empty(t, silent.BuildTurns(absent))
}

func TestSubmitFailureAppendsSingleErrorTurn(t *testing.T) {
	svc := &fakeService{err: errors.New("connection refused")}
	c := New(svc, DefaultConfig())

	turns, err := c.Submit(context.Background(), "pulsars")
	require.NoError(t, err, "request failure is surfaced as a turn, not an error")

	require.Len(t, turns, 1)
	assert.Equal(t, model.RoleBot, turns[0].Role)
	assert.Contains(t, turns[0].PlainText(), "something went wrong")
	assert.False(t, c.Loading())

	// No partial turns: user turn plus exactly one error turn.
	assert.Equal(t, 2, c.Conversation().Len())
}

func TestLoadingStrictlyDuringRequest(t *testing.T) {
	c := New(nil, DefaultConfig())
	svc := &fakeService{rep: fullReport()}
	svc.onRequest = func() {
		assert.True(t, c.Loading(), "loading must be true while the request is in flight")
	}
	c.svc = svc

	assert.False(t, c.Loading())
	_, err := c.Submit(context.Background(), "quasars")
	require.NoError(t, err)
	assert.False(t, c.Loading())
}

func TestBeginRejectsOverlappingSubmissions(t *testing.T) {
	c := New(&fakeService{}, DefaultConfig())

	_, err := c.Begin("first")
	require.NoError(t, err)

	_, err = c.Begin("second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, c.Conversation().Len(), "rejected submission leaves no turn")
}

func TestResolveClearsLoadingEvenOnPanic(t *testing.T) {
	c := New(&fakeService{}, DefaultConfig())
	c.AddObserver(panickyObserver{})

	_, err := c.Begin("supernovae")
	require.NoError(t, err)

	func() {
		defer func() { recover() }()
		c.Resolve(fullReport(), nil, time.Millisecond)
	}()

	assert.False(t, c.Loading(), "loading must reset even when resolution panics")
}

type panickyObserver struct{}

func (panickyObserver) ReportReceived(string, *report.Report, time.Duration) { panic("observer") }
func (panickyObserver) ReportFailed(string, error, time.Duration)            { panic("observer") }

type recordingObserver struct {
	received []string
	failed   []string
}

func (r *recordingObserver) ReportReceived(topic string, _ *report.Report, _ time.Duration) {
	r.received = append(r.received, topic)
}

func (r *recordingObserver) ReportFailed(topic string, _ error, _ time.Duration) {
	r.failed = append(r.failed, topic)
}

func TestObserversNotified(t *testing.T) {
	obs := &recordingObserver{}

	c := New(&fakeService{rep: fullReport()}, DefaultConfig())
	c.AddObserver(obs)
	_, err := c.Submit(context.Background(), "comets")
	require.NoError(t, err)

	failing := New(&fakeService{err: errors.New("down")}, DefaultConfig())
	failing.AddObserver(obs)
	_, err = failing.Submit(context.Background(), "meteors")
	require.NoError(t, err)

	assert.Equal(t, []string{"comets"}, obs.received)
	assert.Equal(t, []string{"meteors"}, obs.failed)
}

func TestLastPapersTracksLatestSuccess(t *testing.T) {
	c := New(&fakeService{rep: fullReport()}, DefaultConfig())

	topic, papers := c.LastPapers()
	assert.Empty(t, topic)
	assert.Empty(t, papers)

	_, err := c.Submit(context.Background(), "exoplanets")
	require.NoError(t, err)

	topic, papers = c.LastPapers()
	assert.Equal(t, "exoplanets", topic)
	require.Len(t, papers, 1)
	assert.Equal(t, "P1", papers[0].Title)

	// A later failure keeps the last good papers available.
	c.svc = &fakeService{err: errors.New("down")}
	_, err = c.Submit(context.Background(), "nebulae")
	require.NoError(t, err)

	topic, papers = c.LastPapers()
	assert.Equal(t, "exoplanets", topic)
	assert.Len(t, papers, 1)
}

func TestSetMaxPapers(t *testing.T) {
	svc := &fakeService{rep: &report.Report{}}
	c := New(svc, DefaultConfig())

	require.NoError(t, c.SetMaxPapers(8))
	assert.Error(t, c.SetMaxPapers(0))
	assert.Error(t, c.SetMaxPapers(1000))
	assert.Equal(t, 8, c.MaxPapers())

	_, err := c.Submit(context.Background(), "asteroids")
	require.NoError(t, err)
	require.Len(t, svc.calls, 1)
	assert.Equal(t, 8, svc.calls[0].MaxPapers)
}

func TestWorkedExample(t *testing.T) {
	rep := &report.Report{
		Overview: "X",
		Papers: []report.Paper{{
			Title:   "P1",
			URL:     "http://a",
			Authors: []string{"A", "B"},
			Summary: "S1",
		}},
		Calculations: []report.Calculation{},
		FutureWork:   "",
	}
	svc := &fakeService{rep: rep}
	c := New(svc, DefaultConfig())

	_, err := c.Submit(context.Background(), "exoplanets")
	require.NoError(t, err)

	conv := c.Conversation()
	require.Equal(t, 3, conv.Len())
	assert.Equal(t, "exoplanets", conv.Turns[0].PlainText())
	assert.Equal(t, "X", conv.Turns[1].PlainText())
	papers := conv.Turns[2].PlainText()
	assert.Contains(t, papers, "1. ")
	assert.Contains(t, papers, "P1")
	assert.Contains(t, papers, "A, B")
}
