// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// controller.go - The chat view controller.
//
// One canonical implementation owns the conversation, the submission state
// machine (idle -> submitting -> resolved -> idle), and the translation of
// a service report into ordered bot turns. Behavior that used to vary
// between front-end revisions (empty-papers notice, max_papers default,
// error text) is collected into Config instead of forked copies.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/seleneforge/astroscope/internal/config"
	"github.com/seleneforge/astroscope/internal/model"
	"github.com/seleneforge/astroscope/internal/report"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyTopic is returned when a blank topic is submitted. The UI
	// treats this as a silent no-op.
	ErrEmptyTopic = errors.New("topic is empty")

	// ErrBusy is returned when a submission arrives while another request
	// is in flight. The input affordance is disabled during loading, so
	// this only fires if a caller bypasses that guard.
	ErrBusy = errors.New("a request is already in flight")
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Service is the analysis backend as the controller sees it.
type Service interface {
	AnalyzeTopic(ctx context.Context, topic string, maxPapers int) (*report.Report, error)
}

// Observer is notified after each submission resolves. Implementations must
// not block; they run on the resolving goroutine.
type Observer interface {
	ReportReceived(topic string, rep *report.Report, elapsed time.Duration)
	ReportFailed(topic string, err error, elapsed time.Duration)
}

// =============================================================================
// CONFIG
// =============================================================================

// Config collects the per-deployment knobs of the controller.
type Config struct {
	// MaxPapers is sent with every analysis request.
	MaxPapers int

	// EmptyPapersNotice controls whether a present-but-empty paper list
	// produces a notice turn or nothing at all.
	EmptyPapersNotice bool

	// EmptyPapersText is the notice body.
	EmptyPapersText string

	// ErrorText is the single generic message shown for any failed
	// submission.
	ErrorText string
}

// DefaultConfig returns the stock controller behavior.
func DefaultConfig() Config {
	return Config{
		MaxPapers:         report.DefaultMaxPapers,
		EmptyPapersNotice: true,
		EmptyPapersText:   "No papers found.",
		ErrorText:         "Sorry, something went wrong while analyzing that topic. Please try again.",
	}
}

// ConfigFrom maps the application config onto controller knobs.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	c.MaxPapers = cfg.Analysis.MaxPapers
	c.EmptyPapersNotice = cfg.Analysis.EmptyPapersNotice
	c.EmptyPapersText = cfg.Analysis.EmptyPapersText
	return c
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the conversation and drives submissions. It is not
// goroutine-safe: all state mutation happens on the owner's event loop.
// The only thing that runs elsewhere is the service call itself, which
// touches no controller state.
type Controller struct {
	cfg       Config
	svc       Service
	conv      *model.Conversation
	observers []Observer

	loading      bool
	pendingTopic string

	lastTopic  string
	lastPapers []report.Paper
}

// New creates a controller over the given service.
func New(svc Service, cfg Config) *Controller {
	if cfg.MaxPapers <= 0 {
		cfg.MaxPapers = report.DefaultMaxPapers
	}
	if cfg.ErrorText == "" {
		cfg.ErrorText = DefaultConfig().ErrorText
	}
	return &Controller{
		cfg:  cfg,
		svc:  svc,
		conv: model.NewConversation(),
	}
}

// AddObserver registers an observer for resolved submissions.
func (c *Controller) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
}

// Conversation exposes the owned conversation for display and export.
func (c *Controller) Conversation() *model.Conversation {
	return c.conv
}

// Loading reports whether a request is in flight.
func (c *Controller) Loading() bool {
	return c.loading
}

// MaxPapers returns the current per-request paper count.
func (c *Controller) MaxPapers() int {
	return c.cfg.MaxPapers
}

// ErrorText returns the generic failure message.
func (c *Controller) ErrorText() string {
	return c.cfg.ErrorText
}

// LastPapers returns the topic and papers of the most recent successful
// report. The slice is nil until a report with papers has resolved.
func (c *Controller) LastPapers() (string, []report.Paper) {
	return c.lastTopic, c.lastPapers
}

// SetMaxPapers adjusts the per-request paper count for this session.
func (c *Controller) SetMaxPapers(n int) error {
	if n < 1 || n > config.MaxPapersLimit {
		return fmt.Errorf("max papers must be between 1 and %d", config.MaxPapersLimit)
	}
	c.cfg.MaxPapers = n
	return nil
}

// =============================================================================
// SUBMISSION STATE MACHINE
// =============================================================================

// Accept trims a draft topic and reports whether it is submittable. Blank
// input is rejected without any side effect: no turn, no request.
func (c *Controller) Accept(draft string) (string, bool) {
	topic := strings.TrimSpace(draft)
	return topic, topic != ""
}

// Begin starts a submission: appends exactly one user turn with the trimmed
// topic and flips loading on. Callers clear their draft on success. Returns
// ErrEmptyTopic or ErrBusy without side effects when the submission cannot
// start.
func (c *Controller) Begin(draft string) (string, error) {
	topic, ok := c.Accept(draft)
	if !ok {
		return "", ErrEmptyTopic
	}
	if c.loading {
		return "", ErrBusy
	}

	c.conv.Append(model.NewUserTurn(topic))
	c.loading = true
	c.pendingTopic = topic
	return topic, nil
}

// Resolve finishes a submission: derives bot turns from the outcome and
// appends them as one batch. Loading returns to false no matter what,
// including a panic during turn construction.
func (c *Controller) Resolve(rep *report.Report, reqErr error, elapsed time.Duration) []*model.Turn {
	topic := c.pendingTopic
	defer func() {
		c.loading = false
		c.pendingTopic = ""
	}()

	if reqErr != nil {
		turn := model.NewBotTurn(model.TextFragment(c.cfg.ErrorText))
		c.conv.Append(turn)
		for _, o := range c.observers {
			o.ReportFailed(topic, reqErr, elapsed)
		}
		return []*model.Turn{turn}
	}

	if rep != nil && len(rep.Papers) > 0 {
		c.lastTopic = topic
		c.lastPapers = rep.Papers
	}

	turns := c.BuildTurns(rep)
	c.conv.Append(turns...)
	for _, o := range c.observers {
		o.ReportReceived(topic, rep, elapsed)
	}
	return turns
}

// Submit runs a full submission synchronously: used by the one-shot and
// REPL paths. The returned turns are the bot turns appended for this
// submission; a failed request yields the single error turn, not an error.
func (c *Controller) Submit(ctx context.Context, draft string) ([]*model.Turn, error) {
	topic, err := c.Begin(draft)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rep, reqErr := c.svc.AnalyzeTopic(ctx, topic, c.cfg.MaxPapers)
	return c.Resolve(rep, reqErr, time.Since(start)), nil
}

// =============================================================================
// REPORT -> TURNS
// =============================================================================

// BuildTurns derives bot turns from a report in fixed order: overview,
// papers, calculations, future work. Absent or empty fields produce no
// turn, with the empty-papers notice as the configured exception.
func (c *Controller) BuildTurns(rep *report.Report) []*model.Turn {
	if rep == nil {
		return nil
	}

	turns := make([]*model.Turn, 0, 4)

	if s := strings.TrimSpace(rep.Overview); s != "" {
		turns = append(turns, model.NewBotTurn(model.TextFragment(s)))
	}

	if len(rep.Papers) > 0 {
		turns = append(turns, model.NewBotTurn(paperList(rep.Papers)))
	} else if rep.HasPapersField() && c.cfg.EmptyPapersNotice {
		turns = append(turns, model.NewBotTurn(model.TextFragment(c.cfg.EmptyPapersText)))
	}

	if len(rep.Calculations) > 0 {
		turns = append(turns, model.NewBotTurn(model.TextFragment(calculationText(rep.Calculations))))
	}

	if s := strings.TrimSpace(rep.FutureWork); s != "" {
		turns = append(turns, model.NewBotTurn(model.TextFragment("Next steps: "+s)))
	}

	return turns
}

// paperList builds the 1-indexed paper list fragment: title as a link,
// optional authors line, published date, then the summary.
func paperList(papers []report.Paper) model.Fragment {
	items := make([]model.ListItem, 0, len(papers))
	for _, p := range papers {
		lines := make([]model.Fragment, 0, 4)
		lines = append(lines, model.LinkFragment(p.Title, p.URL))
		if authors := p.AuthorLine(); authors != "" {
			lines = append(lines, model.TextFragment(authors))
		}
		if date := p.Published.LocaleString(); date != "" {
			lines = append(lines, model.TextFragment("Published: "+date))
		}
		if s := strings.TrimSpace(p.Summary); s != "" {
			lines = append(lines, model.TextFragment(s))
		}
		items = append(items, model.ListItem{Lines: lines})
	}
	return model.ListFragment(items)
}

// calculationText flattens calculations to "label: value" lines, each
// followed by its details line when present.
func calculationText(calcs []report.Calculation) string {
	var b strings.Builder
	for i, calc := range calcs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", calc.Label, calc.Value)
		if d := strings.TrimSpace(calc.Details); d != "" {
			b.WriteString("\n")
			b.WriteString(d)
		}
	}
	return b.String()
}
