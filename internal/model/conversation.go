// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

package model

import "time"

// MaxTurns caps the in-memory conversation length. Sessions long enough to
// hit this keep the most recent turns; the oldest are dropped.
const MaxTurns = 1000

// Conversation is the ordered, append-only sequence of turns for one
// session. It lives only in memory and is discarded when the program exits.
type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Turns     []*Turn
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateID("conv"),
		CreatedAt: now,
		UpdatedAt: now,
		Turns:     make([]*Turn, 0, 16),
	}
}

// Append adds turns to the end of the conversation in the order given.
// A multi-turn append is a single batch: callers build the full set first,
// then append once.
func (c *Conversation) Append(turns ...*Turn) {
	if len(turns) == 0 {
		return
	}
	c.Turns = append(c.Turns, turns...)
	if len(c.Turns) > MaxTurns {
		c.Turns = c.Turns[len(c.Turns)-MaxTurns:]
	}
	c.UpdatedAt = time.Now()
	if c.Title == "" {
		for _, t := range turns {
			if t.Role == RoleUser {
				c.Title = t.Preview(50)
				break
			}
		}
	}
}

// Last returns the most recent turn, or nil when empty.
func (c *Conversation) Last() *Turn {
	if len(c.Turns) == 0 {
		return nil
	}
	return c.Turns[len(c.Turns)-1]
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.Turns)
}

// IsEmpty reports whether the conversation has no turns.
func (c *Conversation) IsEmpty() bool {
	return len(c.Turns) == 0
}

// Clear removes all turns but keeps the conversation identity.
func (c *Conversation) Clear() {
	c.Turns = c.Turns[:0]
	c.Title = ""
	c.UpdatedAt = time.Now()
}

// Clone returns a deep-enough copy for export: the turn slice is copied,
// the turns themselves are immutable and shared.
func (c *Conversation) Clone() *Conversation {
	turns := make([]*Turn, len(c.Turns))
	copy(turns, c.Turns)
	clone := *c
	clone.Turns = turns
	return &clone
}
