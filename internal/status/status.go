// Package status derives the UI-facing flags of a message: whether it is old,
// editable or deletable for the viewing user.
package status

import (
	"time"

	"github.com/avdn/go-chatstore/internal/database"
)

// Flags are the per-message status fields shown to the viewer.
type Flags struct {
	Old       bool
	Editable  bool
	Deletable bool
}

// Modifier inspects a message and may read or overwrite any flag. Modifiers
// run in registration order, so a later one wins on conflicting fields.
type Modifier func(m database.Message, f *Flags)

// Deriver holds the ordered modifier list for one viewing identity. The base
// rule is registered at construction: a message is old once the edit window
// since its (clock-adjusted) creation has elapsed, and editable and deletable
// only by its author, while not old and with non-empty content.
type Deriver struct {
	viewerId    int64
	clockOffset int64
	maxEditAge  int64
	now         func() int64
	modifiers   []Modifier
}

// NewDeriver builds a deriver for a viewer. clockOffset is the client/server
// clock delta and maxEditAge the edit window, both in seconds.
func NewDeriver(viewerId, clockOffset, maxEditAge int64) *Deriver {
	d := &Deriver{
		viewerId:    viewerId,
		clockOffset: clockOffset,
		maxEditAge:  maxEditAge,
		now:         func() int64 { return time.Now().Unix() },
	}
	d.modifiers = []Modifier{d.baseRule}
	return d
}

func (d *Deriver) baseRule(m database.Message, f *Flags) {
	created := m.Created + d.clockOffset
	f.Old = d.now()-created > d.maxEditAge
	own := m.Author == d.viewerId && !f.Old && m.Content != ""
	f.Editable = own
	f.Deletable = own
}

// Register appends a modifier after the ones already present.
func (d *Deriver) Register(mod Modifier) {
	d.modifiers = append(d.modifiers, mod)
}

// SetClock replaces the time source, mainly for tests.
func (d *Deriver) SetClock(now func() int64) {
	d.now = now
}

// Derive runs all modifiers over the message and returns the final flags.
func (d *Deriver) Derive(m database.Message) Flags {
	var f Flags
	for _, mod := range d.modifiers {
		mod(m, &f)
	}
	return f
}
