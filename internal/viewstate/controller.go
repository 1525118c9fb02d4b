// Package viewstate owns the application state machine: which of the five
// phases is visible, the loaded collection, the active filter, and the
// current selection. It is presentation-free; the TUI consumes it through
// Render().
package viewstate

import (
	"errors"

	"github.com/pders01/kako/internal/archive"
	"github.com/pders01/kako/internal/filter"
)

// Phase is the single active view. Exactly one is active at a time.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseList
	PhaseDetail
	PhaseEmpty
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseList:
		return "list"
	case PhaseDetail:
		return "detail"
	case PhaseEmpty:
		return "empty"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	// ErrNotInList rejects Select outside the list phase.
	ErrNotInList = errors.New("selection is only valid from the list")
	// ErrUnknownThread rejects a thread that is not part of the loaded
	// collection.
	ErrUnknownThread = errors.New("thread is not part of the loaded collection")
)

// Controller is the explicit application-state object: no ambient globals.
// A fresh instance starts in Loading and moves out of it only through
// SetLoaded or SetLoadFailed.
type Controller struct {
	phase      Phase
	threads    []*archive.Thread
	keywords   []string
	state      filter.State
	filtered   []*archive.Thread
	unparsable int
	selected   *archive.Thread
	errMessage string
}

func NewController() *Controller {
	return &Controller{phase: PhaseLoading}
}

func (c *Controller) Phase() Phase { return c.phase }

// Threads returns the full, unfiltered collection.
func (c *Controller) Threads() []*archive.Thread { return c.threads }

// Keywords returns the distinct keyword values for the filter panel.
func (c *Controller) Keywords() []string { return c.keywords }

// FilterState returns the active filter combination.
func (c *Controller) FilterState() filter.State { return c.state }

// Visible returns the current filtered subset in original order.
func (c *Controller) Visible() []*archive.Thread { return c.filtered }

// Unparsable reports how many reply timestamps failed to parse during the
// last evaluation with an active date range.
func (c *Controller) Unparsable() int { return c.unparsable }

// Selected returns the thread shown in Detail, nil otherwise.
func (c *Controller) Selected() *archive.Thread { return c.selected }

// ErrMessage returns the load failure message shown in the Error phase.
func (c *Controller) ErrMessage() string { return c.errMessage }

// SetLoaded installs the collection and leaves Loading. The filter starts
// empty, so the visible set is the whole collection.
func (c *Controller) SetLoaded(col *archive.Collection) {
	c.threads = col.Threads
	c.keywords = col.Keywords
	c.state = filter.State{}
	c.recompute()
	if len(c.filtered) == 0 {
		c.phase = PhaseEmpty
		return
	}
	c.phase = PhaseList
}

// SetLoadFailed moves to Error; the collection stays empty for the rest of
// the session.
func (c *Controller) SetLoadFailed(err error) {
	c.threads = nil
	c.keywords = nil
	c.filtered = nil
	c.errMessage = err.Error()
	c.phase = PhaseError
}

// Select enters Detail. Only valid from List, and only for a thread that
// belongs to the loaded collection.
func (c *Controller) Select(t *archive.Thread) error {
	if c.phase != PhaseList {
		return ErrNotInList
	}
	if !c.contains(t) {
		return ErrUnknownThread
	}
	c.selected = t
	c.phase = PhaseDetail
	return nil
}

// Back leaves Detail without touching the filter state, so the caller
// returns to exactly the filtered set it left.
func (c *Controller) Back() {
	if c.phase != PhaseDetail {
		return
	}
	c.selected = nil
	if len(c.filtered) == 0 {
		c.phase = PhaseEmpty
		return
	}
	c.phase = PhaseList
}

// Apply replaces the filter state wholesale and recomputes the visible
// set. Valid from List, Empty, or Detail; acting on Detail exits it first.
func (c *Controller) Apply(s filter.State) {
	switch c.phase {
	case PhaseList, PhaseEmpty, PhaseDetail:
	default:
		return
	}
	c.selected = nil
	c.state = s
	c.recompute()
	if len(c.filtered) == 0 {
		c.phase = PhaseEmpty
		return
	}
	c.phase = PhaseList
}

// Reset clears all criteria; equivalent to Apply with a zero State.
func (c *Controller) Reset() {
	c.Apply(filter.State{})
}

func (c *Controller) recompute() {
	res := filter.Evaluate(c.threads, c.state)
	c.filtered = res.Threads
	c.unparsable = res.Unparsable
}

func (c *Controller) contains(t *archive.Thread) bool {
	for _, cur := range c.threads {
		if cur == t {
			return true
		}
	}
	return false
}
