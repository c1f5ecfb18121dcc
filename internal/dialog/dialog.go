// Package dialog owns the single confirm/alert surface of the UI.
//
// The surface is either hidden, asking for confirmation of a destructive
// action, or showing an informational alert. Only a confirmation carries an
// action, and that action runs at most once: when the user picks the confirm
// button. Requests that arrive while the surface is busy wait in a FIFO and
// are shown, one at a time, after the current one has finished hiding.
package dialog

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// CloseDelay is how long the surface stays in its closing phase before it
// is removed from the layout.
const CloseDelay = 200 * time.Millisecond

// DefaultSubject is shown when a confirmation names no subject.
const DefaultSubject = "this item"

// Action is the deferred intent behind a confirmation.
type Action func() tea.Cmd

// State is one of Hidden, Confirming or Alerting.
type State interface {
	isState()
}

type Hidden struct{}

type Confirming struct {
	Title   string
	Body    string
	Subject string
	Action  Action
}

type Alerting struct {
	Title   string
	Message string
}

func (Hidden) isState()     {}
func (Confirming) isState() {}
func (Alerting) isState()   {}

// Variant selects how the confirm button is drawn.
type Variant int

const (
	VariantNeutral Variant = iota
	VariantDanger
)

// Focus is the highlighted button.
type Focus int

const (
	FocusConfirm Focus = iota
	FocusCancel
)

// ClosedMsg ends the closing phase started by the hide with the same Gen.
type ClosedMsg struct {
	Gen int
}

// Controller is the state machine behind the surface. It is not safe for
// concurrent use; it lives on the UI loop.
type Controller struct {
	state   State
	closing bool
	gen     int
	focus   Focus
	queue   []State

	CloseDelay time.Duration
}

func New() *Controller {
	return &Controller{state: Hidden{}, CloseDelay: CloseDelay}
}

// Confirm asks the user to confirm a destructive action.
func (c *Controller) Confirm(title, body, subject string, action Action) {
	if subject == "" {
		subject = DefaultSubject
	}
	c.show(Confirming{Title: title, Body: body, Subject: subject, Action: action})
}

// Alert shows an informational message with a single OK button.
func (c *Controller) Alert(title, message string) {
	c.show(Alerting{Title: title, Message: message})
}

func (c *Controller) show(s State) {
	if _, hidden := c.state.(Hidden); !hidden {
		c.queue = append(c.queue, s)
		return
	}
	c.state = s
	c.closing = false
	// A confirmation opens on Cancel so a repeated Enter cannot delete.
	c.focus = FocusConfirm
	if _, ok := s.(Confirming); ok {
		c.focus = FocusCancel
	}
}

// Cancel hides the surface without running the pending action.
func (c *Controller) Cancel() tea.Cmd {
	if !c.Open() {
		return nil
	}
	return c.hide()
}

// ConfirmClicked runs the pending action, if any, exactly once and hides
// the surface. Clicks while hidden or closing do nothing.
func (c *Controller) ConfirmClicked() tea.Cmd {
	if !c.Open() {
		return nil
	}
	var action Action
	if cf, ok := c.state.(Confirming); ok {
		action = cf.Action
	}
	// Enter the closing phase before running the action so that anything it
	// opens is queued behind this dialog instead of replacing it.
	hide := c.hide()
	if action == nil {
		return hide
	}
	return tea.Batch(action(), hide)
}

// Select activates the focused button.
func (c *Controller) Select() tea.Cmd {
	if c.focus == FocusCancel && c.Mode() == ModeConfirm {
		return c.Cancel()
	}
	return c.ConfirmClicked()
}

// ToggleFocus moves focus between the two buttons of a confirmation.
func (c *Controller) ToggleFocus() {
	if c.Mode() != ModeConfirm {
		return
	}
	if c.focus == FocusConfirm {
		c.focus = FocusCancel
	} else {
		c.focus = FocusConfirm
	}
}

func (c *Controller) hide() tea.Cmd {
	c.closing = true
	c.gen++
	gen := c.gen
	return tea.Tick(c.CloseDelay, func(time.Time) tea.Msg {
		return ClosedMsg{Gen: gen}
	})
}

// HandleClosed finishes a hide and shows the next queued request. It
// reports whether the message was current.
func (c *Controller) HandleClosed(msg ClosedMsg) bool {
	if !c.closing || msg.Gen != c.gen {
		return false
	}
	c.state = Hidden{}
	c.closing = false
	if len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.show(next)
	}
	return true
}

// Settle ends the current closing phase without waiting for its tick.
func (c *Controller) Settle() bool {
	return c.HandleClosed(ClosedMsg{Gen: c.gen})
}
