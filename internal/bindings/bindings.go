// Package bindings couples each user-triggerable control to its API call.
//
// Direct bindings (toggle, follow-up, schedule, confirm, report) call the
// gateway at once. Destructive bindings (task, logbook and user deletes) first
// ask the dialog for confirmation and only call the gateway from the
// confirmed action. Either way the affected rows and buttons change only after
// the server has answered; a rejected call is reported with an alert and the
// controls go back to how they were before the click.
package bindings

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/LeafDesk/internal/dialog"
	"github.com/Rorical/LeafDesk/internal/gateway"
)

// Outcome receives the single resolution of a submitted request on the UI
// loop. err is a transport failure; application failures arrive as a
// Result whose OK is false.
type Outcome func(res gateway.Result, err error) tea.Cmd

// Submitter hands a request to whatever performs it.
type Submitter interface {
	Submit(req gateway.Request, done Outcome) tea.Cmd
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc func(req gateway.Request, done Outcome) tea.Cmd

func (f SubmitFunc) Submit(req gateway.Request, done Outcome) tea.Cmd { return f(req, done) }

// Bindings holds what every binding shares.
type Bindings struct {
	dialog *dialog.Controller
	submit Submitter
	logger *slog.Logger
	notify func(string)
}

type Option func(*Bindings)

func WithLogger(l *slog.Logger) Option {
	return func(b *Bindings) { b.logger = l }
}

// WithNotifier receives a one-line note when a call never reached the server.
func WithNotifier(fn func(string)) Option {
	return func(b *Bindings) { b.notify = fn }
}

func New(d *dialog.Controller, s Submitter, opts ...Option) *Bindings {
	b := &Bindings{dialog: d, submit: s, logger: slog.Default(), notify: func(string) {}}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Dialog returns the shared confirm/alert surface.
func (b *Bindings) Dialog() *dialog.Controller { return b.dialog }

// transportFailed logs a call that never completed. The user sees no alert.
func (b *Bindings) transportFailed(action string, err error) {
	b.logger.Error("action failed in transport", "action", action, "err", err)
	b.notify("Network error (see log)")
}
