package dialog

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finishClose delivers the tick the last hide scheduled.
func finishClose(t *testing.T, c *Controller) {
	t.Helper()
	require.True(t, c.HandleClosed(ClosedMsg{Gen: c.gen}))
}

func counter() (*int, Action) {
	n := 0
	return &n, func() tea.Cmd {
		n++
		return nil
	}
}

func TestNew_StartsHidden(t *testing.T) {
	c := New()
	assert.Equal(t, ModeHidden, c.Mode())
	assert.False(t, c.Open())
	assert.Equal(t, CloseDelay, c.CloseDelay)
}

func TestConfirm_ShowsDestructiveVariant(t *testing.T) {
	c := New()
	_, action := counter()
	c.Confirm("Confirm Deletion", "Are you sure you want to delete this task?", "Water tomatoes", action)

	assert.Equal(t, ModeConfirm, c.Mode())
	assert.True(t, c.Open())
	assert.Equal(t, "Confirm Deletion", c.Title())
	assert.Equal(t, "Are you sure you want to delete this task?", c.Body())
	assert.Equal(t, `"Water tomatoes"`, c.SubjectLabel())
	assert.Equal(t, "Delete", c.ConfirmLabel())
	assert.Equal(t, VariantDanger, c.Variant())
}

func TestConfirm_EmptySubjectFallsBack(t *testing.T) {
	c := New()
	c.Confirm("Confirm Deletion", "Are you sure?", "", nil)
	assert.Equal(t, `"this item"`, c.SubjectLabel())
}

func TestAlert_HasNoActionAndNeutralButton(t *testing.T) {
	c := New()
	c.Alert("Error", "Could not delete task.")

	assert.Equal(t, ModeAlert, c.Mode())
	assert.Empty(t, c.SubjectLabel())
	assert.Equal(t, "OK", c.ConfirmLabel())
	assert.Equal(t, VariantNeutral, c.Variant())
	_, isAlert := c.State().(Alerting)
	assert.True(t, isAlert)
}

func TestConfirmClicked_InvokesOnceThenHides(t *testing.T) {
	c := New()
	n, action := counter()
	c.Confirm("t", "b", "s", action)

	cmd := c.ConfirmClicked()
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, *n)
	assert.True(t, c.Closing())
	assert.False(t, c.Open())

	// A stray second click while closing does nothing.
	assert.Nil(t, c.ConfirmClicked())
	assert.Equal(t, 1, *n)

	finishClose(t, c)
	assert.Equal(t, ModeHidden, c.Mode())
	assert.Nil(t, c.ConfirmClicked())
	assert.Equal(t, 1, *n)
}

func TestCancel_NeverInvokes(t *testing.T) {
	c := New()
	n, action := counter()
	c.Confirm("t", "b", "s", action)

	assert.NotNil(t, c.Cancel())
	finishClose(t, c)
	assert.Equal(t, 0, *n)
	assert.Equal(t, ModeHidden, c.Mode())

	// The cleared action is not reachable by a later click.
	assert.Nil(t, c.ConfirmClicked())
	assert.Equal(t, 0, *n)
}

func TestCancel_WhenHiddenIsNoop(t *testing.T) {
	c := New()
	assert.Nil(t, c.Cancel())
	assert.Nil(t, c.Cancel())
	assert.Equal(t, ModeHidden, c.Mode())
	assert.False(t, c.Closing())
}

func TestConfirmClicked_AlertModeJustHides(t *testing.T) {
	c := New()
	c.Alert("Success", "Follow-up task has been scheduled")

	assert.NotPanics(t, func() {
		assert.NotNil(t, c.ConfirmClicked())
	})
	finishClose(t, c)
	assert.Equal(t, ModeHidden, c.Mode())
}

func TestOverlappingRequests_AreQueuedInOrder(t *testing.T) {
	c := New()
	first, a1 := counter()
	c.Confirm("Delete one", "b", "one", a1)
	c.Alert("Error", "Could not delete task.")
	second, a2 := counter()
	c.Confirm("Delete two", "b", "two", a2)

	// The visible dialog is not overwritten.
	assert.Equal(t, "Delete one", c.Title())
	assert.Equal(t, 2, c.Queued())

	c.ConfirmClicked()
	assert.Equal(t, 1, *first)
	finishClose(t, c)

	assert.Equal(t, ModeAlert, c.Mode())
	assert.Equal(t, "Could not delete task.", c.Body())
	c.ConfirmClicked()
	finishClose(t, c)

	assert.Equal(t, "Delete two", c.Title())
	assert.Equal(t, 0, *second)
	c.Cancel()
	finishClose(t, c)
	assert.Equal(t, 0, *second)
	assert.Equal(t, ModeHidden, c.Mode())
}

func TestActionOpeningAnotherDialog_IsQueued(t *testing.T) {
	c := New()
	c.Confirm("t", "b", "s", func() tea.Cmd {
		c.Alert("Error", "from action")
		return nil
	})

	c.ConfirmClicked()
	assert.True(t, c.Closing())
	assert.Equal(t, 1, c.Queued())

	finishClose(t, c)
	assert.Equal(t, ModeAlert, c.Mode())
	assert.Equal(t, "from action", c.Body())
}

func TestHandleClosed_IgnoresStaleTicks(t *testing.T) {
	c := New()
	c.Alert("a", "b")
	c.Cancel()
	stale := ClosedMsg{Gen: c.gen - 1}

	assert.False(t, c.HandleClosed(stale))
	assert.True(t, c.Closing())

	finishClose(t, c)
	assert.False(t, c.HandleClosed(ClosedMsg{Gen: c.gen}))
}

func TestHideTickDeliversClosedMsg(t *testing.T) {
	c := New()
	c.CloseDelay = time.Millisecond
	c.Alert("a", "b")

	msg := c.Cancel()()
	closed, ok := msg.(ClosedMsg)
	require.True(t, ok)
	assert.True(t, c.HandleClosed(closed))
	assert.Equal(t, ModeHidden, c.Mode())
}

func TestFocusAndSelect(t *testing.T) {
	c := New()
	n, action := counter()
	c.Confirm("t", "b", "s", action)
	assert.Equal(t, FocusCancel, c.Focus(), "confirmations open on Cancel")
	c.Select()
	finishClose(t, c)
	assert.Equal(t, 0, *n)

	c.Confirm("t", "b", "s", action)
	c.ToggleFocus()
	assert.Equal(t, FocusConfirm, c.Focus())
	c.Select()
	finishClose(t, c)
	assert.Equal(t, 1, *n)

	c.Confirm("t", "b", "s", action)
	assert.Equal(t, FocusCancel, c.Focus(), "focus resets on open")
}

func TestAlert_OpensOnOK(t *testing.T) {
	c := New()
	c.Confirm("t", "b", "s", nil)
	c.Alert("a", "queued")
	c.Cancel()
	finishClose(t, c)

	require.Equal(t, ModeAlert, c.Mode())
	assert.Equal(t, FocusConfirm, c.Focus())
}

func TestToggleFocus_AlertStaysOnOK(t *testing.T) {
	c := New()
	c.Alert("a", "b")
	c.ToggleFocus()
	assert.Equal(t, FocusConfirm, c.Focus())
}
