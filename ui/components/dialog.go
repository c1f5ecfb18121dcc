package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/LeafDesk/internal/dialog"
	"github.com/Rorical/LeafDesk/ui/styles"
)

// RenderDialog draws the confirm/alert surface, or nothing when hidden.
func RenderDialog(c *dialog.Controller, width int) string {
	if c.Mode() == dialog.ModeHidden {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render(c.Title()) + "\n\n")
	b.WriteString(c.Body())
	if subject := c.SubjectLabel(); subject != "" {
		b.WriteString("\n" + styles.SubjectStyle().Render(subject))
	}
	b.WriteString("\n\n")

	confirm := styles.DialogButtonStyle(c.Variant() == dialog.VariantDanger, c.Focus() == dialog.FocusConfirm).
		Render(c.ConfirmLabel())
	buttons := confirm
	if c.Mode() == dialog.ModeConfirm {
		cancel := styles.DialogButtonStyle(false, c.Focus() == dialog.FocusCancel).Render("Cancel")
		buttons = lipgloss.JoinHorizontal(lipgloss.Top, confirm, cancel)
	}
	b.WriteString(buttons)

	box := styles.DialogStyle(width, c.Closing()).Render(b.String())
	if c.Closing() {
		box = styles.MutedStyle().Render(box)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
