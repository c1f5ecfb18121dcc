package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/internal/models"
	"github.com/Rorical/LeafDesk/ui/styles"
)

func RenderInput(label, input string, width int) string {
	inputStyle := styles.InputStyle(width)
	return styles.MutedStyle().Render(label) + "\n" + inputStyle.Render(input)
}

// RenderReportForm draws the inaccuracy report modal.
func RenderReportForm(form *bindings.ReportForm, p *bindings.DiagnosisPanel, input textinput.Model, width int) string {
	var b strings.Builder
	title := "Report Inaccuracy"
	if p != nil {
		title += ": " + p.Plant + " / " + p.Disease
	}
	b.WriteString(styles.TitleStyle().Render(title) + "\n\n")
	b.WriteString(RenderInput("Reason", input.View(), width) + "\n")
	b.WriteString(renderButton(form.Submit) + styles.MutedStyle().Render("  esc to close"))
	return b.String()
}

// RenderEditForm draws the edit-user form.
func RenderEditForm(f *models.EditForm, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Edit User") + "\n\n")
	for i, in := range f.Inputs {
		label := models.EditLabels[i]
		if i == f.Focus {
			label = "> " + label
		}
		b.WriteString(RenderInput(label, in.View(), width) + "\n")
	}
	b.WriteString(styles.MutedStyle().Render("enter to save, esc to cancel"))
	return b.String()
}

func renderButton(btn bindings.Button) string {
	return styles.ButtonStyle(btn.Disabled).Render(btn.Label)
}
