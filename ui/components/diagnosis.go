package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/LeafDesk/internal/bindings"
	"github.com/Rorical/LeafDesk/ui/styles"
)

// RenderDiagnoses lists the diagnoses and expands the selected one.
func RenderDiagnoses(panels []*bindings.DiagnosisPanel, cursor, width int) string {
	if len(panels) == 0 {
		return styles.EmptyStyle().Render("No diagnoses on this page. Start with --page to load some.")
	}
	var b strings.Builder
	for i, p := range panels {
		line := p.Plant + ": " + p.Disease
		b.WriteString(styles.RowStyle(i == cursor, false).Render(line) + "\n")
	}
	if cursor >= 0 && cursor < len(panels) {
		b.WriteString("\n" + RenderDiagnosis(panels[cursor], width))
	}
	return b.String()
}

func RenderDiagnosis(p *bindings.DiagnosisPanel, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render(p.Plant+" / "+p.Disease) + "\n")
	if p.Suggestion != "" {
		b.WriteString(renderMarkdown(p.Suggestion, max(width-4, 20)) + "\n")
	}
	if len(p.Schedule) > 0 {
		b.WriteString("\n" + styles.MutedStyle().Render("Treatment schedule") + "\n")
		for _, s := range p.Schedule {
			b.WriteString("  " + s.Date + "  " + s.Task)
			if s.Details != "" {
				b.WriteString(styles.MutedStyle().Render("  " + s.Details))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n" + lipgloss.JoinHorizontal(lipgloss.Top,
		renderButton(p.Confirm),
		renderButton(p.Report),
		renderButton(p.FollowUp),
		renderButton(p.AddSchedule),
	))
	return b.String()
}

func renderMarkdown(text string, width int) string {
	return suggestions.render(text, width)
}

var suggestions = newMarkdownCache()

type markdownKey struct {
	text  string
	width int
}

// markdownCache keeps one glamour renderer per wrap width and the output
// for each suggestion already drawn, so redraws do not re-render.
type markdownCache struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
	out       map[markdownKey]string
}

func newMarkdownCache() *markdownCache {
	return &markdownCache{
		renderers: make(map[int]*glamour.TermRenderer),
		out:       make(map[markdownKey]string),
	}
}

func (mc *markdownCache) render(text string, width int) string {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := markdownKey{text: text, width: width}
	if out, ok := mc.out[key]; ok {
		return out
	}
	r, ok := mc.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		mc.renderers[width] = r
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	out = strings.TrimRight(out, "\n\r\t ")
	mc.out[key] = out
	return out
}
