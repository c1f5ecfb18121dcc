package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/LeafDesk/internal/widgets"
	"github.com/Rorical/LeafDesk/ui/styles"
)

const barRune = "█"

// RenderCharts draws the feedback share and the per-disease report counts
// side by side. Nothing is drawn until the data has loaded.
func RenderCharts(ch widgets.Charts, loaded bool, width int) string {
	if !loaded {
		return ""
	}
	half := max(width/2-2, 20)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(half).Render(renderShare(ch.Feedback, half)),
		lipgloss.NewStyle().Width(half).Render(renderBars(ch.Reports, half)),
	)
}

func renderShare(p widgets.Panel, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render(p.Title) + "\n")
	if !p.Constructed {
		b.WriteString(styles.EmptyStyle().Render(p.Empty))
		return b.String()
	}
	total := p.Total()
	if total <= 0 {
		b.WriteString(styles.EmptyStyle().Render(p.Empty))
		return b.String()
	}
	barWidth := max(width-4, 10)
	var bar strings.Builder
	for i, n := range p.Counts {
		seg := max(n*barWidth/total, 0)
		bar.WriteString(styles.SliceStyle(i).Render(strings.Repeat(barRune, seg)))
	}
	b.WriteString(bar.String() + "\n")
	for i, n := range p.Counts {
		label := labelAt(p.Labels, i)
		pct := float64(n) * 100 / float64(total)
		b.WriteString(styles.SliceStyle(i).Render("■ ") + fmt.Sprintf("%s %d (%.0f%%)", label, n, pct) + "\n")
	}
	return b.String()
}

func renderBars(p widgets.Panel, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render(p.Title) + "\n")
	if !p.Constructed {
		b.WriteString(styles.EmptyStyle().Render(p.Empty))
		return b.String()
	}
	labelWidth := 0
	for _, l := range p.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}
	labelWidth = min(labelWidth, width/2)
	barWidth := max(width-labelWidth-8, 5)
	peak := max(p.Max(), 1)

	for i, l := range p.Labels {
		n := 0
		if i < len(p.Counts) {
			n = p.Counts[i]
		}
		bar := strings.Repeat(barRune, max(n*barWidth/peak, 0))
		b.WriteString(fmt.Sprintf("%-*s %s %d\n", labelWidth, truncate(l, labelWidth), styles.BarStyle().Render(bar), n))
	}
	return b.String()
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("#%d", i+1)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
