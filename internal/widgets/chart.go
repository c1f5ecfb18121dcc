package widgets

import (
	"context"
	"fmt"

	"github.com/Rorical/LeafDesk/internal/gateway"
)

const (
	NoFeedbackData = "No feedback data to display."
	NoReportData   = "No inaccuracy reports to display."
)

// Panel is one chart slot. When Constructed is false the view shows Empty
// in its place.
type Panel struct {
	Title       string
	Labels      []string
	Counts      []int
	Constructed bool
	Empty       string
}

// Max is the largest count in the panel.
func (p Panel) Max() int {
	m := 0
	for _, n := range p.Counts {
		if n > m {
			m = n
		}
	}
	return m
}

// Total is the sum of all counts.
func (p Panel) Total() int {
	t := 0
	for _, n := range p.Counts {
		t += n
	}
	return t
}

// Charts are the two admin feedback panels.
type Charts struct {
	Feedback Panel
	Reports  Panel
}

// BuildCharts turns the summary into panels. The feedback panel needs a
// positive total and no negative count, the reports panel needs at least
// one label.
func BuildCharts(data *gateway.ChartData) Charts {
	ch := Charts{
		Feedback: Panel{Title: "Diagnosis Feedback", Empty: NoFeedbackData},
		Reports:  Panel{Title: "Inaccuracy Reports", Empty: NoReportData},
	}
	if data == nil {
		return ch
	}
	if s := data.PieData; s != nil && shareable(s.Counts) {
		ch.Feedback.Labels, ch.Feedback.Counts = s.Labels, s.Counts
		ch.Feedback.Constructed = true
	}
	if s := data.BarData; s != nil && len(s.Labels) > 0 {
		ch.Reports.Labels, ch.Reports.Counts = s.Labels, s.Counts
		ch.Reports.Constructed = true
	}
	return ch
}

func shareable(counts []int) bool {
	total := 0
	for _, n := range counts {
		if n < 0 {
			return false
		}
		total += n
	}
	return total > 0
}

// ChartSource provides the admin chart summary.
type ChartSource interface {
	ChartData(ctx context.Context) (*gateway.ChartData, error)
}

// LoadCharts fetches the summary and builds both panels.
func LoadCharts(ctx context.Context, src ChartSource) (Charts, error) {
	data, err := src.ChartData(ctx)
	if err != nil {
		return BuildCharts(nil), fmt.Errorf("load chart data: %w", err)
	}
	return BuildCharts(data), nil
}
