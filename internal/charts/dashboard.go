package charts

import (
	"fmt"
	"math"

	"github.com/ignite/campaign-studio/internal/domain"
)

var statusSlices = []struct {
	status domain.JobStatus
	label  string
	color  string
}{
	{domain.JobScheduled, "Scheduled", "#3498db"},
	{domain.JobRunning, "Running", "#f39c12"},
	{domain.JobCompleted, "Completed", "#2ecc71"},
	{domain.JobFailed, "Failed", "#e74c3c"},
	{domain.JobCancelled, "Cancelled", "#95a5a6"},
}

// StatusBreakdown is the doughnut chart of jobs per status. Paused jobs are
// not a slice of their own.
func StatusBreakdown(counts map[domain.JobStatus]int) Chart {
	c := Chart{Type: "doughnut", Title: "Email Job Status"}
	ds := Dataset{}
	for _, s := range statusSlices {
		c.Labels = append(c.Labels, s.label)
		ds.Data = append(ds.Data, float64(counts[s.status]))
		ds.BackgroundColor = append(ds.BackgroundColor, s.color)
	}
	c.Datasets = []Dataset{ds}
	return c
}

// EmailStats is the bar chart of aggregate email counts.
func EmailStats(s domain.DashboardStats) Chart {
	return Chart{
		Type:   "bar",
		Title:  "Email Campaign Statistics",
		Labels: []string{"Total", "Sent", "Failed", "Opened", "Clicked"},
		Datasets: []Dataset{{
			Label: "Email Statistics",
			Data: []float64{
				float64(s.TotalEmails),
				float64(s.SentEmails),
				float64(s.FailedEmails),
				float64(s.OpenedEmails),
				float64(s.ClickedEmails),
			},
			BackgroundColor: []string{"#3498db", "#2ecc71", "#e74c3c", "#f39c12", "#9b59b6"},
		}},
	}
}

// TooltipLabel formats a slice tooltip as "Label: value (pct%)". The
// percentage is rounded and is 0 when total is 0.
func TooltipLabel(label string, value, total float64) string {
	pct := 0.0
	if total > 0 {
		pct = math.Round(value / total * 100)
	}
	return fmt.Sprintf("%s: %s (%d%%)", label, formatValue(value), int(pct))
}

// TooltipLabels returns the tooltip of every point in the chart's first dataset.
func TooltipLabels(c Chart) []string {
	if len(c.Datasets) == 0 {
		return nil
	}
	ds := c.Datasets[0]
	total := ds.Total()
	out := make([]string, 0, len(ds.Data))
	for i, v := range ds.Data {
		label := ""
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		out = append(out, TooltipLabel(label, v, total))
	}
	return out
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
