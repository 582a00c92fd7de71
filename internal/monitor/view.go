package monitor

import (
	"fmt"
	"io"
	"strings"

	"github.com/ignite/campaign-studio/internal/charts"
	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/jobs"
)

// Frame is the job panel as of the latest applied snapshot.
type Frame struct {
	JobID     int64
	Status    domain.JobStatus
	Progress  jobs.Progress
	StartedAt string
	Controls  []jobs.Control
	Opens     charts.Chart
	Clicks    charts.Chart
	Rate      charts.Chart
}

// View receives patches from a Poller. Calls are serialised by the poller.
type View interface {
	RenderJob(f Frame)
	RenderLogs(rows []jobs.LogRow)
}

// ConsoleView prints frames and log tables as plain text.
type ConsoleView struct {
	w io.Writer
}

// NewConsoleView creates a view writing to w.
func NewConsoleView(w io.Writer) *ConsoleView {
	return &ConsoleView{w: w}
}

func (v *ConsoleView) RenderJob(f Frame) {
	started := f.StartedAt
	if started == "" {
		started = "-"
	}
	fmt.Fprintf(v.w, "Job %d [%s] %s  sent=%d failed=%d remaining=%d  %s  started=%s\n",
		f.JobID, f.Status, f.Progress.Label, f.Progress.Sent, f.Progress.Failed,
		f.Progress.Remaining, f.Progress.RateLabel, started)

	if len(f.Controls) > 0 {
		parts := make([]string, 0, len(f.Controls))
		for _, c := range f.Controls {
			parts = append(parts, fmt.Sprintf("%s (%s)", c.Label, c.Href))
		}
		fmt.Fprintf(v.w, "  controls: %s\n", strings.Join(parts, ", "))
	}

	if ds := f.Opens.Datasets; len(ds) > 0 && len(ds[0].Data) > 0 {
		fmt.Fprintf(v.w, "  opens=%.0f", ds[0].Data[len(ds[0].Data)-1])
		if cs := f.Clicks.Datasets; len(cs) > 0 && len(cs[0].Data) > 0 {
			fmt.Fprintf(v.w, " clicks=%.0f", cs[0].Data[len(cs[0].Data)-1])
		}
		fmt.Fprintln(v.w)
	}
}

func (v *ConsoleView) RenderLogs(rows []jobs.LogRow) {
	for _, r := range rows {
		if r.Placeholder {
			fmt.Fprintf(v.w, "  %s\n", r.Message)
			continue
		}
		fmt.Fprintf(v.w, "  %s %-7s %s\n", r.Timestamp, r.Level, r.Message)
	}
}
