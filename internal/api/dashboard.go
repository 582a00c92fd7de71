package api

import (
	"net/http"

	"github.com/ignite/campaign-studio/internal/charts"
	"github.com/ignite/campaign-studio/internal/pkg/httputil"
)

type dashboardResponse struct {
	StatusBreakdown charts.Chart `json:"status_breakdown"`
	EmailStats      charts.Chart `json:"email_stats"`
	Tooltips        struct {
		StatusBreakdown []string `json:"status_breakdown"`
		EmailStats      []string `json:"email_stats"`
	} `json:"tooltips"`
}

// GetDashboardStats returns the dashboard doughnut and bar chart data.
//
//	GET /dashboard/stats
func (h *Handlers) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.jobs.DashboardStats(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	var resp dashboardResponse
	resp.StatusBreakdown = charts.StatusBreakdown(stats.JobsByStatus)
	resp.EmailStats = charts.EmailStats(stats)
	resp.Tooltips.StatusBreakdown = charts.TooltipLabels(resp.StatusBreakdown)
	resp.Tooltips.EmailStats = charts.TooltipLabels(resp.EmailStats)
	httputil.OK(w, resp)
}
