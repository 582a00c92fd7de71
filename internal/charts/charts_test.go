package charts

import (
	"fmt"
	"testing"
	"time"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Initial(t *testing.T) {
	r := NewRegistry(domain.JobSnapshot{OpenedEmails: 7, ClickedEmails: 2})

	opens := r.Opens()
	assert.Equal(t, DayLabels, opens.Labels)
	assert.Equal(t, []float64{0, 0, 0, 0, 7}, opens.Datasets[0].Data)
	assert.Equal(t, []float64{0, 0, 0, 0, 2}, r.Clicks().Datasets[0].Data)

	rate := r.SendingRate()
	assert.Equal(t, []string{"Start"}, rate.Labels)
	assert.Equal(t, []float64{0}, rate.Datasets[0].Data)
}

func TestRegistry_UpdateOverwritesLastPoint(t *testing.T) {
	r := NewRegistry(domain.JobSnapshot{})
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	r.Update(domain.JobSnapshot{OpenedEmails: 3, ClickedEmails: 1}, now)
	r.Update(domain.JobSnapshot{OpenedEmails: 9, ClickedEmails: 4}, now)

	assert.Equal(t, []float64{0, 0, 0, 0, 9}, r.Opens().Datasets[0].Data)
	assert.Equal(t, []float64{0, 0, 0, 0, 4}, r.Clicks().Datasets[0].Data)
	// zero rate never appends
	assert.Len(t, r.SendingRate().Labels, 1)
}

func TestRegistry_SendingRateWindow(t *testing.T) {
	r := NewRegistry(domain.JobSnapshot{})
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 15; i++ {
		r.Update(domain.JobSnapshot{AvgSendingRate: float64(i)}, start.Add(time.Duration(i)*time.Second))
	}

	rate := r.SendingRate()
	require.Len(t, rate.Labels, MaxRatePoints)
	require.Len(t, rate.Datasets[0].Data, MaxRatePoints)
	assert.Equal(t, 6.0, rate.Datasets[0].Data[0])
	assert.Equal(t, 15.0, rate.Datasets[0].Data[MaxRatePoints-1])
	assert.Equal(t, "10:00:15", rate.Labels[MaxRatePoints-1])
}

func TestRegistry_ChartsAreCopies(t *testing.T) {
	r := NewRegistry(domain.JobSnapshot{OpenedEmails: 1})
	c := r.Opens()
	c.Datasets[0].Data[4] = 99
	assert.Equal(t, 1.0, r.Opens().Datasets[0].Data[4])
}

func TestRegistry_ConcurrentUpdates(t *testing.T) {
	r := NewRegistry(domain.JobSnapshot{})
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			r.Update(domain.JobSnapshot{AvgSendingRate: 1, OpenedEmails: i}, time.Now())
			_ = r.SendingRate()
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.LessOrEqual(t, len(r.SendingRate().Labels), MaxRatePoints)
}

func TestStatusBreakdown(t *testing.T) {
	c := StatusBreakdown(map[domain.JobStatus]int{
		domain.JobScheduled: 2, domain.JobRunning: 1, domain.JobCompleted: 5, domain.JobPaused: 9,
	})
	assert.Equal(t, "doughnut", c.Type)
	assert.Equal(t, []string{"Scheduled", "Running", "Completed", "Failed", "Cancelled"}, c.Labels)
	assert.Equal(t, []float64{2, 1, 5, 0, 0}, c.Datasets[0].Data)
	assert.Len(t, c.Datasets[0].BackgroundColor, 5)
}

func TestEmailStats(t *testing.T) {
	c := EmailStats(domain.DashboardStats{TotalEmails: 100, SentEmails: 90, FailedEmails: 10, OpenedEmails: 30, ClickedEmails: 5})
	assert.Equal(t, "bar", c.Type)
	assert.Equal(t, []float64{100, 90, 10, 30, 5}, c.Datasets[0].Data)
}

func TestTooltipLabel(t *testing.T) {
	tests := []struct {
		label        string
		value, total float64
		want         string
	}{
		{"Completed", 5, 8, "Completed: 5 (63%)"},
		{"Failed", 1, 3, "Failed: 1 (33%)"},
		{"Running", 0, 0, "Running: 0 (0%)"},
		{"Rate", 2.5, 10, "Rate: 2.5 (25%)"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.label, tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, TooltipLabel(tt.label, tt.value, tt.total))
		})
	}
}

func TestTooltipLabels(t *testing.T) {
	c := StatusBreakdown(map[domain.JobStatus]int{domain.JobScheduled: 1, domain.JobCompleted: 3})
	labels := TooltipLabels(c)
	require.Len(t, labels, 5)
	assert.Equal(t, "Scheduled: 1 (25%)", labels[0])
	assert.Equal(t, "Completed: 3 (75%)", labels[2])
	assert.Nil(t, TooltipLabels(Chart{}))
}

func TestParseCounts(t *testing.T) {
	c := ParseCounts([]byte(`{"opened": 12, "clicked": 3}`))
	assert.Equal(t, 12.0, c["opened"])
	assert.Equal(t, []string{"clicked", "opened"}, c.Keys())

	for _, raw := range []string{``, `{`, `[1,2]`, `null`, `"x"`} {
		got := ParseCounts([]byte(raw))
		assert.NotNil(t, got, "input %q", raw)
		assert.Empty(t, got, "input %q", raw)
	}
}

func TestParseSeries(t *testing.T) {
	s := ParseSeries([]byte(`{"labels":["a","b","c"],"values":[1,2]}`))
	assert.Equal(t, []string{"a", "b"}, s.Labels)
	assert.Equal(t, []float64{1, 2}, s.Values)
	assert.Equal(t, 2, s.Len())

	bad := ParseSeries([]byte(`{"labels":`))
	assert.Equal(t, 0, bad.Len())
	assert.NotNil(t, bad.Labels)
	assert.NotNil(t, bad.Values)
}
