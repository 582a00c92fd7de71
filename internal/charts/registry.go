package charts

import (
	"sync"
	"time"

	"github.com/ignite/campaign-studio/internal/domain"
)

// DayLabels are the fixed x-axis labels of the opens and clicks charts.
var DayLabels = []string{"00:00", "06:00", "12:00", "18:00", "24:00"}

// MaxRatePoints caps the sending-rate window.
const MaxRatePoints = 10

const rateTimeLayout = "15:04:05"

// Registry owns the three charts of one job monitoring view. It is passed by
// reference to whatever applies updates; nothing else holds the series.
type Registry struct {
	mu         sync.Mutex
	opens      []float64
	clicks     []float64
	rateLabels []string
	rates      []float64
}

// NewRegistry creates the charts seeded from an initial snapshot.
func NewRegistry(initial domain.JobSnapshot) *Registry {
	r := &Registry{
		opens:      make([]float64, len(DayLabels)),
		clicks:     make([]float64, len(DayLabels)),
		rateLabels: []string{"Start"},
		rates:      []float64{0},
	}
	r.opens[len(r.opens)-1] = float64(initial.OpenedEmails)
	r.clicks[len(r.clicks)-1] = float64(initial.ClickedEmails)
	return r
}

// Update applies a polled snapshot. Opens and clicks overwrite the last point;
// a positive sending rate is appended under now's time label and the oldest
// point is dropped once the window exceeds MaxRatePoints.
func (r *Registry) Update(s domain.JobSnapshot, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.opens[len(r.opens)-1] = float64(s.OpenedEmails)
	r.clicks[len(r.clicks)-1] = float64(s.ClickedEmails)

	if s.AvgSendingRate > 0 {
		r.rateLabels = append(r.rateLabels, now.Format(rateTimeLayout))
		r.rates = append(r.rates, s.AvgSendingRate)
		if n := len(r.rates); n > MaxRatePoints {
			r.rateLabels = append([]string(nil), r.rateLabels[n-MaxRatePoints:]...)
			r.rates = append([]float64(nil), r.rates[n-MaxRatePoints:]...)
		}
	}
}

// Opens returns the opens line chart.
func (r *Registry) Opens() Chart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lineChart("Opens", DayLabels, r.opens, "rgba(75, 192, 192, 1)")
}

// Clicks returns the clicks line chart.
func (r *Registry) Clicks() Chart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lineChart("Clicks", DayLabels, r.clicks, "rgba(153, 102, 255, 1)")
}

// SendingRate returns the sending-rate line chart.
func (r *Registry) SendingRate() Chart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := lineChart("Sending Rate", r.rateLabels, r.rates, "rgba(255, 159, 64, 1)")
	c.Title = "Emails per second"
	return c
}

func lineChart(label string, labels []string, data []float64, border string) Chart {
	return Chart{
		Type:   "line",
		Labels: append([]string(nil), labels...),
		Datasets: []Dataset{{
			Label:       label,
			Data:        append([]float64(nil), data...),
			BorderColor: border,
			Fill:        true,
		}},
	}
}
