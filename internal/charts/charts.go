// Package charts builds the chart data for the dashboard and the job
// monitoring page. Rendering is left to the client; this package only owns
// labels, points and colours.
package charts

// Chart is a renderable chart definition in Chart.js shape.
type Chart struct {
	Type     string    `json:"type"`
	Title    string    `json:"title,omitempty"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series of a Chart.
type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
}

// Total sums the dataset's points.
func (d Dataset) Total() float64 {
	var sum float64
	for _, v := range d.Data {
		sum += v
	}
	return sum
}
