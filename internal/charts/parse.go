package charts

import (
	"encoding/json"
	"sort"
)

// Counts is a label to value dataset, e.g. {"opened": 12, "clicked": 3}.
type Counts map[string]float64

// ParseCounts decodes a counts dataset. Malformed input yields an empty
// dataset; this never fails.
func ParseCounts(raw []byte) Counts {
	var c Counts
	if err := json.Unmarshal(raw, &c); err != nil || c == nil {
		return Counts{}
	}
	return c
}

// Keys returns the labels in sorted order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Series is a labelled time series.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len is the number of complete points.
func (s Series) Len() int { return len(s.Labels) }

// ParseSeries decodes a time series. Labels and values are truncated to the
// shorter of the two. Malformed input yields an empty series.
func ParseSeries(raw []byte) Series {
	var s Series
	if err := json.Unmarshal(raw, &s); err != nil {
		return Series{Labels: []string{}, Values: []float64{}}
	}
	n := len(s.Labels)
	if len(s.Values) < n {
		n = len(s.Values)
	}
	return Series{
		Labels: append([]string{}, s.Labels[:n]...),
		Values: append([]float64{}, s.Values[:n]...),
	}
}
