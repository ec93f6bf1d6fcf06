package app

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ScoreStats represents statistical measures of the risk scores in a batch
type ScoreStats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	P95    float64 `json:"p95" yaml:"p95"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Count  int     `json:"count" yaml:"count"`
}

// ScoreStats summarises the risk scores of the successful reports.
func (s *ReportSet) ScoreStats() *ScoreStats {
	scores := make([]float64, 0, len(s.Reports))
	for _, r := range s.Reports {
		if !r.Failed() {
			scores = append(scores, r.RiskScore)
		}
	}
	return calculateStats(scores)
}

// calculateStats calculates statistical measures for a dataset
func calculateStats(data []float64) *ScoreStats {
	if len(data) == 0 {
		return &ScoreStats{Count: 0}
	}

	// Sort data for percentile calculations
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mean, stdDev := stat.PopMeanStdDev(sorted, nil)
	stats := &ScoreStats{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: percentile(sorted, 50),
		P95:    percentile(sorted, 95),
		Mean:   mean,
		StdDev: stdDev,
	}
	if math.IsNaN(stats.StdDev) {
		stats.StdDev = 0
	}
	return stats
}

// percentile linearly interpolates the p-th percentile of sorted data
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
