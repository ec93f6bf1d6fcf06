package app

import (
	"strconv"

	"github.com/RyanBlaney/audio-risk/pkg/audio/extractors"
	"github.com/RyanBlaney/audio-risk/pkg/risk"
)

// Report is the outcome of analysing or scoring one input.
type Report struct {
	File       string                     `json:"file,omitempty" yaml:"file,omitempty"`
	RiskScore  float64                    `json:"risk_score" yaml:"risk_score"`
	Threshold  float64                    `json:"threshold" yaml:"threshold"`
	Features   *extractors.FeatureMap     `json:"features,omitempty" yaml:"features,omitempty"`
	Components *risk.Breakdown            `json:"components,omitempty" yaml:"components,omitempty"`
	Sequences  *extractors.FrameSequences `json:"sequences,omitempty" yaml:"sequences,omitempty"`
	Error      string                     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the input could not be analysed.
func (r *Report) Failed() bool {
	return r.Error != ""
}

// Exceeds reports whether the score reached the threshold.
func (r *Report) Exceeds() bool {
	return !r.Failed() && r.RiskScore >= r.Threshold
}

// Summary counts outcomes across a batch.
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
	Exceeding int `json:"exceeding_threshold" yaml:"exceeding_threshold"`
}

// ReportSet is an ordered batch of reports. It lays out as one row per report.
type ReportSet struct {
	Reports   []*Report
	Precision int
}

// Summary tallies the reports.
func (s *ReportSet) Summary() Summary {
	sum := Summary{Total: len(s.Reports)}
	for _, r := range s.Reports {
		switch {
		case r.Failed():
			sum.Failed++
		case r.Exceeds():
			sum.Succeeded++
			sum.Exceeding++
		default:
			sum.Succeeded++
		}
	}
	return sum
}

func (s *ReportSet) Header() []string {
	header := []string{"file", "risk_score", "threshold", "exceeds"}
	header = append(header, extractors.Keys()...)
	return append(header, "error")
}

func (s *ReportSet) Rows() [][]string {
	rows := make([][]string, 0, len(s.Reports))
	for _, r := range s.Reports {
		row := []string{r.File, "", "", ""}
		if !r.Failed() {
			row[1] = s.formatFloat(r.RiskScore)
			row[2] = s.formatFloat(r.Threshold)
			row[3] = strconv.FormatBool(r.Exceeds())
		}

		var values map[string]float64
		if r.Features != nil {
			values = r.Features.Values()
		}
		for _, key := range extractors.Keys() {
			if values == nil {
				row = append(row, "")
				continue
			}
			row = append(row, s.formatFloat(values[key]))
		}
		rows = append(rows, append(row, r.Error))
	}
	return rows
}

func (s *ReportSet) formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', s.Precision, 64)
}
