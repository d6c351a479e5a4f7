package model

import (
	"math"
	"path/filepath"
)

// SampleSummary is the per-file outcome of a run
type SampleSummary struct {
	Sample     string      `json:"sample"`
	Source     string      `json:"source"` // Input VCF path as given
	Kept       int         `json:"kept"`
	Dropped    int         `json:"dropped"`
	TMB        float64     `json:"tmb"` // NaN when the panel size is not usable
	TMBHigh    bool        `json:"tmb_high"`
	Panel      PanelConfig `json:"panel"` // Thresholds the file was classified with
	ReportPath string      `json:"report_path,omitempty"`
	Err        error       `json:"-"`
}

// Failed reports whether the file could not be processed
func (s SampleSummary) Failed() bool {
	return s.Err != nil
}

// Total returns the number of classified records
func (s SampleSummary) Total() int {
	return s.Kept + s.Dropped
}

// FailedSummary builds the summary recorded for a file that could not be processed
func FailedSummary(path string, panel PanelConfig, err error) SampleSummary {
	return SampleSummary{
		Sample: filepath.Base(path),
		Source: path,
		TMB:    math.NaN(),
		Panel:  panel,
		Err:    err,
	}
}
