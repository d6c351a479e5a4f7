package score

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/ppiankov/tmbreport/internal/model"
)

// Formula documents how the burden is computed, echoed in reports
const Formula = "kept_variants / panel_size_mb"

// TMB returns kept variants per megabase. A missing or non-positive panel
// size yields NaN, which callers render as "not computable".
func TMB(kept int, panelMB float64) float64 {
	if panelMB > 0 && !math.IsInf(panelMB, 0) {
		return float64(kept) / panelMB
	}
	return math.NaN()
}

// Computable reports whether tmb holds a usable number
func Computable(tmb float64) bool {
	return !math.IsNaN(tmb) && !math.IsInf(tmb, 0)
}

// IsHigh reports whether tmb reaches the TMB-high cut-off. A non-computable
// burden is never high.
func IsHigh(tmb, threshold float64) bool {
	return Computable(tmb) && tmb >= threshold
}

// Aggregator turns classification counts into a SampleSummary
type Aggregator struct {
	panel model.PanelConfig
}

// NewAggregator creates an aggregator for a panel
func NewAggregator(panel model.PanelConfig) *Aggregator {
	return &Aggregator{panel: panel}
}

// Summarize builds the per-file summary from the classified records
func (a *Aggregator) Summarize(sample, source string, kept, dropped int) model.SampleSummary {
	tmb := TMB(kept, a.panel.SizeMB)
	return model.SampleSummary{
		Sample:  sample,
		Source:  source,
		Kept:    kept,
		Dropped: dropped,
		TMB:     tmb,
		TMBHigh: IsHigh(tmb, a.panel.TMBHighMin),
		Panel:   a.panel,
	}
}

// BatchStats describes the burden distribution across a run
type BatchStats struct {
	Samples    int     `json:"samples"`
	Failed     int     `json:"failed"`
	Computable int     `json:"computable"`
	High       int     `json:"high"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// Batch computes distribution statistics over the successful summaries.
// Statistics are NaN when no sample has a computable burden.
func Batch(summaries []model.SampleSummary) (BatchStats, error) {
	out := BatchStats{
		Samples: len(summaries),
		Mean:    math.NaN(),
		Median:  math.NaN(),
		Min:     math.NaN(),
		Max:     math.NaN(),
	}

	var values stats.Float64Data
	for _, s := range summaries {
		if s.Failed() {
			out.Failed++
			continue
		}
		if !Computable(s.TMB) {
			continue
		}
		values = append(values, s.TMB)
		if s.TMBHigh {
			out.High++
		}
	}
	out.Computable = len(values)
	if len(values) == 0 {
		return out, nil
	}

	var err error
	if out.Mean, err = values.Mean(); err != nil {
		return out, fmt.Errorf("mean: %w", err)
	}
	if out.Median, err = values.Median(); err != nil {
		return out, fmt.Errorf("median: %w", err)
	}
	if out.Min, err = values.Min(); err != nil {
		return out, fmt.Errorf("min: %w", err)
	}
	if out.Max, err = values.Max(); err != nil {
		return out, fmt.Errorf("max: %w", err)
	}
	return out, nil
}
