package score

import (
	"errors"
	"math"
	"testing"

	"github.com/ppiankov/tmbreport/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTMB(t *testing.T) {
	assert.Equal(t, 10.0, TMB(12, 1.2))
	assert.Equal(t, 0.0, TMB(0, 1.2))
	assert.InDelta(t, 0.2, TMB(7, 35), 1e-12)
}

func TestTMB_NotComputable(t *testing.T) {
	for _, panelMB := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		tmb := TMB(12, panelMB)
		assert.True(t, math.IsNaN(tmb), "panel %v", panelMB)
		assert.False(t, Computable(tmb))
		assert.False(t, IsHigh(tmb, 10))
	}
}

func TestIsHigh(t *testing.T) {
	assert.True(t, IsHigh(10, 10))
	assert.True(t, IsHigh(22.5, 10))
	assert.False(t, IsHigh(9.99, 10))
}

func TestAggregator_Summarize(t *testing.T) {
	panel := model.DefaultPanel()
	agg := NewAggregator(panel)

	s := agg.Summarize("MP255", "/data/MP255.vcf", 12, 30)
	assert.Equal(t, "MP255", s.Sample)
	assert.Equal(t, 12, s.Kept)
	assert.Equal(t, 30, s.Dropped)
	assert.Equal(t, 42, s.Total())
	assert.Equal(t, 10.0, s.TMB)
	assert.True(t, s.TMBHigh)
	assert.Equal(t, panel, s.Panel)
	assert.False(t, s.Failed())
}

func TestAggregator_ZeroPanel(t *testing.T) {
	panel := model.DefaultPanel()
	panel.SizeMB = 0

	s := NewAggregator(panel).Summarize("S", "s.vcf", 12, 0)
	assert.True(t, math.IsNaN(s.TMB))
	assert.False(t, s.TMBHigh)
}

func TestBatch(t *testing.T) {
	panel := model.DefaultPanel()
	agg := NewAggregator(panel)

	summaries := []model.SampleSummary{
		agg.Summarize("A", "a.vcf", 6, 0),  // 5
		agg.Summarize("B", "b.vcf", 12, 0), // 10
		agg.Summarize("C", "c.vcf", 24, 0), // 20
		model.FailedSummary("d.vcf", panel, errors.New("boom")),
	}

	st, err := Batch(summaries)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Samples)
	assert.Equal(t, 1, st.Failed)
	assert.Equal(t, 3, st.Computable)
	assert.Equal(t, 2, st.High)
	assert.InDelta(t, 35.0/3.0, st.Mean, 1e-9)
	assert.InDelta(t, 10.0, st.Median, 1e-9)
	assert.InDelta(t, 5.0, st.Min, 1e-9)
	assert.InDelta(t, 20.0, st.Max, 1e-9)
}

func TestBatch_NothingComputable(t *testing.T) {
	st, err := Batch(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Samples)
	assert.True(t, math.IsNaN(st.Mean))
	assert.True(t, math.IsNaN(st.Median))
}
