// Package report renders per-sample text reports and the aggregate tables.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/tmbreport/internal/model"
	"github.com/ppiankov/tmbreport/internal/score"
)

// DefaultListLimit is how many kept variants the text report lists
const DefaultListLimit = 20

// Renderer writes per-sample text reports. It remembers the names written
// during a run so that two inputs with the same sample never share a report.
type Renderer struct {
	limit int
	now   func() time.Time
	used  map[string]bool
}

// NewRenderer creates a renderer listing at most limit kept variants.
// now supplies the run date; nil means time.Now.
func NewRenderer(limit int, now func() time.Time) *Renderer {
	if limit < 0 {
		limit = DefaultListLimit
	}
	if now == nil {
		now = time.Now
	}
	return &Renderer{limit: limit, now: now, used: make(map[string]bool)}
}

// RenderText writes the text report for one sample
func (r *Renderer) RenderText(w io.Writer, summary model.SampleSummary, kept []model.ClassificationResult) error {
	bw := bufio.NewWriter(w)
	panel := summary.Panel

	p := func(format string, a ...interface{}) {
		fmt.Fprintf(bw, format+"\n", a...)
	}

	p("*** TMB REPORT ***")
	p("")
	p("Date: %s", r.now().Format("2006-01-02"))
	p("Sample: %s", summary.Sample)
	p("VCF: %s", summary.Source)
	p("Panel: %s (%s)", panel.Name, panel.Reference)
	p("Panel size (Mb): %.3f", panel.SizeMB)
	p("Filter thresholds: QUAL>=%s, DP>=%d, ALT>=%d, VAF>=%s",
		formatFloat(panel.QualMin), panel.DPMin, panel.AltMin, formatFloat(panel.VAFMin))
	p("FILTER=PASS required: %s", yesNo(panel.RequirePass))
	p("STR artifact filter: %s", yesNo(panel.DropSTRArtifacts))
	p("")
	p("Qualifying variants: %d", summary.Kept)
	p("Dropped variants: %d", summary.Dropped)
	if score.Computable(summary.TMB) {
		p("TMB (variants/Mb): %.2f", summary.TMB)
		status := "not high"
		if summary.TMBHigh {
			status = "high"
		}
		p("TMB status: %s (cut-off %s variants/Mb)", status, formatFloat(panel.TMBHighMin))
	} else {
		p("TMB: not computable (panel size missing)")
	}
	p("")
	p("Notes:")
	p("- Panel-based, filtered raw TMB. Without functional annotation benign/silent variants cannot be excluded.")
	p("- Clinical reporting must follow the laboratory's validated cut-off and panel coverage.")
	p("- Calls in STR/repeat regions are removed by a simple pattern heuristic.")
	p("")

	n := len(kept)
	if n > r.limit {
		n = r.limit
	}
	p("First %d qualifying variants (CHROM:POS REF>ALT | QUAL | DP | ALT_AD_MAX | VAF):", r.limit)
	for _, res := range kept[:n] {
		v := res.Record
		p("%s | %s | %s | %s | %s",
			v.Locus(),
			FormatNullFloat(v.Qual, 2),
			FormatNullInt(v.Depth),
			FormatNullInt(v.AltDepthMax),
			FormatNullFloat(v.VAF, 3))
	}

	return bw.Flush()
}

// WriteReport writes <sample>_TMB_report.txt into dir and returns its path.
// A sample already reported by this renderer gets <sample>_2_TMB_report.txt,
// then _3 and so on.
func (r *Renderer) WriteReport(dir string, summary model.SampleSummary, kept []model.ClassificationResult) (path string, err error) {
	name := ReportFileName(summary.Sample)
	for n := 2; r.used[name]; n++ {
		name = numberedReportFileName(summary.Sample, n)
	}
	r.used[name] = true
	path = filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report: %w", closeErr)
		}
	}()

	if err := r.RenderText(f, summary, kept); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// RenderSummary prints the one-line console status for a file
func RenderSummary(w io.Writer, summary model.SampleSummary) {
	if summary.Failed() {
		fmt.Fprintf(w, "✗ %s: %v\n", summary.Source, summary.Err)
		return
	}

	tmb := "not computable"
	if score.Computable(summary.TMB) {
		tmb = fmt.Sprintf("%.2f variants/Mb", summary.TMB)
		if summary.TMBHigh {
			tmb += " (high)"
		}
	}
	fmt.Fprintf(w, "✓ %s: %d kept, %d dropped, TMB %s\n", summary.Sample, summary.Kept, summary.Dropped, tmb)
}
