package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ppiankov/tmbreport/internal/classify"
	"github.com/ppiankov/tmbreport/internal/model"
	"github.com/ppiankov/tmbreport/internal/report"
	"github.com/ppiankov/tmbreport/internal/score"
	"github.com/ppiankov/tmbreport/internal/vcf"
)

// ctxCheckEvery is how many records are read between cancellation checks
const ctxCheckEvery = 4096

// Pipeline turns one VCF into a classified, summarized and reported sample
type Pipeline struct {
	classifier *classify.Classifier
	aggregator *score.Aggregator
	renderer   *report.Renderer
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	return NewPipelineWithClock(cfg, time.Now)
}

// NewPipelineWithClock is NewPipeline with an injectable report date
func NewPipelineWithClock(cfg *model.Config, now func() time.Time) *Pipeline {
	return &Pipeline{
		classifier: classify.NewClassifier(cfg.Panel),
		aggregator: score.NewAggregator(cfg.Panel),
		renderer:   report.NewRenderer(cfg.Output.ReportLimit, now),
		config:     cfg,
	}
}

// FileResult contains the outcome of processing one VCF
type FileResult struct {
	Summary model.SampleSummary
	Kept    []model.ClassificationResult
	Dropped []model.ClassificationResult
	Skipped int // Malformed data lines, not counted as dropped
}

// ProcessFile reads, classifies and reports a single VCF
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Open and resolve header
	f, err := vcf.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	// 2. Classify every well-formed record
	result := &FileResult{}
	for n := 1; ; n++ {
		rec, err := f.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		res := p.classifier.Classify(rec)
		if res.Kept {
			result.Kept = append(result.Kept, res)
		} else {
			result.Dropped = append(result.Dropped, res)
		}

		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	result.Skipped = f.Skipped()

	// 3. Aggregate
	result.Summary = p.aggregator.Summarize(f.Sample(), path, len(result.Kept), len(result.Dropped))

	// 4. Render text report
	reportPath, err := p.renderer.WriteReport(p.config.Output.Dir, result.Summary, result.Kept)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	result.Summary.ReportPath = reportPath
	if name := filepath.Base(reportPath); name != report.ReportFileName(result.Summary.Sample) {
		fmt.Fprintf(os.Stderr, "⚠ %s: sample %s already reported in this run, writing %s\n",
			path, result.Summary.Sample, name)
	}

	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, "  %s: %d records, %d malformed lines skipped\n",
			path, result.Summary.Total(), result.Skipped)
		for _, line := range reasonLines(classify.CountReasons(result.Dropped)) {
			fmt.Fprintf(os.Stderr, "    %s\n", line)
		}
	}

	return result, nil
}

// reasonLines renders drop counts ordered by reason code
func reasonLines(counts map[model.Reason]int) []string {
	reasons := make([]model.Reason, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	lines := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		lines = append(lines, fmt.Sprintf("dropped %-14s %d", reason, counts[reason]))
	}
	return lines
}
