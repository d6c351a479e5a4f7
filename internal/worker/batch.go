package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/tmbreport/internal/model"
	"github.com/ppiankov/tmbreport/internal/pipeline"
)

// Processor defines the interface for processing one VCF
type Processor interface {
	ProcessFile(ctx context.Context, path string) (*pipeline.FileResult, error)
}

// FileJob represents a single VCF to process
type FileJob struct {
	Path      string
	Processor Processor
	Panel     model.PanelConfig
}

// Execute runs the job. Failures become an error summary, never a panic or abort.
func (j *FileJob) Execute(ctx context.Context) *FileOutcome {
	result, err := j.Processor.ProcessFile(ctx, j.Path)
	if err != nil {
		return &FileOutcome{
			Path:    j.Path,
			Summary: model.FailedSummary(j.Path, j.Panel, err),
			Error:   err,
		}
	}
	return &FileOutcome{
		Path:    j.Path,
		Summary: result.Summary,
		Result:  result,
	}
}

// FileOutcome represents the result of a file job
type FileOutcome struct {
	Path    string
	Summary model.SampleSummary
	Result  *pipeline.FileResult // nil on failure
	Error   error
}

// GetError returns the error from the file outcome
func (r *FileOutcome) GetError() error {
	return r.Error
}

// BatchProcessor processes VCFs one after another in input order
type BatchProcessor struct {
	processor Processor
	panel     model.PanelConfig
	onResult  func(*FileOutcome)
}

// NewBatchProcessor creates a new batch processor. panel is recorded on the
// summaries of files that fail.
func NewBatchProcessor(processor Processor, panel model.PanelConfig) *BatchProcessor {
	return &BatchProcessor{
		processor: processor,
		panel:     panel,
	}
}

// OnResult registers a callback invoked after each file completes
func (b *BatchProcessor) OnResult(fn func(*FileOutcome)) {
	b.onResult = fn
}

// ProcessPaths processes paths sequentially. Per-file errors are captured in
// the outcomes. Cancellation is checked between files; the outcomes gathered
// so far are returned together with the context error.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) ([]*FileOutcome, error) {
	outcomes := make([]*FileOutcome, 0, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		job := &FileJob{
			Path:      path,
			Processor: b.processor,
			Panel:     b.panel,
		}
		outcome := job.Execute(ctx)

		// An interrupted file is not a per-file failure
		if outcome.GetError() != nil && ctx.Err() != nil {
			return outcomes, ctx.Err()
		}

		outcomes = append(outcomes, outcome)
		if b.onResult != nil {
			b.onResult(outcome)
		}
	}

	return outcomes, nil
}

// ProcessFile reads VCF paths from a list file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*FileOutcome, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths)
}

// ReadPathsFromFile reads paths from a file (one per line)
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
