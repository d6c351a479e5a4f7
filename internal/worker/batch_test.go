package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/tmbreport/internal/model"
	"github.com/ppiankov/tmbreport/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProcessor implements Processor
type MockProcessor struct {
	Fail  map[string]bool
	Calls []string
}

func (m *MockProcessor) ProcessFile(ctx context.Context, path string) (*pipeline.FileResult, error) {
	m.Calls = append(m.Calls, path)
	if m.Fail[path] {
		return nil, errors.New("vcf file not found: " + path)
	}
	return &pipeline.FileResult{
		Summary: model.SampleSummary{Sample: filepath.Base(path), Source: path, Kept: 3},
	}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	mock := &MockProcessor{}
	processor := NewBatchProcessor(mock, model.DefaultPanel())

	paths := []string{"a.vcf", "b.vcf", "c.vcf"}
	outcomes, err := processor.ProcessPaths(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, outcomes, 3)
	assert.Equal(t, paths, mock.Calls, "files must be processed in input order")
	for i, o := range outcomes {
		assert.Equal(t, paths[i], o.Path)
		assert.NoError(t, o.GetError())
		assert.NotNil(t, o.Result)
		assert.Equal(t, 3, o.Summary.Kept)
	}
}

func TestBatchProcessor_ProcessPaths_ErrorContinues(t *testing.T) {
	mock := &MockProcessor{Fail: map[string]bool{"missing.vcf": true}}
	panel := model.DefaultPanel()
	processor := NewBatchProcessor(mock, panel)

	outcomes, err := processor.ProcessPaths(context.Background(), []string{"a.vcf", "missing.vcf", "c.vcf"})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	failed := outcomes[1]
	assert.Error(t, failed.GetError())
	assert.Nil(t, failed.Result)
	assert.True(t, failed.Summary.Failed())
	assert.Equal(t, "missing.vcf", failed.Summary.Sample)
	assert.Equal(t, panel, failed.Summary.Panel)

	assert.NoError(t, outcomes[2].GetError())
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	outcomes, err := NewBatchProcessor(&MockProcessor{}, model.DefaultPanel()).ProcessPaths(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestBatchProcessor_ProcessPaths_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := &MockProcessor{}
	processor := NewBatchProcessor(mock, model.DefaultPanel())
	processor.OnResult(func(*FileOutcome) { cancel() })

	outcomes, err := processor.ProcessPaths(ctx, []string{"a.vcf", "b.vcf"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, outcomes, 1)
	assert.Equal(t, []string{"a.vcf"}, mock.Calls)
}

func TestBatchProcessor_OnResult(t *testing.T) {
	var seen []string
	processor := NewBatchProcessor(&MockProcessor{}, model.DefaultPanel())
	processor.OnResult(func(o *FileOutcome) { seen = append(seen, o.Path) })

	_, err := processor.ProcessPaths(context.Background(), []string{"x.vcf", "y.vcf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.vcf", "y.vcf"}, seen)
}

func TestReadPathsFromFile(t *testing.T) {
	content := "/data/a.vcf\n# comment\n/data/b.vcf.gz\n   \n/data/a.vcf\n  /data/c.vcf   "
	path := filepath.Join(t.TempDir(), "inputs.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	paths, err := ReadPathsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/a.vcf", "/data/b.vcf.gz", "/data/c.vcf"}, paths)
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	_, err := ReadPathsFromFile("non_existent_file.txt")
	assert.Error(t, err)
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.txt")
	require.NoError(t, os.WriteFile(path, []byte("a.vcf\nb.vcf\n# c.vcf\n"), 0644))

	outcomes, err := NewBatchProcessor(&MockProcessor{}, model.DefaultPanel()).ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	_, err := NewBatchProcessor(&MockProcessor{}, model.DefaultPanel()).ProcessFile(context.Background(), "no_such_file.txt")
	assert.Error(t, err)
}

func TestFileOutcome_GetError(t *testing.T) {
	r1 := &FileOutcome{Path: "a.vcf"}
	assert.NoError(t, r1.GetError())

	expected := errors.New("boom")
	r2 := &FileOutcome{Path: "a.vcf", Error: expected}
	assert.Equal(t, expected, r2.GetError())
}

func TestBatchProcessor_WithPipeline(t *testing.T) {
	dir := t.TempDir()
	vcfPath := filepath.Join(dir, "S1.vcf")
	content := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"chr1\t1000\t.\tC\tT\t80\tPASS\t.\tGT:DP:AD\t0/1:150:100,20\n"
	require.NoError(t, os.WriteFile(vcfPath, []byte(content), 0644))

	cfg := model.DefaultConfig()
	cfg.Output.Dir = dir
	processor := NewBatchProcessor(pipeline.NewPipeline(cfg), cfg.Panel)

	outcomes, err := processor.ProcessPaths(context.Background(), []string{vcfPath, filepath.Join(dir, "gone.vcf")})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.NoError(t, outcomes[0].GetError())
	assert.Equal(t, "S1", outcomes[0].Summary.Sample)
	assert.Equal(t, 1, outcomes[0].Summary.Kept)

	assert.Error(t, outcomes[1].GetError())
	assert.Equal(t, "gone.vcf", outcomes[1].Summary.Sample)
}

func TestFileJob_Execute(t *testing.T) {
	panel := model.DefaultPanel()
	mock := &MockProcessor{Fail: map[string]bool{"bad.vcf": true}}

	ok := (&FileJob{Path: "good.vcf", Processor: mock, Panel: panel}).Execute(context.Background())
	assert.NoError(t, ok.GetError())
	assert.Equal(t, "good.vcf", ok.Summary.Sample)

	bad := (&FileJob{Path: "bad.vcf", Processor: mock, Panel: panel}).Execute(context.Background())
	assert.Error(t, bad.GetError())
	assert.Nil(t, bad.Result)
	assert.Equal(t, panel, bad.Summary.Panel)
}
