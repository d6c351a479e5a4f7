package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/ppiankov/tmbreport/internal/model"
)

// SummaryRow is one line of the "summary" table, one per input file.
// Failed files leave the counts and TMB empty and fill Error.
type SummaryRow struct {
	Sample           string `csv:"sample"`
	VCF              string `csv:"vcf"`
	PanelName        string `csv:"panel_name"`
	Reference        string `csv:"reference"`
	PanelMB          string `csv:"panel_mb"`
	KeptVariants     string `csv:"kept_variants"`
	DroppedVariants  string `csv:"dropped_variants"`
	TMB              string `csv:"tmb_variants_per_mb"`
	TMBHigh          string `csv:"tmb_high"`
	QualMin          string `csv:"qual_min"`
	DPMin            string `csv:"dp_min"`
	AltMin           string `csv:"alt_min"`
	VAFMin           string `csv:"vaf_min"`
	RequirePass      string `csv:"require_pass"`
	DropSTRArtifacts string `csv:"drop_str_artifacts"`
	Error            string `csv:"error"`
}

// VariantRow is one line of the "variants" table, one per classified record
type VariantRow struct {
	Sample   string `csv:"sample"`
	Chrom    string `csv:"chrom"`
	Pos      int64  `csv:"pos"`
	Ref      string `csv:"ref"`
	Alt      string `csv:"alt"`
	Qual     string `csv:"qual"`
	Filter   string `csv:"filter"`
	DP       string `csv:"dp"`
	ADAltMax string `csv:"ad_alt_max"`
	VAF      string `csv:"vaf"`
	Kept     bool   `csv:"kept"`
	Reason   string `csv:"reason"`
}

// NewSummaryRow flattens a SampleSummary
func NewSummaryRow(s model.SampleSummary) SummaryRow {
	row := SummaryRow{
		Sample:    s.Sample,
		VCF:       s.Source,
		PanelName: s.Panel.Name,
		Reference: s.Panel.Reference,
		PanelMB:   formatFloat(s.Panel.SizeMB),
	}
	if s.Failed() {
		row.Error = s.Err.Error()
		return row
	}

	row.KeptVariants = strconv.Itoa(s.Kept)
	row.DroppedVariants = strconv.Itoa(s.Dropped)
	row.TMB = FormatTMB(s.TMB, 3)
	row.TMBHigh = strconv.FormatBool(s.TMBHigh)
	row.QualMin = formatFloat(s.Panel.QualMin)
	row.DPMin = strconv.Itoa(s.Panel.DPMin)
	row.AltMin = strconv.Itoa(s.Panel.AltMin)
	row.VAFMin = formatFloat(s.Panel.VAFMin)
	row.RequirePass = strconv.FormatBool(s.Panel.RequirePass)
	row.DropSTRArtifacts = strconv.FormatBool(s.Panel.DropSTRArtifacts)
	return row
}

// NewVariantRow flattens a ClassificationResult
func NewVariantRow(r model.ClassificationResult) VariantRow {
	v := r.Record
	return VariantRow{
		Sample:   v.Sample,
		Chrom:    v.Chrom,
		Pos:      v.Pos,
		Ref:      v.Ref,
		Alt:      v.Alt,
		Qual:     FormatNullFloat(v.Qual, -1),
		Filter:   v.Filter,
		DP:       FormatNullInt(v.Depth),
		ADAltMax: FormatNullInt(v.AltDepthMax),
		VAF:      FormatNullFloat(v.VAF, -1),
		Kept:     r.Kept,
		Reason:   string(r.Reason),
	}
}

// Tables accumulates the two aggregate tables across a batch
type Tables struct {
	Summary  []*SummaryRow
	Variants []*VariantRow
}

// Add appends one file's summary and its records, kept first then dropped
func (t *Tables) Add(s model.SampleSummary, kept, dropped []model.ClassificationResult) {
	row := NewSummaryRow(s)
	t.Summary = append(t.Summary, &row)

	for _, group := range [][]model.ClassificationResult{kept, dropped} {
		for _, r := range group {
			vr := NewVariantRow(r)
			t.Variants = append(t.Variants, &vr)
		}
	}
}

// Write stores both tables as CSV files in dir and returns their paths
func (t *Tables) Write(dir, summaryFile, variantsFile string) (summaryPath, variantsPath string, err error) {
	summaryPath = filepath.Join(dir, summaryFile)
	if err := writeCSV(summaryPath, &t.Summary); err != nil {
		return "", "", fmt.Errorf("write summary table: %w", err)
	}

	variantsPath = filepath.Join(dir, variantsFile)
	if err := writeCSV(variantsPath, &t.Variants); err != nil {
		return summaryPath, "", fmt.Errorf("write variants table: %w", err)
	}
	return summaryPath, variantsPath, nil
}

func writeCSV(path string, rows interface{}) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return gocsv.MarshalFile(rows, f)
}
