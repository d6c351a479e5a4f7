package model

import "fmt"

// Config holds all settings for one reporting run. It is built once from
// defaults, config file, environment and flags, then treated as read-only.
type Config struct {
	Panel  PanelConfig  `yaml:"panel" mapstructure:"panel"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
}

// PanelConfig describes the sequencing panel and the variant thresholds
type PanelConfig struct {
	Name             string  `yaml:"name" mapstructure:"name"`
	SizeMB           float64 `yaml:"size_mb" mapstructure:"size_mb"` // Reportable target territory in megabases
	Reference        string  `yaml:"reference" mapstructure:"reference"`
	QualMin          float64 `yaml:"qual_min" mapstructure:"qual_min"`
	DPMin            int     `yaml:"dp_min" mapstructure:"dp_min"`
	AltMin           int     `yaml:"alt_min" mapstructure:"alt_min"`
	VAFMin           float64 `yaml:"vaf_min" mapstructure:"vaf_min"`
	RequirePass      bool    `yaml:"require_pass" mapstructure:"require_pass"` // FILTER must be PASS or "."
	DropSTRArtifacts bool    `yaml:"drop_str_artifacts" mapstructure:"drop_str_artifacts"`
	TMBHighMin       float64 `yaml:"tmb_high_min" mapstructure:"tmb_high_min"` // Clinical TMB-high cut-off (mut/Mb)
}

// OutputConfig controls where and what gets written
type OutputConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	ReportLimit  int    `yaml:"report_limit" mapstructure:"report_limit"` // Kept variants listed in the text report
	SummaryFile  string `yaml:"summary_file" mapstructure:"summary_file"`
	VariantsFile string `yaml:"variants_file" mapstructure:"variants_file"`
	WriteTables  bool   `yaml:"write_tables" mapstructure:"write_tables"`
	Verbose      bool   `yaml:"-" mapstructure:"-"`
}

// InputConfig controls how directories given as inputs are searched
type InputConfig struct {
	Patterns []string `yaml:"patterns" mapstructure:"patterns"`
}

// DefaultPanel returns the built-in Qiagen/CLC panel settings
func DefaultPanel() PanelConfig {
	return PanelConfig{
		Name:             "Qiagen/CLC Panel",
		SizeMB:           1.20,
		Reference:        "hg19",
		QualMin:          50,
		DPMin:            100,
		AltMin:           5,
		VAFMin:           0.05,
		RequirePass:      true,
		DropSTRArtifacts: true,
		TMBHighMin:       10,
	}
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Panel: DefaultPanel(),
		Output: OutputConfig{
			Dir:          ".",
			ReportLimit:  20,
			SummaryFile:  "tmb_summary.csv",
			VariantsFile: "tmb_variants.csv",
			WriteTables:  true,
		},
		Input: InputConfig{
			Patterns: []string{"*.vcf", "*.vcf.gz"},
		},
	}
}

// Validate rejects settings that cannot produce a meaningful run.
// A non-positive panel size is allowed: TMB is then reported as not computable.
func (c *Config) Validate() error {
	if c.Panel.VAFMin < 0 || c.Panel.VAFMin > 1 {
		return fmt.Errorf("vaf_min must be within [0, 1], got %g", c.Panel.VAFMin)
	}
	if c.Panel.DPMin < 0 || c.Panel.AltMin < 0 {
		return fmt.Errorf("dp_min and alt_min must not be negative")
	}
	if c.Output.ReportLimit < 0 {
		return fmt.Errorf("report_limit must not be negative, got %d", c.Output.ReportLimit)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output dir must not be empty")
	}
	return nil
}
