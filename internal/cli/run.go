package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ppiankov/tmbreport/internal/model"
	"github.com/ppiankov/tmbreport/internal/pipeline"
	"github.com/ppiankov/tmbreport/internal/report"
	"github.com/ppiankov/tmbreport/internal/score"
	"github.com/ppiankov/tmbreport/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	vcfPaths    []string
	listFile    string
	patterns    []string
	outDir      string
	panelMB     float64
	panelName   string
	reference   string
	qualMin     float64
	dpMin       int
	altMin      int
	vafMin      float64
	tmbHigh     float64
	reportLimit int
	noPass      bool
	noSTR       bool
	noTables    bool
)

func init() {
	d := model.DefaultConfig()
	flags := rootCmd.Flags()

	// Inputs
	flags.StringArrayVar(&vcfPaths, "vcf", nil, "input VCF file or folder (repeatable)")
	flags.StringVar(&listFile, "list", "", "file with input paths, one per line")
	flags.StringSliceVar(&patterns, "pattern", d.Input.Patterns, "file globs matched when walking folders")

	// Output
	flags.StringVarP(&outDir, "outdir", "o", d.Output.Dir, "output directory")
	flags.IntVar(&reportLimit, "report-limit", d.Output.ReportLimit, "kept variants listed in each text report")
	flags.BoolVar(&noTables, "no-tables", false, "skip the summary and variants CSV tables")

	// Panel
	flags.Float64Var(&panelMB, "panel-mb", d.Panel.SizeMB, "panel size in megabases")
	flags.StringVar(&panelName, "panel-name", d.Panel.Name, "panel name shown in reports")
	flags.StringVar(&reference, "reference", d.Panel.Reference, "reference build shown in reports")
	flags.Float64Var(&tmbHigh, "tmb-high", d.Panel.TMBHighMin, "TMB-high cut-off in variants/Mb")

	// Thresholds
	flags.Float64Var(&qualMin, "qual-min", d.Panel.QualMin, "minimum QUAL")
	flags.IntVar(&dpMin, "dp-min", d.Panel.DPMin, "minimum read depth")
	flags.IntVar(&altMin, "alt-min", d.Panel.AltMin, "minimum alternate allele depth")
	flags.Float64Var(&vafMin, "vaf-min", d.Panel.VAFMin, "minimum variant allele fraction")
	flags.BoolVar(&noPass, "no-pass", false, "do not require FILTER=PASS")
	flags.BoolVar(&noSTR, "no-str", false, "disable the repeat-artifact filter")
}

// bindFlags lets explicitly set flags override the file and environment
func bindFlags(v *viper.Viper) {
	flags := rootCmd.Flags()
	bindings := []struct{ key, flag string }{
		{"input.patterns", "pattern"},
		{"output.dir", "outdir"},
		{"output.report_limit", "report-limit"},
		{"panel.size_mb", "panel-mb"},
		{"panel.name", "panel-name"},
		{"panel.reference", "reference"},
		{"panel.tmb_high_min", "tmb-high"},
		{"panel.qual_min", "qual-min"},
		{"panel.dp_min", "dp-min"},
		{"panel.alt_min", "alt-min"},
		{"panel.vaf_min", "vaf-min"},
	}
	for _, b := range bindings {
		_ = v.BindPFlag(b.key, flags.Lookup(b.flag))
	}
}

// applyToggles maps the negative switches onto their config keys.
// Only switches that were given override the file and environment.
func applyToggles(v *viper.Viper) {
	if noPass {
		v.Set("panel.require_pass", false)
	}
	if noSTR {
		v.Set("panel.drop_str_artifacts", false)
	}
	if noTables {
		v.Set("output.write_tables", false)
	}
}

// gatherInputs collects --vcf values, positional arguments and --list entries
func gatherInputs(args []string) ([]string, error) {
	inputs := append(append([]string{}, vcfPaths...), args...)
	if listFile != "" {
		listed, err := worker.ReadPathsFromFile(listFile)
		if err != nil {
			return nil, fmt.Errorf("read --list: %w", err)
		}
		inputs = append(inputs, listed...)
	}
	return inputs, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := viper.GetViper()
	applyToggles(v)
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	cfg.Output.Verbose = verbose

	inputs, err := gatherInputs(args)
	if err != nil {
		return err
	}

	// Nothing on the command line: fall back to the picker
	if len(inputs) == 0 {
		if !interactive(os.Stdin) {
			_ = cmd.Usage()
			return errNoInputs
		}
		sel, err := pickInputs(os.Stdin, os.Stderr, cfg.Output.Dir)
		if err != nil {
			return err
		}
		inputs = sel.Inputs
		cfg.Output.Dir = sel.OutDir
	}

	discoverer := worker.NewDiscoverer(nil, cfg.Input.Patterns)
	paths, err := discoverer.Expand(inputs)
	if err != nil {
		return fmt.Errorf("expand inputs: %w", err)
	}
	for _, dir := range discoverer.Skipped() {
		fmt.Fprintf(os.Stderr, "⚠ skipped unreadable folder: %s\n", dir)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no VCF files found in %s", strings.Join(inputs, ", "))
	}

	// Create output directory
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	printHeader(os.Stderr, cfg, len(paths))

	processor := worker.NewBatchProcessor(pipeline.NewPipeline(cfg), cfg.Panel)
	processor.OnResult(func(o *worker.FileOutcome) {
		report.RenderSummary(os.Stderr, o.Summary)
	})

	outcomes, runErr := processor.ProcessPaths(ctx, paths)

	// Tables cover every file that finished, including after an interrupt
	var tables report.Tables
	summaries := make([]model.SampleSummary, 0, len(outcomes))
	for _, o := range outcomes {
		summaries = append(summaries, o.Summary)
		if o.Result != nil {
			tables.Add(o.Summary, o.Result.Kept, o.Result.Dropped)
		} else {
			tables.Add(o.Summary, nil, nil)
		}
	}

	var summaryPath, variantsPath string
	if cfg.Output.WriteTables {
		summaryPath, variantsPath, err = tables.Write(cfg.Output.Dir, cfg.Output.SummaryFile, cfg.Output.VariantsFile)
		if err != nil {
			return err
		}
	}

	stats, err := score.Batch(summaries)
	if err != nil {
		return fmt.Errorf("batch statistics: %w", err)
	}
	printFooter(os.Stderr, cfg, stats, summaryPath, variantsPath)

	if runErr != nil {
		return fmt.Errorf("interrupted after %d of %d files: %w", len(outcomes), len(paths), runErr)
	}
	return nil
}

func printHeader(w io.Writer, cfg *model.Config, files int) {
	p := cfg.Panel
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  TMB Report\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Files:       %d\n", files)
	fmt.Fprintf(w, "  Panel:       %s (%s), %g Mb\n", p.Name, p.Reference, p.SizeMB)
	fmt.Fprintf(w, "  Thresholds:  QUAL>=%g DP>=%d ALT>=%d VAF>=%g\n", p.QualMin, p.DPMin, p.AltMin, p.VAFMin)
	fmt.Fprintf(w, "  PASS only:   %t\n", p.RequirePass)
	fmt.Fprintf(w, "  STR filter:  %t\n", p.DropSTRArtifacts)
	fmt.Fprintf(w, "  Output dir:  %s\n", cfg.Output.Dir)
	fmt.Fprintf(w, "\n")
}

func printFooter(w io.Writer, cfg *model.Config, stats score.BatchStats, summaryPath, variantsPath string) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Batch Complete\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Total:     %d files\n", stats.Samples)
	fmt.Fprintf(w, "  Success:   %d\n", stats.Samples-stats.Failed)
	fmt.Fprintf(w, "  Failures:  %d\n", stats.Failed)
	if stats.Computable > 0 {
		fmt.Fprintf(w, "  TMB:       mean %.2f, median %.2f, range %.2f-%.2f variants/Mb\n",
			stats.Mean, stats.Median, stats.Min, stats.Max)
		fmt.Fprintf(w, "  TMB-high:  %d of %d (cut-off %g)\n", stats.High, stats.Computable, cfg.Panel.TMBHighMin)
	}
	if summaryPath != "" {
		fmt.Fprintf(w, "  Summary:   %s\n", summaryPath)
		fmt.Fprintf(w, "  Variants:  %s\n", variantsPath)
	}
	fmt.Fprintf(w, "  Output:    %s\n", cfg.Output.Dir)
	fmt.Fprintf(w, "\n")
}
