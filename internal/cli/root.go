package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/tmbreport/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the tool version printed by the version command
const Version = "tmbreport v0.3.0"

const envPrefix = "TMBREPORT"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tmbreport [flags] [vcf|dir ...]",
	Short: "tmbreport - panel-based Tumor Mutational Burden reports from VCF files",
	Long: `tmbreport estimates Tumor Mutational Burden (variants per megabase) for
targeted sequencing panels.

Every VCF is filtered on FILTER status, QUAL, depth, alternate allele depth
and allele fraction, plus a simple repeat-artifact heuristic. Surviving
variants are counted and divided by the panel size.

Outputs:
  <sample>_TMB_report.txt   one text report per input
  tmb_summary.csv           one row per input (errors included)
  tmb_variants.csv          every classified record with its reason

The result is a filtered raw panel TMB. It is not a clinical call.`,
	Example: `  tmbreport sample.vcf
  tmbreport --outdir reports/ runs/2025-03/
  tmbreport --vcf a.vcf --vcf b.vcf.gz --panel-mb 1.2 --no-str
  tmbreport --list inputs.txt`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runReport,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of tmbreport.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.tmbreport/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	v := viper.GetViper()
	setDefaults(v)
	bindEnv(v)
	bindFlags(v)

	if cfgFile != "" {
		// Use config file from the flag
		v.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		v.AddConfigPath(filepath.Join(home, ".tmbreport"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	// If a config file is found, read it in
	if err := v.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
	}
}

// bindEnv makes TMBREPORT_PANEL_SIZE_MB override panel.size_mb and so on
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every config key so that environment variables are
// seen by Unmarshal even when no config file mentions the key.
func setDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("panel.name", d.Panel.Name)
	v.SetDefault("panel.size_mb", d.Panel.SizeMB)
	v.SetDefault("panel.reference", d.Panel.Reference)
	v.SetDefault("panel.qual_min", d.Panel.QualMin)
	v.SetDefault("panel.dp_min", d.Panel.DPMin)
	v.SetDefault("panel.alt_min", d.Panel.AltMin)
	v.SetDefault("panel.vaf_min", d.Panel.VAFMin)
	v.SetDefault("panel.require_pass", d.Panel.RequirePass)
	v.SetDefault("panel.drop_str_artifacts", d.Panel.DropSTRArtifacts)
	v.SetDefault("panel.tmb_high_min", d.Panel.TMBHighMin)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.report_limit", d.Output.ReportLimit)
	v.SetDefault("output.summary_file", d.Output.SummaryFile)
	v.SetDefault("output.variants_file", d.Output.VariantsFile)
	v.SetDefault("output.write_tables", d.Output.WriteTables)

	v.SetDefault("input.patterns", d.Input.Patterns)
}

// loadConfig merges defaults, config file, environment and bound flags into
// one run configuration.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Input.Patterns = nil // decoding into a non-empty slice keeps stale tail elements
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
