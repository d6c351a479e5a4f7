package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/tmbreport/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("TMBREPORT_PANEL_SIZE_MB", "2.5")
	t.Setenv("TMBREPORT_PANEL_REQUIRE_PASS", "false")
	t.Setenv("TMBREPORT_OUTPUT_DIR", "/tmp/out")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Panel.SizeMB)
	assert.False(t, cfg.Panel.RequirePass)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, "hg19", cfg.Panel.Reference)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "panel:\n  name: Custom Panel\n  size_mb: 0.8\n  dp_min: 200\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("TMBREPORT_PANEL_SIZE_MB", "1.5")

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "Custom Panel", cfg.Panel.Name)
	assert.Equal(t, 200, cfg.Panel.DPMin)
	assert.Equal(t, 1.5, cfg.Panel.SizeMB, "env must win over the config file")
	assert.Equal(t, 50.0, cfg.Panel.QualMin)
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := newViper()
	v.Set("panel.vaf_min", 1.5)

	_, err := loadConfig(v)
	assert.Error(t, err)
}

func TestApplyToggles(t *testing.T) {
	defer func() { noPass, noSTR, noTables = false, false, false }()
	noPass, noSTR = true, true

	v := newViper()
	applyToggles(v)
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.False(t, cfg.Panel.RequirePass)
	assert.False(t, cfg.Panel.DropSTRArtifacts)
	assert.True(t, cfg.Output.WriteTables)
}

func TestGatherInputs(t *testing.T) {
	list := filepath.Join(t.TempDir(), "inputs.txt")
	require.NoError(t, os.WriteFile(list, []byte("c.vcf\n# skipped\nd.vcf\n"), 0644))

	defer func() { vcfPaths, listFile = nil, "" }()
	vcfPaths = []string{"a.vcf"}
	listFile = list

	inputs, err := gatherInputs([]string{"b.vcf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.vcf", "b.vcf", "c.vcf", "d.vcf"}, inputs)
}

func TestPickInputs(t *testing.T) {
	in := strings.NewReader("a.vcf, b.vcf\n/runs/dir\n\nreports\n")
	var out bytes.Buffer

	sel, err := pickInputs(in, &out, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.vcf", "b.vcf", "/runs/dir"}, sel.Inputs)
	assert.Equal(t, "reports", sel.OutDir)
	assert.Contains(t, out.String(), "Output folder [.]")
}

func TestPickInputs_PathsWithSpaces(t *testing.T) {
	in := strings.NewReader("/data/My Runs/a.vcf\n /data/b c.vcf , ,/data/d.vcf\n\n\n")

	sel, err := pickInputs(in, &bytes.Buffer{}, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/My Runs/a.vcf", "/data/b c.vcf", "/data/d.vcf"}, sel.Inputs)
}

func TestPickInputs_DefaultOutDir(t *testing.T) {
	sel, err := pickInputs(strings.NewReader("a.vcf\n\n\n"), &bytes.Buffer{}, "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", sel.OutDir)
}

func TestPickInputs_Empty(t *testing.T) {
	_, err := pickInputs(strings.NewReader("\n"), &bytes.Buffer{}, ".")
	assert.ErrorIs(t, err, errNoSelection)

	_, err = pickInputs(strings.NewReader(""), &bytes.Buffer{}, ".")
	assert.ErrorIs(t, err, errNoSelection)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tmbreport", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, *model.DefaultConfig(), cfg)

	assert.Error(t, writeDefaultConfig(path), "existing file must not be overwritten")
}
