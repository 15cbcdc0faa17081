package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revdiag/internal/config"
	"revdiag/internal/shared/testutil"
	"revdiag/pkg/contracts"
	"revdiag/pkg/contracts/domain"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-in", "a.xlsx", "-out", "b.xlsx", "-csv", "b.csv", "-config", "c.yaml"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, &options{configPath: "c.yaml", input: "a.xlsx", output: "b.xlsx", csv: "b.csv"}, opts)

	opts, err = parseFlags([]string{"-version"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, opts.version)

	_, err = parseFlags([]string{"-bogus"}, io.Discard)
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PATH", "/usr/bin:/bin")
	t.Setenv("OUTPUT", "file")

	cfg, err := loadConfig(&options{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultInputFile, cfg.Input.Path)
	assert.Equal(t, config.DefaultOutputFile, cfg.Output.Path)
	assert.Empty(t, cfg.Output.CSVPath)
}

func TestLoadConfigPrecedence(t *testing.T) {
	t.Setenv("REVDIAG_INPUT_PATH", "env.xlsx")
	t.Setenv("REVDIAG_OUTPUT_PATH", "env-out.xlsx")

	cfg, err := loadConfig(&options{output: "flag-out.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "env.xlsx", cfg.Input.Path)
	assert.Equal(t, "flag-out.xlsx", cfg.Output.Path)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "export.xlsx")
	out := filepath.Join(dir, "out.xlsx")

	testutil.WriteExport(t, dir, "", domain.RequiredColumns,
		testutil.ExportRow{2024, 1, "AETNA", "G1", 5, 1, 500, 1, 100, 2, 900, 0.6},
		testutil.ExportRow{2024, 2, "AETNA", "G1", 6, 2, 660, 1, 110, 2, 950, 0.7},
	)

	t.Setenv("REVDIAG_LOGGING_OUTPUT", "console")
	t.Setenv("REVDIAG_LOGGING_LEVEL", "error")

	require.NoError(t, run(context.Background(), []string{"-in", in, "-out", out}, io.Discard))

	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestRunMissingInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.xlsx")
	err := run(context.Background(), []string{"-in", missing, "-out", filepath.Join(t.TempDir(), "out.xlsx")}, io.Discard)
	assert.Error(t, err)
}

func TestRunVersion(t *testing.T) {
	var out strings.Builder
	require.NoError(t, run(context.Background(), []string{"-version"}, &out))
	assert.Contains(t, out.String(), contracts.Version)
}
