package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refold.yml")

	cfg := Default()
	cfg.Mode = ModeMotifScaffolding
	cfg.QueryPDBFolder = "/data/designs"
	cfg.ContigCSV = "/data/motif_info.csv"
	cfg.NativePDBFolder = "/data/natives"
	cfg.Metric = MetricPAE

	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refold.yml")
	minimal := "mode: unconditional\nquery_pdb_folder: /data/designs\n"
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "python3", cfg.Python)
	assert.Equal(t, MetricPLDDT, cfg.Metric)
	assert.Equal(t, ContigNone, cfg.ContigStr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*RunConfig)
		wantError string
	}{
		{
			name:   "valid unconditional",
			mutate: func(c *RunConfig) {},
		},
		{
			name: "valid motif scaffolding",
			mutate: func(c *RunConfig) {
				c.Mode = ModeMotifScaffolding
				c.ContigCSV = "/m.csv"
				c.NativePDBFolder = "/native"
			},
		},
		{
			name:      "unknown mode",
			mutate:    func(c *RunConfig) { c.Mode = "conditional" },
			wantError: "unknown mode",
		},
		{
			name:      "missing query folder",
			mutate:    func(c *RunConfig) { c.QueryPDBFolder = "" },
			wantError: "query_pdb_folder is required",
		},
		{
			name: "motif scaffolding without csv",
			mutate: func(c *RunConfig) {
				c.Mode = ModeMotifScaffolding
				c.NativePDBFolder = "/native"
			},
			wantError: "contig_csv is required",
		},
		{
			name: "motif scaffolding without natives",
			mutate: func(c *RunConfig) {
				c.Mode = ModeMotifScaffolding
				c.ContigCSV = "/m.csv"
			},
			wantError: "native_pdb_folder is required",
		},
		{
			name:      "unknown metric",
			mutate:    func(c *RunConfig) { c.Metric = "scTM_only" },
			wantError: "unknown metric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.QueryPDBFolder = "/data/designs"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantError == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error containing %q, got none", tt.wantError)
				} else if !strings.Contains(err.Error(), tt.wantError) {
					t.Errorf("expected error containing %q, got %q", tt.wantError, err.Error())
				}
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	dir := t.TempDir()
	queryDir := filepath.Join(dir, "designs")
	nativeDir := filepath.Join(dir, "natives")
	csvPath := filepath.Join(dir, "motif_info.csv")
	require.NoError(t, os.MkdirAll(queryDir, 0755))
	require.NoError(t, os.MkdirAll(nativeDir, 0755))
	require.NoError(t, os.WriteFile(csvPath, []byte("pdb_name,contig\n"), 0644))

	cfg := Default()
	cfg.Mode = ModeMotifScaffolding
	cfg.QueryPDBFolder = queryDir
	cfg.ContigCSV = csvPath
	cfg.NativePDBFolder = nativeDir
	assert.NoError(t, cfg.ValidatePaths())

	// A missing query folder fails.
	cfg.QueryPDBFolder = filepath.Join(dir, "missing")
	assert.Error(t, cfg.ValidatePaths())

	// A directory where the CSV should be fails.
	cfg.QueryPDBFolder = queryDir
	cfg.ContigCSV = nativeDir
	err := cfg.ValidatePaths()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a file")

	// Unconditional mode ignores the motif paths entirely.
	cfg.Mode = ModeUnconditional
	assert.NoError(t, cfg.ValidatePaths())
}
