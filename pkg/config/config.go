package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Evaluation modes understood by the dispatcher.
const (
	ModeUnconditional    = "unconditional"
	ModeMotifScaffolding = "motif_scaffolding"
)

// Metric labels. These select which confidence gate the results summary
// applies; neither is passed to the pipeline itself.
const (
	MetricPLDDT = "scRMSD_pLDDT_motifRMSD"
	MetricPAE   = "scRMSD_pAE_motifRMSD"
)

// ContigNone is the sentinel for an absent contig string.
const ContigNone = "none"

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "refold.yml"

// RunConfig is the flat configuration record for a single evaluation run.
// It is built once per run and consumed once by the dispatcher.
type RunConfig struct {
	// Mode selects the invocation branch: "unconditional" or
	// "motif_scaffolding".
	Mode string `yaml:"mode" json:"mode"`

	// QueryPDBFolder is the directory of input backbone structures.
	QueryPDBFolder string `yaml:"query_pdb_folder" json:"query_pdb_folder"`

	// ContigStr describes the motif placement, or "none". Advisory only;
	// never forwarded to the pipeline.
	ContigStr string `yaml:"contig_str" json:"contig_str"`

	// ContigCSV is the motif CSV path, required for motif scaffolding.
	ContigCSV string `yaml:"contig_csv,omitempty" json:"contig_csv,omitempty"`

	// NativePDBFolder holds the ground-truth structures, required for
	// motif scaffolding.
	NativePDBFolder string `yaml:"native_pdb_folder,omitempty" json:"native_pdb_folder,omitempty"`

	// Metric names the success criterion used when summarizing results.
	Metric string `yaml:"metric" json:"metric"`

	// PipelineDir is where the refolding pipeline repository is checked
	// out. Populated by `refold setup`.
	PipelineDir string `yaml:"pipeline_dir,omitempty" json:"pipeline_dir,omitempty"`

	// Python is the interpreter used to launch the pipeline scripts.
	Python string `yaml:"python,omitempty" json:"python,omitempty"`
}

// Default returns a RunConfig with defaults filled in.
func Default() *RunConfig {
	return &RunConfig{
		Mode:        ModeUnconditional,
		ContigStr:   ContigNone,
		Metric:      MetricPLDDT,
		PipelineDir: "Scaffold-Lab",
		Python:      "python3",
	}
}

// Load reads a RunConfig from path.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c *RunConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the record against the constraints of the selected mode.
// It does not touch the filesystem; see ValidatePaths for that.
func (c *RunConfig) Validate() error {
	switch c.Mode {
	case ModeUnconditional:
	case ModeMotifScaffolding:
		if c.ContigCSV == "" {
			return fmt.Errorf("contig_csv is required when mode is %s", ModeMotifScaffolding)
		}
		if c.NativePDBFolder == "" {
			return fmt.Errorf("native_pdb_folder is required when mode is %s", ModeMotifScaffolding)
		}
	default:
		return fmt.Errorf("unknown mode %q (expected %s or %s)", c.Mode, ModeUnconditional, ModeMotifScaffolding)
	}

	if c.QueryPDBFolder == "" {
		return fmt.Errorf("query_pdb_folder is required")
	}

	switch c.Metric {
	case "", MetricPLDDT, MetricPAE:
	default:
		return fmt.Errorf("unknown metric %q (expected %s or %s)", c.Metric, MetricPLDDT, MetricPAE)
	}

	return nil
}

// ValidatePaths checks that the configured input paths exist on disk.
func (c *RunConfig) ValidatePaths() error {
	if err := requireDir(c.QueryPDBFolder, "query_pdb_folder"); err != nil {
		return err
	}
	if c.Mode == ModeMotifScaffolding {
		if err := requireFile(c.ContigCSV, "contig_csv"); err != nil {
			return err
		}
		if err := requireDir(c.NativePDBFolder, "native_pdb_folder"); err != nil {
			return err
		}
	}
	return nil
}

func requireDir(path, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %s is not a directory", field, path)
	}
	return nil
}

func requireFile(path, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %s is a directory, expected a file", field, path)
	}
	return nil
}
