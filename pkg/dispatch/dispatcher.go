package dispatch

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foldeval/refold/pkg/config"
	"github.com/foldeval/refold/pkg/exec"
)

// Pipeline entry points, relative to the pipeline checkout.
const (
	MotifRefoldingScript         = "scaffold_lab/motif_scaffolding/motif_refolding.py"
	UnconditionalRefoldingScript = "scaffold_lab/unconditional/refolding.py"
)

// Invocation is one fully-bound external pipeline call. The dispatcher
// produces at most one per run.
type Invocation struct {
	// Python is the interpreter used to launch the script.
	Python string

	// Script is the pipeline entry point, relative to Dir.
	Script string

	// Args are the Hydra-style key=value overrides, in order.
	Args []string

	// Dir is the pipeline checkout the process runs in.
	Dir string
}

// Argv returns the argument vector passed to the interpreter.
func (inv *Invocation) Argv() []string {
	return append([]string{inv.Script}, inv.Args...)
}

// String renders the invocation the way it would appear on a shell line.
func (inv *Invocation) String() string {
	return inv.Python + " " + strings.Join(inv.Argv(), " ")
}

// BuildInvocation maps a run configuration to its pipeline invocation.
//
// For motif scaffolding the invocation carries exactly four overrides:
// the backbone input directory, the output directory, the motif CSV and
// the reference-structure directory. Unconditional runs carry only the
// first two. contig_str and metric are deliberately not forwarded; the
// pipeline does not accept them on these entry points.
//
// An unrecognized mode yields nil: no invocation, no error. Callers
// decide how loudly to report that.
func BuildInvocation(cfg *config.RunConfig, outputDir string) *Invocation {
	python := cfg.Python
	if python == "" {
		python = "python3"
	}

	switch cfg.Mode {
	case config.ModeMotifScaffolding:
		return &Invocation{
			Python: python,
			Script: MotifRefoldingScript,
			Args: []string{
				"inference.backbone_pdb_dir=" + cfg.QueryPDBFolder,
				"inference.output_dir=" + outputDir,
				"inference.motif_csv_dir=" + cfg.ContigCSV,
				"inference.input_pdbs_dir=" + cfg.NativePDBFolder,
			},
			Dir: cfg.PipelineDir,
		}
	case config.ModeUnconditional:
		return &Invocation{
			Python: python,
			Script: UnconditionalRefoldingScript,
			Args: []string{
				"inference.backbone_pdb_dir=" + cfg.QueryPDBFolder,
				"inference.output_dir=" + outputDir,
			},
			Dir: cfg.PipelineDir,
		}
	}
	return nil
}

// Dispatcher runs a built invocation and reports its outcome.
type Dispatcher struct {
	Executor exec.CommandExecutor

	// Output receives the pipeline's combined stdout/stderr. Nil means
	// output is captured and only surfaced on failure.
	Output io.Writer

	Log *logrus.Logger
}

// NewDispatcher returns a Dispatcher backed by the real executor.
func NewDispatcher(output io.Writer, log *logrus.Logger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		Executor: &exec.RealCommandExecutor{},
		Output:   output,
		Log:      log,
	}
}

// Run executes the invocation synchronously and returns the pipeline's
// error, if any, wrapped with the command line for context. There is no
// retry or recovery; the pipeline owns its own failure semantics.
func (d *Dispatcher) Run(inv *Invocation) error {
	if inv == nil {
		return fmt.Errorf("no invocation to run")
	}

	d.Log.WithFields(logrus.Fields{
		"script":   inv.Script,
		"work_dir": inv.Dir,
	}).Debug("Dispatching pipeline run")

	start := time.Now()
	err := d.Executor.ExecuteWith(exec.Options{
		Dir:    inv.Dir,
		Output: d.Output,
	}, inv.Python, inv.Argv()...)

	d.Log.WithFields(logrus.Fields{
		"script":      inv.Script,
		"duration_ms": time.Since(start).Milliseconds(),
		"success":     err == nil,
	}).Debug("Pipeline run finished")

	if err != nil {
		return fmt.Errorf("pipeline run failed: %w\nCommand: %s\nWorking Dir: %s", err, inv.String(), inv.Dir)
	}
	return nil
}
