package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/foldeval/refold/pkg/dispatch"
	"github.com/foldeval/refold/pkg/workspace"
)

var (
	runMode            string
	runQueryPDBFolder  string
	runContigStr       string
	runContigCSV       string
	runNativePDBFolder string
	runMetric          string
	runPipelineDir     string
	runPython          string
	runOutputDir       string
	runDryRun          bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Dispatch one pipeline evaluation run",
		Long: `Dispatch exactly one external pipeline invocation, selected by mode.

motif_scaffolding runs the motif refolding script with the backbone input
directory, the output directory, the motif CSV and the reference-structure
directory. unconditional runs the unconditional refolding script with only
the backbone input and output directories.

The run blocks until the pipeline exits; its output streams to stdout and
its exit status is the only failure signal.`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}

	cmd.Flags().StringVar(&runMode, "mode", "", "Evaluation mode: unconditional or motif_scaffolding")
	cmd.Flags().StringVar(&runQueryPDBFolder, "query-pdb-folder", "", "Directory of input backbone structures")
	cmd.Flags().StringVar(&runContigStr, "contig-str", "", "Contig string (advisory, not forwarded to the pipeline)")
	cmd.Flags().StringVar(&runContigCSV, "contig-csv", "", "Motif CSV path (motif_scaffolding only)")
	cmd.Flags().StringVar(&runNativePDBFolder, "native-pdb-folder", "", "Directory of ground-truth structures (motif_scaffolding only)")
	cmd.Flags().StringVar(&runMetric, "metric", "", "Success metric label: scRMSD_pLDDT_motifRMSD or scRMSD_pAE_motifRMSD")
	cmd.Flags().StringVar(&runPipelineDir, "pipeline-dir", "", "Pipeline checkout directory")
	cmd.Flags().StringVar(&runPython, "python", "", "Python interpreter to launch the pipeline with")
	cmd.Flags().StringVar(&runOutputDir, "output-dir", "", "Where pipeline artifacts are written (default: current directory)")
	cmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the invocation without running it")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadOrDefaultConfig(rootConfigPath)
	if err != nil {
		return err
	}

	// Flag overrides beat the config file, field by field.
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = runMode
	}
	if flags.Changed("query-pdb-folder") {
		cfg.QueryPDBFolder = runQueryPDBFolder
	}
	if flags.Changed("contig-str") {
		cfg.ContigStr = runContigStr
	}
	if flags.Changed("contig-csv") {
		cfg.ContigCSV = runContigCSV
	}
	if flags.Changed("native-pdb-folder") {
		cfg.NativePDBFolder = runNativePDBFolder
	}
	if flags.Changed("metric") {
		cfg.Metric = runMetric
	}
	if flags.Changed("pipeline-dir") {
		cfg.PipelineDir = runPipelineDir
	}
	if flags.Changed("python") {
		cfg.Python = runPython
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, p := range []*string{&cfg.QueryPDBFolder, &cfg.ContigCSV, &cfg.NativePDBFolder, &cfg.PipelineDir} {
		if *p == "" {
			continue
		}
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	if err := cfg.ValidatePaths(); err != nil {
		return err
	}

	outputDir := runOutputDir
	if outputDir == "" {
		outputDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
	} else if outputDir, err = expandPath(outputDir); err != nil {
		return err
	}

	inv := dispatch.BuildInvocation(cfg, outputDir)
	if inv == nil {
		// Unreachable after Validate, but the builder's contract is to
		// stay silent on unknown modes, so mirror that here.
		fmt.Printf("%s No pipeline invocation for mode %q; nothing to run.\n", color.YellowString("⚠"), cfg.Mode)
		return nil
	}

	if runDryRun {
		fmt.Println(inv.String())
		return nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := workspace.CreateLockFile(outputDir, os.Getpid()); err != nil {
		return err
	}
	defer workspace.RemoveLockFile(outputDir)

	rec := workspace.NewRunRecord(cfg)
	rec.Command = inv.String()

	fmt.Printf("%s Dispatching %s run\n", color.CyanString("→"), cfg.Mode)
	fmt.Printf("  %s\n", inv.String())

	d := dispatch.NewDispatcher(os.Stdout, log)
	runErr := d.Run(inv)

	rec.Finish(runErr)
	if _, saveErr := rec.Save(outputDir); saveErr != nil {
		log.WithError(saveErr).Warn("Failed to save run record")
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("%s Pipeline run completed; results in %s\n", color.GreenString("✓"), outputDir)
	return nil
}
