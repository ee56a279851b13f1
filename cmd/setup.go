package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/foldeval/refold/pkg/exec"
	"github.com/foldeval/refold/pkg/provision"
	"github.com/foldeval/refold/pkg/tui"
)

var (
	setupPipelineDir string
	setupRepoURL     string
	setupBranch      string
	setupSkipPyMOL   bool
	setupNoTUI       bool
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the refolding pipeline on this host",
		Long: `Provision the evaluation environment: verify git and python are
available, clone (or update) the pipeline repository, install its Python
dependencies, and install the PyMOL visualization tool.

The resolved pipeline directory is recorded in the run configuration so
'refold run' can find it.`,
		Args: cobra.NoArgs,
		RunE: runSetup,
	}

	cmd.Flags().StringVar(&setupPipelineDir, "pipeline-dir", "", "Directory for the pipeline checkout (default: derived from repo name)")
	cmd.Flags().StringVar(&setupRepoURL, "repo", provision.DefaultRepoURL, "Pipeline repository to clone")
	cmd.Flags().StringVar(&setupBranch, "branch", "", "Repository ref to check out (default: the default branch)")
	cmd.Flags().BoolVar(&setupSkipPyMOL, "skip-pymol", false, "Skip installing PyMOL")
	cmd.Flags().BoolVar(&setupNoTUI, "no-tui", false, "Print plain progress lines instead of the step list")

	return cmd
}

func runSetup(cmd *cobra.Command, args []string) error {
	p := provision.NewProvisioner(&exec.RealCommandExecutor{}, provision.Options{
		RepoURL:     setupRepoURL,
		Branch:      setupBranch,
		PipelineDir: setupPipelineDir,
		SkipPyMOL:   setupSkipPyMOL,
	}, log)

	steps := p.Steps()
	if useTUI() {
		tuiSteps := make([]tui.Step, len(steps))
		for i, s := range steps {
			tuiSteps[i] = tui.Step{Title: s.Title, Run: s.Run}
		}
		if err := tui.RunSetup(tuiSteps); err != nil {
			return err
		}
	} else {
		for _, step := range steps {
			fmt.Printf("→ %s...\n", step.Title)
			if err := step.Run(); err != nil {
				return fmt.Errorf("%s: %w", step.Title, err)
			}
			fmt.Printf("%s %s\n", color.GreenString("✓"), step.Title)
		}
	}

	// Remember the checkout location for subsequent runs.
	cfg, err := loadOrDefaultConfig(rootConfigPath)
	if err != nil {
		return err
	}
	cfg.PipelineDir = p.PipelineDir()
	if err := cfg.Save(rootConfigPath); err != nil {
		return err
	}

	fmt.Printf("%s Pipeline provisioned in %s\n", color.GreenString("✓"), p.PipelineDir())
	fmt.Printf("%s Recorded pipeline_dir in %s\n", color.GreenString("✓"), rootConfigPath)
	return nil
}

// useTUI decides whether the animated step list can render.
func useTUI() bool {
	if setupNoTUI {
		return false
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
