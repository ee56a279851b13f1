package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/foldeval/refold/pkg/exec"
)

// DefaultRepoURL is the upstream refolding pipeline.
const DefaultRepoURL = "https://github.com/Immortals-33/Scaffold-Lab.git"

// PyMOLPackage is the open-source PyMOL build installed for the
// visualization steps of the pipeline.
const PyMOLPackage = "pymol-open-source"

// Options configures a provisioning pass.
type Options struct {
	// RepoURL is the pipeline repository to clone.
	RepoURL string

	// Branch pins a specific ref; empty means the default branch.
	Branch string

	// PipelineDir is where the checkout lives.
	PipelineDir string

	// Python names the interpreter to install into.
	Python string

	// SkipPyMOL leaves the visualization tool uninstalled.
	SkipPyMOL bool
}

// Step is one provisioning action, displayed while it runs.
type Step struct {
	Title string
	Run   func() error
}

// Provisioner prepares a host for pipeline runs: tool checks, pipeline
// checkout, Python dependencies, PyMOL.
type Provisioner struct {
	opts   Options
	git    *GitCli
	python *PythonCli
	log    *logrus.Logger
}

func NewProvisioner(executor exec.CommandExecutor, opts Options, log *logrus.Logger) *Provisioner {
	if opts.RepoURL == "" {
		opts.RepoURL = DefaultRepoURL
	}
	if opts.PipelineDir == "" {
		opts.PipelineDir = defaultPipelineDir(opts.RepoURL)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Provisioner{
		opts:   opts,
		git:    NewGitCli(executor),
		python: NewPythonCli(executor, opts.Python),
		log:    log,
	}
}

// PipelineDir returns the resolved checkout directory.
func (p *Provisioner) PipelineDir() string {
	return p.opts.PipelineDir
}

// Steps returns the ordered provisioning sequence. Callers drive the
// steps so they can render progress however they like.
func (p *Provisioner) Steps() []Step {
	steps := []Step{
		{Title: "Check required tools", Run: p.checkTools},
		{Title: "Fetch pipeline repository", Run: p.fetchPipeline},
		{Title: "Install Python dependencies", Run: p.installDependencies},
	}
	if !p.opts.SkipPyMOL {
		steps = append(steps, Step{Title: "Install PyMOL", Run: p.installPyMOL})
	}
	return steps
}

func (p *Provisioner) checkTools() error {
	for _, tool := range []ExternalTool{p.git, p.python} {
		ok, err := tool.CheckInstalled()
		if !ok {
			return fmt.Errorf("%s (%s) not found on PATH (%v); install from %s",
				tool.Name(), tool.BinaryName(), err, tool.InstallUrl())
		}
	}
	return nil
}

func (p *Provisioner) fetchPipeline() error {
	if _, err := os.Stat(filepath.Join(p.opts.PipelineDir, ".git")); err == nil {
		p.log.WithField("dir", p.opts.PipelineDir).Debug("Pipeline checkout exists, pulling")
		return p.git.Pull(p.opts.PipelineDir)
	}
	return p.git.Clone(p.opts.RepoURL, p.opts.Branch, p.opts.PipelineDir)
}

func (p *Provisioner) installDependencies() error {
	return p.python.InstallRequirements(p.opts.PipelineDir)
}

func (p *Provisioner) installPyMOL() error {
	if p.python.CanImport("pymol") {
		p.log.Debug("PyMOL already importable, skipping install")
		return nil
	}
	return p.python.InstallPackages(PyMOLPackage)
}

// defaultPipelineDir derives a checkout directory name from the repo URL.
func defaultPipelineDir(repoURL string) string {
	base := filepath.Base(repoURL)
	return strings.TrimSuffix(base, ".git")
}
