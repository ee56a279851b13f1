package provision

import (
	"fmt"

	"github.com/foldeval/refold/pkg/exec"
)

// ExternalTool describes a host tool the setup sequence depends on.
type ExternalTool interface {
	// Name is the human-readable tool name.
	Name() string

	// BinaryName is the executable looked up on PATH.
	BinaryName() string

	// InstallUrl points at installation instructions shown when the
	// tool is missing.
	InstallUrl() string

	// CheckInstalled reports whether the tool is available.
	CheckInstalled() (bool, error)
}

// GitCli wraps the git executable.
type GitCli struct {
	executor exec.CommandExecutor
}

func NewGitCli(executor exec.CommandExecutor) *GitCli {
	return &GitCli{executor: executor}
}

func (g *GitCli) Name() string       { return "Git" }
func (g *GitCli) BinaryName() string { return "git" }
func (g *GitCli) InstallUrl() string { return "https://git-scm.com/downloads" }

func (g *GitCli) CheckInstalled() (bool, error) {
	if _, err := g.executor.LookPath(g.BinaryName()); err != nil {
		return false, err
	}
	return true, nil
}

// Clone checks out url into dir. An empty branch means the default branch.
func (g *GitCli) Clone(url, branch, dir string) error {
	args := []string{"clone"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dir)
	if err := g.executor.Execute(g.BinaryName(), args...); err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}

// Pull fast-forwards an existing checkout.
func (g *GitCli) Pull(dir string) error {
	if err := g.executor.ExecuteWith(exec.Options{Dir: dir}, g.BinaryName(), "pull", "--ff-only"); err != nil {
		return fmt.Errorf("updating checkout %s: %w", dir, err)
	}
	return nil
}

// PythonCli wraps the python interpreter and its pip module.
type PythonCli struct {
	executor exec.CommandExecutor
	binary   string
}

func NewPythonCli(executor exec.CommandExecutor, binary string) *PythonCli {
	if binary == "" {
		binary = "python3"
	}
	return &PythonCli{executor: executor, binary: binary}
}

func (p *PythonCli) Name() string       { return "Python" }
func (p *PythonCli) BinaryName() string { return p.binary }
func (p *PythonCli) InstallUrl() string { return "https://www.python.org/downloads/" }

func (p *PythonCli) CheckInstalled() (bool, error) {
	if _, err := p.executor.LookPath(p.BinaryName()); err != nil {
		return false, err
	}
	return true, nil
}

// InstallRequirements runs pip against the requirements file of a checkout.
func (p *PythonCli) InstallRequirements(dir string) error {
	err := p.executor.ExecuteWith(exec.Options{Dir: dir},
		p.binary, "-m", "pip", "install", "-r", "requirements.txt")
	if err != nil {
		return fmt.Errorf("installing pipeline dependencies, %w", err)
	}
	return nil
}

// InstallPackages installs the named packages with pip.
func (p *PythonCli) InstallPackages(pkgs ...string) error {
	args := append([]string{"-m", "pip", "install"}, pkgs...)
	if err := p.executor.Execute(p.binary, args...); err != nil {
		return fmt.Errorf("installing %v, %w", pkgs, err)
	}
	return nil
}

// CanImport reports whether a Python module is importable in the
// current interpreter, used to skip installs that already happened.
func (p *PythonCli) CanImport(module string) bool {
	err := p.executor.Execute(p.binary, "-c", "import "+module)
	return err == nil
}
