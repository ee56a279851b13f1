package exec

import (
	"fmt"
	"os"
	"os/exec"
)

// ExecError wraps an execution error with the command output
type ExecError struct {
	Err    error
	Output string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Output)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// RealCommandExecutor implements CommandExecutor using the actual os/exec package.
// This is the production implementation that executes real system commands.
type RealCommandExecutor struct{}

// LookPath searches for an executable named file in the directories
// named by the PATH environment variable.
func (e *RealCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Execute runs the command with the given name and arguments.
// It waits for the command to complete and returns any error.
func (e *RealCommandExecutor) Execute(name string, arg ...string) error {
	return e.ExecuteWith(Options{}, name, arg...)
}

// ExecuteWith runs the command with explicit working directory, extra
// environment, and output streaming.
func (e *RealCommandExecutor) ExecuteWith(opts Options, name string, arg ...string) error {
	cmd := exec.Command(name, arg...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	if opts.Output != nil {
		// Stream output directly to the provided writer.
		cmd.Stdout = opts.Output
		cmd.Stderr = opts.Output
		if err := cmd.Run(); err != nil {
			exitCode := -1
			if cmd.ProcessState != nil {
				exitCode = cmd.ProcessState.ExitCode()
			}
			return fmt.Errorf("command failed (exit code: %d): %w", exitCode, err)
		}
		return nil
	}

	// Capture stderr to include in error messages
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Include the output in the error so we can check for specific error messages
		return &ExecError{
			Err:    err,
			Output: string(output),
		}
	}
	return nil
}
