package exec

import "io"

// Options controls how a command is run.
type Options struct {
	// Dir is the working directory for the command. Empty means the
	// current process's working directory.
	Dir string

	// Env holds extra environment entries in "KEY=value" form, appended
	// to the current process environment.
	Env []string

	// Output receives the combined stdout/stderr stream while the
	// command runs. Nil means output is captured and only surfaced on
	// error.
	Output io.Writer
}

// CommandExecutor defines an interface for running external commands.
// This abstraction allows for easier testing by providing a mockable interface.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the directories
	// named by the PATH environment variable.
	LookPath(file string) (string, error)

	// Execute runs the command with the given name and arguments.
	// It waits for the command to complete and returns any error.
	Execute(name string, arg ...string) error

	// ExecuteWith runs the command with explicit options. It waits for
	// the command to complete and returns any error.
	ExecuteWith(opts Options, name string, arg ...string) error
}
