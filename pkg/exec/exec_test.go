package exec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecError(t *testing.T) {
	inner := errors.New("exit status 2")
	err := &ExecError{Err: inner, Output: "Traceback (most recent call last)"}

	assert.Contains(t, err.Error(), "exit status 2")
	assert.Contains(t, err.Error(), "Traceback")
	assert.ErrorIs(t, err, inner)
}

func TestMockRecordsCommands(t *testing.T) {
	m := &MockCommandExecutor{}

	require.NoError(t, m.Execute("git", "clone", "repo"))
	require.NoError(t, m.ExecuteWith(Options{Dir: "/work"}, "python3", "-m", "pip", "install", "-r", "requirements.txt"))

	require.Len(t, m.Commands, 2)
	assert.Equal(t, "git clone repo", m.Commands[0])
	assert.Equal(t, "python3 -m pip install -r requirements.txt", m.Commands[1])
	assert.Equal(t, []string{"", "/work"}, m.Dirs)
}

func TestMockLookPathDefault(t *testing.T) {
	m := &MockCommandExecutor{}
	path, err := m.LookPath("pymol")
	require.NoError(t, err)
	assert.Equal(t, "/path/to/pymol", path)
}
