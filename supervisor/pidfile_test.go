package supervisor

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRemovePIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.pid")
	require.NoError(t, WritePIDFile(path))

	pid, err := ReadPIDFile(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	RemovePIDFile(path)
	_, err = ReadPIDFile(path)
	require.Error(t, err)
}

func TestReadPIDFileRejectsMalformedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0644))
	_, err := ReadPIDFile(path)
	require.Error(t, err)
}

func TestIsAliveTrueForSelf(t *testing.T) {
	assert.True(t, IsAlive(os.Getpid()))
}

func TestIsAliveFalseForImprobablePID(t *testing.T) {
	assert.False(t, IsAlive(1<<30))
}

func TestStopWithMissingPIDFileLogsAndReturnsNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.pid")
	var logged string
	err := Stop(path, func(format string, args ...any) { logged += format })
	require.NoError(t, err)
	assert.Contains(t, logged, "doesn't appear to be running")
}

func TestStopSignalsAndRemovesPIDFileForALiveProcess(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	path := filepath.Join(t.TempDir(), "sleeper.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0644))

	err := Stop(path, func(format string, args ...any) {})
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "Stop should remove the pidfile once the process exits")
}
