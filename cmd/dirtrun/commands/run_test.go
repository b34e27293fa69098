package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maybeConsulClient must degrade to nil rather than panic when there is no
// config/server.yaml reachable from the test binary's working directory
// (config.GetServerConfig panics on a missing/unreadable file).
func TestMaybeConsulClientDegradesWhenServerConfigMissing(t *testing.T) {
	assert.Nil(t, maybeConsulClient())
}

func TestRunListAppsPrintsDeclaredNamesSorted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dirt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
apps:
  zeta:
    app_class: dirt.examples.Zeta
  alpha:
    app_class: dirt.examples.Alpha
`), 0644))

	oldCfg, oldList := cfgFile, flagListApps
	cfgFile, flagListApps = path, true
	defer func() { cfgFile, flagListApps = oldCfg, oldList }()

	var out bytes.Buffer
	runCmd.SetOut(&out)
	require.NoError(t, runRun(runCmd, nil))

	assert.Equal(t, "alpha\nzeta\n", out.String())
}

func TestRunErrorsWhenNoAppNamesAndNoFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dirt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apps: {}\n"), 0644))

	oldCfg, oldList := cfgFile, flagListApps
	cfgFile, flagListApps = path, false
	defer func() { cfgFile, flagListApps = oldCfg, oldList }()

	err := runRun(runCmd, nil)
	require.Error(t, err)
}
