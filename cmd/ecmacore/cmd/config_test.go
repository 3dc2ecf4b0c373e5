package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigEmptyPath(t *testing.T) {
	limits, err := loadConfig("")
	require.NoError(t, err)
	require.Zero(t, limits.MaxLoopIterations)
	require.Zero(t, limits.MinTimerResolutionMS)
}

func TestLoadConfigParsesLimits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ecmacore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  maxLoopIterations: 42\n  minTimerResolutionMs: 4\n"), 0o644))

	limits, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, uint64(42), limits.MaxLoopIterations)
	require.Equal(t, 4, limits.MinTimerResolutionMS)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig("/nonexistent/path/ecmacore.yaml")
	require.Error(t, err)
}
