package cli

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// chdirTemp switches into a fresh temp directory for the test and restores
// the original working directory afterwards.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { os.Chdir(originalDir) })
	return tmpDir
}

// initProject runs qf init in the current directory.
func initProject(t *testing.T, name string) {
	t.Helper()
	initDescription = ""
	initVersion = "0.1.0"
	require.NoError(t, runInit(initCmd, []string{name}))
}

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}
