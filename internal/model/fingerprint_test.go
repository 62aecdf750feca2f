// internal/model/fingerprint_test.go
package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeData(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestComputeFingerprint(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir, "a.csv", "alpha")
	writeData(t, dir, "b.csv", "bravo")

	fp1, err := ComputeFingerprint(dir, []string{"a.csv", "b.csv"})
	require.NoError(t, err)
	assert.Len(t, fp1, 64)

	t.Run("file order does not matter", func(t *testing.T) {
		fp2, err := ComputeFingerprint(dir, []string{"b.csv", "a.csv"})
		require.NoError(t, err)
		assert.Equal(t, fp1, fp2)
	})

	t.Run("content change changes the hash", func(t *testing.T) {
		writeData(t, dir, "a.csv", "alpha2")
		fp3, err := ComputeFingerprint(dir, []string{"a.csv", "b.csv"})
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp3)
	})

	t.Run("missing files are skipped", func(t *testing.T) {
		fpAll, err := ComputeFingerprint(dir, []string{"b.csv", "nope.csv"})
		require.NoError(t, err)
		fpOne, err := ComputeFingerprint(dir, []string{"b.csv"})
		require.NoError(t, err)
		assert.Equal(t, fpOne, fpAll)
	})
}
