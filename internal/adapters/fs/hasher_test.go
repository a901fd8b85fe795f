package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/adapters/fs"
)

func TestHasher_HashFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.i")
	require.NoError(t, os.WriteFile(path, []byte("int main(void) { return 0; }"), 0o600))

	hasher := fs.NewHasher()

	first, err := hasher.HashFile(path)
	require.NoError(t, err)
	assert.NotZero(t, first)

	// Same content, same hash.
	second, err := hasher.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Changed content, changed hash.
	require.NoError(t, os.WriteFile(path, []byte("int main(void) { return 1; }"), 0o600))
	third, err := hasher.HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestHasher_HashFile_Missing(t *testing.T) {
	hasher := fs.NewHasher()
	_, err := hasher.HashFile(filepath.Join(t.TempDir(), "nope.i"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}
