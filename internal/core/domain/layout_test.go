package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mason/internal/core/domain"
)

func TestOutputDirName(t *testing.T) {
	assert.Equal(t, "build-gcc-debug", domain.OutputDirName(domain.ToolchainGcc, domain.ModeDebug))
	assert.Equal(t, "build-clang-release", domain.OutputDirName(domain.ToolchainClang, domain.ModeRelease))
	assert.Equal(t, "build-msvc-release", domain.OutputDirName(domain.ToolchainMsvc, domain.ModeRelease))
}

func TestArchiveFileName(t *testing.T) {
	assert.Equal(t, "core.a", domain.ArchiveFileName(domain.ToolchainGcc, "core"))
	assert.Equal(t, "core.a", domain.ArchiveFileName(domain.ToolchainClang, "core"))
	assert.Equal(t, "core.lib", domain.ArchiveFileName(domain.ToolchainMsvc, "core"))
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "a.obj", domain.ReplaceExt("a.c", ".obj"))
	assert.Equal(t, "a.obj", domain.ReplaceExt("a.cpp", ".obj"))
	assert.Equal(t, "noext.obj", domain.ReplaceExt("noext", ".obj"))
	assert.Equal(t, filepath.Join("dir", "a.pdb"), domain.ReplaceExt(filepath.Join("dir", "a.obj"), ".pdb"))
}

func TestObjectPath(t *testing.T) {
	got := domain.ObjectPath(filepath.Join("out", "core"), filepath.Join("src", "math.c"))
	assert.Equal(t, filepath.Join("out", "core", "math.obj"), got)

	// Only the base name matters, so differently-rooted sources with the
	// same stem collide.
	other := domain.ObjectPath(filepath.Join("out", "core"), filepath.Join("vendor", "math.cpp"))
	assert.Equal(t, got, other)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "NotStarted", domain.StatusNotStarted.String())
	assert.Equal(t, "Running", domain.StatusRunning.String())
	assert.Equal(t, "Succeeded", domain.StatusSucceeded.String())
	assert.Equal(t, "Failed", domain.StatusFailed.String())
}
