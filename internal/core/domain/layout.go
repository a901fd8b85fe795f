package domain

import (
	"path/filepath"
	"strings"
)

const (
	// LogFileName is the name of the compile log kept in each output directory.
	LogFileName = "log.csv"

	// ObjectExt is the extension used for object files on every toolchain.
	ObjectExt = ".obj"

	// DirPerm is the default permission for created directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for written files (rw-r--r--).
	FilePerm = 0o644
)

// OutputDirName returns the per-configuration build output directory name,
// e.g. "build-gcc-debug".
func OutputDirName(tc Toolchain, mode BuildMode) string {
	return "build-" + tc.String() + "-" + mode.String()
}

// ArchiveFileName returns the static library file name for a target.
func ArchiveFileName(tc Toolchain, name string) string {
	if tc == ToolchainMsvc {
		return name + ".lib"
	}
	return name + ".a"
}

// ReplaceExt swaps the extension of path for ext. ext must include the
// leading dot. A path without an extension gets ext appended.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// ObjectPath derives the object file path for a source file: the source's
// base name with its extension replaced, under the target's object
// directory. Two sources with the same base name therefore collide; the
// planner rejects that as a configuration error.
func ObjectPath(objDir, sourcePath string) string {
	return filepath.Join(objDir, ReplaceExt(filepath.Base(sourcePath), ObjectExt))
}
