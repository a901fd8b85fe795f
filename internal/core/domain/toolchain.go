package domain

import (
	"runtime"
	"strings"

	"go.trai.ch/zerr"
)

// Toolchain identifies one of the supported compiler command grammars.
type Toolchain int

const (
	// ToolchainGcc is the GCC family (gcc + ar).
	ToolchainGcc Toolchain = iota
	// ToolchainClang is the Clang family, sharing GCC flag syntax.
	ToolchainClang
	// ToolchainMsvc is the MSVC family (cl + lib) with its own flag syntax.
	ToolchainMsvc
)

// String returns the toolchain name as accepted on the command line.
func (t Toolchain) String() string {
	switch t {
	case ToolchainGcc:
		return "gcc"
	case ToolchainClang:
		return "clang"
	case ToolchainMsvc:
		return "msvc"
	default:
		return "unknown"
	}
}

// ParseToolchain parses a toolchain name, restricted to the set valid on the
// host platform: gcc/clang on unix-like systems, msvc/clang on Windows.
func ParseToolchain(name string) (Toolchain, error) {
	return parseToolchainFor(name, runtime.GOOS)
}

func parseToolchainFor(name, goos string) (Toolchain, error) {
	windows := goos == "windows"
	switch name {
	case "clang":
		return ToolchainClang, nil
	case "gcc":
		if windows {
			return 0, zerr.With(ErrUnknownToolchain, "toolchain", name)
		}
		return ToolchainGcc, nil
	case "msvc":
		if !windows {
			return 0, zerr.With(ErrUnknownToolchain, "toolchain", name)
		}
		return ToolchainMsvc, nil
	default:
		return 0, zerr.With(ErrUnknownToolchain, "toolchain", name)
	}
}

// BuildMode selects the optimization level of a build.
type BuildMode int

const (
	// ModeDebug compiles with debug symbols.
	ModeDebug BuildMode = iota
	// ModeRelease compiles with full optimization.
	ModeRelease
)

// String returns the mode name as accepted on the command line.
func (m BuildMode) String() string {
	if m == ModeRelease {
		return "release"
	}
	return "debug"
}

// ParseBuildMode parses "debug" or "release".
func ParseBuildMode(name string) (BuildMode, error) {
	switch name {
	case "debug":
		return ModeDebug, nil
	case "release":
		return ModeRelease, nil
	default:
		return 0, zerr.With(ErrUnknownBuildMode, "mode", name)
	}
}

// IsPreprocessed reports whether a path names a preprocessed intermediate.
func IsPreprocessed(path string) bool {
	return strings.HasSuffix(path, ".i") || strings.HasSuffix(path, ".ii")
}

// CompileCommand constructs a single compiler invocation for the given
// toolchain and build mode. The step kind is inferred from the output path:
// a .i/.ii output selects preprocess-only mode, a .obj output selects
// compile-to-object, anything else is a link. A non-empty linkFlags string
// also forces a link step and gets toolchain-specific prefixing.
//
// The function is pure: the same inputs always yield the same command.
func CompileCommand(tc Toolchain, mode BuildMode, flags, inputPath, outputPath, linkFlags string) (string, error) {
	var cmd strings.Builder

	switch tc {
	case ToolchainGcc:
		cmd.WriteString("gcc")
	case ToolchainClang:
		cmd.WriteString("clang")
	case ToolchainMsvc:
		cmd.WriteString("cl /nologo /diagnostics:column /FC")
	}

	if mode == ModeRelease {
		if tc == ToolchainMsvc {
			cmd.WriteString(" /O2")
		} else {
			cmd.WriteString(" -Ofast")
		}
	} else {
		if tc == ToolchainMsvc {
			cmd.WriteString(" /Zi")
		} else {
			cmd.WriteString(" -g")
		}
	}

	inPreprocessed := IsPreprocessed(inputPath)
	outPreprocess := IsPreprocessed(outputPath)
	if outPreprocess && inPreprocessed {
		return "", zerr.With(ErrPreprocessedInput, "input", inputPath)
	}

	if outPreprocess {
		switch tc {
		case ToolchainGcc, ToolchainClang:
			cmd.WriteString(" -E")
		case ToolchainMsvc:
			cmd.WriteString(" /P /Fi" + outputPath)
		}
	}
	if inPreprocessed {
		switch tc {
		case ToolchainGcc:
			cmd.WriteString(" -fpreprocessed")
		case ToolchainClang:
			// clang preprocesses .i inputs without an explicit flag
		case ToolchainMsvc:
			cmd.WriteString(" /Yc")
		}
	}

	if flags != "" {
		cmd.WriteString(" " + flags)
	}

	isObj := strings.HasSuffix(outputPath, ObjectExt)
	if isObj {
		cmd.WriteString(" -c")
	}

	switch tc {
	case ToolchainGcc, ToolchainClang:
		cmd.WriteString(" " + inputPath + " -o " + outputPath)
	case ToolchainMsvc:
		cmd.WriteString(" /Fd" + ReplaceExt(outputPath, ".pdb"))
		cmd.WriteString(" " + inputPath)
		objPath := outputPath
		if !isObj {
			objPath = ReplaceExt(outputPath, ObjectExt)
		}
		cmd.WriteString(" /Fo" + objPath)
		if !isObj && !outPreprocess {
			cmd.WriteString(" /Fe" + outputPath)
		}
	}

	if linkFlags != "" {
		if tc == ToolchainMsvc {
			cmd.WriteString(" -link -incremental:no " + linkFlags)
		} else {
			cmd.WriteString(" " + linkFlags)
		}
	}

	return cmd.String(), nil
}

// ArchiveCommand constructs the archiver invocation that bundles the given
// object files into a static library.
func ArchiveCommand(tc Toolchain, archivePath string, objectPaths []string) string {
	objs := strings.Join(objectPaths, " ")
	if tc == ToolchainMsvc {
		return "lib /nologo -out:" + archivePath + " " + objs
	}
	return "ar rcs " + archivePath + " " + objs
}
