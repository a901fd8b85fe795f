package planner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/adapters/compilelog"
	"go.trai.ch/mason/internal/adapters/fs"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/core/ports/mocks"
	"go.trai.ch/mason/internal/engine/planner"
	"go.uber.org/mock/gomock"
)

// preprocess mimics the compiler's -E step on a tiny C subset: local
// quoted includes are inlined and // comments are dropped, so the hash
// tracks semantic content the way real preprocessor output does.
func preprocess(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(trimmed, `#include "`); ok {
			header := filepath.Join(filepath.Dir(path), strings.TrimSuffix(name, `"`))
			out.WriteString(preprocess(t, header))
			continue
		}
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		out.WriteString(strings.TrimRight(line, " \t"))
		out.WriteByte('\n')
	}
	return out.String()
}

// newPreprocessExecutor returns a MockExecutor whose Start runs the fake
// preprocessor over the command's input and writes the -o output, so the
// real hasher sees preprocessed content rather than raw source bytes.
func newPreprocessExecutor(t *testing.T, ctrl *gomock.Controller) *mocks.MockExecutor {
	t.Helper()

	executor := mocks.NewMockExecutor(ctrl)
	executor.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, command string) (ports.Process, error) {
			argv := strings.Fields(command)
			out := ""
			in := ""
			for i, arg := range argv {
				if arg == "-o" && i > 0 && i+1 < len(argv) {
					in = argv[i-1]
					out = argv[i+1]
				}
			}
			require.NotEmpty(t, out, "command has no -o output: %s", command)

			require.NoError(t, os.WriteFile(out, []byte(preprocess(t, in)), 0o600))

			proc := mocks.NewMockProcess(ctrl)
			proc.EXPECT().Wait().Return(nil).AnyTimes()
			return proc, nil
		},
	).AnyTimes()
	executor.EXPECT().WaitAll(gomock.Any()).DoAndReturn(
		func(procs []ports.Process) error {
			var errs error
			for _, p := range procs {
				errs = errors.Join(errs, p.Wait())
			}
			return errs
		},
	).AnyTimes()
	return executor
}

type plannerEnv struct {
	planner *planner.Planner
	store   *compilelog.Store
	bctx    *domain.BuildContext
	srcDir  string
	objDir  string
	logPath string
}

func newPlannerEnv(t *testing.T) *plannerEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	objDir := filepath.Join(tmpDir, "out", "core")
	require.NoError(t, os.MkdirAll(srcDir, 0o750))
	require.NoError(t, os.MkdirAll(objDir, 0o750))

	store := compilelog.NewStore()
	p := planner.New(newPreprocessExecutor(t, ctrl), fs.NewHasher(), store)

	return &plannerEnv{
		planner: p,
		store:   store,
		bctx: &domain.BuildContext{
			Toolchain: domain.ToolchainGcc,
			Mode:      domain.ModeDebug,
			RootDir:   tmpDir,
			OutDir:    filepath.Join(tmpDir, "out"),
		},
		srcDir:  srcDir,
		objDir:  objDir,
		logPath: filepath.Join(tmpDir, "out", domain.LogFileName),
	}
}

func (e *plannerEnv) writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.srcDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (e *plannerEnv) targetBuild(flags string, sources ...string) *domain.TargetBuild {
	return &domain.TargetBuild{
		Target:  domain.Target{Name: "core", Root: e.srcDir, Flags: flags},
		ObjDir:  e.objDir,
		Sources: sources,
	}
}

// plan runs one full planning pass and persists the compile log, the way a
// successful build would, so the next pass sees it as the prior run.
func (e *plannerEnv) plan(t *testing.T, tb *domain.TargetBuild) *planner.Plan {
	t.Helper()
	plan, err := e.planner.Plan(context.Background(), e.bctx, tb)
	require.NoError(t, err)
	require.NoError(t, e.store.Flush(e.logPath))
	require.NoError(t, e.store.Load(e.logPath))
	return plan
}

// compilePlanned simulates the compile step by creating the planned object
// files.
func compilePlanned(t *testing.T, plan *planner.Plan) {
	t.Helper()
	for _, c := range plan.Recompile {
		require.NoError(t, os.WriteFile(c.Object, []byte("obj"), 0o600))
	}
}

func TestPlanner_FirstRunRecompilesEverything(t *testing.T) {
	env := newPlannerEnv(t)
	a := env.writeSource(t, "a.c", "int a;")
	b := env.writeSource(t, "b.c", "int b;")
	tb := env.targetBuild("", a, b)

	plan := env.plan(t, tb)

	require.Len(t, plan.Recompile, 2)
	assert.Equal(t, a, plan.Recompile[0].Source)
	assert.Equal(t, filepath.Join(env.objDir, "a.obj"), plan.Recompile[0].Object)
	assert.Contains(t, plan.Recompile[0].Command, " -c ")

	// Objects are derived for every source, index-aligned.
	require.Len(t, tb.Objects, 2)
	assert.Equal(t, filepath.Join(env.objDir, "b.obj"), tb.Objects[1])
}

func TestPlanner_UnchangedRunRecompilesNothing(t *testing.T) {
	env := newPlannerEnv(t)
	a := env.writeSource(t, "a.c", "int a;")
	b := env.writeSource(t, "b.c", "int b;")

	first := env.plan(t, env.targetBuild("", a, b))
	compilePlanned(t, first)

	second := env.plan(t, env.targetBuild("", a, b))
	assert.Empty(t, second.Recompile)
}

func TestPlanner_ContentChangeRecompilesOneObject(t *testing.T) {
	env := newPlannerEnv(t)
	a := env.writeSource(t, "a.c", "int a;")
	b := env.writeSource(t, "b.c", "int b;")

	first := env.plan(t, env.targetBuild("", a, b))
	compilePlanned(t, first)

	env.writeSource(t, "b.c", "int b = 1;")
	second := env.plan(t, env.targetBuild("", a, b))

	require.Len(t, second.Recompile, 1)
	assert.Equal(t, b, second.Recompile[0].Source)
}

func TestPlanner_CommentOnlyEditDoesNotRecompile(t *testing.T) {
	env := newPlannerEnv(t)
	a := env.writeSource(t, "a.c", "int a; // counts things\n")

	first := env.plan(t, env.targetBuild("", a))
	compilePlanned(t, first)

	// Reworded comment, identical preprocessed output.
	env.writeSource(t, "a.c", "int a; // tracks things\n")
	second := env.plan(t, env.targetBuild("", a))
	assert.Empty(t, second.Recompile)
}

func TestPlanner_HeaderEditRecompilesIncluder(t *testing.T) {
	env := newPlannerEnv(t)
	env.writeSource(t, "a.h", "#define LIMIT 1\n")
	a := env.writeSource(t, "a.c", "#include \"a.h\"\nint a = LIMIT;\n")
	b := env.writeSource(t, "b.c", "int b;\n")

	first := env.plan(t, env.targetBuild("", a, b))
	compilePlanned(t, first)

	// The header is not a source of the target, but its content reaches
	// a.c through preprocessing; only a.c must rebuild.
	env.writeSource(t, "a.h", "#define LIMIT 2\n")
	second := env.plan(t, env.targetBuild("", a, b))

	require.Len(t, second.Recompile, 1)
	assert.Equal(t, a, second.Recompile[0].Source)
}

func TestPlanner_FlagChangeRecompilesEverything(t *testing.T) {
	env := newPlannerEnv(t)
	a := env.writeSource(t, "a.c", "int a;")

	first := env.plan(t, env.targetBuild("", a))
	compilePlanned(t, first)

	second := env.plan(t, env.targetBuild("-Wall", a))
	require.Len(t, second.Recompile, 1)
}

func TestPlanner_MissingObjectRecompiles(t *testing.T) {
	env := newPlannerEnv(t)
	a := env.writeSource(t, "a.c", "int a;")

	first := env.plan(t, env.targetBuild("", a))
	compilePlanned(t, first)
	require.NoError(t, os.Remove(filepath.Join(env.objDir, "a.obj")))

	second := env.plan(t, env.targetBuild("", a))
	require.Len(t, second.Recompile, 1)
}

func TestPlanner_ObjectCollision(t *testing.T) {
	env := newPlannerEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.srcDir, "compat"), 0o750))
	a := env.writeSource(t, "a.c", "int a;")
	dup := filepath.Join(env.srcDir, "compat", "a.c")
	require.NoError(t, os.WriteFile(dup, []byte("int a2;"), 0o600))

	_, err := env.planner.Plan(context.Background(), env.bctx, env.targetBuild("", a, dup))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrObjectCollision))
}

func TestPlanner_HashFailureFailsPlanning(t *testing.T) {
	env := newPlannerEnv(t)
	a := env.writeSource(t, "a.c", "int a;")
	tb := env.targetBuild("", a)

	ctrl := gomock.NewController(t)
	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().HashFile(gomock.Any()).Return(uint64(0), errors.New("read error"))

	p := planner.New(newPreprocessExecutor(t, ctrl), hasher, env.store)
	_, err := p.Plan(context.Background(), env.bctx, tb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to hash preprocessed output")

	// Nothing gets recorded for a run that could not be planned.
	require.NoError(t, env.store.Flush(env.logPath))
	reloaded := compilelog.NewStore()
	require.NoError(t, reloaded.Load(env.logPath))
	_, ok := reloaded.Prev(filepath.Join(env.objDir, "a.obj"))
	assert.False(t, ok)
}

func TestPlanner_PreprocessedIntermediatesLandInObjDir(t *testing.T) {
	env := newPlannerEnv(t)
	a := env.writeSource(t, "a.c", "int a;")

	env.plan(t, env.targetBuild("", a))

	_, err := os.Stat(filepath.Join(env.objDir, "a.i"))
	require.NoError(t, err)
}
