package telemetry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/adapters/telemetry"
)

func TestNoop(t *testing.T) {
	n := telemetry.NewNoop()

	vtx := n.StartTarget("core")
	require.NotNil(t, vtx)

	// Every vertex operation is safe and absorbs its input.
	count, err := vtx.Stdout().Write([]byte("gcc -g -c a.c -o a.obj\n"))
	require.NoError(t, err)
	assert.Equal(t, 23, count)
	vtx.Cached()
	vtx.Done(nil)
	vtx.Done(errors.New("late failure"))

	require.NoError(t, n.Close())
}
