// Package integration exercises the full stack: builder, backend
// manager, simulator, hardware proxy, and run history together.
package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quanta/internal/runlog"
	"github.com/mesh-intelligence/quanta/internal/simulator"
	"github.com/mesh-intelligence/quanta/pkg/backend"
)

// stack is one isolated manager + run history pair.
type stack struct {
	Manager *backend.Manager
	Store   *runlog.Store
}

// newStack registers a simulator under "sim" and opens a run history in a
// temp directory.
func newStack(t *testing.T) *stack {
	t.Helper()

	mgr := backend.NewManager()
	require.NoError(t, mgr.Register("sim", simulator.New()))

	store, err := runlog.Open(filepath.Join(t.TempDir(), "runs.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &stack{Manager: mgr, Store: store}
}
