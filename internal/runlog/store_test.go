package runlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Record(Entry{
		BackendID:   "statevector-sim",
		Fingerprint: 0xdeadbeef,
		Shots:       1000,
		Counts:      map[string]int{"00": 480, "11": 520},
		Elapsed:     42 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "statevector-sim", got.BackendID)
	assert.Equal(t, uint64(0xdeadbeef), got.Fingerprint)
	assert.Equal(t, 1000, got.Shots)
	assert.Equal(t, map[string]int{"00": 480, "11": 520}, got.Counts)
	assert.Equal(t, 42*time.Millisecond, got.Elapsed)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRecordValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name  string
		entry Entry
	}{
		{"missing backend", Entry{Shots: 10}},
		{"negative shots", Entry{BackendID: "sim", Shots: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Record(tt.entry)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestGetMissingRun(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListNewestFirstWithFilterAndLimit(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, backend := range []string{"sim", "device", "sim"} {
		_, err := s.Record(Entry{
			BackendID: backend,
			Shots:     100 + i,
			Counts:    map[string]int{"0": 100 + i},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	all, err := s.List("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 102, all[0].Shots)
	assert.Equal(t, 100, all[2].Shots)

	sims, err := s.List("sim", 0)
	require.NoError(t, err)
	require.Len(t, sims, 2)
	for _, e := range sims {
		assert.Equal(t, "sim", e.BackendID)
	}

	limited, err := s.List("", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 102, limited[0].Shots)
}

func TestRecordResult(t *testing.T) {
	s := newTestStore(t)

	c := types.Circuit{QubitCount: 1, ClassicalBitCount: 1}
	id, err := s.RecordResult(c, types.ExecutionResult{
		BackendID: "sim",
		Shots:     50,
		Counts:    map[string]int{"0": 50},
		Elapsed:   time.Millisecond,
	})
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, c.Fingerprint(), got.Fingerprint)
	assert.Equal(t, 50, got.Shots)
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)

	cutoff := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	old := Entry{BackendID: "sim", Shots: 1, Counts: map[string]int{"0": 1}, CreatedAt: cutoff.Add(-time.Hour)}
	recent := Entry{BackendID: "sim", Shots: 1, Counts: map[string]int{"0": 1}, CreatedAt: cutoff.Add(time.Hour)}

	_, err := s.Record(old)
	require.NoError(t, err)
	keepID, err := s.Record(recent)
	require.NoError(t, err)

	removed, err := s.Prune(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := s.List("", 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keepID, remaining[0].ID)
}

func TestCloseIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Record(Entry{BackendID: "sim", Counts: map[string]int{}})
	assert.Error(t, err)
}
