package hardware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quanta/pkg/circuit"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

func bellCircuit(t *testing.T) types.Circuit {
	t.Helper()
	c, err := circuit.BellPair(true)
	require.NoError(t, err)
	return c
}

// fakeService is a minimal in-memory job API.
type fakeService struct {
	mu          atomic.Int64
	pollsBefore int64 // polls that report running before completing
	counts      map[string]int
	gotQASM     string
	cancelled   atomic.Bool
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.gotQASM = req.QASM
		json.NewEncoder(w).Encode(submitResponse{ID: "job-1"})
	})
	mux.HandleFunc("GET /jobs/job-1", func(w http.ResponseWriter, r *http.Request) {
		status := statusRunning
		if f.mu.Add(1) > f.pollsBefore {
			status = statusCompleted
		}
		json.NewEncoder(w).Encode(jobStatus{ID: "job-1", Status: status})
	})
	mux.HandleFunc("GET /jobs/job-1/result", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobResult{Counts: f.counts})
	})
	mux.HandleFunc("DELETE /jobs/job-1", func(w http.ResponseWriter, r *http.Request) {
		f.cancelled.Store(true)
	})
	return mux
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(Config{
		Identifier:   "test-device",
		BaseURL:      url,
		MaxQubits:    5,
		PollInterval: 5 * time.Millisecond,
	}, nil)
	require.NoError(t, err)
	return c
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing identifier", Config{BaseURL: "http://x", MaxQubits: 2}},
		{"missing base URL", Config{Identifier: "d", MaxQubits: 2}},
		{"zero qubits", Config{Identifier: "d", BaseURL: "http://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, nil)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestRunSubmitsPollsAndReturnsCounts(t *testing.T) {
	svc := &fakeService{pollsBefore: 2, counts: map[string]int{"00": 480, "11": 520}}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	result, err := client.Run(context.Background(), bellCircuit(t), types.RunOptions{Shots: 1000})
	require.NoError(t, err)

	assert.Equal(t, "test-device", result.BackendID)
	assert.Equal(t, 1000, result.Shots)
	assert.Equal(t, svc.counts, result.Counts)
	assert.Positive(t, result.Elapsed)
	assert.True(t, strings.Contains(svc.gotQASM, "OPENQASM 2.0"))
	assert.NoError(t, result.Validate(1000))
}

func TestRunRejectsUnsupportedGate(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c, err := circuit.NewBuilder(1, 1).
		AddUnitary([]int{0}, []complex128{1, 0, 0, 1}).
		AddMeasurement(0, 0).
		Build()
	require.NoError(t, err)

	client := newTestClient(t, srv.URL)
	_, err = client.Run(context.Background(), c, types.RunOptions{Shots: 10})
	assert.ErrorIs(t, err, types.ErrUnsupportedGate)
}

func TestRunRejectsQubitLimit(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c, err := circuit.GHZState(6, true)
	require.NoError(t, err)

	client := newTestClient(t, srv.URL)
	_, err = client.Run(context.Background(), c, types.RunOptions{Shots: 10})
	assert.ErrorIs(t, err, types.ErrQubitLimit)
}

func TestRunServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Run(context.Background(), bellCircuit(t), types.RunOptions{Shots: 10})
	assert.ErrorIs(t, err, types.ErrTransient)
}

func TestRunClientErrorIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Run(context.Background(), bellCircuit(t), types.RunOptions{Shots: 10})
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrTransient)
}

func TestRunFailedJobReportsReason(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(submitResponse{ID: "job-1"})
	})
	mux.HandleFunc("GET /jobs/job-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobStatus{ID: "job-1", Status: statusFailed, Error: "calibration drift"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Run(context.Background(), bellCircuit(t), types.RunOptions{Shots: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calibration drift")
}

func TestRunCancellationCancelsJob(t *testing.T) {
	svc := &fakeService{pollsBefore: 1 << 30, counts: map[string]int{}}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Run(ctx, bellCircuit(t), types.RunOptions{Shots: 10})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Eventually(t, svc.cancelled.Load, time.Second, 5*time.Millisecond)
}

func TestEncodeCachesByFingerprint(t *testing.T) {
	client := newTestClient(t, "http://unused")
	c := bellCircuit(t)

	first, err := client.encode(c)
	require.NoError(t, err)
	second, err := client.encode(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.qasmCache.Len())
}

func TestDescribeExcludesUnitary(t *testing.T) {
	client := newTestClient(t, "http://unused")
	d := client.Describe()
	assert.False(t, d.Supports(types.GateUnitary))
	assert.True(t, d.Supports(types.GateH))
	assert.False(t, d.IsSimulator)
	assert.Equal(t, 5, d.MaxQubits)
}
