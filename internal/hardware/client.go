// Package hardware implements a proxy backend for a remote execution
// service. Circuits are encoded as OpenQASM 2.0, submitted as jobs over
// HTTP, and polled until completion. Connectivity failures surface as
// transient errors so the backend manager's bounded retry applies.
package hardware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/quanta/pkg/circuit"
	"github.com/mesh-intelligence/quanta/pkg/types"
)

// Job states reported by the remote service.
const (
	statusQueued    = "queued"
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultTimeout      = 30 * time.Second
	qasmCacheSize       = 256
)

// Config describes the remote service a Client proxies for.
type Config struct {
	// Identifier is the backend identifier reported by Describe.
	Identifier string
	// BaseURL is the root of the remote job API.
	BaseURL string
	// APIKey is sent as a bearer token. Optional.
	APIKey string
	// MaxQubits is the device's register width.
	MaxQubits int
	// PollInterval is the delay between job status polls.
	PollInterval time.Duration
	// Timeout bounds individual HTTP requests.
	Timeout time.Duration
}

// Client is a hardware-backed execution backend. Run calls incur network
// round-trips with non-deterministic latency.
type Client struct {
	cfg       Config
	http      *http.Client
	log       *zap.Logger
	qasmCache *lru.Cache[uint64, string]
}

// New creates a hardware proxy from the config.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Identifier == "" {
		return nil, fmt.Errorf("%w: hardware backend needs an identifier", types.ErrValidation)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: hardware backend needs a base URL", types.ErrValidation)
	}
	if cfg.MaxQubits <= 0 {
		return nil, fmt.Errorf("%w: max qubits must be positive, got %d", types.ErrValidation, cfg.MaxQubits)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	cache, err := lru.New[uint64, string](qasmCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		log:       log,
		qasmCache: cache,
	}, nil
}

// Describe reports the device's capabilities. Custom unitaries are not in
// the supported set: they have no QASM form.
func (c *Client) Describe() types.BackendDescriptor {
	gates := []string{
		types.GateH, types.GateX, types.GateY, types.GateZ,
		types.GateS, types.GateT, types.GateSwap,
		types.GateCNOT, types.GateCZ, types.GateCCX,
		types.GateRX, types.GateRY, types.GateRZ,
		types.GateMeasure,
	}
	return types.NewBackendDescriptor(c.cfg.Identifier, c.cfg.MaxQubits, gates, false)
}

// Run submits the circuit as a remote job and blocks until it completes,
// the context is cancelled, or the service reports failure. Cancellation
// sends a best-effort cancel request for the in-flight job.
func (c *Client) Run(ctx context.Context, circ types.Circuit, opts types.RunOptions) (types.ExecutionResult, error) {
	if err := circ.Validate(); err != nil {
		return types.ExecutionResult{}, err
	}
	d := c.Describe()
	if circ.QubitCount > d.MaxQubits {
		return types.ExecutionResult{}, fmt.Errorf("%w: circuit has %d qubits, %q supports %d",
			types.ErrQubitLimit, circ.QubitCount, d.Identifier, d.MaxQubits)
	}
	for kind := range circ.GateKinds() {
		if !d.Supports(kind) {
			return types.ExecutionResult{}, fmt.Errorf("%w: %q on backend %q",
				types.ErrUnsupportedGate, kind, d.Identifier)
		}
	}
	if opts.Shots <= 0 {
		return types.ExecutionResult{}, fmt.Errorf("%w: shots must be positive, got %d",
			types.ErrValidation, opts.Shots)
	}

	qasm, err := c.encode(circ)
	if err != nil {
		return types.ExecutionResult{}, err
	}

	start := time.Now()
	jobID, err := c.submit(ctx, qasm, opts)
	if err != nil {
		return types.ExecutionResult{}, err
	}
	c.log.Info("submitted job",
		zap.String("backend", c.cfg.Identifier),
		zap.String("job", jobID),
		zap.Int("shots", opts.Shots))

	if err := c.await(ctx, jobID); err != nil {
		return types.ExecutionResult{}, err
	}

	counts, err := c.fetchCounts(ctx, jobID)
	if err != nil {
		return types.ExecutionResult{}, err
	}

	return types.ExecutionResult{
		BackendID: c.cfg.Identifier,
		Shots:     opts.Shots,
		Counts:    counts,
		Elapsed:   time.Since(start),
	}, nil
}

// encode renders the circuit as QASM, reusing prior encodings by circuit
// fingerprint.
func (c *Client) encode(circ types.Circuit) (string, error) {
	key := circ.Fingerprint()
	if qasm, ok := c.qasmCache.Get(key); ok {
		return qasm, nil
	}
	qasm, err := circuit.EncodeQASM(circ)
	if err != nil {
		return "", err
	}
	c.qasmCache.Add(key, qasm)
	return qasm, nil
}

type submitRequest struct {
	QASM    string            `json:"qasm"`
	Shots   int               `json:"shots"`
	Options map[string]string `json:"options,omitempty"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type jobStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type jobResult struct {
	Counts map[string]int `json:"counts"`
}

func (c *Client) submit(ctx context.Context, qasm string, opts types.RunOptions) (string, error) {
	body, err := json.Marshal(submitRequest{QASM: qasm, Shots: opts.Shots, Options: opts.Extra})
	if err != nil {
		return "", err
	}
	var resp submitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/jobs", bytes.NewReader(body), &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: service returned no job id", types.ErrBackendContract)
	}
	return resp.ID, nil
}

// await polls the job until a terminal state. On context cancellation it
// best-effort cancels the remote job before returning.
func (c *Client) await(ctx context.Context, jobID string) error {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		var status jobStatus
		if err := c.doJSON(ctx, http.MethodGet, "/jobs/"+jobID, nil, &status); err != nil {
			if ctx.Err() != nil {
				c.cancel(jobID)
				return ctx.Err()
			}
			return err
		}

		switch status.Status {
		case statusCompleted:
			return nil
		case statusFailed:
			return fmt.Errorf("job %s failed: %s", jobID, status.Error)
		case statusCancelled:
			return fmt.Errorf("job %s was cancelled remotely", jobID)
		case statusQueued, statusRunning:
		default:
			return fmt.Errorf("%w: unknown job status %q", types.ErrBackendContract, status.Status)
		}

		select {
		case <-ctx.Done():
			c.cancel(jobID)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// cancel asks the service to stop the job. Failures are logged and
// otherwise ignored; the caller is already unwinding.
func (c *Client) cancel(jobID string) {
	ctx, done := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer done()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.cfg.BaseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return
	}
	c.auth(req)
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("job cancel failed", zap.String("job", jobID), zap.Error(err))
		return
	}
	resp.Body.Close()
}

func (c *Client) fetchCounts(ctx context.Context, jobID string) (map[string]int, error) {
	var result jobResult
	if err := c.doJSON(ctx, http.MethodGet, "/jobs/"+jobID+"/result", nil, &result); err != nil {
		return nil, err
	}
	if len(result.Counts) == 0 {
		return nil, fmt.Errorf("%w: completed job %s has no counts", types.ErrBackendContract, jobID)
	}
	return result.Counts, nil
}

// doJSON performs one request and decodes the response body. Transport
// failures and server-side errors wrap types.ErrTransient; client-side
// rejections are terminal.
func (c *Client) doJSON(ctx context.Context, method, path string, body *bytes.Reader, out any) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, nil)
	}
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", types.ErrTransient, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s: status %d", types.ErrTransient, method, path, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s response: %v", types.ErrBackendContract, method, path, err)
	}
	return nil
}

func (c *Client) auth(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}
