package runlog

// Schema DDL for the run history database.
const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    backend_id TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    shots INTEGER NOT NULL,
    counts TEXT NOT NULL,
    elapsed_ms INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	idxRunsBackend = `CREATE INDEX IF NOT EXISTS idx_runs_backend ON runs(backend_id);`
	idxRunsCreated = `CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`
)

// schemaDDL lists all statements in execution order.
var schemaDDL = []string{
	createRuns,
	idxRunsBackend,
	idxRunsCreated,
}
