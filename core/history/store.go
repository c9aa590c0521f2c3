package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/fleetplan/core/model"
)

// RunRecord captures one planning run.
type RunRecord struct {
	RunID       string              `json:"run_id"`
	Timestamp   time.Time           `json:"timestamp"`
	Status      string              `json:"status"`
	Objective   float64             `json:"objective"`
	StartYear   int                 `json:"start_year"`
	NumYears    int                 `json:"num_years"`
	Variables   int                 `json:"variables"`
	Constraints int                 `json:"constraints"`
	BuildMillis int64               `json:"build_ms"`
	SolveMillis int64               `json:"solve_ms"`
	Violations  int                 `json:"violations"`
	Error       string              `json:"error,omitempty"`
	Summary     []model.YearSummary `json:"summary,omitempty"`
}

// RunQuery defines filters for retrieving runs.
type RunQuery struct {
	Start  time.Time
	End    time.Time
	Status string
	// Limit keeps only the most recent runs when positive.
	Limit int
}

func (q RunQuery) match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return q.Status == "" || r.Status == q.Status
}

// finish orders runs oldest first and applies the limit.
func (q RunQuery) finish(runs []RunRecord) []RunRecord {
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	if q.Limit > 0 && len(runs) > q.Limit {
		runs = runs[len(runs)-q.Limit:]
	}
	return runs
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// Backends.
const (
	BackendNone   = "none"
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Config selects and tunes the history backend.
type Config struct {
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendNone
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 30
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone:
		return nil
	case BackendJSONL, BackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("history path is required for backend %s", c.Backend)
		}
		return nil
	default:
		return fmt.Errorf("unknown history backend %q", c.Backend)
	}
}

// New opens the store selected by cfg.
func New(cfg Config) (Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendJSONL:
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case BackendSQLite:
		return NewSQLiteStore(cfg.Path)
	default:
		return NopStore{}, nil
	}
}

// NopStore discards runs.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error              { return nil }
func (NopStore) Query(context.Context, RunQuery) ([]RunRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
