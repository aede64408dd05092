package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/redbaez/airwave-e2e/internal/obs"
)

var artifactLog = obs.Pkg("harness.artifacts")

// CaseResult is one test case's outcome in the run report.
type CaseResult struct {
	Name       string        `json:"name"`
	Status     string        `json:"status"`
	Duration   time.Duration `json:"duration_ns"`
	Notes      string        `json:"notes,omitempty"`
	Screenshot string        `json:"screenshot,omitempty"`
}

// Run collects the artifacts of one suite execution: screenshots and a JSON
// report written to a per-run results directory. Outputs only; nothing in
// this repository consumes them.
type Run struct {
	ID        string
	Dir       string
	StartedAt time.Time

	mu      sync.Mutex
	results []CaseResult
}

// NewRun creates the per-run results directory under resultsDir.
func NewRun(resultsDir string) (*Run, error) {
	id := uuid.NewString()
	dir := filepath.Join(resultsDir, "run-"+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	artifactLog.Debug("run started", "run_id", id, "dir", dir)
	return &Run{ID: id, Dir: dir, StartedAt: time.Now().UTC()}, nil
}

// Screenshot captures a full-page screenshot into the run directory and
// returns the file path.
func (r *Run) Screenshot(page playwright.Page, name string) (string, error) {
	path := filepath.Join(r.Dir, name+".png")
	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("capture screenshot %q: %w", name, err)
	}
	return path, nil
}

// Record appends a case result to the run report.
func (r *Run) Record(result CaseResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

// Results returns a copy of the recorded case results in insertion order.
func (r *Run) Results() []CaseResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CaseResult, len(r.results))
	copy(out, r.results)
	return out
}

type runReport struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Cases      []CaseResult `json:"cases"`
}

// WriteReport writes the JSON run report into the run directory and returns
// its path.
func (r *Run) WriteReport() (string, error) {
	r.mu.Lock()
	report := runReport{
		RunID:      r.ID,
		StartedAt:  r.StartedAt,
		FinishedAt: time.Now().UTC(),
		Cases:      append([]CaseResult(nil), r.results...),
	}
	r.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run report: %w", err)
	}
	path := filepath.Join(r.Dir, "report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write run report: %w", err)
	}
	return path, nil
}
