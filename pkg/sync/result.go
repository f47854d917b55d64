package sync

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

// Operation names recorded in results, logs and metrics.
const (
	OperationPush    = "push"
	OperationPull    = "pull"
	OperationRefresh = "refresh"
)

// Result represents the outcome of one service call across resources.
type Result struct {
	RunID      uuid.UUID        `json:"runId" yaml:"runId"`
	Operation  string           `json:"operation" yaml:"operation"`
	DryRun     bool             `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	StartedAt  utc.Time         `json:"startedAt" yaml:"startedAt"`
	FinishedAt utc.Time         `json:"finishedAt" yaml:"finishedAt"`
	Resources  []ResourceResult `json:"resources" yaml:"resources"`
}

// ResourceResult represents the outcome for a single resource.
type ResourceResult struct {
	ResourceID    string   `json:"resourceId" yaml:"resourceId"`
	Rows          int      `json:"rows" yaml:"rows"`
	Columns       int      `json:"columns" yaml:"columns"`
	FieldFailures int      `json:"fieldFailures,omitempty" yaml:"fieldFailures,omitempty"`
	Added         []string `json:"added,omitempty" yaml:"added,omitempty"`
	Removed       []string `json:"removed,omitempty" yaml:"removed,omitempty"`
	Skipped       bool     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Err           error    `json:"-" yaml:"-"`
}

// HasErrors returns true if any resource failed.
func (r *Result) HasErrors() bool {
	for _, res := range r.Resources {
		if res.Err != nil {
			return true
		}
	}
	return false
}

// Err joins the per-resource errors, nil when every resource succeeded.
func (r *Result) Err() error {
	var errs []error
	for _, res := range r.Resources {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.ResourceID, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Resource returns the result for resourceID.
func (r *Result) Resource(resourceID string) (ResourceResult, bool) {
	for _, res := range r.Resources {
		if res.ResourceID == resourceID {
			return res, true
		}
	}
	return ResourceResult{}, false
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var rows, failed int
	for _, res := range r.Resources {
		rows += res.Rows
		if res.Err != nil {
			failed++
		}
	}
	summary := fmt.Sprintf("%s: %d rows across %d resources", r.Operation, rows, len(r.Resources))
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	if r.DryRun {
		summary += " (dry run)"
	}
	return summary
}

// HasSchemaChanges returns true if fields were added or removed.
func (rr ResourceResult) HasSchemaChanges() bool {
	return len(rr.Added) > 0 || len(rr.Removed) > 0
}

// Status renders the resource outcome as a short word.
func (rr ResourceResult) Status() string {
	switch {
	case rr.Err != nil && rr.Skipped:
		return "skipped"
	case rr.Err != nil:
		return "failed"
	default:
		return "ok"
	}
}

// Summary returns a human-readable summary of the resource result.
func (rr ResourceResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s, %d rows", rr.ResourceID, rr.Status(), rr.Rows)
	if rr.FieldFailures > 0 {
		fmt.Fprintf(&b, ", %d empty cells from failed fields", rr.FieldFailures)
	}
	if rr.HasSchemaChanges() {
		fmt.Fprintf(&b, ", +%d/-%d fields", len(rr.Added), len(rr.Removed))
	}
	if rr.Err != nil {
		fmt.Fprintf(&b, " (%v)", rr.Err)
	}
	return b.String()
}
