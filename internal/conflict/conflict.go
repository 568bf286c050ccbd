package conflict

import (
	"time"

	"github.com/google/uuid"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
)

type Kind string

const (
	KindReport       Kind = "report"
	KindPlan         Kind = "plan"
	KindReassignment Kind = "reassignment"
)

type Severity string

const (
	// SeverityBlocking marks collisions with reported time. Reported time
	// is ground truth and can never be double-booked.
	SeverityBlocking Severity = "blocking"
	// SeverityWarning marks collisions with tentative commitments: plans
	// and stage reassignments. The caller may proceed after explicit
	// confirmation.
	SeverityWarning Severity = "warning"
)

// Record is the engine's view of one existing time commitment, regardless of
// which table it came from.
type Record struct {
	Kind         Kind
	ID           uuid.UUID
	WorkerCode   string
	StageCode    string
	WorkOrderRef string
	WorkCode     string
	Interval     interval.Interval
	Status       string
}

// Conflict names one existing record that collides with the candidate, with
// enough identity for the caller to render a precise message.
type Conflict struct {
	WorkerCode   string            `json:"worker_code"`
	Kind         Kind              `json:"kind"`
	RecordID     uuid.UUID         `json:"record_id"`
	WorkOrderRef string            `json:"work_order_ref,omitempty"`
	WorkCode     string            `json:"work_code,omitempty"`
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	Severity     Severity          `json:"severity"`
}

// Diagnostic records a worker whose commitments could not be fully read;
// that worker's check is incomplete but the batch carries on.
type Diagnostic struct {
	WorkerCode string `json:"worker_code"`
	Source     Kind   `json:"source"`
	Reason     string `json:"reason"`
}

type Result struct {
	Blocking    []Conflict   `json:"blocking"`
	Warnings    []Conflict   `json:"warnings"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

func (r Result) HasBlocking() bool {
	return len(r.Blocking) > 0
}

func (r Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
