package workstatus

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusToBePlanned     Status = "TO_BE_PLANNED"
	StatusDraftPlan       Status = "DRAFT_PLAN"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusPlanned         Status = "PLANNED"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusCompleted       Status = "COMPLETED"
)

// Plan status values as persisted by the plan module.
const (
	planDraft           = "DRAFT"
	planPendingApproval = "PENDING_APPROVAL"
	planApproved        = "APPROVED"
	planRejected        = "REJECTED"
)

const completionComplete = "C"

// PlanFact is the slice of a plan row the derivation needs.
type PlanFact struct {
	ID        uuid.UUID
	Status    string
	UpdatedAt time.Time
}

// ReportFact is the slice of a report row the derivation needs.
type ReportFact struct {
	PlanID           uuid.UUID
	CompletionStatus string
	UpdatedAt        time.Time
}

// Derive maps the full set of non-deleted plans and reports for one
// (stage, work order, work) key to its lifecycle status. The ordering is a
// deliberate priority policy: work sitting in the approval pipeline outranks
// work already executing, because approval gates must never be silently
// bypassed in the UI.
func Derive(plans []PlanFact, reports []ReportFact) Status {
	if len(plans) == 0 {
		return StatusToBePlanned
	}

	var (
		anyPending  bool
		anyDraft    bool
		anyApproved bool
		allRejected = true
	)
	for _, p := range plans {
		switch p.Status {
		case planPendingApproval:
			anyPending = true
		case planDraft:
			anyDraft = true
		case planApproved:
			anyApproved = true
		}
		if p.Status != planRejected {
			allRejected = false
		}
	}

	if anyPending && !anyApproved {
		return StatusPendingApproval
	}
	if anyDraft && !anyPending && !anyApproved {
		return StatusDraftPlan
	}
	if allRejected {
		// Rejected work is re-plannable, not terminal.
		return StatusDraftPlan
	}
	if !anyApproved {
		// Mixed draft/rejected without pending or approved.
		return StatusDraftPlan
	}

	return deriveFromApproved(plans, reports)
}

func deriveFromApproved(plans []PlanFact, reports []ReportFact) Status {
	reportsByPlan := make(map[uuid.UUID][]ReportFact)
	for _, r := range reports {
		reportsByPlan[r.PlanID] = append(reportsByPlan[r.PlanID], r)
	}

	allComplete := true
	for _, p := range plans {
		if p.Status != planApproved {
			continue
		}
		planReports := reportsByPlan[p.ID]
		if len(planReports) == 0 {
			return StatusPlanned
		}
		for _, r := range planReports {
			if r.CompletionStatus != completionComplete {
				allComplete = false
			}
		}
	}

	if allComplete {
		return StatusCompleted
	}

	// Not all reports complete: a plan strictly newer than the latest
	// report means the work was re-planned after reporting.
	if latestPlanTime(plans).After(latestReportTime(reports)) {
		return StatusPlanned
	}
	return StatusInProgress
}

func latestPlanTime(plans []PlanFact) time.Time {
	var latest time.Time
	for _, p := range plans {
		if p.UpdatedAt.After(latest) {
			latest = p.UpdatedAt
		}
	}
	return latest
}

func latestReportTime(reports []ReportFact) time.Time {
	var latest time.Time
	for _, r := range reports {
		if r.UpdatedAt.After(latest) {
			latest = r.UpdatedAt
		}
	}
	return latest
}
