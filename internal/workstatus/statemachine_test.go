package workstatus

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func at(hour int) time.Time {
	return time.Date(2024, time.January, 15, hour, 0, 0, 0, time.UTC)
}

func TestDerive_NoPlans(t *testing.T) {
	assert.Equal(t, StatusToBePlanned, Derive(nil, nil))
}

func TestDerive_SingleDraftPlan(t *testing.T) {
	plans := []PlanFact{{ID: uuid.New(), Status: "DRAFT", UpdatedAt: at(9)}}
	assert.Equal(t, StatusDraftPlan, Derive(plans, nil))
}

func TestDerive_PendingOutranksEverythingTentative(t *testing.T) {
	plans := []PlanFact{
		{ID: uuid.New(), Status: "DRAFT", UpdatedAt: at(9)},
		{ID: uuid.New(), Status: "PENDING_APPROVAL", UpdatedAt: at(10)},
		{ID: uuid.New(), Status: "REJECTED", UpdatedAt: at(8)},
	}
	assert.Equal(t, StatusPendingApproval, Derive(plans, nil))
}

func TestDerive_AllRejectedIsReplannable(t *testing.T) {
	plans := []PlanFact{
		{ID: uuid.New(), Status: "REJECTED", UpdatedAt: at(9)},
		{ID: uuid.New(), Status: "REJECTED", UpdatedAt: at(10)},
	}
	assert.Equal(t, StatusDraftPlan, Derive(plans, nil))
}

func TestDerive_ApprovedWithoutReports(t *testing.T) {
	plans := []PlanFact{{ID: uuid.New(), Status: "APPROVED", UpdatedAt: at(9)}}
	assert.Equal(t, StatusPlanned, Derive(plans, nil))
}

func TestDerive_ApprovedAndCompleted(t *testing.T) {
	planID := uuid.New()
	plans := []PlanFact{{ID: planID, Status: "APPROVED", UpdatedAt: at(9)}}
	reports := []ReportFact{{PlanID: planID, CompletionStatus: "C", UpdatedAt: at(17)}}
	assert.Equal(t, StatusCompleted, Derive(plans, reports))
}

func TestDerive_IncompleteReportMeansInProgress(t *testing.T) {
	planID := uuid.New()
	plans := []PlanFact{{ID: planID, Status: "APPROVED", UpdatedAt: at(9)}}
	reports := []ReportFact{{PlanID: planID, CompletionStatus: "NC", UpdatedAt: at(17)}}
	assert.Equal(t, StatusInProgress, Derive(plans, reports))
}

func TestDerive_ReplanningAfterReportMeansPlanned(t *testing.T) {
	planID := uuid.New()
	newerPlanID := uuid.New()
	plans := []PlanFact{
		{ID: planID, Status: "APPROVED", UpdatedAt: at(9)},
		// A second approved plan touched after the report: re-planning.
		{ID: newerPlanID, Status: "APPROVED", UpdatedAt: at(18)},
	}
	reports := []ReportFact{
		{PlanID: planID, CompletionStatus: "NC", UpdatedAt: at(17)},
		{PlanID: newerPlanID, CompletionStatus: "NC", UpdatedAt: at(16)},
	}
	assert.Equal(t, StatusPlanned, Derive(plans, reports))
}

func TestDerive_SomeApprovedPlansUnreported(t *testing.T) {
	reported := uuid.New()
	unreported := uuid.New()
	plans := []PlanFact{
		{ID: reported, Status: "APPROVED", UpdatedAt: at(9)},
		{ID: unreported, Status: "APPROVED", UpdatedAt: at(9)},
	}
	reports := []ReportFact{{PlanID: reported, CompletionStatus: "C", UpdatedAt: at(17)}}
	assert.Equal(t, StatusPlanned, Derive(plans, reports))
}

func TestDerive_PendingAlongsideApprovedFallsToApprovedPath(t *testing.T) {
	approvedID := uuid.New()
	plans := []PlanFact{
		{ID: approvedID, Status: "APPROVED", UpdatedAt: at(9)},
		{ID: uuid.New(), Status: "PENDING_APPROVAL", UpdatedAt: at(10)},
	}
	reports := []ReportFact{{PlanID: approvedID, CompletionStatus: "C", UpdatedAt: at(17)}}
	assert.Equal(t, StatusCompleted, Derive(plans, reports))
}

func TestDerive_Idempotent(t *testing.T) {
	planID := uuid.New()
	plans := []PlanFact{{ID: planID, Status: "APPROVED", UpdatedAt: at(9)}}
	reports := []ReportFact{{PlanID: planID, CompletionStatus: "NC", UpdatedAt: at(17)}}

	first := Derive(plans, reports)
	second := Derive(plans, reports)
	assert.Equal(t, first, second)
}
