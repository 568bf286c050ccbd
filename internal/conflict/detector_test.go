package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
)

type fakeSource struct {
	records map[string][]Record
	err     error
}

func (f *fakeSource) FindCommitments(ctx context.Context, workerCode string, date time.Time) ([]Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[workerCode], nil
}

func clock(h, m int) time.Time {
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC)
}

var testDate = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func span(fromH, fromM, toH, toM int) interval.Interval {
	return interval.New(testDate, clock(fromH, fromM), clock(toH, toM))
}

func record(kind Kind, worker string, iv interval.Interval) Record {
	return Record{
		Kind:         kind,
		ID:           uuid.New(),
		WorkerCode:   worker,
		WorkOrderRef: "WO-9",
		WorkCode:     "W-100",
		Interval:     iv,
	}
}

func emptySource() *fakeSource {
	return &fakeSource{records: map[string][]Record{}}
}

func TestCheck_OverlappingReportIsBlocking(t *testing.T) {
	existing := record(KindReport, "EMP-1", span(9, 0, 11, 0))
	reports := &fakeSource{records: map[string][]Record{"EMP-1": {existing}}}

	d := NewDetector(reports, emptySource(), emptySource())
	result, err := d.Check(context.Background(), []string{"EMP-1"}, testDate, span(10, 30, 12, 0), Options{})

	assert.NoError(t, err)
	assert.True(t, result.HasBlocking())
	assert.Len(t, result.Blocking, 1)
	assert.Empty(t, result.Warnings)

	c := result.Blocking[0]
	assert.Equal(t, existing.ID, c.RecordID, "the conflict must reference the existing report")
	assert.Equal(t, "EMP-1", c.WorkerCode)
	assert.Equal(t, "W-100", c.WorkCode)
	assert.Equal(t, SeverityBlocking, c.Severity)
}

func TestCheck_OverlappingPlanIsWarningOnly(t *testing.T) {
	existing := record(KindPlan, "EMP-1", span(9, 0, 11, 0))
	plans := &fakeSource{records: map[string][]Record{"EMP-1": {existing}}}

	d := NewDetector(emptySource(), plans, emptySource())
	result, err := d.Check(context.Background(), []string{"EMP-1"}, testDate, span(10, 0, 12, 0), Options{})

	assert.NoError(t, err)
	assert.False(t, result.HasBlocking())
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, SeverityWarning, result.Warnings[0].Severity)
}

func TestCheck_ReassignmentIsWarning(t *testing.T) {
	existing := record(KindReassignment, "EMP-1", span(13, 0, 15, 0))
	reassignments := &fakeSource{records: map[string][]Record{"EMP-1": {existing}}}

	d := NewDetector(emptySource(), emptySource(), reassignments)
	result, err := d.Check(context.Background(), []string{"EMP-1"}, testDate, span(14, 0, 16, 0), Options{})

	assert.NoError(t, err)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, KindReassignment, result.Warnings[0].Kind)
}

func TestCheck_BackToBackIsClean(t *testing.T) {
	reports := &fakeSource{records: map[string][]Record{
		"EMP-1": {record(KindReport, "EMP-1", span(9, 0, 10, 0))},
	}}

	d := NewDetector(reports, emptySource(), emptySource())
	result, err := d.Check(context.Background(), []string{"EMP-1"}, testDate, span(10, 0, 11, 0), Options{})

	assert.NoError(t, err)
	assert.False(t, result.HasBlocking())
	assert.False(t, result.HasWarnings())
}

func TestCheck_ExclusionsIgnoreEditedRecord(t *testing.T) {
	existingPlan := record(KindPlan, "EMP-1", span(9, 0, 11, 0))
	existingReport := record(KindReport, "EMP-1", span(9, 0, 11, 0))
	plans := &fakeSource{records: map[string][]Record{"EMP-1": {existingPlan}}}
	reports := &fakeSource{records: map[string][]Record{"EMP-1": {existingReport}}}

	d := NewDetector(reports, plans, emptySource())
	result, err := d.Check(context.Background(), []string{"EMP-1"}, testDate, span(9, 30, 10, 30), Options{
		ExcludePlanIDs:   []uuid.UUID{existingPlan.ID},
		ExcludeReportIDs: []uuid.UUID{existingReport.ID},
	})

	assert.NoError(t, err)
	assert.False(t, result.HasBlocking())
	assert.False(t, result.HasWarnings())
}

func TestCheck_MultipleWorkersEnumeratedSeparately(t *testing.T) {
	reports := &fakeSource{records: map[string][]Record{
		"EMP-1": {record(KindReport, "EMP-1", span(9, 0, 11, 0))},
		"EMP-2": {record(KindReport, "EMP-2", span(9, 30, 10, 30))},
	}}

	d := NewDetector(reports, emptySource(), emptySource())
	result, err := d.Check(context.Background(), []string{"EMP-1", "EMP-2", "EMP-3"}, testDate, span(10, 0, 12, 0), Options{})

	assert.NoError(t, err)
	assert.Len(t, result.Blocking, 2)
	workers := []string{result.Blocking[0].WorkerCode, result.Blocking[1].WorkerCode}
	assert.ElementsMatch(t, []string{"EMP-1", "EMP-2"}, workers)
}

func TestCheck_SourceFailureDegradesToDiagnostic(t *testing.T) {
	reports := &fakeSource{err: errors.New("connection reset")}
	plans := &fakeSource{records: map[string][]Record{
		"EMP-1": {record(KindPlan, "EMP-1", span(9, 0, 11, 0))},
	}}

	d := NewDetector(reports, plans, emptySource())
	result, err := d.Check(context.Background(), []string{"EMP-1"}, testDate, span(10, 0, 12, 0), Options{})

	assert.NoError(t, err, "a single source failure must not abort the check")
	assert.Len(t, result.Diagnostics, 1)
	assert.Equal(t, KindReport, result.Diagnostics[0].Source)
	assert.Len(t, result.Warnings, 1, "the readable sources still contribute")
}
