package reporterrors

import (
	"net/http"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrEmptyInterval = apperror.New(
		apperror.CodeInvalidInput,
		"from_time and to_time must not be equal",
		http.StatusBadRequest,
	)
	ErrReportNotFound = apperror.New(
		apperror.CodeNotFound,
		"work report not found",
		http.StatusNotFound,
	)
	ErrPlanNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"only approved plans can be reported against",
		http.StatusBadRequest,
	)
	ErrDeviationNotReportable = apperror.New(
		apperror.CodeInvalidState,
		"a deviation row has no worker and cannot be reported",
		http.StatusBadRequest,
	)
	// ErrReportExists enforces the one-active-report-chain-per-plan rule.
	// Supersede the existing report first.
	ErrReportExists = apperror.New(
		apperror.CodeConflict,
		"the plan already has an active report",
		http.StatusConflict,
	)
	ErrInvalidCompletionStatus = apperror.New(
		apperror.CodeInvalidInput,
		"completion_status must be C or NC",
		http.StatusBadRequest,
	)
	ErrReportNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only draft or rejected reports can be edited",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid report status transition",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting a report",
		http.StatusBadRequest,
	)
	ErrBlockingConflict = apperror.New(
		apperror.CodeBlockingConflict,
		"the interval collides with already-reported time",
		http.StatusConflict,
	)
	ErrWarningConflict = apperror.New(
		apperror.CodeWarningConflict,
		"the interval collides with tentative commitments; confirm to proceed",
		http.StatusConflict,
	)
)
