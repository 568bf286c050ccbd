package planerrors

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
	ErrPlanNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only draft or rejected plans can be edited",
		http.StatusBadRequest,
	)
	ErrPlanNotFound = apperror.New(
		apperror.CodeNotFound,
		"work plan not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid plan status transition",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting a plan",
		http.StatusBadRequest,
	)
	// ErrBlockingConflict carries the enumerated conflicts in Details.
	// Reported time is ground truth; the write is refused outright.
	ErrBlockingConflict = apperror.New(
		apperror.CodeBlockingConflict,
		"the interval collides with already-reported time",
		http.StatusConflict,
	)
	// ErrWarningConflict also carries details; the caller may retry with
	// confirm_warnings once the user has acknowledged them.
	ErrWarningConflict = apperror.New(
		apperror.CodeWarningConflict,
		"the interval collides with tentative commitments; confirm to proceed",
		http.StatusConflict,
	)
	ErrPlanAlreadyReported = apperror.New(
		apperror.CodeInvalidState,
		"a reported plan cannot be edited or superseded",
		http.StatusBadRequest,
	)
)
