package reassignmenterrors

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
	ErrSameStage = apperror.New(
		apperror.CodeInvalidInput,
		"from_stage and to_stage must differ",
		http.StatusBadRequest,
	)
	ErrReassignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"stage reassignment not found",
		http.StatusNotFound,
	)
	ErrAlreadyCancelled = apperror.New(
		apperror.CodeInvalidState,
		"the reassignment is already cancelled",
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
