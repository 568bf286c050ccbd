package shifterrors

import (
	"net/http"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/apperror"
)

var (
	ErrShiftNotFound = apperror.New(
		apperror.CodeNotFound,
		"shift not found",
		http.StatusNotFound,
	)
	// ErrNoSchedule means capacity is unknown for the stage/date, not zero.
	ErrNoSchedule = apperror.New(
		apperror.CodeNotFound,
		"no shift schedule found for this date",
		http.StatusNotFound,
	)
)
