package workforceerrors

import (
	"net/http"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/apperror"
)

var (
	ErrWorkerNotFound = apperror.New(
		apperror.CodeNotFound,
		"worker not found",
		http.StatusNotFound,
	)
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"no salary record for worker",
		http.StatusNotFound,
	)
)
