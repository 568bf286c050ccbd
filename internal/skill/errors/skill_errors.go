package skillerrors

import (
	"fmt"
	"net/http"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/apperror"
)

var (
	ErrCombinationNotFound = apperror.New(
		apperror.CodeNotFound,
		"skill combination not found",
		http.StatusNotFound,
	)
	ErrCombinationEmpty = apperror.New(
		apperror.CodeInvalidState,
		"skill combination has no skills",
		http.StatusUnprocessableEntity,
	)
	ErrCombinationLocked = apperror.New(
		apperror.CodeConflict,
		"another skill combination for this work already has an active plan",
		http.StatusConflict,
	)
)

func UnassignedSkill(skillCode string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidInput,
		fmt.Sprintf("skill %s needs a worker or a deviation reason", skillCode),
		http.StatusBadRequest,
	)
}
