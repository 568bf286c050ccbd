package plan

import "time"

type CreatePlanRequest struct {
	StageCode     string  `json:"stage_code" binding:"required"`
	WorkOrderRef  string  `json:"work_order_ref" binding:"required"`
	WorkCode      string  `json:"work_code" binding:"required"`
	WorkCodeOther *string `json:"work_code_other"`
	ComboCode     string  `json:"combo_code" binding:"required"`
	WorkDate      string  `json:"work_date" binding:"required"`
	FromTime      string  `json:"from_time" binding:"required"`
	ToTime        string  `json:"to_time" binding:"required"`
	PlannedHours  float64 `json:"planned_hours"`
	// Workers maps skill code to worker code; Deviations maps skill code
	// to the reason that skill is left unassigned.
	Workers    map[string]string `json:"workers"`
	Deviations map[string]string `json:"deviations"`
	// ConfirmWarnings acknowledges warning conflicts; blocking conflicts
	// can never be confirmed away.
	ConfirmWarnings bool `json:"confirm_warnings"`
}

type UpdatePlanRequest struct {
	WorkDate        string  `json:"work_date" binding:"required"`
	FromTime        string  `json:"from_time" binding:"required"`
	ToTime          string  `json:"to_time" binding:"required"`
	WorkerCode      string  `json:"worker_code"`
	DeviationReason *string `json:"deviation_reason"`
	PlannedHours    float64 `json:"planned_hours"`
	ConfirmWarnings bool    `json:"confirm_warnings"`
}

type RejectPlanRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type PlanResponse struct {
	ID                 string   `json:"id"`
	StageCode          string   `json:"stage_code"`
	WorkOrderRef       string   `json:"work_order_ref"`
	WorkCode           string   `json:"work_code"`
	WorkCodeOther      *string  `json:"work_code_other,omitempty"`
	ComboCode          string   `json:"combo_code"`
	RequiredSkill      string   `json:"required_skill"`
	WorkerCode         string   `json:"worker_code,omitempty"`
	DeviationReason    *string  `json:"deviation_reason,omitempty"`
	WorkDate           string   `json:"work_date"`
	FromTime           string   `json:"from_time"`
	ToTime             string   `json:"to_time"`
	Status             string   `json:"status"`
	PlannedHours       float64  `json:"planned_hours"`
	TimeWorkedTillDate float64  `json:"time_worked_till_date"`
	RemainingTime      float64  `json:"remaining_time"`
	CreatedBy          string   `json:"created_by"`
	ApprovedBy         *string  `json:"approved_by,omitempty"`
	ApprovedAt         *string  `json:"approved_at,omitempty"`
	RejectionReason    *string  `json:"rejection_reason,omitempty"`
}

func mapToResponse(p WorkPlan) PlanResponse {
	resp := PlanResponse{
		ID:                 p.ID.String(),
		StageCode:          p.StageCode,
		WorkOrderRef:       p.WorkOrderRef,
		WorkCode:           p.WorkCode,
		WorkCodeOther:      p.WorkCodeOther,
		ComboCode:          p.ComboCode,
		RequiredSkill:      p.RequiredSkill,
		WorkerCode:         p.WorkerCode,
		DeviationReason:    p.DeviationReason,
		WorkDate:           p.WorkDate.Format("2006-01-02"),
		FromTime:           p.FromTime.Format("15:04"),
		ToTime:             p.ToTime.Format("15:04"),
		Status:             p.Status,
		PlannedHours:       p.PlannedHours,
		TimeWorkedTillDate: p.TimeWorkedTillDate,
		RemainingTime:      p.RemainingTime,
		CreatedBy:          p.CreatedBy,
		RejectionReason:    p.RejectionReason,
	}
	resp.ApprovedBy = p.ApprovedBy
	if p.ApprovedAt != nil {
		v := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(plans []WorkPlan) []PlanResponse {
	resp := make([]PlanResponse, len(plans))
	for i, p := range plans {
		resp[i] = mapToResponse(p)
	}
	return resp
}
