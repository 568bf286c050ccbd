package report

import "time"

type LostTimeRequest struct {
	ReasonCode string `json:"reason_code" binding:"required"`
	Minutes    int    `json:"minutes" binding:"required,gt=0"`
	Remarks    string `json:"remarks"`
}

type CreateReportRequest struct {
	PlanID              string            `json:"plan_id" binding:"required"`
	WorkDate            string            `json:"work_date" binding:"required"`
	FromTime            string            `json:"from_time" binding:"required"`
	ToTime              string            `json:"to_time" binding:"required"`
	HoursWorkedToday    float64           `json:"hours_worked_today"`
	CompletionStatus    string            `json:"completion_status" binding:"required"`
	LostTime            []LostTimeRequest `json:"lost_time"`
	ConfirmWarnings     bool              `json:"confirm_warnings"`
}

type UpdateReportRequest struct {
	WorkDate         string  `json:"work_date" binding:"required"`
	FromTime         string  `json:"from_time" binding:"required"`
	ToTime           string  `json:"to_time" binding:"required"`
	HoursWorkedToday float64 `json:"hours_worked_today"`
	CompletionStatus string  `json:"completion_status" binding:"required"`
	ConfirmWarnings  bool    `json:"confirm_warnings"`
}

type SubmitReportsRequest struct {
	StageCode string `json:"stage_code" binding:"required"`
	WorkDate  string `json:"work_date" binding:"required"`
}

type RejectReportRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LostTimeResponse struct {
	ReasonCode string `json:"reason_code"`
	Minutes    int    `json:"minutes"`
	Remarks    string `json:"remarks,omitempty"`
}

type ReportResponse struct {
	ID                  string             `json:"id"`
	PlanID              string             `json:"plan_id"`
	StageCode           string             `json:"stage_code"`
	WorkOrderRef        string             `json:"work_order_ref"`
	WorkCode            string             `json:"work_code"`
	WorkerCode          string             `json:"worker_code"`
	WorkDate            string             `json:"work_date"`
	FromTime            string             `json:"from_time"`
	ToTime              string             `json:"to_time"`
	HoursWorkedTillDate float64            `json:"hours_worked_till_date"`
	HoursWorkedToday    float64            `json:"hours_worked_today"`
	CompletionStatus    string             `json:"completion_status"`
	LostTimeMinutes     int                `json:"lost_time_minutes"`
	LostTime            []LostTimeResponse `json:"lost_time,omitempty"`
	Status              string             `json:"status"`
	OvertimeMinutes     int                `json:"overtime_minutes"`
	OvertimeAmount      float64            `json:"overtime_amount"`
	CreatedBy           string             `json:"created_by"`
	ApprovedBy          *string            `json:"approved_by,omitempty"`
	ApprovedAt          *string            `json:"approved_at,omitempty"`
	RejectionReason     *string            `json:"rejection_reason,omitempty"`
}

func mapToResponse(r WorkReport) ReportResponse {
	resp := ReportResponse{
		ID:                  r.ID.String(),
		PlanID:              r.PlanID.String(),
		StageCode:           r.StageCode,
		WorkOrderRef:        r.WorkOrderRef,
		WorkCode:            r.WorkCode,
		WorkerCode:          r.WorkerCode,
		WorkDate:            r.WorkDate.Format("2006-01-02"),
		FromTime:            r.FromTime.Format("15:04"),
		ToTime:              r.ToTime.Format("15:04"),
		HoursWorkedTillDate: r.HoursWorkedTillDate,
		HoursWorkedToday:    r.HoursWorkedToday,
		CompletionStatus:    r.CompletionStatus,
		LostTimeMinutes:     r.LostTimeMinutes,
		Status:              r.Status,
		OvertimeMinutes:     r.OvertimeMinutes,
		OvertimeAmount:      r.OvertimeAmount,
		CreatedBy:           r.CreatedBy,
		ApprovedBy:          r.ApprovedBy,
		RejectionReason:     r.RejectionReason,
	}
	if r.ApprovedAt != nil {
		v := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(reports []WorkReport) []ReportResponse {
	resp := make([]ReportResponse, len(reports))
	for i, r := range reports {
		resp[i] = mapToResponse(r)
	}
	return resp
}

func mapLostTime(entries []LostTimeEntry) []LostTimeResponse {
	resp := make([]LostTimeResponse, len(entries))
	for i, e := range entries {
		resp[i] = LostTimeResponse{
			ReasonCode: e.ReasonCode,
			Minutes:    e.Minutes,
			Remarks:    e.Remarks,
		}
	}
	return resp
}
