package reassignment

type CreateReassignmentRequest struct {
	WorkerCode      string `json:"worker_code" binding:"required"`
	FromStage       string `json:"from_stage" binding:"required"`
	ToStage         string `json:"to_stage" binding:"required"`
	WorkDate        string `json:"work_date" binding:"required"`
	FromTime        string `json:"from_time" binding:"required"`
	ToTime          string `json:"to_time" binding:"required"`
	ConfirmWarnings bool   `json:"confirm_warnings"`
}

type ReassignmentResponse struct {
	ID         string `json:"id"`
	WorkerCode string `json:"worker_code"`
	FromStage  string `json:"from_stage"`
	ToStage    string `json:"to_stage"`
	WorkDate   string `json:"work_date"`
	FromTime   string `json:"from_time"`
	ToTime     string `json:"to_time"`
	Status     string `json:"status"`
	CreatedBy  string `json:"created_by"`
}

func mapToResponse(r StageReassignment) ReassignmentResponse {
	return ReassignmentResponse{
		ID:         r.ID.String(),
		WorkerCode: r.WorkerCode,
		FromStage:  r.FromStage,
		ToStage:    r.ToStage,
		WorkDate:   r.WorkDate.Format("2006-01-02"),
		FromTime:   r.FromTime.Format("15:04"),
		ToTime:     r.ToTime.Format("15:04"),
		Status:     r.Status,
		CreatedBy:  r.CreatedBy,
	}
}

func mapToListResponse(rows []StageReassignment) []ReassignmentResponse {
	resp := make([]ReassignmentResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp
}
