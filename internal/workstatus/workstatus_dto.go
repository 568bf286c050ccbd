package workstatus

type StatusResponse struct {
	StageCode     string `json:"stage_code"`
	WorkOrderRef  string `json:"work_order_ref"`
	WorkCode      string `json:"work_code"`
	CurrentStatus string `json:"current_status"`
}

type RecomputeRequest struct {
	StageCode    string `json:"stage_code" binding:"required"`
	WorkOrderRef string `json:"work_order_ref" binding:"required"`
	WorkCode     string `json:"work_code" binding:"required"`
}
