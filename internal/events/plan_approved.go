package events

const (
	PlanApprovedEventType = "plan.approved"
	PlanApprovedTopic     = "pms.plan.lifecycle"
)

type PlanApprovedEvent struct {
	PlanID       string `json:"plan_id"`
	StageCode    string `json:"stage_code"`
	WorkOrderRef string `json:"work_order_ref"`
	WorkCode     string `json:"work_code"`
	WorkerCode   string `json:"worker_code"`
	WorkDate     string `json:"work_date"`
	ApprovedBy   string `json:"approved_by"`
}
