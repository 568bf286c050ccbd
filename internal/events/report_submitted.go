package events

const (
	ReportSubmittedEventType = "report.submitted"
	ReportSubmittedTopic     = "pms.report.lifecycle"
)

// ReportSubmittedEvent triggers the downstream work-status recompute.
type ReportSubmittedEvent struct {
	ReportID     string `json:"report_id"`
	PlanID       string `json:"plan_id"`
	StageCode    string `json:"stage_code"`
	WorkOrderRef string `json:"work_order_ref"`
	WorkCode     string `json:"work_code"`
	WorkerCode   string `json:"worker_code"`
	WorkDate     string `json:"work_date"`
}

const (
	OvertimeCalculatedEventType = "overtime.calculated"
	OvertimeCalculatedTopic     = "pms.overtime"
)

type OvertimeCalculatedEvent struct {
	StageCode       string  `json:"stage_code"`
	WorkDate        string  `json:"work_date"`
	WorkerCode      string  `json:"worker_code"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	OvertimeAmount  float64 `json:"overtime_amount"`
}
