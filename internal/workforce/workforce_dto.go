package workforce

type WorkerResponse struct {
	WorkerCode string `json:"worker_code"`
	FullName   string `json:"full_name"`
	SkillShort string `json:"skill_short,omitempty"`
	ShiftCode  string `json:"shift_code,omitempty"`
	StageCode  string `json:"stage_code"`
}
