package domain

// EnforceRequest is the RBAC check for one user acting on a resource within
// a production stage. Stage is the policy domain: a planner may create plans
// for their own stage without holding the same right elsewhere.
type EnforceRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	StageCode string `json:"stage_code" binding:"required"`
	Resource  string `json:"resource" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
