package user

type UpdateUserStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type UserResponse struct {
	ID         string `json:"id"`
	WorkerCode string `json:"worker_code,omitempty"`
	StageCode  string `json:"stage_code"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

type UserWithRolesResponse struct {
	ID         string   `json:"id"`
	WorkerCode string   `json:"worker_code,omitempty"`
	StageCode  string   `json:"stage_code"`
	Email      string   `json:"email"`
	Name       string   `json:"name,omitempty"`
	IsActive   bool     `json:"is_active"`
	Roles      []string `json:"roles"`
	CreatedAt  string   `json:"created_at"`
}

type AssignRoleRequest struct {
	RoleID string `json:"role_id" binding:"required"`
}

type ForceResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
