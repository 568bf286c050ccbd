package auth

type RegisterRequest struct {
	StageCode  string `json:"stage_code" binding:"required"`
	WorkerCode string `json:"worker_code"`
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID         string `json:"id"`
	StageCode  string `json:"stage_code"`
	WorkerCode string `json:"worker_code,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}
