package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=32"`
	FullName string `json:"full_name" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	ProfileID int64 `json:"profile_id"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token   string       `json:"token"`
	Profile *ProfileInfo `json:"profile"`
}

// ProfileInfo 返回给前端的个人信息
type ProfileInfo struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email,omitempty"`
	FullName          string `json:"full_name"`
	Phone             string `json:"phone,omitempty"`
	Role              string `json:"role"`
	InterviewerStatus string `json:"interviewer_status,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
}
