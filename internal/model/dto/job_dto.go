package dto

// CreateJobRequest 创建职位请求
type CreateJobRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	QueuePrefix string `json:"queue_prefix" binding:"omitempty,len=1,alpha"`
}

// UpdateJobRequest 更新职位请求
type UpdateJobRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=5000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
