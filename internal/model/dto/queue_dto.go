package dto

// QueueEntry 等待队列中的一项（管理端看板用）
type QueueEntry struct {
	ApplicationID int64  `json:"application_id"`
	CandidateID   int64  `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	JobID         int64  `json:"job_id"`
	JobTitle      string `json:"job_title"`
	QueueNumber   string `json:"queue_number"`
	CheckedInAt   string `json:"checked_in_at"`
	Position      int    `json:"position"`
}

// MyApplicationResponse 候选人查询自己的申请与排队位置
type MyApplicationResponse struct {
	ApplicationID int64  `json:"application_id"`
	JobID         int64  `json:"job_id"`
	JobTitle      string `json:"job_title"`
	Status        string `json:"status"`
	QueueNumber   string `json:"queue_number,omitempty"`
	Position      int    `json:"position,omitempty"` // 仅 waiting 状态有意义
}

// ChangeRoleRequest 管理员变更用户角色
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin interviewer candidate"`
}
