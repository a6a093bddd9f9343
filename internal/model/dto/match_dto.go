package dto

// MatchResponse 叫号结果。Empty=true 表示当前没有等待中的候选人，
// 这是正常结果而不是错误。
type MatchResponse struct {
	Empty         bool   `json:"empty"`
	ApplicationID int64  `json:"application_id,omitempty"`
	SessionID     int64  `json:"session_id,omitempty"`
	QueueNumber   string `json:"queue_number,omitempty"`
	CandidateName string `json:"candidate_name,omitempty"`
	JobTitle      string `json:"job_title,omitempty"`
}

// SetStatusRequest 面试官自助调整自己的状态（busy 只能由匹配引擎进入）
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=offline idle break"`
}
