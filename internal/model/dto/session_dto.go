package dto

// CompleteInterviewRequest 完成面试请求。三项子分统一为 0-10 分制。
type CompleteInterviewRequest struct {
	DurationSeconds int    `json:"duration_seconds" binding:"omitempty,min=0"`
	Technical       int    `json:"technical" binding:"min=0,max=10"`
	Communication   int    `json:"communication" binding:"min=0,max=10"`
	Attitude        int    `json:"attitude" binding:"min=0,max=10"`
	Notes           string `json:"notes" binding:"omitempty,max=2000"`
}

// SessionInfo 面试会话信息
type SessionInfo struct {
	ID              int64  `json:"id"`
	ApplicationID   int64  `json:"application_id"`
	InterviewerID   int64  `json:"interviewer_id"`
	StartedAt       string `json:"started_at"`
	EndedAt         string `json:"ended_at,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	QueueNumber     string `json:"queue_number,omitempty"`
	CandidateName   string `json:"candidate_name,omitempty"`
	JobTitle        string `json:"job_title,omitempty"`
}
