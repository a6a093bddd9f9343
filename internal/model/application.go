package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// 申请状态常量。除 skipped 外状态只能沿此顺序单向推进，
// skipped 可以从 waiting 或 assigned 进入（候选人爽约）。
const (
	StatusRegistered   = "registered"
	StatusWaiting      = "waiting"
	StatusAssigned     = "assigned"
	StatusInterviewing = "interviewing"
	StatusCompleted    = "completed"
	StatusSkipped      = "skipped"
)

// LiveStatuses 非终态集合：匹配引擎只追踪这些状态的申请
var LiveStatuses = []string{StatusRegistered, StatusWaiting, StatusAssigned, StatusInterviewing}

// ScoreSummary 面试评分。三项子分统一采用 0-10 分制，notes 为自由文本。
type ScoreSummary struct {
	Technical     int    `json:"technical"`
	Communication int    `json:"communication"`
	Attitude      int    `json:"attitude"`
	Notes         string `json:"notes,omitempty"`
}

func (s ScoreSummary) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ScoreSummary) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

type Application struct {
	ID           int64         `gorm:"primaryKey" json:"id"`
	CandidateID  int64         `gorm:"not null;index" json:"candidate_id"`
	JobID        int64         `gorm:"not null;index" json:"job_id"`
	QueueNumber  *string       `gorm:"size:10" json:"queue_number,omitempty"` // 形如 A-001，签到时分配
	Status       string        `gorm:"size:20;default:registered;index:idx_status_checkin,priority:1" json:"status"`
	CheckedInAt  *time.Time    `gorm:"index:idx_status_checkin,priority:2" json:"checked_in_at,omitempty"`
	CVURL        string        `gorm:"size:500" json:"cv_url,omitempty"`
	ScoreSummary *ScoreSummary `gorm:"type:json" json:"score_summary,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// 关联
	Candidate *Profile `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Job       *Job     `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// IsTerminal 是否处于终态（不会再发生任何状态迁移）
func (a *Application) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusSkipped
}
