package model

import (
	"time"
)

// Session 一次面试尝试。ended_at 为空表示进行中，
// 同一申请同时最多存在一条未结束的 session。
type Session struct {
	ID              int64         `gorm:"primaryKey" json:"id"`
	ApplicationID   int64         `gorm:"not null;index" json:"application_id"`
	InterviewerID   int64         `gorm:"not null;index" json:"interviewer_id"`
	StartedAt       time.Time     `json:"started_at"`
	EndedAt         *time.Time    `gorm:"index" json:"ended_at,omitempty"`
	DurationSeconds int           `json:"duration_seconds,omitempty"`
	ScoreSummary    *ScoreSummary `gorm:"type:json" json:"score_summary,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`

	// 关联
	Application *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Interviewer *Profile     `gorm:"foreignKey:InterviewerID" json:"interviewer,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}
