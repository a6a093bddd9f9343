package model

import (
	"time"
)

// 角色常量
const (
	RoleAdmin       = "admin"
	RoleInterviewer = "interviewer"
	RoleCandidate   = "candidate"
)

// 面试官状态常量（仅 role=interviewer 时有意义）
const (
	InterviewerOffline = "offline"
	InterviewerIdle    = "idle"
	InterviewerBusy    = "busy"
	InterviewerBreak   = "break"
)

type Profile struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	Username          string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email             *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash      *string   `gorm:"size:255" json:"-"`
	FullName          string    `gorm:"size:100" json:"full_name"`
	Phone             string    `gorm:"size:20" json:"phone,omitempty"`
	Role              string    `gorm:"size:20;default:candidate;index" json:"role"`
	InterviewerStatus string    `gorm:"size:20;default:offline;index" json:"interviewer_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// RoleChange 角色变更审计记录：谁在什么时间把谁从什么角色改成什么角色
type RoleChange struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ProfileID int64     `gorm:"not null;index" json:"profile_id"`
	ActorID   int64     `gorm:"not null" json:"actor_id"`
	OldRole   string    `gorm:"size:20;not null" json:"old_role"`
	NewRole   string    `gorm:"size:20;not null" json:"new_role"`
	CreatedAt time.Time `json:"created_at"`
}

func (RoleChange) TableName() string {
	return "role_changes"
}
