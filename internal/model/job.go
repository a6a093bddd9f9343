package model

import (
	"time"
)

type Job struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	QueuePrefix string    `gorm:"size:1;default:A" json:"queue_prefix"` // 排队号前缀字母，如 A-001
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// QueueCounter 每个职位每天一行的排队号计数器。
// (job_id, day) 唯一，last_seq 在签到事务内递增，保证排队号不重复。
type QueueCounter struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	JobID   int64  `gorm:"not null;uniqueIndex:idx_counter_job_day" json:"job_id"`
	Day     string `gorm:"size:10;not null;uniqueIndex:idx_counter_job_day" json:"day"` // YYYY-MM-DD
	LastSeq int    `gorm:"not null;default:0" json:"last_seq"`
}

func (QueueCounter) TableName() string {
	return "queue_counters"
}
