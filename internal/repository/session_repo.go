package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
)

var (
	ErrNotInterviewing = errors.New("application is not interviewing")
	ErrNoOpenSession   = errors.New("no open session for application")
	ErrNotSkippable    = errors.New("application cannot be skipped from its current state")
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	return r.db.Create(session).Error
}

func (r *SessionRepository) GetByID(id int64) (*model.Session, error) {
	var session model.Session
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetOpenByApplication 查询申请当前未结束的 session
func (r *SessionRepository) GetOpenByApplication(applicationID int64) (*model.Session, error) {
	var session model.Session
	err := r.db.Where("application_id = ? AND ended_at IS NULL", applicationID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetOpenByInterviewer 查询面试官当前进行中的 session
func (r *SessionRepository) GetOpenByInterviewer(interviewerID int64) (*model.Session, error) {
	var session model.Session
	err := r.db.Preload("Application").Preload("Application.Candidate").Preload("Application.Job").
		Where("interviewer_id = ? AND ended_at IS NULL", interviewerID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) ListByInterviewer(interviewerID int64) ([]*model.Session, error) {
	var sessions []*model.Session
	err := r.db.Where("interviewer_id = ?", interviewerID).Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}

// Complete 完成面试事务：申请置 completed 并落盘评分、关闭 session、
// 释放面试官。四个写入要么一起提交要么一起回滚，崩溃不会留下
// 半完成状态——卡在 busy 的面试官由对账任务兜底。
func (r *SessionRepository) Complete(applicationID, interviewerID int64, durationSeconds int, scores *model.ScoreSummary, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Application{}).
			Where("id = ? AND status = ?", applicationID, model.StatusInterviewing).
			Updates(map[string]interface{}{
				"status":        model.StatusCompleted,
				"score_summary": scores,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotInterviewing
		}

		res = tx.Model(&model.Session{}).
			Where("application_id = ? AND interviewer_id = ? AND ended_at IS NULL", applicationID, interviewerID).
			Updates(map[string]interface{}{
				"ended_at":         now,
				"duration_seconds": durationSeconds,
				"score_summary":    scores,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoOpenSession
		}

		// busy -> idle。面试官已经被对账任务复位时这里不命中，不视为错误
		res = tx.Model(&model.Profile{}).
			Where("id = ? AND interviewer_status = ?", interviewerID, model.InterviewerBusy).
			Update("interviewer_status", model.InterviewerIdle)
		return res.Error
	})
}

// Skip 爽约处理：waiting 或 assigned 的申请置为 skipped。
// 若已被分配，同事务关闭未结束的 session 并释放面试官。
func (r *SessionRepository) Skip(applicationID int64, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Application{}).
			Where("id = ? AND status IN ?", applicationID, []string{model.StatusWaiting, model.StatusAssigned}).
			Update("status", model.StatusSkipped)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotSkippable
		}

		var session model.Session
		err := tx.Where("application_id = ? AND ended_at IS NULL", applicationID).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // 还在排队，没有 session 要清理
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&model.Session{}).Where("id = ?", session.ID).
			Update("ended_at", now).Error; err != nil {
			return err
		}

		return tx.Model(&model.Profile{}).
			Where("id = ? AND interviewer_status = ?", session.InterviewerID, model.InterviewerBusy).
			Update("interviewer_status", model.InterviewerIdle).Error
	})
}
