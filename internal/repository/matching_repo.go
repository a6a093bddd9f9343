package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
)

var (
	ErrNoWaiting          = errors.New("no waiting applications")
	ErrAssignConflict     = errors.New("assignment lost the race")
	ErrInterviewerNotIdle = errors.New("interviewer is not idle")
)

// MatchingRepository 承载匹配引擎的事务原语。
// 选人、占用申请、占用面试官、建立 session 四步在同一事务内，
// 任何一步失败整体回滚，两个面试官并发叫号不可能拿到同一个申请。
type MatchingRepository struct {
	db *gorm.DB
}

func NewMatchingRepository(db *gorm.DB) *MatchingRepository {
	return &MatchingRepository{db: db}
}

// TryAssign 尝试把最早签到的 waiting 申请分配给面试官。
// 单次尝试：输掉 CAS 竞争返回 ErrAssignConflict，由调用方决定重试。
func (r *MatchingRepository) TryAssign(interviewerID int64, now time.Time) (*model.Application, *model.Session, error) {
	var app model.Application
	var session *model.Session

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// 全局 FIFO：跨职位按签到时间取最早，时间相同按 id
		err := tx.Where("status = ?", model.StatusWaiting).
			Order("checked_in_at ASC, id ASC").
			First(&app).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoWaiting
		}
		if err != nil {
			return err
		}

		// CAS：仅当申请仍是 waiting 时占用，而不是读后直写
		res := tx.Model(&model.Application{}).
			Where("id = ? AND status = ?", app.ID, model.StatusWaiting).
			Update("status", model.StatusAssigned)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAssignConflict
		}

		res = tx.Model(&model.Profile{}).
			Where("id = ? AND role = ? AND interviewer_status = ?",
				interviewerID, model.RoleInterviewer, model.InterviewerIdle).
			Update("interviewer_status", model.InterviewerBusy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInterviewerNotIdle
		}

		session = &model.Session{
			ApplicationID: app.ID,
			InterviewerID: interviewerID,
			StartedAt:     now,
		}
		if err := tx.Create(session).Error; err != nil {
			return err
		}

		app.Status = model.StatusAssigned
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &app, session, nil
}
