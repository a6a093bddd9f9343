package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
)

var (
	ErrAlreadyCheckedIn = errors.New("application is not in registered state")
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(app *model.Application) error {
	return r.db.Create(app).Error
}

func (r *ApplicationRepository) GetByID(id int64) (*model.Application, error) {
	var app model.Application
	err := r.db.Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) GetWithRelations(id int64) (*model.Application, error) {
	var app model.Application
	err := r.db.Preload("Candidate").Preload("Job").Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetLiveByCandidate 查询候选人当前唯一的非终态申请
func (r *ApplicationRepository) GetLiveByCandidate(candidateID int64) (*model.Application, error) {
	var app model.Application
	err := r.db.Preload("Job").
		Where("candidate_id = ? AND status IN ?", candidateID, model.LiveStatuses).
		Order("created_at DESC").
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Position 计算 waiting 申请在其职位队列中的位置（1 起）。
// 同职位中 checked_in_at 更早者在前，时间相同按 id 升序打破平局，
// 保证任何两个候选人不会得到相同位置。只读，不在此持久化排名。
func (r *ApplicationRepository) Position(app *model.Application) (int, error) {
	if app.Status != model.StatusWaiting || app.CheckedInAt == nil {
		return 0, nil
	}

	var count int64
	err := r.db.Model(&model.Application{}).
		Where("status = ? AND job_id = ? AND id <> ?", model.StatusWaiting, app.JobID, app.ID).
		Where("checked_in_at < ? OR (checked_in_at = ? AND id < ?)", app.CheckedInAt, app.CheckedInAt, app.ID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

// ListWaiting 全局等待队列，先到先得的权威顺序
func (r *ApplicationRepository) ListWaiting() ([]*model.Application, error) {
	var apps []*model.Application
	err := r.db.Preload("Candidate").Preload("Job").
		Where("status = ?", model.StatusWaiting).
		Order("checked_in_at ASC, id ASC").
		Find(&apps).Error
	return apps, err
}

// ListWaitingByJob 指定职位的等待队列
func (r *ApplicationRepository) ListWaitingByJob(jobID int64) ([]*model.Application, error) {
	var apps []*model.Application
	err := r.db.Preload("Candidate").
		Where("status = ? AND job_id = ?", model.StatusWaiting, jobID).
		Order("checked_in_at ASC, id ASC").
		Find(&apps).Error
	return apps, err
}

// UpdateStatusIf 条件状态更新：仅当前状态等于 from 时改为 to，返回是否命中
func (r *ApplicationRepository) UpdateStatusIf(id int64, from, to string) (bool, error) {
	res := r.db.Model(&model.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CheckIn 签到事务：递增 (job, day) 计数器生成排队号，并把申请从
// registered 置为 waiting。计数器递增与状态迁移同一事务提交，
// 并发签到不会产生重复排队号。
func (r *ApplicationRepository) CheckIn(appID, jobID int64, prefix string, now time.Time) (string, error) {
	var queueNumber string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		seq, err := nextQueueSeq(tx, jobID, now.Format("2006-01-02"))
		if err != nil {
			return err
		}
		queueNumber = fmt.Sprintf("%s-%03d", prefix, seq)

		res := tx.Model(&model.Application{}).
			Where("id = ? AND status = ?", appID, model.StatusRegistered).
			Updates(map[string]interface{}{
				"status":        model.StatusWaiting,
				"queue_number":  queueNumber,
				"checked_in_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCheckedIn
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return queueNumber, nil
}

// nextQueueSeq 原子递增每职位每天的排队号序列。没有计数器行时先插入，
// 并发首次签到撞唯一键后回退到递增路径。
func nextQueueSeq(tx *gorm.DB, jobID int64, day string) (int, error) {
	res := tx.Model(&model.QueueCounter{}).
		Where("job_id = ? AND day = ?", jobID, day).
		Update("last_seq", gorm.Expr("last_seq + 1"))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		counter := &model.QueueCounter{JobID: jobID, Day: day, LastSeq: 1}
		if err := tx.Create(counter).Error; err == nil {
			return 1, nil
		}
		// 唯一键冲突：别的事务刚插入了计数器行
		res = tx.Model(&model.QueueCounter{}).
			Where("job_id = ? AND day = ?", jobID, day).
			Update("last_seq", gorm.Expr("last_seq + 1"))
		if res.Error != nil {
			return 0, res.Error
		}
	}

	var counter model.QueueCounter
	if err := tx.Where("job_id = ? AND day = ?", jobID, day).First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.LastSeq, nil
}
