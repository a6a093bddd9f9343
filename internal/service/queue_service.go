package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/repository"
)

var ErrNoLiveApplication = errors.New("没有进行中的申请")

// QueueService 队列只读视图。位置是查询时按签到时间推导的，
// 不持久化排名，因此并发签到只会正确交错，不会破坏顺序。
type QueueService struct {
	appRepo *repository.ApplicationRepository
}

func NewQueueService(appRepo *repository.ApplicationRepository) *QueueService {
	return &QueueService{appRepo: appRepo}
}

// ListWaiting 全部等待中的申请及其在各自职位队列中的位置
func (s *QueueService) ListWaiting() ([]*dto.QueueEntry, error) {
	apps, err := s.appRepo.ListWaiting()
	if err != nil {
		return nil, err
	}

	// 列表已按 (checked_in_at, id) 全局有序，逐职位数位置即可
	perJob := make(map[int64]int)
	entries := make([]*dto.QueueEntry, 0, len(apps))
	for _, app := range apps {
		perJob[app.JobID]++

		entry := &dto.QueueEntry{
			ApplicationID: app.ID,
			CandidateID:   app.CandidateID,
			JobID:         app.JobID,
			Position:      perJob[app.JobID],
		}
		if app.QueueNumber != nil {
			entry.QueueNumber = *app.QueueNumber
		}
		if app.CheckedInAt != nil {
			entry.CheckedInAt = app.CheckedInAt.Format(time.RFC3339)
		}
		if app.Candidate != nil {
			entry.CandidateName = app.Candidate.FullName
		}
		if app.Job != nil {
			entry.JobTitle = app.Job.Title
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// MyApplication 候选人查看自己的申请与当前排队位置
func (s *QueueService) MyApplication(candidateID int64) (*dto.MyApplicationResponse, error) {
	app, err := s.appRepo.GetLiveByCandidate(candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoLiveApplication
		}
		return nil, err
	}

	resp := &dto.MyApplicationResponse{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		Status:        app.Status,
	}
	if app.Job != nil {
		resp.JobTitle = app.Job.Title
	}
	if app.QueueNumber != nil {
		resp.QueueNumber = *app.QueueNumber
	}

	if app.Status == model.StatusWaiting {
		position, err := s.appRepo.Position(app)
		if err != nil {
			return nil, err
		}
		resp.Position = position
	}
	return resp, nil
}
