package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/config"
	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/pkg/pubsub"
	"github.com/wshuai/interview_go_server/internal/repository"
)

var (
	ErrNotInterviewer     = errors.New("仅面试官可执行此操作")
	ErrInterviewerNotIdle = errors.New("面试官当前不是空闲状态")
)

// tryAssigner 匹配引擎依赖的单次分配原语，由 MatchingRepository 实现
type tryAssigner interface {
	TryAssign(interviewerID int64, now time.Time) (*model.Application, *model.Session, error)
}

// MatchingService 匹配引擎：把签到最早的候选人分配给空闲面试官。
// 单次分配由 MatchingRepository 的事务保证原子性，这里负责
// 前置校验、输掉 CAS 竞争后的有界重试和事件广播。
type MatchingService struct {
	matchingRepo tryAssigner
	appRepo      *repository.ApplicationRepository
	profileRepo  *repository.ProfileRepository
	eventService *EventService
	cfg          *config.Config
}

func NewMatchingService(
	matchingRepo tryAssigner,
	appRepo *repository.ApplicationRepository,
	profileRepo *repository.ProfileRepository,
	eventService *EventService,
	cfg *config.Config,
) *MatchingService {
	return &MatchingService{
		matchingRepo: matchingRepo,
		appRepo:      appRepo,
		profileRepo:  profileRepo,
		eventService: eventService,
		cfg:          cfg,
	}
}

// RequestNext 面试官叫号。队列为空返回 Empty=true，这是正常结果。
func (s *MatchingService) RequestNext(interviewerID int64) (*dto.MatchResponse, error) {
	profile, err := s.profileRepo.GetByID(interviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if profile.Role != model.RoleInterviewer {
		return nil, ErrNotInterviewer
	}
	if profile.InterviewerStatus != model.InterviewerIdle {
		return nil, ErrInterviewerNotIdle
	}

	maxRetries := s.cfg.Matching.MaxRetries
	for attempt := 0; attempt < maxRetries; attempt++ {
		app, session, err := s.matchingRepo.TryAssign(interviewerID, time.Now())
		switch {
		case err == nil:
			return s.buildMatchResponse(app, session, interviewerID)
		case errors.Is(err, repository.ErrNoWaiting):
			return &dto.MatchResponse{Empty: true}, nil
		case errors.Is(err, repository.ErrAssignConflict):
			continue // 输给了并发的叫号，换下一个候选人
		case errors.Is(err, repository.ErrInterviewerNotIdle):
			return nil, ErrInterviewerNotIdle
		default:
			return nil, err
		}
	}

	// 重试次数用尽仍拿不到，按队列为空上报
	return &dto.MatchResponse{Empty: true}, nil
}

func (s *MatchingService) buildMatchResponse(app *model.Application, session *model.Session, interviewerID int64) (*dto.MatchResponse, error) {
	full, err := s.appRepo.GetWithRelations(app.ID)
	if err != nil {
		return nil, err
	}

	queueNumber := ""
	if full.QueueNumber != nil {
		queueNumber = *full.QueueNumber
	}

	s.eventService.Emit(&pubsub.Event{
		Type:          pubsub.EventApplicationUpdated,
		ApplicationID: full.ID,
		CandidateID:   full.CandidateID,
		JobID:         full.JobID,
		InterviewerID: interviewerID,
		Status:        full.Status,
		QueueNumber:   queueNumber,
	})
	s.eventService.Emit(&pubsub.Event{
		Type:          pubsub.EventInterviewerUpdated,
		InterviewerID: interviewerID,
		Status:        model.InterviewerBusy,
	})

	resp := &dto.MatchResponse{
		ApplicationID: full.ID,
		SessionID:     session.ID,
		QueueNumber:   queueNumber,
	}
	if full.Candidate != nil {
		resp.CandidateName = full.Candidate.FullName
	}
	if full.Job != nil {
		resp.JobTitle = full.Job.Title
	}
	return resp, nil
}
