package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/pkg/pubsub"
	"github.com/wshuai/interview_go_server/internal/repository"
)

var (
	ErrApplicationNotFound = errors.New("申请不存在")
	ErrNotAssigned         = errors.New("申请不在可开始面试的状态")
	ErrNotInterviewing     = errors.New("申请不在面试中状态")
	ErrNotSessionOwner     = errors.New("无权操作他人的面试")
	ErrNotSkippable        = errors.New("只有排队中或已分配的申请可以跳过")
	ErrScoreOutOfRange     = errors.New("评分超出范围（0-10）")
	ErrNoCurrentSession    = errors.New("当前没有进行中的面试")
)

// SessionService 面试会话生命周期：assigned -> interviewing -> completed，
// 以及 waiting/assigned -> skipped 的爽约路径。
type SessionService struct {
	sessionRepo  *repository.SessionRepository
	appRepo      *repository.ApplicationRepository
	eventService *EventService
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	appRepo *repository.ApplicationRepository,
	eventService *EventService,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		appRepo:      appRepo,
		eventService: eventService,
	}
}

// Start 开始面试。要求申请处于 assigned；对已是 interviewing 的申请
// 幂等返回成功，重复点击不算错误。
func (s *SessionService) Start(applicationID, interviewerID int64) error {
	app, err := s.appRepo.GetByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}

	if app.Status == model.StatusInterviewing {
		return nil // 幂等：重复 start 是 no-op
	}
	if app.Status != model.StatusAssigned {
		return ErrNotAssigned
	}

	session, err := s.sessionRepo.GetOpenByApplication(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAssigned
		}
		return err
	}
	if session.InterviewerID != interviewerID {
		return ErrNotSessionOwner
	}

	ok, err := s.appRepo.UpdateStatusIf(applicationID, model.StatusAssigned, model.StatusInterviewing)
	if err != nil {
		return err
	}
	if !ok {
		// CAS 落空：并发下可能已被置为 interviewing，重查确认
		current, err := s.appRepo.GetByID(applicationID)
		if err != nil {
			return err
		}
		if current.Status == model.StatusInterviewing {
			return nil
		}
		return ErrNotAssigned
	}

	s.eventService.Emit(&pubsub.Event{
		Type:          pubsub.EventApplicationUpdated,
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		JobID:         app.JobID,
		InterviewerID: interviewerID,
		Status:        model.StatusInterviewing,
	})
	return nil
}

// Complete 完成面试并落盘评分。四个写入（申请状态、申请评分、session
// 结束、面试官释放）由仓储层在同一事务内提交。
func (s *SessionService) Complete(applicationID, interviewerID int64, req *dto.CompleteInterviewRequest) error {
	if err := validateScores(req); err != nil {
		return err
	}

	app, err := s.appRepo.GetByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}

	scores := &model.ScoreSummary{
		Technical:     req.Technical,
		Communication: req.Communication,
		Attitude:      req.Attitude,
		Notes:         req.Notes,
	}

	err = s.sessionRepo.Complete(applicationID, interviewerID, req.DurationSeconds, scores, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotInterviewing):
			return ErrNotInterviewing
		case errors.Is(err, repository.ErrNoOpenSession):
			return ErrNotSessionOwner
		default:
			return err
		}
	}

	s.eventService.Emit(&pubsub.Event{
		Type:          pubsub.EventApplicationUpdated,
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		JobID:         app.JobID,
		InterviewerID: interviewerID,
		Status:        model.StatusCompleted,
	})
	s.eventService.Emit(&pubsub.Event{
		Type:          pubsub.EventInterviewerUpdated,
		InterviewerID: interviewerID,
		Status:        model.InterviewerIdle,
	})
	return nil
}

// Skip 爽约处理，waiting 或 assigned 的申请置为 skipped
func (s *SessionService) Skip(applicationID int64) error {
	app, err := s.appRepo.GetByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}

	if err := s.sessionRepo.Skip(applicationID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotSkippable) {
			return ErrNotSkippable
		}
		return err
	}

	queueNumber := ""
	if app.QueueNumber != nil {
		queueNumber = *app.QueueNumber
	}
	s.eventService.Emit(&pubsub.Event{
		Type:          pubsub.EventApplicationUpdated,
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		JobID:         app.JobID,
		Status:        model.StatusSkipped,
		QueueNumber:   queueNumber,
	})
	return nil
}

// Current 面试官当前进行中的会话
func (s *SessionService) Current(interviewerID int64) (*dto.SessionInfo, error) {
	session, err := s.sessionRepo.GetOpenByInterviewer(interviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCurrentSession
		}
		return nil, err
	}

	info := &dto.SessionInfo{
		ID:            session.ID,
		ApplicationID: session.ApplicationID,
		InterviewerID: session.InterviewerID,
		StartedAt:     session.StartedAt.Format(time.RFC3339),
	}
	if session.Application != nil {
		if session.Application.QueueNumber != nil {
			info.QueueNumber = *session.Application.QueueNumber
		}
		if session.Application.Candidate != nil {
			info.CandidateName = session.Application.Candidate.FullName
		}
		if session.Application.Job != nil {
			info.JobTitle = session.Application.Job.Title
		}
	}
	return info, nil
}

func validateScores(req *dto.CompleteInterviewRequest) error {
	for _, score := range []int{req.Technical, req.Communication, req.Attitude} {
		if score < 0 || score > 10 {
			return ErrScoreOutOfRange
		}
	}
	return nil
}
