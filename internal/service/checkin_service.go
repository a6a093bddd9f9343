package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/config"
	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/pkg/geo"
	"github.com/wshuai/interview_go_server/internal/pkg/pubsub"
	"github.com/wshuai/interview_go_server/internal/repository"
)

var (
	ErrJobNotFound        = errors.New("职位不存在")
	ErrJobInactive        = errors.New("职位已停止招聘")
	ErrAlreadyApplied     = errors.New("已报名该职位")
	ErrHasLiveApplication = errors.New("已有进行中的申请，同一时间只能排一个职位")
	ErrAlreadyCheckedIn   = errors.New("已签到，请勿重复签到")
	ErrOutsideGeofence    = errors.New("不在签到范围内")
)

// CheckinService 签到闸口：校验重复报名与现场定位，
// 通过后在同一事务内分配排队号并把申请置为 waiting。
type CheckinService struct {
	appRepo      *repository.ApplicationRepository
	jobRepo      *repository.JobRepository
	profileRepo  *repository.ProfileRepository
	eventService *EventService
	fence        *geo.Geofence
}

func NewCheckinService(
	appRepo *repository.ApplicationRepository,
	jobRepo *repository.JobRepository,
	profileRepo *repository.ProfileRepository,
	eventService *EventService,
	cfg *config.Config,
) *CheckinService {
	return &CheckinService{
		appRepo:      appRepo,
		jobRepo:      jobRepo,
		profileRepo:  profileRepo,
		eventService: eventService,
		fence:        geo.NewGeofence(cfg.Venue.Latitude, cfg.Venue.Longitude, cfg.Venue.RadiusMeters),
	}
}

// Apply 报名职位，生成 registered 状态的申请
func (s *CheckinService) Apply(candidateID int64, req *dto.ApplyRequest) (*dto.ApplyResponse, error) {
	if _, err := s.profileRepo.GetByID(candidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	job, err := s.jobRepo.GetByID(req.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if !job.IsActive {
		return nil, ErrJobInactive
	}

	// 候选人同一时间最多持有一个非终态申请：人只有一个，排两个队没有意义
	live, err := s.appRepo.GetLiveByCandidate(candidateID)
	switch {
	case err == nil:
		if live.JobID == req.JobID {
			return nil, ErrAlreadyApplied
		}
		return nil, ErrHasLiveApplication
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	app := &model.Application{
		CandidateID: candidateID,
		JobID:       req.JobID,
		Status:      model.StatusRegistered,
		CVURL:       req.CVURL,
	}
	if err := s.appRepo.Create(app); err != nil {
		return nil, err
	}

	return &dto.ApplyResponse{
		ApplicationID: app.ID,
		Status:        app.Status,
	}, nil
}

// CheckIn 现场签到。校验顺序：重复申请 -> 地理围栏 -> 分配排队号。
// 未报名的现场候选人直接建为 registered 再签到（walk-in 路径）。
func (s *CheckinService) CheckIn(candidateID, jobID int64, lat, lng float64) (*dto.CheckinResponse, error) {
	if _, err := s.profileRepo.GetByID(candidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if !job.IsActive {
		return nil, ErrJobInactive
	}

	app, err := s.appRepo.GetLiveByCandidate(candidateID)
	switch {
	case err == nil:
		if app.JobID != jobID {
			return nil, ErrHasLiveApplication
		}
		if app.Status != model.StatusRegistered {
			return nil, ErrAlreadyCheckedIn
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		app = nil
	default:
		return nil, err
	}

	if !s.fence.Contains(lat, lng) {
		return nil, ErrOutsideGeofence
	}

	if app == nil {
		app = &model.Application{
			CandidateID: candidateID,
			JobID:       jobID,
			Status:      model.StatusRegistered,
		}
		if err := s.appRepo.Create(app); err != nil {
			return nil, err
		}
	}

	queueNumber, err := s.appRepo.CheckIn(app.ID, jobID, job.QueuePrefix, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyCheckedIn) {
			// 并发重复签到走到了这里：状态已不是 registered
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	checked, err := s.appRepo.GetByID(app.ID)
	if err != nil {
		return nil, err
	}
	position, err := s.appRepo.Position(checked)
	if err != nil {
		return nil, err
	}

	s.eventService.Emit(&pubsub.Event{
		Type:          pubsub.EventApplicationUpdated,
		ApplicationID: checked.ID,
		CandidateID:   checked.CandidateID,
		JobID:         checked.JobID,
		Status:        checked.Status,
		QueueNumber:   queueNumber,
	})

	return &dto.CheckinResponse{
		ApplicationID: checked.ID,
		QueueNumber:   queueNumber,
		Position:      position,
	}, nil
}
