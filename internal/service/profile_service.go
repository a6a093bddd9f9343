package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/pkg/pubsub"
	"github.com/wshuai/interview_go_server/internal/repository"
)

var (
	ErrInterviewerBusy     = errors.New("面试官有进行中的面试，不能切换状态")
	ErrCannotDeleteSelf    = errors.New("不能删除自己的账号")
	ErrProfileHasOpenWork  = errors.New("该用户有进行中的面试，暂不能删除")
	ErrCannotChangeOwnRole = errors.New("不能修改自己的角色")
)

type ProfileService struct {
	profileRepo *repository.ProfileRepository
	sessionRepo *repository.SessionRepository
	eventSvc    *EventService
}

func NewProfileService(profileRepo *repository.ProfileRepository, sessionRepo *repository.SessionRepository, eventSvc *EventService) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		eventSvc:    eventSvc,
	}
}

func (s *ProfileService) Get(id int64) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// SetStatus 面试官自助切换可用状态（offline/idle/break）。
// busy 由匹配引擎独占管理，这里更新失败即表示当前正忙或不是面试官。
func (s *ProfileService) SetStatus(interviewerID int64, status string) (*model.Profile, error) {
	profile, err := s.Get(interviewerID)
	if err != nil {
		return nil, err
	}
	if profile.Role != model.RoleInterviewer {
		return nil, ErrNotInterviewer
	}

	ok, err := s.profileRepo.SetInterviewerStatus(interviewerID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInterviewerBusy
	}

	s.eventSvc.Emit(&pubsub.Event{
		Type:          pubsub.EventInterviewerUpdated,
		InterviewerID: interviewerID,
		Status:        status,
	})

	return s.profileRepo.GetByID(interviewerID)
}

// ChangeRole 管理员变更用户角色，写入审计记录
func (s *ProfileService) ChangeRole(profileID, actorID int64, newRole string) (*model.Profile, error) {
	if profileID == actorID {
		return nil, ErrCannotChangeOwnRole
	}
	if _, err := s.Get(profileID); err != nil {
		return nil, err
	}
	if err := s.profileRepo.ChangeRole(profileID, actorID, newRole); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByID(profileID)
}

func (s *ProfileService) ListRoleChanges(profileID int64) ([]*model.RoleChange, error) {
	return s.profileRepo.ListRoleChanges(profileID)
}

// Delete 管理员删除用户。有进行中面试的用户先完成或跳过面试再删，
// 避免把另一侧参与者留在悬挂状态。
func (s *ProfileService) Delete(profileID, actorID int64) error {
	if profileID == actorID {
		return ErrCannotDeleteSelf
	}

	profile, err := s.Get(profileID)
	if err != nil {
		return err
	}

	if profile.Role == model.RoleInterviewer {
		if _, err := s.sessionRepo.GetOpenByInterviewer(profileID); err == nil {
			return ErrProfileHasOpenWork
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	return s.profileRepo.DeleteCascade(profileID)
}
