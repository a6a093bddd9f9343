package service

import (
	"log"

	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/pkg/pubsub"
	"github.com/wshuai/interview_go_server/internal/repository"
)

// ReconcileService 崩溃恢复对账：找出卡在 busy 但没有任何进行中面试的
// 面试官并释放回 idle。正常流程不会产生这种状态，只有进程在
// 完成/跳过事务提交前崩溃才会遗留。
type ReconcileService struct {
	profileRepo *repository.ProfileRepository
	eventSvc    *EventService
}

func NewReconcileService(profileRepo *repository.ProfileRepository, eventSvc *EventService) *ReconcileService {
	return &ReconcileService{
		profileRepo: profileRepo,
		eventSvc:    eventSvc,
	}
}

// ReleaseStuck 释放所有悬挂的 busy 面试官，返回释放数量。
// 用 CAS 释放，面试官在对账间隙被重新匹配成 busy 时不会被误放。
func (s *ReconcileService) ReleaseStuck() (int, error) {
	stuck, err := s.profileRepo.ListBusyWithoutOpenSession()
	if err != nil {
		return 0, err
	}

	released := 0
	for _, p := range stuck {
		ok, err := s.profileRepo.CASInterviewerStatus(p.ID, model.InterviewerBusy, model.InterviewerIdle)
		if err != nil {
			log.Printf("Failed to release interviewer %d: %v", p.ID, err)
			continue
		}
		if !ok {
			// 查询和释放之间状态已变化，跳过
			continue
		}

		released++
		s.eventSvc.Emit(&pubsub.Event{
			Type:          pubsub.EventInterviewerUpdated,
			InterviewerID: p.ID,
			Status:        model.InterviewerIdle,
		})
	}

	if released > 0 {
		log.Printf("Reconcile released %d stuck interviewer(s)", released)
	}
	return released, nil
}
