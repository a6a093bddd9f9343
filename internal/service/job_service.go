package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/repository"
)

var ErrInvalidQueuePrefix = errors.New("排队号前缀必须是单个字母")

type JobService struct {
	jobRepo *repository.JobRepository
}

func NewJobService(jobRepo *repository.JobRepository) *JobService {
	return &JobService{jobRepo: jobRepo}
}

func (s *JobService) Create(req *dto.CreateJobRequest) (*model.Job, error) {
	prefix := strings.ToUpper(strings.TrimSpace(req.QueuePrefix))
	if prefix == "" {
		prefix = "A"
	}
	if len(prefix) != 1 || prefix[0] < 'A' || prefix[0] > 'Z' {
		return nil, ErrInvalidQueuePrefix
	}

	job := &model.Job{
		Title:       req.Title,
		Description: req.Description,
		QueuePrefix: prefix,
		IsActive:    true,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) Get(id int64) (*model.Job, error) {
	job, err := s.jobRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// Update 部分更新。排队号前缀不可修改，已发出的排队号依赖它。
func (s *JobService) Update(id int64, req *dto.UpdateJobRequest) (*model.Job, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) > 0 {
		if err := s.jobRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}
	return s.jobRepo.GetByID(id)
}

// Deactivate 下线职位。已在队列中的申请不受影响，只是不再接受新的申请。
func (s *JobService) Deactivate(id int64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.jobRepo.UpdateFields(id, map[string]interface{}{"is_active": false})
}

// ListActive 候选人视角的在招职位
func (s *JobService) ListActive() ([]*model.Job, error) {
	return s.jobRepo.ListActive()
}

// ListAll 管理端职位列表
func (s *JobService) ListAll() ([]*model.Job, error) {
	return s.jobRepo.ListAll()
}
