package repository

import (
	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(job *model.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) GetByID(id int64) (*model.Job, error) {
	var job model.Job
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(job *model.Job) error {
	return r.db.Save(job).Error
}

func (r *JobRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Job{}).Where("id = ?", id).Updates(fields).Error
}

// ListActive 候选人可见的在招职位
func (r *JobRepository) ListActive() ([]*model.Job, error) {
	var jobs []*model.Job
	err := r.db.Where("is_active = ?", true).Order("created_at ASC").Find(&jobs).Error
	return jobs, err
}

// ListAll 管理端职位列表（含已下线）
func (r *JobRepository) ListAll() ([]*model.Job, error) {
	var jobs []*model.Job
	err := r.db.Order("created_at ASC").Find(&jobs).Error
	return jobs, err
}
