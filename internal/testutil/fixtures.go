package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestProfile 创建测试用户（默认候选人）
func TestProfile(t *testing.T, db *gorm.DB, opts ...func(*model.Profile)) *model.Profile {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	profile := &model.Profile{
		Username:          fmt.Sprintf("testuser_%d", seq),
		Email:             &email,
		PasswordHash:      &passwordHash,
		FullName:          fmt.Sprintf("Test User %d", seq),
		Role:              model.RoleCandidate,
		InterviewerStatus: model.InterviewerOffline,
	}

	for _, opt := range opts {
		opt(profile)
	}

	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	return profile
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.Profile) {
	return func(p *model.Profile) {
		p.Username = username
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.Profile) {
	return func(p *model.Profile) {
		p.Role = role
	}
}

// WithInterviewerStatus 设置面试官状态
func WithInterviewerStatus(status string) func(*model.Profile) {
	return func(p *model.Profile) {
		p.InterviewerStatus = status
	}
}

// TestInterviewer 创建空闲状态的测试面试官
func TestInterviewer(t *testing.T, db *gorm.DB, opts ...func(*model.Profile)) *model.Profile {
	t.Helper()

	allOpts := append([]func(*model.Profile){
		WithRole(model.RoleInterviewer),
		WithInterviewerStatus(model.InterviewerIdle),
	}, opts...)
	return TestProfile(t, db, allOpts...)
}

// TestJob 创建测试职位
func TestJob(t *testing.T, db *gorm.DB, opts ...func(*model.Job)) *model.Job {
	t.Helper()

	job := &model.Job{
		Title:       fmt.Sprintf("Test Job %d", nextSeq()),
		QueuePrefix: "A",
		IsActive:    true,
	}

	for _, opt := range opts {
		opt(job)
	}

	// is_active=false 是零值，Create 时会被 gorm 的 default:true 覆盖并回填
	// 到结构体，需要先记下期望值、插入后再单独 UPDATE 落库
	// （见 REVIEW_FINDINGS.md F6）
	wantActive := job.IsActive

	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Failed to create test job: %v", err)
	}

	if !wantActive {
		if err := db.Model(job).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test job: %v", err)
		}
		job.IsActive = false
	}

	return job
}

// WithTitle 设置职位标题
func WithTitle(title string) func(*model.Job) {
	return func(j *model.Job) {
		j.Title = title
	}
}

// WithQueuePrefix 设置排队号前缀
func WithQueuePrefix(prefix string) func(*model.Job) {
	return func(j *model.Job) {
		j.QueuePrefix = prefix
	}
}

// WithActive 设置职位是否在招
func WithActive(active bool) func(*model.Job) {
	return func(j *model.Job) {
		j.IsActive = active
	}
}

// TestApplication 创建测试申请（默认 registered）
func TestApplication(t *testing.T, db *gorm.DB, candidateID, jobID int64, opts ...func(*model.Application)) *model.Application {
	t.Helper()

	app := &model.Application{
		CandidateID: candidateID,
		JobID:       jobID,
		Status:      model.StatusRegistered,
	}

	for _, opt := range opts {
		opt(app)
	}

	if err := db.Create(app).Error; err != nil {
		t.Fatalf("Failed to create test application: %v", err)
	}

	return app
}

// WithStatus 设置申请状态
func WithStatus(status string) func(*model.Application) {
	return func(a *model.Application) {
		a.Status = status
	}
}

// WithCheckedIn 设置签到时间与排队号，状态置为 waiting
func WithCheckedIn(at time.Time, queueNumber string) func(*model.Application) {
	return func(a *model.Application) {
		a.Status = model.StatusWaiting
		a.CheckedInAt = &at
		a.QueueNumber = &queueNumber
	}
}

// TestSession 创建测试面试会话
func TestSession(t *testing.T, db *gorm.DB, applicationID, interviewerID int64, opts ...func(*model.Session)) *model.Session {
	t.Helper()

	session := &model.Session{
		ApplicationID: applicationID,
		InterviewerID: interviewerID,
		StartedAt:     time.Now(),
	}

	for _, opt := range opts {
		opt(session)
	}

	if err := db.Create(session).Error; err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return session
}

// WithEnded 设置会话结束时间
func WithEnded(at time.Time) func(*model.Session) {
	return func(s *model.Session) {
		s.EndedAt = &at
	}
}
