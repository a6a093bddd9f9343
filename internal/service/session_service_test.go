package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/repository"
	"github.com/wshuai/interview_go_server/internal/testutil"
)

func setupSessionService(t *testing.T, db *gorm.DB) *SessionService {
	t.Helper()

	sessionRepo := repository.NewSessionRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	return NewSessionService(sessionRepo, appRepo, nil)
}

func completeRequest(technical, communication, attitude int) *dto.CompleteInterviewRequest {
	return &dto.CompleteInterviewRequest{
		DurationSeconds: 1800,
		Technical:       technical,
		Communication:   communication,
		Attitude:        attitude,
		Notes:           "整体表现不错",
	}
}

// 建好一个 assigned 申请 + 开着的会话 + busy 面试官
func assignedFixture(t *testing.T, db *gorm.DB) (*model.Application, *model.Profile) {
	t.Helper()

	interviewer := testutil.TestInterviewer(t, db,
		testutil.WithInterviewerStatus(model.InterviewerBusy))
	candidate := testutil.TestProfile(t, db)
	job := testutil.TestJob(t, db)
	app := testutil.TestApplication(t, db, candidate.ID, job.ID,
		testutil.WithCheckedIn(time.Now(), "A-001"))
	require.NoError(t, db.Model(app).Update("status", model.StatusAssigned).Error)
	app.Status = model.StatusAssigned
	testutil.TestSession(t, db, app.ID, interviewer.ID)
	return app, interviewer
}

func TestSessionService_Start_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, interviewer := assignedFixture(t, db)

	require.NoError(t, service.Start(app.ID, interviewer.ID))

	var got model.Application
	require.NoError(t, db.Where("id = ?", app.ID).First(&got).Error)
	assert.Equal(t, model.StatusInterviewing, got.Status)
}

func TestSessionService_Start_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, interviewer := assignedFixture(t, db)

	require.NoError(t, service.Start(app.ID, interviewer.ID))
	// 重复点击开始不算错误
	require.NoError(t, service.Start(app.ID, interviewer.ID))
}

func TestSessionService_Start_NotOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, _ := assignedFixture(t, db)
	other := testutil.TestInterviewer(t, db)

	err := service.Start(app.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotSessionOwner)
}

func TestSessionService_Start_WrongState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	interviewer := testutil.TestInterviewer(t, db)
	candidate := testutil.TestProfile(t, db)
	job := testutil.TestJob(t, db)
	app := testutil.TestApplication(t, db, candidate.ID, job.ID,
		testutil.WithCheckedIn(time.Now(), "A-001")) // waiting，尚未分配

	err := service.Start(app.ID, interviewer.ID)
	assert.ErrorIs(t, err, ErrNotAssigned)
}

func TestSessionService_Complete_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, interviewer := assignedFixture(t, db)
	require.NoError(t, service.Start(app.ID, interviewer.ID))

	require.NoError(t, service.Complete(app.ID, interviewer.ID, completeRequest(8, 7, 9)))

	var got model.Application
	require.NoError(t, db.Where("id = ?", app.ID).First(&got).Error)
	assert.Equal(t, model.StatusCompleted, got.Status)
	require.NotNil(t, got.ScoreSummary)
	assert.Equal(t, 8, got.ScoreSummary.Technical)
	assert.Equal(t, 7, got.ScoreSummary.Communication)
	assert.Equal(t, 9, got.ScoreSummary.Attitude)

	var session model.Session
	require.NoError(t, db.Where("application_id = ?", app.ID).First(&session).Error)
	assert.NotNil(t, session.EndedAt)
	assert.Equal(t, 1800, session.DurationSeconds)

	// 面试官释放回 idle
	var profile model.Profile
	require.NoError(t, db.Where("id = ?", interviewer.ID).First(&profile).Error)
	assert.Equal(t, model.InterviewerIdle, profile.InterviewerStatus)
}

func TestSessionService_Complete_ScoreOutOfRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, interviewer := assignedFixture(t, db)
	require.NoError(t, service.Start(app.ID, interviewer.ID))

	err := service.Complete(app.ID, interviewer.ID, completeRequest(11, 5, 5))
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	err = service.Complete(app.ID, interviewer.ID, completeRequest(5, -1, 5))
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	// 校验失败不落任何写入
	var got model.Application
	require.NoError(t, db.Where("id = ?", app.ID).First(&got).Error)
	assert.Equal(t, model.StatusInterviewing, got.Status)
}

func TestSessionService_Complete_BoundaryScores(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, interviewer := assignedFixture(t, db)
	require.NoError(t, service.Start(app.ID, interviewer.ID))

	require.NoError(t, service.Complete(app.ID, interviewer.ID, completeRequest(0, 10, 0)))
}

func TestSessionService_Complete_NotInterviewing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, interviewer := assignedFixture(t, db) // 仍是 assigned

	err := service.Complete(app.ID, interviewer.ID, completeRequest(5, 5, 5))
	assert.ErrorIs(t, err, ErrNotInterviewing)
}

func TestSessionService_Complete_NotOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, interviewer := assignedFixture(t, db)
	require.NoError(t, service.Start(app.ID, interviewer.ID))

	other := testutil.TestInterviewer(t, db)
	err := service.Complete(app.ID, other.ID, completeRequest(5, 5, 5))
	assert.ErrorIs(t, err, ErrNotSessionOwner)
}

func TestSessionService_Skip_FromWaiting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	candidate := testutil.TestProfile(t, db)
	job := testutil.TestJob(t, db)
	app := testutil.TestApplication(t, db, candidate.ID, job.ID,
		testutil.WithCheckedIn(time.Now(), "A-001"))

	require.NoError(t, service.Skip(app.ID))

	var got model.Application
	require.NoError(t, db.Where("id = ?", app.ID).First(&got).Error)
	assert.Equal(t, model.StatusSkipped, got.Status)
}

func TestSessionService_Skip_FromAssignedReleasesInterviewer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, interviewer := assignedFixture(t, db)

	require.NoError(t, service.Skip(app.ID))

	var profile model.Profile
	require.NoError(t, db.Where("id = ?", interviewer.ID).First(&profile).Error)
	assert.Equal(t, model.InterviewerIdle, profile.InterviewerStatus)

	var session model.Session
	require.NoError(t, db.Where("application_id = ?", app.ID).First(&session).Error)
	assert.NotNil(t, session.EndedAt)
}

func TestSessionService_Skip_CompletedRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	candidate := testutil.TestProfile(t, db)
	job := testutil.TestJob(t, db)
	app := testutil.TestApplication(t, db, candidate.ID, job.ID,
		testutil.WithStatus(model.StatusCompleted))

	err := service.Skip(app.ID)
	assert.ErrorIs(t, err, ErrNotSkippable)
}

func TestSessionService_Current(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupSessionService(t, db)

	app, interviewer := assignedFixture(t, db)

	info, err := service.Current(interviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, info.ApplicationID)
	assert.Equal(t, "A-001", info.QueueNumber)

	require.NoError(t, service.Start(app.ID, interviewer.ID))
	require.NoError(t, service.Complete(app.ID, interviewer.ID, completeRequest(5, 5, 5)))

	_, err = service.Current(interviewer.ID)
	assert.ErrorIs(t, err, ErrNoCurrentSession)
}
