package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/pkg/response"
	"github.com/wshuai/interview_go_server/internal/repository"
	"github.com/wshuai/interview_go_server/internal/service"
	"github.com/wshuai/interview_go_server/internal/testutil"
)

func setupAdminHandler(t *testing.T) (*AdminHandler, *testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	appRepo := repository.NewApplicationRepository(db)
	jobRepo := repository.NewJobRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	queueService := service.NewQueueService(appRepo)
	sessionService := service.NewSessionService(sessionRepo, appRepo, nil)
	jobService := service.NewJobService(jobRepo)
	profileService := service.NewProfileService(profileRepo, sessionRepo, nil)
	reconcileService := service.NewReconcileService(profileRepo, nil)
	h := NewAdminHandler(queueService, sessionService, jobService, profileService, nil, reconcileService, 100)

	ctx := &testContext{DB: db}
	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return h, ctx, cleanup
}

func TestAdminHandler_ListQueue(t *testing.T) {
	h, ctx, cleanup := setupAdminHandler(t)
	defer cleanup()

	job := testutil.TestJob(t, ctx.DB)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 2; i++ {
		c := testutil.TestProfile(t, ctx.DB)
		testutil.TestApplication(t, ctx.DB, c.ID, job.ID,
			testutil.WithCheckedIn(base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("A-%03d", i+1)))
	}

	router := gin.New()
	router.GET("/admin/queue", h.ListQueue)

	w := performRequest(router, "GET", "/admin/queue", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["total"])
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "A-001", first["queue_number"])
	assert.Equal(t, float64(1), first["position"])
}

func TestAdminHandler_ListQueue_Paged(t *testing.T) {
	h, ctx, cleanup := setupAdminHandler(t)
	defer cleanup()

	job := testutil.TestJob(t, ctx.DB)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		c := testutil.TestProfile(t, ctx.DB)
		testutil.TestApplication(t, ctx.DB, c.ID, job.ID,
			testutil.WithCheckedIn(base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("A-%03d", i+1)))
	}

	router := gin.New()
	router.GET("/admin/queue", h.ListQueue)

	// 第二页只剩最后一人，位置仍按全队列计算
	w := performRequest(router, "GET", "/admin/queue?page=2&page_size=2", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(2), data["page"])
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	last := items[0].(map[string]interface{})
	assert.Equal(t, "A-003", last["queue_number"])
	assert.Equal(t, float64(3), last["position"])
}

func TestAdminHandler_SkipApplication(t *testing.T) {
	h, ctx, cleanup := setupAdminHandler(t)
	defer cleanup()

	candidate := testutil.TestProfile(t, ctx.DB)
	job := testutil.TestJob(t, ctx.DB)
	app := testutil.TestApplication(t, ctx.DB, candidate.ID, job.ID,
		testutil.WithCheckedIn(time.Now(), "A-001"))

	router := gin.New()
	router.POST("/admin/applications/:id/skip", h.SkipApplication)

	w := performRequest(router, "POST", fmt.Sprintf("/admin/applications/%d/skip", app.ID), nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	var got model.Application
	require.NoError(t, ctx.DB.Where("id = ?", app.ID).First(&got).Error)
	assert.Equal(t, model.StatusSkipped, got.Status)
}

func TestAdminHandler_SkipApplication_WrongState(t *testing.T) {
	h, ctx, cleanup := setupAdminHandler(t)
	defer cleanup()

	candidate := testutil.TestProfile(t, ctx.DB)
	job := testutil.TestJob(t, ctx.DB)
	app := testutil.TestApplication(t, ctx.DB, candidate.ID, job.ID,
		testutil.WithStatus(model.StatusCompleted))

	router := gin.New()
	router.POST("/admin/applications/:id/skip", h.SkipApplication)

	w := performRequest(router, "POST", fmt.Sprintf("/admin/applications/%d/skip", app.ID), nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeStateConflict, resp.Code)
}

func TestAdminHandler_JobCRUD(t *testing.T) {
	h, _, cleanup := setupAdminHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/admin/jobs", h.CreateJob)
	router.PUT("/admin/jobs/:id", h.UpdateJob)
	router.DELETE("/admin/jobs/:id", h.DeactivateJob)
	router.GET("/admin/jobs", h.ListJobs)

	w := performRequest(router, "POST", "/admin/jobs", dto.CreateJobRequest{
		Title:       "测试开发工程师",
		QueuePrefix: "T",
	})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	jobID := int64(data["id"].(float64))
	assert.Equal(t, "T", data["queue_prefix"])

	newTitle := "高级测试开发工程师"
	w = performRequest(router, "PUT", fmt.Sprintf("/admin/jobs/%d", jobID), dto.UpdateJobRequest{Title: &newTitle})
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, newTitle, resp.Data.(map[string]interface{})["title"])

	w = performRequest(router, "DELETE", fmt.Sprintf("/admin/jobs/%d", jobID), nil)
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "GET", "/admin/jobs", nil)
	resp = parseResponse(t, w)
	items := resp.Data.([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, false, items[0].(map[string]interface{})["is_active"])
}

func TestAdminHandler_ChangeRole(t *testing.T) {
	h, ctx, cleanup := setupAdminHandler(t)
	defer cleanup()

	admin := testutil.TestProfile(t, ctx.DB, testutil.WithRole(model.RoleAdmin))
	candidate := testutil.TestProfile(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.PUT("/admin/profiles/:id/role", h.ChangeRole)
	router.GET("/admin/profiles/:id/role-changes", h.ListRoleChanges)

	w := performRequest(router, "PUT", fmt.Sprintf("/admin/profiles/%d/role", candidate.ID),
		dto.ChangeRoleRequest{Role: model.RoleInterviewer})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, model.RoleInterviewer, resp.Data.(map[string]interface{})["role"])

	w = performRequest(router, "GET", fmt.Sprintf("/admin/profiles/%d/role-changes", candidate.ID), nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	changes := resp.Data.([]interface{})
	require.Len(t, changes, 1)
}

func TestAdminHandler_ChangeRole_Self(t *testing.T) {
	h, ctx, cleanup := setupAdminHandler(t)
	defer cleanup()

	admin := testutil.TestProfile(t, ctx.DB, testutil.WithRole(model.RoleAdmin))

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.PUT("/admin/profiles/:id/role", h.ChangeRole)

	w := performRequest(router, "PUT", fmt.Sprintf("/admin/profiles/%d/role", admin.ID),
		dto.ChangeRoleRequest{Role: model.RoleCandidate})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeStateConflict, resp.Code)
}

func TestAdminHandler_DeleteProfile(t *testing.T) {
	h, ctx, cleanup := setupAdminHandler(t)
	defer cleanup()

	admin := testutil.TestProfile(t, ctx.DB, testutil.WithRole(model.RoleAdmin))
	candidate := testutil.TestProfile(t, ctx.DB)

	router := gin.New()
	router.Use(mockAuth(admin.ID))
	router.DELETE("/admin/profiles/:id", h.DeleteProfile)

	w := performRequest(router, "DELETE", fmt.Sprintf("/admin/profiles/%d", candidate.ID), nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	var count int64
	require.NoError(t, ctx.DB.Model(&model.Profile{}).Where("id = ?", candidate.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdminHandler_Reconcile(t *testing.T) {
	h, ctx, cleanup := setupAdminHandler(t)
	defer cleanup()

	testutil.TestInterviewer(t, ctx.DB,
		testutil.WithInterviewerStatus(model.InterviewerBusy))

	router := gin.New()
	router.POST("/admin/reconcile", h.Reconcile)

	w := performRequest(router, "POST", "/admin/reconcile", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, float64(1), resp.Data.(map[string]interface{})["released"])
}
