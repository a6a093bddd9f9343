package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wshuai/interview_go_server/internal/api/middleware"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/pkg/response"
	"github.com/wshuai/interview_go_server/internal/service"
)

// AdminHandler 管理端看板与后台操作
type AdminHandler struct {
	queueService     *service.QueueService
	sessionService   *service.SessionService
	jobService       *service.JobService
	profileService   *service.ProfileService
	eventService     *service.EventService
	reconcileService *service.ReconcileService
	recentLimit      int64
}

func NewAdminHandler(
	queueService *service.QueueService,
	sessionService *service.SessionService,
	jobService *service.JobService,
	profileService *service.ProfileService,
	eventService *service.EventService,
	reconcileService *service.ReconcileService,
	recentLimit int64,
) *AdminHandler {
	return &AdminHandler{
		queueService:     queueService,
		sessionService:   sessionService,
		jobService:       jobService,
		profileService:   profileService,
		eventService:     eventService,
		reconcileService: reconcileService,
		recentLimit:      recentLimit,
	}
}

// ListQueue 等待队列分页视图
// GET /api/v1/admin/queue?page=1&page_size=20
func (h *AdminHandler) ListQueue(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	entries, err := h.queueService.ListWaiting()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	// 位置是按全队列推导的，先取全量再切页
	start := (page - 1) * pageSize
	if start > len(entries) {
		start = len(entries)
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	response.SuccessPage(c, int64(len(entries)), page, pageSize, entries[start:end])
}

// SkipApplication 跳过爽约候选人
// POST /api/v1/admin/applications/:id/skip
func (h *AdminHandler) SkipApplication(c *gin.Context) {
	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的申请ID")
		return
	}

	if err := h.sessionService.Skip(applicationID); err != nil {
		switch err {
		case service.ErrApplicationNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotSkippable:
			response.StateConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已跳过", nil)
}

// CreateJob 创建职位
// POST /api/v1/admin/jobs
func (h *AdminHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	job, err := h.jobService.Create(&req)
	if err != nil {
		switch err {
		case service.ErrInvalidQueuePrefix:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "创建成功", job)
}

// UpdateJob 更新职位
// PUT /api/v1/admin/jobs/:id
func (h *AdminHandler) UpdateJob(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的职位ID")
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	job, err := h.jobService.Update(jobID, &req)
	if err != nil {
		switch err {
		case service.ErrJobNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, job)
}

// DeactivateJob 下线职位
// DELETE /api/v1/admin/jobs/:id
func (h *AdminHandler) DeactivateJob(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的职位ID")
		return
	}

	if err := h.jobService.Deactivate(jobID); err != nil {
		switch err {
		case service.ErrJobNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已下线", nil)
}

// ListJobs 全部职位（含已下线）
// GET /api/v1/admin/jobs
func (h *AdminHandler) ListJobs(c *gin.Context) {
	jobs, err := h.jobService.ListAll()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, jobs)
}

// ChangeRole 变更用户角色
// PUT /api/v1/admin/profiles/:id/role
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	profileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	profile, err := h.profileService.ChangeRole(profileID, actorID, req.Role)
	if err != nil {
		switch err {
		case service.ErrProfileNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrCannotChangeOwnRole:
			response.StateConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, service.BuildProfileInfo(profile))
}

// ListRoleChanges 角色变更审计记录
// GET /api/v1/admin/profiles/:id/role-changes
func (h *AdminHandler) ListRoleChanges(c *gin.Context) {
	profileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	changes, err := h.profileService.ListRoleChanges(profileID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, changes)
}

// DeleteProfile 删除用户
// DELETE /api/v1/admin/profiles/:id
func (h *AdminHandler) DeleteProfile(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	profileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	if err := h.profileService.Delete(profileID, actorID); err != nil {
		switch err {
		case service.ErrProfileNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrCannotDeleteSelf, service.ErrProfileHasOpenWork:
			response.StateConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已删除", nil)
}

// RecentEvents 最近事件（看板断线重连补数）
// GET /api/v1/admin/events
func (h *AdminHandler) RecentEvents(c *gin.Context) {
	limit := h.recentLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= h.recentLimit {
			limit = n
		}
	}

	events, err := h.eventService.Recent(limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, events)
}

// Reconcile 手动触发一次对账
// POST /api/v1/admin/reconcile
func (h *AdminHandler) Reconcile(c *gin.Context) {
	released, err := h.reconcileService.ReleaseStuck()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"released": released})
}
