package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wshuai/interview_go_server/internal/api/middleware"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/pkg/response"
	"github.com/wshuai/interview_go_server/internal/service"
)

type CheckinHandler struct {
	checkinService *service.CheckinService
	queueService   *service.QueueService
	jobService     *service.JobService
}

func NewCheckinHandler(
	checkinService *service.CheckinService,
	queueService *service.QueueService,
	jobService *service.JobService,
) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
		queueService:   queueService,
		jobService:     jobService,
	}
}

// ListJobs 在招职位列表
// GET /api/v1/jobs
func (h *CheckinHandler) ListJobs(c *gin.Context) {
	jobs, err := h.jobService.ListActive()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, jobs)
}

// Apply 报名职位
// POST /api/v1/applications
func (h *CheckinHandler) Apply(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.checkinService.Apply(userID, &req)
	if err != nil {
		switch err {
		case service.ErrJobNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrJobInactive:
			response.StateConflictError(c, err.Error())
		case service.ErrAlreadyApplied:
			response.DuplicateError(c, err.Error())
		case service.ErrHasLiveApplication:
			response.StateConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "报名成功", resp)
}

// CheckIn 现场签到，领取排队号
// POST /api/v1/checkin
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.checkinService.CheckIn(userID, req.JobID, *req.Latitude, *req.Longitude)
	if err != nil {
		switch err {
		case service.ErrJobNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrJobInactive:
			response.StateConflictError(c, err.Error())
		case service.ErrAlreadyCheckedIn:
			response.DuplicateError(c, err.Error())
		case service.ErrHasLiveApplication:
			response.StateConflictError(c, err.Error())
		case service.ErrOutsideGeofence:
			response.OutOfRangeError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "签到成功", resp)
}

// MyApplication 我的申请与排队位置
// GET /api/v1/applications/me
func (h *CheckinHandler) MyApplication(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.queueService.MyApplication(userID)
	if err != nil {
		switch err {
		case service.ErrNoLiveApplication:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}
