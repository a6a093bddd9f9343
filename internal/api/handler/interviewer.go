package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wshuai/interview_go_server/internal/api/middleware"
	"github.com/wshuai/interview_go_server/internal/model/dto"
	"github.com/wshuai/interview_go_server/internal/pkg/response"
	"github.com/wshuai/interview_go_server/internal/service"
)

type InterviewerHandler struct {
	matchingService *service.MatchingService
	sessionService  *service.SessionService
	profileService  *service.ProfileService
}

func NewInterviewerHandler(
	matchingService *service.MatchingService,
	sessionService *service.SessionService,
	profileService *service.ProfileService,
) *InterviewerHandler {
	return &InterviewerHandler{
		matchingService: matchingService,
		sessionService:  sessionService,
		profileService:  profileService,
	}
}

// RequestNext 叫号：领取队首候选人
// POST /api/v1/interviewer/next
func (h *InterviewerHandler) RequestNext(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.matchingService.RequestNext(userID)
	if err != nil {
		switch err {
		case service.ErrNotInterviewer:
			response.PermissionError(c, err.Error())
		case service.ErrInterviewerNotIdle:
			response.StateConflictError(c, err.Error())
		case service.ErrProfileNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	if resp.Empty {
		response.SuccessWithMessage(c, "当前没有等待中的候选人", resp)
		return
	}
	response.Success(c, resp)
}

// SetStatus 调整自己的状态
// PUT /api/v1/interviewer/status
func (h *InterviewerHandler) SetStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	profile, err := h.profileService.SetStatus(userID, req.Status)
	if err != nil {
		switch err {
		case service.ErrNotInterviewer:
			response.PermissionError(c, err.Error())
		case service.ErrInterviewerBusy:
			response.StateConflictError(c, err.Error())
		case service.ErrProfileNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, service.BuildProfileInfo(profile))
}

// CurrentSession 当前进行中的面试
// GET /api/v1/interviewer/session
func (h *InterviewerHandler) CurrentSession(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.sessionService.Current(userID)
	if err != nil {
		switch err {
		case service.ErrNoCurrentSession:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// StartInterview 开始面试
// POST /api/v1/applications/:id/start
func (h *InterviewerHandler) StartInterview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的申请ID")
		return
	}

	if err := h.sessionService.Start(applicationID, userID); err != nil {
		switch err {
		case service.ErrApplicationNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotAssigned:
			response.StateConflictError(c, err.Error())
		case service.ErrNotSessionOwner:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "面试开始", nil)
}

// CompleteInterview 完成面试并提交评分
// POST /api/v1/applications/:id/complete
func (h *InterviewerHandler) CompleteInterview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的申请ID")
		return
	}

	var req dto.CompleteInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.sessionService.Complete(applicationID, userID, &req); err != nil {
		switch err {
		case service.ErrApplicationNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrNotInterviewing:
			response.StateConflictError(c, err.Error())
		case service.ErrNotSessionOwner:
			response.PermissionError(c, err.Error())
		case service.ErrScoreOutOfRange:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "面试完成", nil)
}
