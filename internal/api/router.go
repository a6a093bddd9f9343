package api

import (
	"github.com/gin-gonic/gin"

	"github.com/wshuai/interview_go_server/config"
	"github.com/wshuai/interview_go_server/internal/api/handler"
	"github.com/wshuai/interview_go_server/internal/api/middleware"
	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/repository"
)

type Router struct {
	authHandler        *handler.AuthHandler
	checkinHandler     *handler.CheckinHandler
	interviewerHandler *handler.InterviewerHandler
	adminHandler       *handler.AdminHandler
	websocketHandler   *handler.WebSocketHandler
	profileRepo        *repository.ProfileRepository
	rateLimiter        *middleware.RateLimiter
	cfg                *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	checkinHandler *handler.CheckinHandler,
	interviewerHandler *handler.InterviewerHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	profileRepo *repository.ProfileRepository,
	rateLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:        authHandler,
		checkinHandler:     checkinHandler,
		interviewerHandler: interviewerHandler,
		adminHandler:       adminHandler,
		websocketHandler:   websocketHandler,
		profileRepo:        profileRepo,
		rateLimiter:        rateLimiter,
		cfg:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 公开接口 - 在招职位
		api.GET("/jobs", r.checkinHandler.ListJobs)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.GET("/profile", r.authHandler.Me)

			// 候选人
			authenticated.POST("/applications", r.checkinHandler.Apply)
			authenticated.GET("/applications/me", r.checkinHandler.MyApplication)
			authenticated.POST("/checkin",
				middleware.RateLimit(r.rateLimiter, "checkin", r.cfg.Checkin.RateLimitPerMinute),
				r.checkinHandler.CheckIn)

			// 面试官
			interviewer := authenticated.Group("/interviewer")
			interviewer.Use(middleware.RequireRole(r.profileRepo, model.RoleInterviewer))
			{
				interviewer.POST("/next", r.interviewerHandler.RequestNext)
				interviewer.PUT("/status", r.interviewerHandler.SetStatus)
				interviewer.GET("/session", r.interviewerHandler.CurrentSession)
			}

			sessions := authenticated.Group("/applications")
			sessions.Use(middleware.RequireRole(r.profileRepo, model.RoleInterviewer))
			{
				sessions.POST("/:id/start", r.interviewerHandler.StartInterview)
				sessions.POST("/:id/complete", r.interviewerHandler.CompleteInterview)
			}

			// 管理端
			admin := authenticated.Group("/admin")
			admin.Use(middleware.RequireRole(r.profileRepo, model.RoleAdmin))
			{
				admin.GET("/queue", r.adminHandler.ListQueue)
				admin.POST("/applications/:id/skip", r.adminHandler.SkipApplication)
				admin.GET("/jobs", r.adminHandler.ListJobs)
				admin.POST("/jobs", r.adminHandler.CreateJob)
				admin.PUT("/jobs/:id", r.adminHandler.UpdateJob)
				admin.DELETE("/jobs/:id", r.adminHandler.DeactivateJob)
				admin.PUT("/profiles/:id/role", r.adminHandler.ChangeRole)
				admin.GET("/profiles/:id/role-changes", r.adminHandler.ListRoleChanges)
				admin.DELETE("/profiles/:id", r.adminHandler.DeleteProfile)
				admin.GET("/events", r.adminHandler.RecentEvents)
				admin.POST("/reconcile", r.adminHandler.Reconcile)
			}
		}
	}

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return engine
}
