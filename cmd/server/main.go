package main

import (
	"context"
	"fmt"
	"log"

	"github.com/wshuai/interview_go_server/config"
	"github.com/wshuai/interview_go_server/internal/api"
	"github.com/wshuai/interview_go_server/internal/api/handler"
	"github.com/wshuai/interview_go_server/internal/api/middleware"
	"github.com/wshuai/interview_go_server/internal/database"
	"github.com/wshuai/interview_go_server/internal/model"
	"github.com/wshuai/interview_go_server/internal/pkg/eventlog"
	"github.com/wshuai/interview_go_server/internal/pkg/pubsub"
	"github.com/wshuai/interview_go_server/internal/pkg/ws"
	"github.com/wshuai/interview_go_server/internal/repository"
	"github.com/wshuai/interview_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()

	// 初始化 Repository
	profileRepo := repository.NewProfileRepository(db)
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	matchingRepo := repository.NewMatchingRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// 初始化事件通道
	publisher := pubsub.NewPublisher(rdb)
	eventLog := eventlog.NewLog(rdb, cfg.Events.RecentLimit)
	eventService := service.NewEventService(publisher, eventLog)

	// 初始化 Service
	authService := service.NewAuthService(profileRepo, cfg)
	profileService := service.NewProfileService(profileRepo, sessionRepo, eventService)
	checkinService := service.NewCheckinService(appRepo, jobRepo, profileRepo, eventService, cfg)
	matchingService := service.NewMatchingService(matchingRepo, appRepo, profileRepo, eventService, cfg)
	sessionService := service.NewSessionService(sessionRepo, appRepo, eventService)
	queueService := service.NewQueueService(appRepo)
	jobService := service.NewJobService(jobRepo)
	reconcileService := service.NewReconcileService(profileRepo, eventService)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, profileService)
	checkinHandler := handler.NewCheckinHandler(checkinService, queueService, jobService)
	interviewerHandler := handler.NewInterviewerHandler(matchingService, sessionService, profileService)
	adminHandler := handler.NewAdminHandler(
		queueService, sessionService, jobService, profileService,
		eventService, reconcileService, cfg.Events.RecentLimit)
	websocketHandler := handler.NewWebSocketHandler(wsHub, profileService, cfg.JWT.Secret)

	// 订阅事件并推给在线的 WebSocket 连接
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.Event) {
			dispatchEvent(wsHub, event)
		})
		if err != nil && err != context.Canceled {
			log.Printf("Event subscription stopped: %v", err)
		}
	}()
	log.Println("Event subscriber started")

	// 初始化 Router
	rateLimiter := middleware.NewRateLimiter(rdb)
	router := api.NewRouter(
		authHandler,
		checkinHandler,
		interviewerHandler,
		adminHandler,
		websocketHandler,
		profileRepo,
		rateLimiter,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// dispatchEvent 按角色分发事件：管理看板收全量，候选人和面试官只收自己的
func dispatchEvent(hub *ws.Hub, event *pubsub.Event) {
	msg := &ws.Message{
		Type: event.Type,
		Data: event,
	}

	if err := hub.SendToRole(model.RoleAdmin, msg); err != nil {
		log.Printf("Failed to broadcast event to admins: %v", err)
	}

	if event.CandidateID != 0 {
		if err := hub.SendToProfile(event.CandidateID, msg); err != nil {
			log.Printf("Failed to send event to candidate %d: %v", event.CandidateID, err)
		}
	}
	if event.InterviewerID != 0 {
		if err := hub.SendToProfile(event.InterviewerID, msg); err != nil {
			log.Printf("Failed to send event to interviewer %d: %v", event.InterviewerID, err)
		}
	}
}
