package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wshuai/interview_go_server/config"
	"github.com/wshuai/interview_go_server/internal/database"
	"github.com/wshuai/interview_go_server/internal/pkg/eventlog"
	"github.com/wshuai/interview_go_server/internal/pkg/pubsub"
	"github.com/wshuai/interview_go_server/internal/repository"
	"github.com/wshuai/interview_go_server/internal/service"
)

// 对账进程：周期性释放卡在 busy 的面试官。和 API 服务分开部署，
// API 重启不影响对账，对账挂了也不影响叫号。
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

	publisher := pubsub.NewPublisher(rdb)
	eventLog := eventlog.NewLog(rdb, cfg.Events.RecentLimit)
	eventService := service.NewEventService(publisher, eventLog)

	profileRepo := repository.NewProfileRepository(db)
	reconcileService := service.NewReconcileService(profileRepo, eventService)

	interval := time.Duration(cfg.Reconcile.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	log.Printf("Reconciler started, interval: %s", interval)

	// 启动时先跑一次，尽快清掉上次崩溃的遗留
	if _, err := reconcileService.ReleaseStuck(); err != nil {
		log.Printf("Reconcile failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if _, err := reconcileService.ReleaseStuck(); err != nil {
				log.Printf("Reconcile failed: %v", err)
			}
		case sig := <-quit:
			log.Printf("Received signal %v, shutting down", sig)
			return
		}
	}
}
