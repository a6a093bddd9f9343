package main

import (
	"flag"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/wshuai/interview_go_server/config"
	"github.com/wshuai/interview_go_server/internal/database"
	"github.com/wshuai/interview_go_server/internal/model"
)

var (
	dryRun   = flag.Bool("dry-run", true, "Dry run mode, don't actually delete rows")
	keepDays = flag.Int("keep-days", 90, "Days to keep terminal applications and their sessions")
)

// 清理历史数据：招聘活动结束后，终态申请和对应会话没有线上价值，
// 只占存储。排队号计数器按天隔离，过去日期的行也一并清掉。
func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v, keep-days=%d", *dryRun, *keepDays)

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	cutoff := time.Now().AddDate(0, 0, -*keepDays)

	apps := cleanTerminalApplications(db, cutoff)
	counters := cleanStaleCounters(db)

	if *dryRun {
		log.Printf("DRY RUN - would delete %d application(s) and %d counter row(s)", apps, counters)
		log.Println("Run with -dry-run=false to actually delete")
	} else {
		log.Printf("Cleanup completed: %d application(s), %d counter row(s)", apps, counters)
	}
}

// cleanTerminalApplications 删除早于 cutoff 的终态申请及其会话
func cleanTerminalApplications(db *gorm.DB, cutoff time.Time) int64 {
	terminal := []string{model.StatusCompleted, model.StatusSkipped}

	var ids []int64
	err := db.Model(&model.Application{}).
		Where("status IN ? AND updated_at < ?", terminal, cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("Failed to query terminal applications: %v", err)
		return 0
	}
	if len(ids) == 0 {
		return 0
	}

	log.Printf("Found %d terminal application(s) older than %s", len(ids), cutoff.Format("2006-01-02"))

	if *dryRun {
		return int64(len(ids))
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id IN ?", ids).Delete(&model.Session{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Application{}).Error
	})
	if err != nil {
		log.Printf("Failed to delete applications: %v", err)
		return 0
	}
	return int64(len(ids))
}

// cleanStaleCounters 删除非当天的排队号计数器行
func cleanStaleCounters(db *gorm.DB) int64 {
	today := time.Now().Format("2006-01-02")

	if *dryRun {
		var count int64
		if err := db.Model(&model.QueueCounter{}).Where("day <> ?", today).Count(&count).Error; err != nil {
			log.Printf("Failed to count stale counters: %v", err)
			return 0
		}
		return count
	}

	res := db.Where("day <> ?", today).Delete(&model.QueueCounter{})
	if res.Error != nil {
		log.Printf("Failed to delete stale counters: %v", res.Error)
		return 0
	}
	return res.RowsAffected
}
