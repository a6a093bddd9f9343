package service

import (
	"context"
	"log"
	"time"

	"github.com/wshuai/interview_go_server/internal/pkg/eventlog"
	"github.com/wshuai/interview_go_server/internal/pkg/pubsub"
)

// EventService 把已提交的状态迁移广播出去：Redis pub/sub 给在线订阅者，
// 事件日志给断线重连的看板补数。通知失败只记日志，绝不影响已提交的状态迁移。
type EventService struct {
	publisher *pubsub.Publisher
	eventLog  *eventlog.Log
}

func NewEventService(publisher *pubsub.Publisher, eventLog *eventlog.Log) *EventService {
	return &EventService{
		publisher: publisher,
		eventLog:  eventLog,
	}
}

// Emit 发布事件。接收者为 nil 时直接跳过（测试场景）。
func (s *EventService) Emit(event *pubsub.Event) {
	if s == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("Failed to publish event %s: %v", event.Type, err)
		}
	}
	if s.eventLog != nil {
		if err := s.eventLog.Append(ctx, event); err != nil {
			log.Printf("Failed to append event %s to log: %v", event.Type, err)
		}
	}
}

// Recent 最近事件列表（管理看板重连补数用）
func (s *EventService) Recent(n int64) ([]*pubsub.Event, error) {
	if s == nil || s.eventLog == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return s.eventLog.Recent(ctx, n)
}
