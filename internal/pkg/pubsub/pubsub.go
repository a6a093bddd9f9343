package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelQueueEvents = "queue_events"
)

// 事件类型常量
const (
	EventApplicationUpdated = "application_updated"
	EventInterviewerUpdated = "interviewer_updated"
)

// Event 状态迁移事件。核心在每次事务提交后发布，
// 看板和候选人状态页通过订阅感知变化，无需轮询。
type Event struct {
	Type          string `json:"type"`
	ApplicationID int64  `json:"application_id,omitempty"`
	CandidateID   int64  `json:"candidate_id,omitempty"`
	JobID         int64  `json:"job_id,omitempty"`
	InterviewerID int64  `json:"interviewer_id,omitempty"`
	Status        string `json:"status,omitempty"`
	QueueNumber   string `json:"queue_number,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 发布事件
func (p *Publisher) Publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.client.Publish(ctx, ChannelQueueEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅事件，逐条回调 handler，直到 ctx 取消
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*Event)) error {
	pubsub := s.client.Subscribe(ctx, ChannelQueueEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
