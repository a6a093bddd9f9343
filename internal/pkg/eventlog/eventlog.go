package eventlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/wshuai/interview_go_server/internal/pkg/pubsub"
)

const defaultKey = "queue_events_recent"

// Log 最近事件列表（Redis List，定长截断）。
// 看板断线重连后用它补齐错过的事件，实时推送仍走 pub/sub。
type Log struct {
	client *redis.Client
	key    string
	limit  int64
}

func NewLog(client *redis.Client, limit int64) *Log {
	if limit <= 0 {
		limit = 100
	}
	return &Log{
		client: client,
		key:    defaultKey,
		limit:  limit,
	}
}

// Append 追加事件并截断到保留上限
func (l *Log) Append(ctx context.Context, event *pubsub.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := l.client.TxPipeline()
	pipe.LPush(ctx, l.key, data)
	pipe.LTrim(ctx, l.key, 0, l.limit-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent 获取最近 n 条事件，新事件在前
func (l *Log) Recent(ctx context.Context, n int64) ([]*pubsub.Event, error) {
	if n <= 0 || n > l.limit {
		n = l.limit
	}

	values, err := l.client.LRange(ctx, l.key, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	events := make([]*pubsub.Event, 0, len(values))
	for _, v := range values {
		var event pubsub.Event
		if err := json.Unmarshal([]byte(v), &event); err != nil {
			continue // 忽略解析错误
		}
		events = append(events, &event)
	}

	return events, nil
}

// Length 当前保留的事件条数
func (l *Log) Length(ctx context.Context) (int64, error) {
	return l.client.LLen(ctx, l.key).Result()
}
