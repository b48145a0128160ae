package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/somaarjun/portfolio/backend/internal/model/contact"
)

// Sink 接收已通过校验的提交。
type Sink interface {
	Deliver(ctx context.Context, submission contact.Submission) error
}

// LogSink only logs the submission; nothing is delivered anywhere.
type LogSink struct{}

func (LogSink) Deliver(_ context.Context, s contact.Submission) error {
	log.Printf("[contact] submission received id=%s name=%q email=%q subject=%q", s.ID, s.Name, s.Email, s.Subject)
	return nil
}

// RedisSink 将提交追加到 Redis Stream，供外部投递程序消费。
type RedisSink struct {
	rdb    redis.Cmdable
	stream string
}

func NewRedisSink(rdb redis.Cmdable, stream string) *RedisSink {
	return &RedisSink{rdb: rdb, stream: stream}
}

func (s *RedisSink) Deliver(ctx context.Context, submission contact.Submission) error {
	payload, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	if err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"id":         submission.ID,
			"submission": string(payload),
			"receivedAt": submission.Timestamp.Format(time.RFC3339Nano),
		},
	}).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.stream, err)
	}
	return nil
}

// MultiSink delivers to every sink in order and joins their errors.
type MultiSink []Sink

func (m MultiSink) Deliver(ctx context.Context, submission contact.Submission) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Deliver(ctx, submission); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
