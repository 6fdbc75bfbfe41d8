package sink

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisSink queues confirmations in a sorted set scored by arrival time,
// with a per-account progress hash for consumers that resume.
type RedisSink struct {
	client *redis.Client
	queue  string
}

func NewRedisSink(connString, queueName string) (*RedisSink, error) {
	opts, err := redis.ParseURL(connString)
	if err != nil {
		return nil, err
	}
	return &RedisSink{
		client: redis.NewClient(opts),
		queue:  queueName,
	}, nil
}

func (s *RedisSink) Store(ctx context.Context, e *Event) error {
	if err := s.client.ZAdd(ctx, s.queue, redis.Z{
		Member: e.Hash,
		Score:  float64(e.Time.UnixMilli()),
	}).Err(); err != nil {
		return err
	}
	if e.Account == "" {
		return nil
	}
	return s.client.HSet(ctx, s.queue+":progress", e.Account, e.Time.UnixMilli()).Err()
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
