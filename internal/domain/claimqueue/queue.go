package claimqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inkquest-lab/backend/internal/model"
	"github.com/inkquest-lab/backend/pkg/xcontext"
	"github.com/inkquest-lab/backend/pkg/xredis"
)

// Queue is the durable FIFO of pending claim messages. Pop moves messages
// into a processing list instead of discarding them, Ack removes them after
// the batch is reconciled and Recover re-queues whatever a crashed worker
// left behind.
type Queue interface {
	Push(ctx context.Context, msg model.ClaimMessage) error
	PopBatch(ctx context.Context, n int) ([]model.ClaimMessage, error)
	Ack(ctx context.Context, msgs []model.ClaimMessage) error
	Recover(ctx context.Context) (int, error)
}

type redisQueue struct {
	name        string
	redisClient xredis.Client
}

func NewRedisQueue(name string, redisClient xredis.Client) *redisQueue {
	return &redisQueue{name: name, redisClient: redisClient}
}

func (q *redisQueue) pendingKey() string {
	return fmt.Sprintf("claimqueue:%s:pending", q.name)
}

func (q *redisQueue) processingKey() string {
	return fmt.Sprintf("claimqueue:%s:processing", q.name)
}

func (q *redisQueue) Push(ctx context.Context, msg model.ClaimMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return q.redisClient.RPush(ctx, q.pendingKey(), string(b))
}

func (q *redisQueue) PopBatch(ctx context.Context, n int) ([]model.ClaimMessage, error) {
	var msgs []model.ClaimMessage
	for i := 0; i < n; i++ {
		raw, err := q.redisClient.LMove(ctx, q.pendingKey(), q.processingKey())
		if err != nil {
			if xredis.IsNil(err) {
				break
			}

			return msgs, err
		}

		var msg model.ClaimMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			// A corrupted payload can never be processed, drop it from the
			// processing list and keep draining.
			xcontext.Logger(ctx).Errorf("Drop invalid claim message %q: %v", raw, err)
			if err := q.redisClient.LRem(ctx, q.processingKey(), raw); err != nil {
				return msgs, err
			}
			continue
		}

		msgs = append(msgs, msg)
	}

	return msgs, nil
}

func (q *redisQueue) Ack(ctx context.Context, msgs []model.ClaimMessage) error {
	for _, msg := range msgs {
		b, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		if err := q.redisClient.LRem(ctx, q.processingKey(), string(b)); err != nil {
			return err
		}
	}

	return nil
}

func (q *redisQueue) Recover(ctx context.Context) (int, error) {
	recovered := 0
	for {
		_, err := q.redisClient.LMove(ctx, q.processingKey(), q.pendingKey())
		if err != nil {
			if xredis.IsNil(err) {
				return recovered, nil
			}

			return recovered, err
		}

		recovered++
	}
}
