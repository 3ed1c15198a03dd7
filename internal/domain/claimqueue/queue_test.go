package claimqueue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkquest-lab/backend/internal/model"
	"github.com/inkquest-lab/backend/pkg/testutil"
)

func Test_redisQueue_PushPopAck(t *testing.T) {
	ctx := testutil.NewMockContext()
	queue := NewRedisQueue("claims", testutil.NewRedisClient(t, ctx))

	msg1 := model.ClaimMessage{RequestID: "r1", UserID: "u1", QuestID: "q1", ChainID: "testnet"}
	msg2 := model.ClaimMessage{RequestID: "r2", UserID: "u2", QuestID: "q1", ChainID: "testnet"}
	require.NoError(t, queue.Push(ctx, msg1))
	require.NoError(t, queue.Push(ctx, msg2))

	// Pop keeps queue order and stops at the requested size.
	msgs, err := queue.PopBatch(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []model.ClaimMessage{msg1}, msgs)

	msgs, err = queue.PopBatch(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []model.ClaimMessage{msg2}, msgs)

	// Both messages sit in the processing list until acked.
	recovered, err := queue.Recover(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, recovered)

	msgs, err = queue.PopBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	require.NoError(t, queue.Ack(ctx, msgs))

	recovered, err = queue.Recover(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, recovered)
}

func Test_redisQueue_PopBatchEmpty(t *testing.T) {
	ctx := testutil.NewMockContext()
	queue := NewRedisQueue("claims", testutil.NewRedisClient(t, ctx))

	msgs, err := queue.PopBatch(ctx, 5)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func Test_redisQueue_RecoverRequeuesUnacked(t *testing.T) {
	ctx := testutil.NewMockContext()
	queue := NewRedisQueue("claims", testutil.NewRedisClient(t, ctx))

	msg := model.ClaimMessage{RequestID: "r1", UserID: "u1", QuestID: "q1", ChainID: "testnet"}
	require.NoError(t, queue.Push(ctx, msg))

	_, err := queue.PopBatch(ctx, 1)
	require.NoError(t, err)

	// Simulates a crashed worker: the message was popped but never acked.
	recovered, err := queue.Recover(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, recovered)

	msgs, err := queue.PopBatch(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []model.ClaimMessage{msg}, msgs)
}
