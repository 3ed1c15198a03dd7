package testutil

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/inkquest-lab/backend/pkg/xredis"
)

// NewRedisClient connects a real client to an in-process miniredis. The
// server is torn down with the test.
func NewRedisClient(t *testing.T, ctx context.Context) xredis.Client {
	s := miniredis.RunT(t)

	client, err := xredis.NewClientWithAddr(ctx, s.Addr())
	if err != nil {
		t.Fatalf("cannot connect to miniredis: %v", err)
	}

	return client
}
