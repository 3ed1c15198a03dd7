package testutil

import (
	"context"
	"fmt"

	"github.com/inkquest-lab/backend/internal/domain/blockchain"
	"github.com/inkquest-lab/backend/internal/domain/blockchain/types"
)

// MockBroadcaster encodes messages as readable strings instead of contract
// calldata, so tests can assert on message content and order.
type MockBroadcaster struct {
	BroadcastFunc func(ctx context.Context, messages []types.Message) (string, error)

	Broadcasted [][]types.Message
}

func (m *MockBroadcaster) BuildXpMessage(
	address string, totalXp uint64, level int,
) (types.Message, error) {
	return types.Message{
		Type:     types.MessageTypeSetXp,
		Calldata: []byte(fmt.Sprintf("setXp(%s,%d,%d)", address, totalXp, level)),
	}, nil
}

func (m *MockBroadcaster) BuildMintMessage(
	address string, tokenID int64, metadata types.NftMetadata,
) (types.Message, error) {
	return types.Message{
		Type:     types.MessageTypeMint,
		Calldata: []byte(fmt.Sprintf("mint(%s,%d,%s)", address, tokenID, metadata.Name)),
	}, nil
}

func (m *MockBroadcaster) Broadcast(
	ctx context.Context, messages []types.Message,
) (string, error) {
	m.Broadcasted = append(m.Broadcasted, messages)
	if m.BroadcastFunc != nil {
		return m.BroadcastFunc(ctx, messages)
	}

	return fmt.Sprintf("0xtx%d", len(m.Broadcasted)), nil
}

type MockBroadcasterManager struct {
	BroadcasterFunc func(ctx context.Context, chain string) (blockchain.Broadcaster, error)
}

func (m *MockBroadcasterManager) Broadcaster(
	ctx context.Context, chain string,
) (blockchain.Broadcaster, error) {
	return m.BroadcasterFunc(ctx, chain)
}

func (m *MockBroadcasterManager) WarmUp(ctx context.Context) error {
	return nil
}
