package blockchain

import (
	"context"

	"github.com/inkquest-lab/backend/internal/domain/blockchain/types"
)

// Broadcaster builds reward messages and submits them as one transaction
// signed with the custodial key. Implementations serialize Broadcast calls,
// the account nonce cannot be shared between in-flight transactions.
type Broadcaster interface {
	BuildXpMessage(address string, totalXp uint64, level int) (types.Message, error)
	BuildMintMessage(address string, tokenID int64, metadata types.NftMetadata) (types.Message, error)
	Broadcast(ctx context.Context, messages []types.Message) (txHash string, err error)
}

// Manager resolves the broadcaster of a chain. Broadcasters are created
// lazily from the blockchain table and cached for the process lifetime.
type Manager interface {
	Broadcaster(ctx context.Context, chain string) (Broadcaster, error)
	WarmUp(ctx context.Context) error
}
