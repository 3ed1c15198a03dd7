package blockchain

import (
	"context"

	"github.com/puzpuzpuz/xsync"
	"golang.org/x/sync/errgroup"

	"github.com/inkquest-lab/backend/internal/domain/blockchain/eth"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/errorx"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

type manager struct {
	blockchainRepo repository.BlockChainRepository
	broadcasters   *xsync.MapOf[string, Broadcaster]
}

func NewManager(blockchainRepo repository.BlockChainRepository) *manager {
	return &manager{
		blockchainRepo: blockchainRepo,
		broadcasters:   xsync.NewMapOf[Broadcaster](),
	}
}

func (m *manager) Broadcaster(ctx context.Context, chain string) (Broadcaster, error) {
	if b, ok := m.broadcasters.Load(chain); ok {
		return b, nil
	}

	record, err := m.blockchainRepo.GetByName(ctx, chain)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get blockchain %s: %v", chain, err)
		return nil, errorx.New(errorx.NotFound, "Unsupported chain %s", chain)
	}

	b, err := eth.NewBroadcaster(ctx, record)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create broadcaster for %s: %v", chain, err)
		return nil, errorx.Unknown
	}

	actual, _ := m.broadcasters.LoadOrStore(chain, Broadcaster(b))
	return actual, nil
}

// WarmUp dials every chain in the blockchain table so the first batch does
// not pay the connection cost. Failures are returned but leave the lazy path
// intact.
func (m *manager) WarmUp(ctx context.Context) error {
	chains, err := m.blockchainRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, chain := range chains {
		name := chain.Name
		eg.Go(func() error {
			_, err := m.Broadcaster(egCtx, name)
			return err
		})
	}

	return eg.Wait()
}
