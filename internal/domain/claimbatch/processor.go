package claimbatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/math"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/inkquest-lab/backend/internal/domain/blockchain"
	"github.com/inkquest-lab/backend/internal/domain/blockchain/types"
	"github.com/inkquest-lab/backend/internal/domain/claimqueue"
	"github.com/inkquest-lab/backend/internal/domain/leveling"
	"github.com/inkquest-lab/backend/internal/domain/questreward"
	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/model"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/pubsub"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

// mintOrder is one nft the batch will mint for a user.
type mintOrder struct {
	tokenID  int64
	metadata types.NftMetadata
}

// userBatch accumulates everything a single user earns inside one batch. One
// xp message plus one message per mint is broadcasted for it.
type userBatch struct {
	user     *entity.User
	xpDelta  uint64
	mints    []mintOrder
	requests []*entity.ClaimRequest
}

func (b *userBatch) requestIDs() []string {
	ids := make([]string, 0, len(b.requests))
	for _, r := range b.requests {
		ids = append(ids, r.ID)
	}

	return ids
}

// Processor drains the claim queue and resolves claim requests in batches.
// It is designed for exactly one worker, Run refuses to overlap itself.
type Processor struct {
	claimRequestRepo  repository.ClaimRequestRepository
	questRepo         repository.QuestRepository
	questInstanceRepo repository.QuestInstanceRepository
	userRepo          repository.UserRepository
	blockchainRepo    repository.BlockChainRepository
	queue             claimqueue.Queue
	evaluator         *questreward.Evaluator
	manager           blockchain.Manager
	publisher         pubsub.Publisher

	running atomic.Bool
}

func NewProcessor(
	claimRequestRepo repository.ClaimRequestRepository,
	questRepo repository.QuestRepository,
	questInstanceRepo repository.QuestInstanceRepository,
	userRepo repository.UserRepository,
	blockchainRepo repository.BlockChainRepository,
	queue claimqueue.Queue,
	evaluator *questreward.Evaluator,
	manager blockchain.Manager,
	publisher pubsub.Publisher,
) *Processor {
	return &Processor{
		claimRequestRepo:  claimRequestRepo,
		questRepo:         questRepo,
		questInstanceRepo: questInstanceRepo,
		userRepo:          userRepo,
		blockchainRepo:    blockchainRepo,
		queue:             queue,
		evaluator:         evaluator,
		manager:           manager,
		publisher:         publisher,
	}
}

// Run processes at most one batch. It returns an error only for
// infrastructure failures where retrying the whole run is safe, per-message
// failures are resolved on the request row and never abort the run.
func (p *Processor) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		xcontext.Logger(ctx).Warnf("A claim batch is still running, skip this tick")
		return nil
	}
	defer p.running.Store(false)

	batchSize := math.MaxInt(xcontext.Configs(ctx).Processor.BatchSize, 1)
	msgs, err := p.queue.PopBatch(ctx, batchSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pop claim batch: %v", err)
		return err
	}

	if len(msgs) == 0 {
		return nil
	}

	order, batches, err := p.accumulate(ctx, msgs)
	if err != nil {
		return err
	}

	if len(order) > 0 {
		if err := p.resolve(ctx, order, batches); err != nil {
			return err
		}
	}

	if err := p.queue.Ack(ctx, msgs); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ack claim batch: %v", err)
		return err
	}

	return nil
}

// accumulate re-validates every message and folds the survivors into
// per-user batches. The returned order preserves first appearance of each
// user so broadcasted messages keep queue order.
func (p *Processor) accumulate(
	ctx context.Context, msgs []model.ClaimMessage,
) ([]string, map[string]*userBatch, error) {
	order := []string{}
	batches := map[string]*userBatch{}

	for _, msg := range msgs {
		request, err := p.claimRequestRepo.GetByID(ctx, msg.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Warnf("Claim request %s disappeared, skip", msg.RequestID)
				continue
			}

			xcontext.Logger(ctx).Errorf("Cannot get claim request %s: %v", msg.RequestID, err)
			return nil, nil, err
		}

		// A request resolved by an earlier run (the worker may have crashed
		// between resolution and ack) is never reopened.
		terminal := []entity.ClaimRequestStatus{entity.ClaimSucceeded, entity.ClaimFailed}
		if slices.Contains(terminal, request.Status) {
			continue
		}

		quest, user, reason, err := p.revalidate(ctx, request)
		if err != nil {
			return nil, nil, err
		}

		if reason != "" {
			p.fail(ctx, []*entity.ClaimRequest{request}, reason)
			continue
		}

		if err := p.increaseClaimedCount(ctx, quest, request); err != nil {
			return nil, nil, err
		}

		batch, ok := batches[user.ID]
		if !ok {
			batch = &userBatch{user: user}
			batches[user.ID] = batch
			order = append(order, user.ID)
		}

		batch.xpDelta += quest.RewardXp
		if quest.RewardNftImage != "" {
			batch.mints = append(batch.mints, mintOrder{
				tokenID: xcontext.SnowFlake(ctx).Generate().Int64(),
				metadata: types.NftMetadata{
					Name:  quest.RewardNftName,
					Image: quest.RewardNftImage,
				},
			})
		}

		batch.requests = append(batch.requests, request)
	}

	return order, batches, nil
}

// revalidate re-fetches the facts behind a claim request. A non-empty reason
// means the request must be resolved as failed, an error means the whole run
// must be retried.
func (p *Processor) revalidate(
	ctx context.Context, request *entity.ClaimRequest,
) (*entity.Quest, *entity.User, string, error) {
	user, err := p.userRepo.GetByID(ctx, request.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, "user no longer exists", nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", request.UserID, err)
		return nil, nil, "", err
	}

	if user.WalletAddress == "" {
		return nil, nil, "user has no linked wallet", nil
	}

	quest, err := p.questRepo.GetByID(ctx, request.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, "quest no longer exists", nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest %s: %v", request.QuestID, err)
		return nil, nil, "", err
	}

	claimedCount := quest.ClaimedCount
	windowStart := quest.CreatedAt
	if request.InstanceID.Valid {
		instance, err := p.questInstanceRepo.GetByID(ctx, request.InstanceID.String)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, "quest instance no longer exists", nil
			}

			xcontext.Logger(ctx).Errorf("Cannot get instance %s: %v", request.InstanceID.String, err)
			return nil, nil, "", err
		}

		latest, err := p.questInstanceRepo.GetLatestByQuestID(ctx, quest.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get latest instance of %s: %v", quest.ID, err)
			return nil, nil, "", err
		}

		if latest.ID != instance.ID {
			return nil, nil, "claim window expired", nil
		}

		claimedCount = instance.ClaimedCount
		windowStart = instance.CreatedAt
	}

	if quest.SlotLimit > 0 && claimedCount >= quest.SlotLimit {
		return nil, nil, "quest is out of slot", nil
	}

	// The requirement held at intake but may have regressed since, an expired
	// subscription or a deleted activity must not be paid out.
	ok, err := p.evaluator.CheckRequirement(ctx, quest, request.UserID, windowStart)
	if err != nil {
		return nil, nil, "", err
	}

	if !ok {
		return nil, nil, "requirement no longer satisfied", nil
	}

	return quest, user, "", nil
}

// increaseClaimedCount consumes the slot before the broadcast, so no later
// message of the same batch can pass the slot check on stale counts. The
// increment is kept even if the broadcast fails.
func (p *Processor) increaseClaimedCount(
	ctx context.Context, quest *entity.Quest, request *entity.ClaimRequest,
) error {
	if request.InstanceID.Valid {
		if err := p.questInstanceRepo.IncreaseClaimedCount(ctx, request.InstanceID.String); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase instance claimed count: %v", err)
			return err
		}

		return nil
	}

	if err := p.questRepo.IncreaseClaimedCount(ctx, quest.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase quest claimed count: %v", err)
		return err
	}

	return nil
}

// resolve broadcasts one transaction for the accumulated batches and writes
// the terminal status of every contributing request.
func (p *Processor) resolve(
	ctx context.Context, order []string, batches map[string]*userBatch,
) error {
	chain := xcontext.Configs(ctx).Blockchain.Chain
	broadcaster, err := p.manager.Broadcaster(ctx, chain)
	if err != nil {
		return err
	}

	messages := []types.Message{}
	allRequestIDs := []string{}
	for _, userID := range order {
		batch := batches[userID]
		allRequestIDs = append(allRequestIDs, batch.requestIDs()...)

		if batch.xpDelta > 0 {
			newTotal := batch.user.TotalXp + batch.xpDelta
			msg, err := broadcaster.BuildXpMessage(
				batch.user.WalletAddress, newTotal, leveling.LevelOf(newTotal))
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot build xp message: %v", err)
				return err
			}

			messages = append(messages, msg)
		}

		for _, mint := range batch.mints {
			msg, err := broadcaster.BuildMintMessage(
				batch.user.WalletAddress, mint.tokenID, mint.metadata)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot build mint message: %v", err)
				return err
			}

			messages = append(messages, msg)
		}
	}

	txHash, err := broadcaster.Broadcast(ctx, messages)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot broadcast claim batch: %v", err)
		for _, userID := range order {
			p.fail(ctx, batches[userID].requests, err.Error())
		}

		return nil
	}

	err = p.blockchainRepo.CreateTransaction(ctx, &entity.BlockchainTransaction{
		Base:   entity.Base{ID: uuid.NewString()},
		Chain:  chain,
		TxHash: txHash,
		Status: entity.BlockchainTransactionStatusTypeInProgress,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record blockchain transaction: %v", err)
	}

	for _, userID := range order {
		batch := batches[userID]
		if batch.xpDelta > 0 {
			newTotal := batch.user.TotalXp + batch.xpDelta
			err := p.userRepo.UpdateReward(ctx, userID, newTotal, leveling.LevelOf(newTotal))
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot update reward of user %s: %v", userID, err)
			}
		}
	}

	if err := p.claimRequestRepo.UpdateResultByIDs(
		ctx, allRequestIDs, entity.ClaimSucceeded, "", txHash); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve claim requests: %v", err)
		return err
	}

	for _, userID := range order {
		for _, request := range batches[userID].requests {
			p.publish(ctx, request, string(entity.ClaimSucceeded), txHash, "")
		}
	}

	return nil
}

// fail resolves requests as failed. Resolution errors are logged and
// swallowed, the status guard keeps a later retry from reopening the rows.
func (p *Processor) fail(ctx context.Context, requests []*entity.ClaimRequest, reason string) {
	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}

	err := p.claimRequestRepo.UpdateResultByIDs(ctx, ids, entity.ClaimFailed, reason, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fail claim requests %v: %v", ids, err)
		return
	}

	for _, request := range requests {
		p.publish(ctx, request, string(entity.ClaimFailed), "", reason)
	}
}

func (p *Processor) publish(
	ctx context.Context, request *entity.ClaimRequest, status, txHash, reason string,
) {
	event := model.ClaimResolvedEvent{
		RequestID: request.ID,
		UserID:    request.UserID,
		QuestID:   request.QuestID,
		Status:    status,
		TxHash:    txHash,
		Reason:    reason,
	}

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal claim resolved event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.ClaimResolvedTopic
	err = p.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(request.ID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish claim resolved event: %v", err)
	}
}
