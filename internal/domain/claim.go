package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkquest-lab/backend/internal/domain/claimqueue"
	"github.com/inkquest-lab/backend/internal/domain/questreward"
	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/model"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/errorx"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

type ClaimDomain interface {
	Claim(ctx context.Context, req *model.ClaimRewardRequest) (*model.ClaimRewardResponse, error)
	GetClaimRequest(ctx context.Context, req *model.GetClaimRequestRequest) (*model.GetClaimRequestResponse, error)
	GetMyClaimRequests(ctx context.Context, req *model.GetMyClaimRequestsRequest) (*model.GetMyClaimRequestsResponse, error)
}

type claimDomain struct {
	claimRequestRepo repository.ClaimRequestRepository
	questRepo        repository.QuestRepository
	userRepo         repository.UserRepository
	evaluator        *questreward.Evaluator
	queue            claimqueue.Queue
}

func NewClaimDomain(
	claimRequestRepo repository.ClaimRequestRepository,
	questRepo repository.QuestRepository,
	userRepo repository.UserRepository,
	evaluator *questreward.Evaluator,
	queue claimqueue.Queue,
) *claimDomain {
	return &claimDomain{
		claimRequestRepo: claimRequestRepo,
		questRepo:        questRepo,
		userRepo:         userRepo,
		evaluator:        evaluator,
		queue:            queue,
	}
}

// Claim validates eligibility, records the claim request and enqueues it for
// the batch processor. The unique key makes a repeated claim on the same
// window fail on insert instead of enqueueing twice.
func (d *claimDomain) Claim(
	ctx context.Context, req *model.ClaimRewardRequest,
) (*model.ClaimRewardResponse, error) {
	if req.QuestID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty quest id")
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	if user.WalletAddress == "" {
		return nil, errorx.New(errorx.Unavailable, "User has no linked wallet")
	}

	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest %s: %v", req.QuestID, err)
		return nil, errorx.Unknown
	}

	unlocked, err := d.evaluator.Unlocked(ctx, quest, userID)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, errorx.New(errorx.Unavailable, "Quest is locked")
	}

	status, err := d.evaluator.Evaluate(ctx, quest, userID)
	if err != nil {
		return nil, err
	}

	switch status {
	case questreward.CanClaimReward:
	case questreward.OutOfSlot:
		return nil, errorx.New(errorx.Unavailable, "Quest is out of slot")
	case questreward.Claimed:
		return nil, errorx.New(errorx.AlreadyExists, "Reward is already claimed")
	default:
		return nil, errorx.New(errorx.Unavailable, "Requirement is not satisfied")
	}

	instance, err := d.evaluator.ActiveInstance(ctx, quest)
	if err != nil {
		return nil, err
	}

	claimRequest := &entity.ClaimRequest{
		Base:      entity.Base{ID: uuid.NewString()},
		UniqueKey: uniqueClaimKey(userID, quest.ID, instance),
		UserID:    userID,
		QuestID:   quest.ID,
		Status:    entity.ClaimCreated,
	}
	if instance != nil {
		claimRequest.InstanceID = sql.NullString{Valid: true, String: instance.ID}
	}

	if err := d.claimRequestRepo.Create(ctx, claimRequest); err != nil {
		if repository.IsDuplicateKeyError(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Reward is already claimed")
		}

		xcontext.Logger(ctx).Errorf("Cannot create claim request: %v", err)
		return nil, errorx.Unknown
	}

	err = d.queue.Push(ctx, model.ClaimMessage{
		RequestID: claimRequest.ID,
		UserID:    userID,
		QuestID:   quest.ID,
		ChainID:   quest.Chain,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot push claim request %s: %v", claimRequest.ID, err)
		return nil, errorx.Unknown
	}

	return &model.ClaimRewardResponse{ID: claimRequest.ID}, nil
}

func (d *claimDomain) GetClaimRequest(
	ctx context.Context, req *model.GetClaimRequestRequest,
) (*model.GetClaimRequestResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty id")
	}

	claimRequest, err := d.claimRequestRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found claim request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get claim request %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	if claimRequest.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	resp := model.GetClaimRequestResponse(convertClaimRequest(claimRequest))
	return &resp, nil
}

func (d *claimDomain) GetMyClaimRequests(
	ctx context.Context, req *model.GetMyClaimRequestsRequest,
) (*model.GetMyClaimRequestsResponse, error) {
	requests, err := d.claimRequestRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get claim requests: %v", err)
		return nil, errorx.Unknown
	}

	clientRequests := []model.ClaimRequest{}
	for i := range requests {
		clientRequests = append(clientRequests, convertClaimRequest(&requests[i]))
	}

	return &model.GetMyClaimRequestsResponse{ClaimRequests: clientRequests}, nil
}

func uniqueClaimKey(userID, questID string, instance *entity.QuestInstance) string {
	if instance != nil {
		return fmt.Sprintf("quest:%s:%s:%s", userID, questID, instance.ID)
	}

	return fmt.Sprintf("quest:%s:%s", userID, questID)
}

func convertClaimRequest(req *entity.ClaimRequest) model.ClaimRequest {
	return model.ClaimRequest{
		ID:        req.ID,
		QuestID:   req.QuestID,
		UserID:    req.UserID,
		Status:    string(req.Status),
		Log:       req.Log,
		TxHash:    req.TxHash,
		CreatedAt: req.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
