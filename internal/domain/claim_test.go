package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkquest-lab/backend/internal/domain/claimqueue"
	"github.com/inkquest-lab/backend/internal/domain/questreward"
	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/model"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/testutil"
)

func Test_claimDomain_Claim(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	claimRequestRepo := repository.NewClaimRequestRepository()
	questRepo := repository.NewQuestRepository()
	userRepo := repository.NewUserRepository()
	activityRepo := repository.NewActivityRepository()

	factory := questreward.NewFactory(userRepo, claimRequestRepo, activityRepo)
	evaluator := questreward.NewEvaluator(factory, repository.NewQuestInstanceRepository())
	queue := claimqueue.NewRedisQueue("claims", testutil.NewRedisClient(t, ctx))

	d := NewClaimDomain(claimRequestRepo, questRepo, userRepo, evaluator, queue)

	quest := &entity.Quest{
		Base:            entity.Base{ID: "read quest"},
		Recurrence:      entity.Once,
		RequirementType: entity.RequirementRead,
		RequirementData: entity.Map{"comic_id": "comic1"},
		RewardXp:        10,
		Chain:           testutil.Chain.Name,
	}
	require.NoError(t, questRepo.Create(ctx, quest))

	// User3 has no linked wallet.
	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User3.ID)
	_, err := d.Claim(authorizedCtx, &model.ClaimRewardRequest{QuestID: quest.ID})
	require.Error(t, err)
	require.Equal(t, "User has no linked wallet", err.Error())

	// User1 has not read the comic yet.
	authorizedCtx = testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err = d.Claim(authorizedCtx, &model.ClaimRewardRequest{QuestID: quest.ID})
	require.Error(t, err)
	require.Equal(t, "Requirement is not satisfied", err.Error())

	require.NoError(t, activityRepo.CreateReadingLog(ctx, &entity.ReadingLog{
		Base: entity.Base{ID: "log1"}, UserID: testutil.User1.ID, ComicID: "comic1",
	}))

	resp, err := d.Claim(authorizedCtx, &model.ClaimRewardRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	request, err := claimRequestRepo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ClaimCreated, request.Status)
	require.Equal(t, "quest:user1:read quest", request.UniqueKey)

	msgs, err := queue.PopBatch(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []model.ClaimMessage{{
		RequestID: resp.ID,
		UserID:    testutil.User1.ID,
		QuestID:   quest.ID,
		ChainID:   testutil.Chain.Name,
	}}, msgs)

	// A second claim of the same window is rejected, no second row and no
	// second queue message.
	_, err = d.Claim(authorizedCtx, &model.ClaimRewardRequest{QuestID: quest.ID})
	require.Error(t, err)
	require.Equal(t, "Reward is already claimed", err.Error())

	requests, err := claimRequestRepo.GetByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)

	msgs, err = queue.PopBatch(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func Test_claimDomain_GetClaimRequest(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	claimRequestRepo := repository.NewClaimRequestRepository()
	questRepo := repository.NewQuestRepository()
	userRepo := repository.NewUserRepository()
	activityRepo := repository.NewActivityRepository()

	factory := questreward.NewFactory(userRepo, claimRequestRepo, activityRepo)
	evaluator := questreward.NewEvaluator(factory, repository.NewQuestInstanceRepository())
	queue := claimqueue.NewRedisQueue("claims", testutil.NewRedisClient(t, ctx))

	d := NewClaimDomain(claimRequestRepo, questRepo, userRepo, evaluator, queue)

	require.NoError(t, claimRequestRepo.Create(ctx, &entity.ClaimRequest{
		Base:      entity.Base{ID: "request1"},
		UniqueKey: "quest:user1:q1",
		UserID:    testutil.User1.ID,
		QuestID:   "q1",
		Status:    entity.ClaimSucceeded,
		TxHash:    "0xabc",
	}))

	authorizedCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.GetClaimRequest(authorizedCtx, &model.GetClaimRequestRequest{ID: "request1"})
	require.NoError(t, err)
	require.Equal(t, "succeeded", resp.Status)
	require.Equal(t, "0xabc", resp.TxHash)

	// Other users cannot read it.
	authorizedCtx = testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err = d.GetClaimRequest(authorizedCtx, &model.GetClaimRequestRequest{ID: "request1"})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	myResp, err := d.GetMyClaimRequests(
		testutil.NewMockContextWithUserID(ctx, testutil.User1.ID),
		&model.GetMyClaimRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, myResp.ClaimRequests, 1)
}
