package repository_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/testutil"
)

func Test_claimRequestRepository_UniqueKey(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	claimRequestRepo := repository.NewClaimRequestRepository()

	quest, err := testutil.SampleQuest(ctx, nil)
	require.NoError(t, err)

	request := &entity.ClaimRequest{
		Base:      entity.Base{ID: "request1"},
		UniqueKey: "quest:user1:" + quest.ID,
		UserID:    testutil.User1.ID,
		QuestID:   quest.ID,
		Status:    entity.ClaimCreated,
	}
	require.NoError(t, claimRequestRepo.Create(ctx, request))

	// A second insert with the same key must hit the unique index, whatever
	// its row id is.
	err = claimRequestRepo.Create(ctx, &entity.ClaimRequest{
		Base:      entity.Base{ID: "request2"},
		UniqueKey: "quest:user1:" + quest.ID,
		UserID:    testutil.User1.ID,
		QuestID:   quest.ID,
		Status:    entity.ClaimCreated,
	})
	require.Error(t, err)
	require.True(t, repository.IsDuplicateKeyError(err))
}

func Test_claimRequestRepository_UpdateResultGuard(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	claimRequestRepo := repository.NewClaimRequestRepository()

	quest, err := testutil.SampleQuest(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, claimRequestRepo.Create(ctx, &entity.ClaimRequest{
		Base:      entity.Base{ID: "request1"},
		UniqueKey: "quest:user1:" + quest.ID,
		UserID:    testutil.User1.ID,
		QuestID:   quest.ID,
		Status:    entity.ClaimCreated,
	}))

	require.NoError(t, claimRequestRepo.UpdateResultByID(
		ctx, "request1", entity.ClaimFailed, "broadcast failed", ""))

	// A terminal row is never reopened or rewritten.
	require.NoError(t, claimRequestRepo.UpdateResultByID(
		ctx, "request1", entity.ClaimSucceeded, "", "0xabc"))

	request, err := claimRequestRepo.GetByID(ctx, "request1")
	require.NoError(t, err)
	require.Equal(t, entity.ClaimFailed, request.Status)
	require.Equal(t, "broadcast failed", request.Log)
	require.Empty(t, request.TxHash)
}

func Test_claimRequestRepository_GetLastRewarded(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	claimRequestRepo := repository.NewClaimRequestRepository()

	quest, err := testutil.SampleQuest(ctx, nil)
	require.NoError(t, err)

	_, err = claimRequestRepo.GetLastRewarded(
		ctx, testutil.User1.ID, quest.ID, sql.NullString{})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, claimRequestRepo.Create(ctx, &entity.ClaimRequest{
		Base:      entity.Base{ID: "request1"},
		UniqueKey: "quest:user1:" + quest.ID,
		UserID:    testutil.User1.ID,
		QuestID:   quest.ID,
		Status:    entity.ClaimCreated,
	}))

	// Pending requests count as rewarded, failed ones do not.
	request, err := claimRequestRepo.GetLastRewarded(
		ctx, testutil.User1.ID, quest.ID, sql.NullString{})
	require.NoError(t, err)
	require.Equal(t, "request1", request.ID)

	require.NoError(t, claimRequestRepo.UpdateResultByID(
		ctx, "request1", entity.ClaimFailed, "revalidation failed", ""))

	_, err = claimRequestRepo.GetLastRewarded(
		ctx, testutil.User1.ID, quest.ID, sql.NullString{})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
