package questreward

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/testutil"
)

func newTestFactory() Factory {
	return NewFactory(
		repository.NewUserRepository(),
		repository.NewClaimRequestRepository(),
		repository.NewActivityRepository(),
	)
}

func Test_CheckUnlockCondition_Empty(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	factory := newTestFactory()

	quest := &entity.Quest{Base: entity.Base{ID: "q1"}}
	ok, err := factory.CheckUnlockCondition(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func Test_CheckUnlockCondition_MinLevel(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	userRepo := repository.NewUserRepository()
	factory := newTestFactory()

	quest := &entity.Quest{Base: entity.Base{ID: "q1"}, UnlockMinLevel: 5}

	ok, err := factory.CheckUnlockCondition(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, userRepo.UpdateReward(ctx, testutil.User1.ID, 1500, 5))

	ok, err = factory.CheckUnlockCondition(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func Test_CheckUnlockCondition_Prerequisite(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	claimRequestRepo := repository.NewClaimRequestRepository()
	factory := newTestFactory()

	quest := &entity.Quest{
		Base:          entity.Base{ID: "q2"},
		UnlockQuestID: sql.NullString{Valid: true, String: "q1"},
	}

	ok, err := factory.CheckUnlockCondition(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// A pending claim on the prerequisite is not enough.
	require.NoError(t, claimRequestRepo.Create(ctx, &entity.ClaimRequest{
		Base:      entity.Base{ID: "request1"},
		UniqueKey: "quest:user1:q1",
		UserID:    testutil.User1.ID,
		QuestID:   "q1",
		Status:    entity.ClaimCreated,
	}))

	ok, err = factory.CheckUnlockCondition(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, claimRequestRepo.UpdateResultByID(
		ctx, "request1", entity.ClaimSucceeded, "", "0xabc"))

	ok, err = factory.CheckUnlockCondition(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.True(t, ok)
}
