package questreward

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/internal/repository"
	"github.com/inkquest-lab/backend/pkg/testutil"
)

func newTestEvaluator() *Evaluator {
	factory := NewFactory(
		repository.NewUserRepository(),
		repository.NewClaimRequestRepository(),
		repository.NewActivityRepository(),
	)

	return NewEvaluator(factory, repository.NewQuestInstanceRepository())
}

func Test_Evaluator_ReadQuest(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	questRepo := repository.NewQuestRepository()
	activityRepo := repository.NewActivityRepository()
	evaluator := newTestEvaluator()

	quest := &entity.Quest{
		Base:            entity.Base{ID: "read quest"},
		Recurrence:      entity.Once,
		RequirementType: entity.RequirementRead,
		RequirementData: ToRequirementData(readRequirement{ComicID: "comic1"}),
		RewardXp:        10,
		Chain:           testutil.Chain.Name,
	}
	require.NoError(t, questRepo.Create(ctx, quest))

	// No reading log yet.
	status, err := evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, NotSatisfy, status)

	// A log of another comic does not count.
	require.NoError(t, activityRepo.CreateReadingLog(ctx, &entity.ReadingLog{
		Base: entity.Base{ID: "log0"}, UserID: testutil.User1.ID, ComicID: "comic2",
	}))
	status, err = evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, NotSatisfy, status)

	require.NoError(t, activityRepo.CreateReadingLog(ctx, &entity.ReadingLog{
		Base: entity.Base{ID: "log1"}, UserID: testutil.User1.ID, ComicID: "comic1",
	}))
	status, err = evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, CanClaimReward, status)
}

func Test_Evaluator_AlreadyClaimed(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	questRepo := repository.NewQuestRepository()
	claimRequestRepo := repository.NewClaimRequestRepository()
	evaluator := newTestEvaluator()

	quest := &entity.Quest{
		Base:            entity.Base{ID: "subscribe quest"},
		Recurrence:      entity.Once,
		RequirementType: entity.RequirementSubscribe,
		RequirementData: entity.Map{},
		RewardXp:        10,
		Chain:           testutil.Chain.Name,
	}
	require.NoError(t, questRepo.Create(ctx, quest))

	// A created request already counts as claimed, a second claim of the same
	// window must not pass.
	require.NoError(t, claimRequestRepo.Create(ctx, &entity.ClaimRequest{
		Base:      entity.Base{ID: "request1"},
		UniqueKey: "quest:user1:subscribe quest",
		UserID:    testutil.User1.ID,
		QuestID:   quest.ID,
		Status:    entity.ClaimCreated,
	}))

	status, err := evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, Claimed, status)

	// A failed request does not count, the user may retry.
	require.NoError(t, claimRequestRepo.UpdateResultByID(
		ctx, "request1", entity.ClaimFailed, "broadcast failed", ""))

	status, err = evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, NotSatisfy, status)
}

func Test_Evaluator_SlotExhaustionWinsOverClaimed(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	questRepo := repository.NewQuestRepository()
	claimRequestRepo := repository.NewClaimRequestRepository()
	evaluator := newTestEvaluator()

	quest := &entity.Quest{
		Base:            entity.Base{ID: "limited quest"},
		Recurrence:      entity.Once,
		RequirementType: entity.RequirementSubscribe,
		RequirementData: entity.Map{},
		RewardXp:        10,
		SlotLimit:       1,
		Chain:           testutil.Chain.Name,
	}
	require.NoError(t, questRepo.Create(ctx, quest))

	require.NoError(t, claimRequestRepo.Create(ctx, &entity.ClaimRequest{
		Base:      entity.Base{ID: "request1"},
		UniqueKey: "quest:user1:limited quest",
		UserID:    testutil.User1.ID,
		QuestID:   quest.ID,
		Status:    entity.ClaimSucceeded,
	}))
	require.NoError(t, questRepo.IncreaseClaimedCount(ctx, quest.ID))

	quest, err := questRepo.GetByID(ctx, quest.ID)
	require.NoError(t, err)

	// The slot check runs before the claimed check, also for the claimer.
	status, err := evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, OutOfSlot, status)

	status, err = evaluator.Evaluate(ctx, quest, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, OutOfSlot, status)
}

func Test_Evaluator_DailyRollover(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	questRepo := repository.NewQuestRepository()
	questInstanceRepo := repository.NewQuestInstanceRepository()
	claimRequestRepo := repository.NewClaimRequestRepository()
	activityRepo := repository.NewActivityRepository()
	evaluator := newTestEvaluator()

	quest := &entity.Quest{
		Base:            entity.Base{ID: "daily quest"},
		Recurrence:      entity.Daily,
		RequirementType: entity.RequirementRead,
		RequirementData: entity.Map{"comic_id": "comic1"},
		RewardXp:        5,
		Chain:           testutil.Chain.Name,
	}
	require.NoError(t, questRepo.Create(ctx, quest))

	// No instance opened yet, the quest is not claimable.
	status, err := evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, NotSatisfy, status)

	// Yesterday's instance is not the active one.
	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, questInstanceRepo.Create(ctx, &entity.QuestInstance{
		Base:    entity.Base{ID: "instance1", CreatedAt: yesterday},
		QuestID: quest.ID,
	}))

	status, err = evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, NotSatisfy, status)

	require.NoError(t, questInstanceRepo.Create(ctx, &entity.QuestInstance{
		Base:    entity.Base{ID: "instance2"},
		QuestID: quest.ID,
	}))

	instance, err := evaluator.ActiveInstance(ctx, quest)
	require.NoError(t, err)
	require.Equal(t, "instance2", instance.ID)

	require.NoError(t, activityRepo.CreateReadingLog(ctx, &entity.ReadingLog{
		Base: entity.Base{ID: "log1"}, UserID: testutil.User1.ID, ComicID: "comic1",
	}))

	status, err = evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, CanClaimReward, status)

	// A reward on yesterday's instance does not block today's.
	require.NoError(t, claimRequestRepo.Create(ctx, &entity.ClaimRequest{
		Base:       entity.Base{ID: "request1"},
		UniqueKey:  "quest:user1:daily quest:instance1",
		UserID:     testutil.User1.ID,
		QuestID:    quest.ID,
		InstanceID: sql.NullString{Valid: true, String: "instance1"},
		Status:     entity.ClaimSucceeded,
	}))

	status, err = evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, CanClaimReward, status)

	// A reward on the active instance does.
	require.NoError(t, claimRequestRepo.Create(ctx, &entity.ClaimRequest{
		Base:       entity.Base{ID: "request2"},
		UniqueKey:  "quest:user1:daily quest:instance2",
		UserID:     testutil.User1.ID,
		QuestID:    quest.ID,
		InstanceID: sql.NullString{Valid: true, String: "instance2"},
		Status:     entity.ClaimSucceeded,
	}))

	status, err = evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, Claimed, status)
}

func Test_Evaluator_QuizAnswer(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	questRepo := repository.NewQuestRepository()
	activityRepo := repository.NewActivityRepository()
	evaluator := newTestEvaluator()

	quest := &entity.Quest{
		Base:            entity.Base{ID: "quiz quest"},
		Recurrence:      entity.Once,
		RequirementType: entity.RequirementQuiz,
		RequirementData: entity.Map{"answer": "Foo"},
		RewardXp:        10,
		Chain:           testutil.Chain.Name,
	}
	require.NoError(t, questRepo.Create(ctx, quest))

	require.NoError(t, activityRepo.CreateQuizAnswer(ctx, &entity.QuizAnswer{
		Base: entity.Base{ID: "answer1"}, UserID: testutil.User1.ID,
		QuestID: quest.ID, Answer: "wrong",
	}))
	status, err := evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, NotSatisfy, status)

	// The comparison ignores case and surrounding spaces, only the latest
	// answer counts.
	require.NoError(t, activityRepo.CreateQuizAnswer(ctx, &entity.QuizAnswer{
		Base: entity.Base{ID: "answer2"}, UserID: testutil.User1.ID,
		QuestID: quest.ID, Answer: "  foo ",
	}))
	status, err = evaluator.Evaluate(ctx, quest, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, CanClaimReward, status)
}
