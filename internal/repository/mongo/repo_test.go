package mongo

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func userDoc(id primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: "ada_l"},
		{Key: "email", Value: "ada@example.com"},
		{Key: "passwordHash", Value: "hash"},
		{Key: "profile", Value: bson.D{
			{Key: "fitnessLevel", Value: "advanced"},
			{Key: "goals", Value: bson.A{"strength"}},
		}},
	}
}

func workoutDoc(id, owner primitive.ObjectID, completed bool) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "userId", Value: owner},
		{Key: "muscleGroups", Value: bson.A{"Chest", "Back"}},
		{Key: "workoutPlan", Value: "# plan"},
		{Key: "completed", Value: completed},
		{Key: "difficulty", Value: "medium"},
		{Key: "generatedAt", Value: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id and lower-cases email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &domain.User{Username: "ada_l", Email: " Ada@Example.COM ", PasswordHash: "hash"}
		id, err := repo.Create(ctx, user)

		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
		assert.Equal(mt, "ada@example.com", user.Email)
		assert.NotNil(mt, user.Profile.Goals)
		assert.False(mt, user.CreatedAt.IsZero())
	})

	duplicates := []struct {
		name      string
		message   string
		wantField string
	}{
		{
			name:      "create duplicate username",
			message:   "E11000 duplicate key error collection: test.users index: username_1 dup key: { username: \"ada_l\" }",
			wantField: "username",
		},
		{
			name:      "create duplicate email mentioning username",
			message:   "E11000 duplicate key error collection: test.users index: email_1 dup key: { email: \"username@x.com\" }",
			wantField: "email",
		},
		{
			name:      "create duplicate on unknown index",
			message:   "E11000 duplicate key error collection: test.users index: nickname_1 dup key: { nickname: \"email\" }",
			wantField: "unknown",
		},
	}
	for _, tc := range duplicates {
		mt.Run(tc.name, func(mt *mtest.T) {
			repo := NewMongoUserRepository(mt.DB)
			mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: tc.message,
			}))

			_, err := repo.Create(ctx, &domain.User{Username: "ada_l", Email: "username@x.com", PasswordHash: "hash"})

			require.ErrorIs(mt, err, repository.ErrDuplicateKey)
			var dup *repository.DuplicateKeyError
			require.ErrorAs(mt, err, &dup)
			assert.Equal(mt, tc.wantField, dup.Field)
		})
	}

	mt.Run("create rejects incomplete user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		_, err := repo.Create(ctx, &domain.User{Username: "ada_l"})
		assert.Error(mt, err)
	})

	mt.Run("get by email found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, userDoc(id)))

		user, err := repo.GetByEmail(ctx, "ADA@example.com")

		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, domain.FitnessAdvanced, user.Profile.FitnessLevel)
		assert.Equal(mt, []domain.Goal{domain.GoalStrength}, user.Profile.Goals)
	})

	mt.Run("get by login not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.GetByLogin(ctx, "nobody")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("update profile returns updated user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: userDoc(id)}))

		user, err := repo.UpdateProfile(ctx, id, domain.Profile{FitnessLevel: domain.FitnessAdvanced})

		require.NoError(mt, err)
		assert.Equal(mt, "ada_l", user.Username)
	})

	mt.Run("update profile of missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateProfile(ctx, primitive.NewObjectID(), domain.Profile{})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestMongoWorkoutRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	owner := primitive.NewObjectID()

	mt.Run("create stamps timestamps", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		w := &domain.Workout{UserID: owner, MuscleGroups: []string{"Chest"}, Plan: "plan"}
		id, err := repo.Create(ctx, w)

		require.NoError(mt, err)
		assert.Equal(mt, id, w.ID)
		assert.False(mt, w.GeneratedAt.IsZero())
		assert.False(mt, w.Completed)
	})

	mt.Run("create requires owner", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		_, err := repo.Create(ctx, &domain.Workout{MuscleGroups: []string{"Chest"}, Plan: "plan"})
		assert.Error(mt, err)
	})

	mt.Run("list by owner", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workouts", mtest.FirstBatch,
			workoutDoc(first, owner, false),
			workoutDoc(second, owner, true),
		))

		workouts, err := repo.ListByOwner(ctx, owner, domain.WorkoutFilter{}, 0, 10)

		require.NoError(mt, err)
		require.Len(mt, workouts, 2)
		assert.Equal(mt, first, workouts[0].ID)
		assert.Equal(mt, []string{"Chest", "Back"}, workouts[0].MuscleGroups)
		assert.True(mt, workouts[1].Completed)
	})

	mt.Run("list by owner empty is not nil", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workouts", mtest.FirstBatch))

		workouts, err := repo.ListByOwner(ctx, owner, domain.WorkoutFilter{}, 0, 10)

		require.NoError(mt, err)
		assert.NotNil(mt, workouts)
		assert.Empty(mt, workouts)
	})

	mt.Run("count by owner", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.workouts", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: int32(3)}},
		))

		completed := true
		n, err := repo.CountByOwner(ctx, owner, domain.WorkoutFilter{Completed: &completed})

		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})

	mt.Run("update owned", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: workoutDoc(id, owner, true)}))

		now := time.Now()
		updated, err := repo.UpdateOwned(ctx, owner, &domain.Workout{ID: id, Completed: true, CompletedAt: &now})

		require.NoError(mt, err)
		assert.True(mt, updated.Completed)
	})

	mt.Run("update not owned", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateOwned(ctx, owner, &domain.Workout{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("delete owned returns deleted document", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: workoutDoc(id, owner, false)}))

		deleted, err := repo.DeleteOwned(ctx, owner, id)

		require.NoError(mt, err)
		assert.Equal(mt, id, deleted.ID)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.DeleteOwned(ctx, owner, primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("set export key on missing workout", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.SetExportKey(ctx, owner, primitive.NewObjectID(), "exports/x.md")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}
