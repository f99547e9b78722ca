// internal/repository/mongo/workout_repo.go
package mongo

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout. GeneratedAt defaults to now.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.UserID == primitive.NilObjectID || len(workout.MuscleGroups) == 0 || workout.Plan == "" {
		return primitive.NilObjectID, errors.New("workout requires userId, muscleGroups and workoutPlan")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if workout.GeneratedAt.IsZero() {
		workout.GeneratedAt = now
	}
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

func (r *mongoWorkoutRepository) GetOwned(ctx context.Context, owner, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, ownedFilter(owner, id)).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

func (r *mongoWorkoutRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID, filter domain.WorkoutFilter, skip, limit int64) ([]domain.Workout, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "generatedAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, ownerFilter(owner, filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := make([]domain.Workout, 0)
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *mongoWorkoutRepository) CountByOwner(ctx context.Context, owner primitive.ObjectID, filter domain.WorkoutFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, ownerFilter(owner, filter))
}

// UpdateOwned writes the owner-editable fields. Nil optional fields are left
// as stored; a nil CompletedAt is unset.
func (r *mongoWorkoutRepository) UpdateOwned(ctx context.Context, owner primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error) {
	if workout.ID == primitive.NilObjectID {
		return nil, errors.New("workout ID is required for update")
	}

	set := bson.M{
		"completed": workout.Completed,
		"updatedAt": time.Now().UTC(),
	}
	if workout.Rating != nil {
		set["rating"] = *workout.Rating
	}
	if workout.Notes != nil {
		set["notes"] = *workout.Notes
	}
	if workout.Duration != nil {
		set["duration"] = *workout.Duration
	}
	update := bson.M{"$set": set}
	if workout.CompletedAt != nil {
		set["completedAt"] = *workout.CompletedAt
	} else {
		update["$unset"] = bson.M{"completedAt": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated domain.Workout
	err := r.collection.FindOneAndUpdate(ctx, ownedFilter(owner, workout.ID), update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteOwned deletes the workout only if owner owns it.
func (r *mongoWorkoutRepository) DeleteOwned(ctx context.Context, owner, id primitive.ObjectID) (*domain.Workout, error) {
	var deleted domain.Workout
	err := r.collection.FindOneAndDelete(ctx, ownedFilter(owner, id)).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// missing or owned by someone else
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &deleted, nil
}

func (r *mongoWorkoutRepository) SetExportKey(ctx context.Context, owner, id primitive.ObjectID, key string) error {
	update := bson.M{"$set": bson.M{"exportKey": key, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, ownedFilter(owner, id), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func ownedFilter(owner, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "userId": owner}
}

func ownerFilter(owner primitive.ObjectID, filter domain.WorkoutFilter) bson.M {
	f := bson.M{"userId": owner}
	if filter.Completed != nil {
		f["completed"] = *filter.Completed
	}
	return f
}

// EnsureWorkoutIndexes creates the owner listing index.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "generatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	return nil
}
