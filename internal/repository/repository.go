package repository

import (
	"alcyxob/workout-buddy/internal/domain"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DuplicateKeyError names the unique field that rejected a write.
// errors.Is(err, ErrDuplicateKey) holds for it.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateKey, e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// UserRepository persists user accounts.
type UserRepository interface {
	// Create fails with a *DuplicateKeyError when the username or email is taken.
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetByLogin matches either the email or the username.
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.Profile) (*domain.User, error)
}

// WorkoutRepository persists workouts. Every read and write after Create is
// scoped to the owner: a workout owned by someone else is ErrNotFound.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetOwned(ctx context.Context, owner, id primitive.ObjectID) (*domain.Workout, error)
	// ListByOwner returns workouts newest generatedAt first.
	ListByOwner(ctx context.Context, owner primitive.ObjectID, filter domain.WorkoutFilter, skip, limit int64) ([]domain.Workout, error)
	CountByOwner(ctx context.Context, owner primitive.ObjectID, filter domain.WorkoutFilter) (int64, error)
	// UpdateOwned writes the mutable fields of workout and returns the stored document.
	UpdateOwned(ctx context.Context, owner primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error)
	// DeleteOwned removes the workout and returns what was deleted.
	DeleteOwned(ctx context.Context, owner, id primitive.ObjectID) (*domain.Workout, error)
	SetExportKey(ctx context.Context, owner, id primitive.ObjectID, key string) error
}
