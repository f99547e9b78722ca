package service

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/repository"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memUserRepo is an in-memory repository.UserRepository.
type memUserRepo struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]domain.User
	createErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return primitive.NilObjectID, &repository.DuplicateKeyError{Field: "username"}
		}
		if u.Email == strings.ToLower(user.Email) {
			return primitive.NilObjectID, &repository.DuplicateKeyError{Field: "email"}
		}
	}
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *memUserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *memUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(login))
	return r.find(func(u domain.User) bool { return u.Email == email || u.Username == login })
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, profile domain.Profile) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Profile = profile
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return &u, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// memWorkoutRepo is an in-memory repository.WorkoutRepository.
type memWorkoutRepo struct {
	mu        sync.Mutex
	workouts  map[primitive.ObjectID]domain.Workout
	createErr error
	listErr   error
}

func newMemWorkoutRepo() *memWorkoutRepo {
	return &memWorkoutRepo{workouts: make(map[primitive.ObjectID]domain.Workout)}
}

func (r *memWorkoutRepo) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	w.ID = primitive.NewObjectID()
	if w.GeneratedAt.IsZero() {
		w.GeneratedAt = time.Now().UTC()
	}
	w.CreatedAt = w.GeneratedAt
	w.UpdatedAt = w.GeneratedAt
	r.workouts[w.ID] = *w
	return w.ID, nil
}

func (r *memWorkoutRepo) GetOwned(_ context.Context, owner, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != owner {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *memWorkoutRepo) matching(owner primitive.ObjectID, filter domain.WorkoutFilter) []domain.Workout {
	out := make([]domain.Workout, 0)
	for _, w := range r.workouts {
		if w.UserID != owner {
			continue
		}
		if filter.Completed != nil && w.Completed != *filter.Completed {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	return out
}

func (r *memWorkoutRepo) ListByOwner(_ context.Context, owner primitive.ObjectID, filter domain.WorkoutFilter, skip, limit int64) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	all := r.matching(owner, filter)
	if skip >= int64(len(all)) {
		return []domain.Workout{}, nil
	}
	end := skip + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end], nil
}

func (r *memWorkoutRepo) CountByOwner(_ context.Context, owner primitive.ObjectID, filter domain.WorkoutFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(owner, filter))), nil
}

func (r *memWorkoutRepo) UpdateOwned(_ context.Context, owner primitive.ObjectID, w *domain.Workout) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.workouts[w.ID]
	if !ok || stored.UserID != owner {
		return nil, repository.ErrNotFound
	}
	stored.Completed = w.Completed
	stored.CompletedAt = w.CompletedAt
	if w.Rating != nil {
		stored.Rating = w.Rating
	}
	if w.Notes != nil {
		stored.Notes = w.Notes
	}
	if w.Duration != nil {
		stored.Duration = w.Duration
	}
	stored.UpdatedAt = w.UpdatedAt
	r.workouts[w.ID] = stored
	return &stored, nil
}

func (r *memWorkoutRepo) DeleteOwned(_ context.Context, owner, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != owner {
		return nil, repository.ErrNotFound
	}
	delete(r.workouts, id)
	return &w, nil
}

func (r *memWorkoutRepo) SetExportKey(_ context.Context, owner, id primitive.ObjectID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != owner {
		return repository.ErrNotFound
	}
	w.ExportKey = key
	r.workouts[id] = w
	return nil
}

func (r *memWorkoutRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workouts)
}
