package service

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/generator"
	"alcyxob/workout-buddy/internal/logger"
	"alcyxob/workout-buddy/internal/repository"
	"alcyxob/workout-buddy/internal/storage"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// GenerationStatus is the outcome of a generation request.
type GenerationStatus int

const (
	GenerationFailed GenerationStatus = iota
	GeneratedAndSaved
	GeneratedNotSaved
)

func (s GenerationStatus) String() string {
	switch s {
	case GeneratedAndSaved:
		return "generated_and_saved"
	case GeneratedNotSaved:
		return "generated_not_saved"
	default:
		return "failed"
	}
}

// GenerateInput asks for a plan. Caller is nil for anonymous requests;
// the plan is persisted only when Save is set and Caller is known.
type GenerateInput struct {
	MuscleGroups []string
	Caller       *domain.User
	Save         bool
}

// GenerationResult reports what happened to a generated plan. SaveErr is set
// when saving was attempted and failed.
type GenerationResult struct {
	Status    GenerationStatus
	Plan      string
	WorkoutID *primitive.ObjectID
	SaveErr   error
}

func (r GenerationResult) Saved() bool {
	return r.Status == GeneratedAndSaved
}

func (r GenerationResult) Message() string {
	if r.Saved() {
		return "Workout generated and saved!"
	}
	return "Workout generated!"
}

// ListQuery selects one page of an owner's workouts.
type ListQuery struct {
	Page      int
	Limit     int
	Completed *bool
}

// WorkoutPage is one page of a listing.
type WorkoutPage struct {
	Workouts    []domain.Workout `json:"workouts"`
	Total       int64            `json:"total"`
	TotalPages  int64            `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

// ExportResult points at an exported workout document.
type ExportResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type WorkoutService interface {
	Generate(ctx context.Context, input GenerateInput) (GenerationResult, error)
	List(ctx context.Context, owner primitive.ObjectID, query ListQuery) (*WorkoutPage, error)
	Get(ctx context.Context, owner primitive.ObjectID, workoutID string) (*domain.Workout, error)
	Update(ctx context.Context, owner primitive.ObjectID, workoutID string, patch domain.WorkoutPatch) (*domain.Workout, error)
	Delete(ctx context.Context, owner primitive.ObjectID, workoutID string) error
	Export(ctx context.Context, owner primitive.ObjectID, workoutID string) (*ExportResult, error)
}

type workoutService struct {
	workoutRepo   repository.WorkoutRepository
	generator     generator.Generator
	files         storage.FileStorage // nil disables export
	presignExpiry time.Duration
	now           func() time.Time
}

// NewWorkoutService wires the workout use cases. files may be nil.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	gen generator.Generator,
	files storage.FileStorage,
	presignExpiry time.Duration,
) WorkoutService {
	if presignExpiry <= 0 {
		presignExpiry = storage.DefaultPresignedURLExpiry
	}
	return &workoutService{
		workoutRepo:   workoutRepo,
		generator:     gen,
		files:         files,
		presignExpiry: presignExpiry,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *workoutService) Generate(ctx context.Context, input GenerateInput) (GenerationResult, error) {
	log := logger.FromContext(ctx)

	groups, err := cleanMuscleGroups(input.MuscleGroups)
	if err != nil {
		return GenerationResult{Status: GenerationFailed}, err
	}

	level := input.Caller.Level()
	prompt := generator.BuildWorkoutPrompt(groups, level, input.Caller.GoalList())

	plan, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, generator.ErrMissingAPIKey) {
			log.Error().Err(err).Msg("workout generation is not configured")
		} else {
			log.Warn().Err(err).Msg("workout generation failed")
		}
		return GenerationResult{Status: GenerationFailed}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	result := GenerationResult{Status: GeneratedNotSaved, Plan: plan}
	if !input.Save || input.Caller == nil {
		return result, nil
	}

	workout := &domain.Workout{
		UserID:       input.Caller.ID,
		MuscleGroups: groups,
		Plan:         plan,
		Difficulty:   domain.DifficultyFor(level),
		GeneratedAt:  s.now(),
	}
	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		log.Error().Err(err).Msg("failed to save generated workout")
		result.SaveErr = fmt.Errorf("%w: %w", ErrStorage, err)
		return result, nil
	}

	result.Status = GeneratedAndSaved
	result.WorkoutID = &id
	return result, nil
}

func cleanMuscleGroups(groups []string) ([]string, error) {
	const msg = "muscleGroups must be a non-empty array of names"
	if len(groups) == 0 {
		return nil, newValidationError("muscleGroups", msg)
	}
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			return nil, newValidationError("muscleGroups", msg)
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *workoutService) List(ctx context.Context, owner primitive.ObjectID, query ListQuery) (*WorkoutPage, error) {
	page, limit := normalizePage(query.Page, query.Limit)
	filter := domain.WorkoutFilter{Completed: query.Completed}

	workouts, err := s.workoutRepo.ListByOwner(ctx, owner, filter, int64(page-1)*int64(limit), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	total, err := s.workoutRepo.CountByOwner(ctx, owner, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return &WorkoutPage{
		Workouts:    workouts,
		Total:       total,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		CurrentPage: page,
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	// keep (page-1)*limit inside int64
	if maxPage := math.MaxInt64 / int64(limit); int64(page) > maxPage {
		page = int(maxPage)
	}
	return page, limit
}

func (s *workoutService) Get(ctx context.Context, owner primitive.ObjectID, workoutID string) (*domain.Workout, error) {
	id, err := parseWorkoutID(workoutID)
	if err != nil {
		return nil, err
	}
	workout, err := s.workoutRepo.GetOwned(ctx, owner, id)
	if err != nil {
		return nil, mapWorkoutErr(err)
	}
	return workout, nil
}

// Update applies patch to an owned workout. Concurrent updates are last write wins.
func (s *workoutService) Update(ctx context.Context, owner primitive.ObjectID, workoutID string, patch domain.WorkoutPatch) (*domain.Workout, error) {
	if err := validateWorkoutPatch(patch); err != nil {
		return nil, err
	}

	workout, err := s.Get(ctx, owner, workoutID)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return workout, nil
	}

	patch.Apply(workout, s.now())
	updated, err := s.workoutRepo.UpdateOwned(ctx, owner, workout)
	if err != nil {
		return nil, mapWorkoutErr(err)
	}
	return updated, nil
}

func validateWorkoutPatch(patch domain.WorkoutPatch) error {
	verr := &ValidationError{}
	if patch.Rating != nil && (*patch.Rating < domain.MinRating || *patch.Rating > domain.MaxRating) {
		verr.Fields = append(verr.Fields, FieldError{
			Path: "rating",
			Msg:  fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating),
		})
	}
	if patch.Notes != nil && utf8.RuneCountInString(*patch.Notes) > domain.MaxNotesRunes {
		verr.Fields = append(verr.Fields, FieldError{
			Path: "notes",
			Msg:  fmt.Sprintf("notes must be at most %d characters long", domain.MaxNotesRunes),
		})
	}
	if patch.Duration != nil && *patch.Duration < 0 {
		verr.Fields = append(verr.Fields, FieldError{Path: "duration", Msg: "duration cannot be negative"})
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *workoutService) Delete(ctx context.Context, owner primitive.ObjectID, workoutID string) error {
	id, err := parseWorkoutID(workoutID)
	if err != nil {
		return err
	}
	deleted, err := s.workoutRepo.DeleteOwned(ctx, owner, id)
	if err != nil {
		return mapWorkoutErr(err)
	}
	if deleted.ExportKey != "" {
		s.removeExport(ctx, deleted.ExportKey)
	}
	return nil
}

// removeExport deletes an exported object; failures only get logged.
func (s *workoutService) removeExport(ctx context.Context, key string) {
	if s.files == nil {
		return
	}
	if err := s.files.DeleteObject(ctx, key); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to remove workout export")
	}
}

func parseWorkoutID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, ErrWorkoutNotFound
	}
	return id, nil
}

func mapWorkoutErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
