package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty of a generated workout, derived from the owner's fitness level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

const (
	MinRating     = 1
	MaxRating     = 5
	MaxNotesRunes = 500
)

// DifficultyFor maps a fitness level onto a workout difficulty.
// Anything that is not beginner or intermediate counts as hard.
func DifficultyFor(level FitnessLevel) Difficulty {
	switch level {
	case FitnessBeginner, "":
		return DifficultyEasy
	case FitnessIntermediate:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// Workout is a generated plan saved for its owner.
type Workout struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"` // owner, set once at creation
	MuscleGroups []string           `bson:"muscleGroups" json:"muscleGroups"`
	Plan         string             `bson:"workoutPlan" json:"workoutPlan"`
	Completed    bool               `bson:"completed" json:"completed"`
	Rating       *int               `bson:"rating,omitempty" json:"rating,omitempty"`
	Notes        *string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Duration     *int               `bson:"duration,omitempty" json:"duration,omitempty"` // minutes
	Difficulty   Difficulty         `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	GeneratedAt  time.Time          `bson:"generatedAt" json:"generatedAt"`
	CompletedAt  *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	ExportKey    string             `bson:"exportKey,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutPatch is the set of fields an owner may change on a workout.
// Nil fields are left untouched.
type WorkoutPatch struct {
	Completed *bool
	Rating    *int
	Notes     *string
	Duration  *int
}

// IsEmpty reports whether the patch changes nothing.
func (p WorkoutPatch) IsEmpty() bool {
	return p.Completed == nil && p.Rating == nil && p.Notes == nil && p.Duration == nil
}

// Apply copies the patch onto w. CompletedAt is stamped with now only when
// Completed goes from false to true and cleared when it goes back to false.
func (p WorkoutPatch) Apply(w *Workout, now time.Time) {
	if p.Completed != nil {
		switch {
		case *p.Completed && !w.Completed:
			stamp := now
			w.CompletedAt = &stamp
		case !*p.Completed:
			w.CompletedAt = nil
		}
		w.Completed = *p.Completed
	}
	if p.Rating != nil {
		r := *p.Rating
		w.Rating = &r
	}
	if p.Notes != nil {
		n := *p.Notes
		w.Notes = &n
	}
	if p.Duration != nil {
		d := *p.Duration
		w.Duration = &d
	}
	w.UpdatedAt = now
}

// WorkoutFilter narrows an owner's workout listing.
type WorkoutFilter struct {
	Completed *bool
}
