package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FitnessLevel is the self-reported training level of a user.
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// Goal is one of the enumerated fitness goals a user can pick.
type Goal string

const (
	GoalWeightLoss     Goal = "weight_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalStrength       Goal = "strength"
	GoalEndurance      Goal = "endurance"
	GoalFlexibility    Goal = "flexibility"
	GoalGeneralFitness Goal = "general_fitness"
)

// Profile holds the mutable, non-identity part of a user account.
type Profile struct {
	FirstName    string       `bson:"firstName,omitempty" json:"firstName"`
	LastName     string       `bson:"lastName,omitempty" json:"lastName"`
	FitnessLevel FitnessLevel `bson:"fitnessLevel" json:"fitnessLevel"`
	Goals        []Goal       `bson:"goals" json:"goals"`
}

// User is an account. Username and Email are unique across users.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"` // never serialized
	Profile      Profile            `bson:"profile" json:"profile"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Level returns the user's fitness level, defaulting to beginner.
// A nil user is an anonymous caller.
func (u *User) Level() FitnessLevel {
	if u == nil || u.Profile.FitnessLevel == "" {
		return FitnessBeginner
	}
	return u.Profile.FitnessLevel
}

// GoalList returns the user's goals; empty for anonymous callers.
func (u *User) GoalList() []Goal {
	if u == nil {
		return nil
	}
	return u.Profile.Goals
}

// UniqueGoals drops repeated goals, keeping first-seen order.
func UniqueGoals(goals []Goal) []Goal {
	out := make([]Goal, 0, len(goals))
	seen := make(map[Goal]struct{}, len(goals))
	for _, g := range goals {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// ProfilePatch carries the recognized profile fields of an update.
// Nil fields are left untouched.
type ProfilePatch struct {
	FirstName    *string       `json:"firstName" validate:"omitempty,max=50"`
	LastName     *string       `json:"lastName" validate:"omitempty,max=50"`
	FitnessLevel *FitnessLevel `json:"fitnessLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
	Goals        *[]Goal       `json:"goals" validate:"omitempty,dive,oneof=weight_loss muscle_gain strength endurance flexibility general_fitness"`
}

// Apply merges the patch into p and returns the result.
func (patch ProfilePatch) Apply(p Profile) Profile {
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.FitnessLevel != nil && *patch.FitnessLevel != "" {
		p.FitnessLevel = *patch.FitnessLevel
	}
	if patch.Goals != nil {
		p.Goals = UniqueGoals(*patch.Goals)
	}
	return p
}
