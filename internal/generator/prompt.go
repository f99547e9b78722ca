package generator

import (
	"alcyxob/workout-buddy/internal/domain"
	"fmt"
	"strings"
)

const promptTemplate = `Create a workout plan for these muscle groups: %s. Include three exercises per muscle group.
Keep the tone friendly and motivating.
Fitness level: %s.
Goals: %s.

Organise the answer into these sections:
- **Introduction**: what the session focuses on.
- **Warm-up**: 5-10 minutes of light cardio and dynamic mobility.
- **Workout Plan**: for every exercise list
  - **Muscle Group**
  - **Exercise Name**
  - **Sets**
  - **Reps**
  - **Rest** between sets
  - **Instructions**, step by step
- **Cool-down**: 5-10 minutes of static stretching.
- **Tips**: safety and progression advice.

Format the whole answer as markdown.`

// BuildWorkoutPrompt renders the plan request for the given caller profile.
// A blank level is treated as beginner.
func BuildWorkoutPrompt(muscleGroups []string, level domain.FitnessLevel, goals []domain.Goal) string {
	if level == "" {
		level = domain.FitnessBeginner
	}

	goalText := "general fitness"
	if len(goals) > 0 {
		names := make([]string, 0, len(goals))
		for _, g := range goals {
			names = append(names, strings.ReplaceAll(string(g), "_", " "))
		}
		goalText = strings.Join(names, ", ")
	}

	return fmt.Sprintf(promptTemplate, strings.Join(muscleGroups, ", "), level, goalText)
}
