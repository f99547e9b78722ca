package service

import (
	"alcyxob/workout-buddy/internal/domain"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exportContentType = "text/markdown; charset=utf-8"

// Export uploads the owned workout as a markdown document and returns a
// presigned download link. A previous export of the same workout is replaced.
func (s *workoutService) Export(ctx context.Context, owner primitive.ObjectID, workoutID string) (*ExportResult, error) {
	if s.files == nil {
		return nil, ErrExportUnavailable
	}

	workout, err := s.Get(ctx, owner, workoutID)
	if err != nil {
		return nil, err
	}

	key := exportKey(workout)
	if err = s.files.PutObject(ctx, key, exportContentType, []byte(renderWorkoutMarkdown(workout))); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if err = s.workoutRepo.SetExportKey(ctx, owner, workout.ID, key); err != nil {
		// the workout went away while uploading
		s.removeExport(ctx, key)
		return nil, mapWorkoutErr(err)
	}
	if workout.ExportKey != "" && workout.ExportKey != key {
		s.removeExport(ctx, workout.ExportKey)
	}

	url, err := s.files.PresignDownloadURL(ctx, key, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return &ExportResult{URL: url, ExpiresAt: s.now().Add(s.presignExpiry)}, nil
}

func exportKey(w *domain.Workout) string {
	return fmt.Sprintf("exports/%s/%s-%s.md", w.UserID.Hex(), w.ID.Hex(), uuid.NewString())
}

func renderWorkoutMarkdown(w *domain.Workout) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Workout: %s\n\n", strings.Join(w.MuscleGroups, ", "))
	fmt.Fprintf(&b, "- Generated: %s\n", w.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	if w.Difficulty != "" {
		fmt.Fprintf(&b, "- Difficulty: %s\n", w.Difficulty)
	}
	if w.Completed {
		status := "completed"
		if w.CompletedAt != nil {
			status += " on " + w.CompletedAt.UTC().Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- Status: %s\n", status)
	} else {
		b.WriteString("- Status: not completed\n")
	}
	if w.Rating != nil {
		fmt.Fprintf(&b, "- Rating: %d/%d\n", *w.Rating, domain.MaxRating)
	}
	if w.Duration != nil {
		fmt.Fprintf(&b, "- Duration: %d min\n", *w.Duration)
	}
	if w.Notes != nil && *w.Notes != "" {
		fmt.Fprintf(&b, "\n## Notes\n\n%s\n", *w.Notes)
	}
	fmt.Fprintf(&b, "\n---\n\n%s\n", strings.TrimSpace(w.Plan))
	return b.String()
}
