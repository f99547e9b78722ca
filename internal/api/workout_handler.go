package api

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type GenerateWorkoutRequest struct {
	MuscleGroups []string `json:"muscleGroups"`
}

type GenerateWorkoutResponse struct {
	WorkoutPlan string  `json:"workoutPlan"`
	WorkoutID   *string `json:"workoutId"`
	Saved       bool    `json:"saved"`
	Message     string  `json:"message"`
}

// UpdateWorkoutRequest lists the fields an owner may change.
type UpdateWorkoutRequest struct {
	Completed *bool   `json:"completed"`
	Rating    *int    `json:"rating"`
	Notes     *string `json:"notes"`
	Duration  *int    `json:"duration"`
}

// Generate returns a handler that asks for a plan and, when save is set,
// stores it for the authenticated caller.
func (h *WorkoutHandler) Generate(save bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateWorkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, &service.ValidationError{Fields: []service.FieldError{{
				Path: "muscleGroups",
				Msg:  "muscleGroups must be a non-empty array of names",
			}}})
			return
		}

		res, err := h.workoutService.Generate(c.Request.Context(), service.GenerateInput{
			MuscleGroups: req.MuscleGroups,
			Caller:       currentUser(c),
			Save:         save,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		resp := GenerateWorkoutResponse{
			WorkoutPlan: res.Plan,
			Saved:       res.Saved(),
			Message:     res.Message(),
		}
		if res.WorkoutID != nil {
			id := res.WorkoutID.Hex()
			resp.WorkoutID = &id
		}
		c.JSON(http.StatusOK, resp)
	}
}

// List godoc
// @Summary List the caller's workouts, newest first
// @Tags Workouts
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param completed query bool false "Filter by completion"
// @Success 200 {object} service.WorkoutPage
// @Router /api/workouts [get]
func (h *WorkoutHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	query := service.ListQuery{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}
	if raw, present := c.GetQuery("completed"); present && raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, &service.ValidationError{Fields: []service.FieldError{{
				Path: "completed",
				Msg:  "completed must be true or false",
			}}})
			return
		}
		query.Completed = &completed
	}

	page, err := h.workoutService.List(c.Request.Context(), user.ID, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// queryInt reads an integer query parameter; missing or malformed values are 0.
func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	workout, err := h.workoutService.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": workout})
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	workout, err := h.workoutService.Update(c.Request.Context(), user.ID, c.Param("id"), domain.WorkoutPatch{
		Completed: req.Completed,
		Rating:    req.Rating,
		Notes:     req.Notes,
		Duration:  req.Duration,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout updated successfully", "workout": workout})
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	if err := h.workoutService.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout deleted successfully"})
}

// Export uploads the workout as markdown and returns a temporary download link.
func (h *WorkoutHandler) Export(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	res, err := h.workoutService.Export(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
