package api

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/logger"
	"alcyxob/workout-buddy/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	users map[string]*domain.User // token -> user

	register      func(service.RegisterInput) (*service.AuthResult, error)
	login         func(identifier, password string) (*service.AuthResult, error)
	updateProfile func(primitive.ObjectID, domain.ProfilePatch) (*domain.User, error)
}

func (s *stubAuth) Register(_ context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	return s.register(in)
}

func (s *stubAuth) Login(_ context.Context, identifier, password string) (*service.AuthResult, error) {
	return s.login(identifier, password)
}

func (s *stubAuth) UpdateProfile(_ context.Context, id primitive.ObjectID, patch domain.ProfilePatch) (*domain.User, error) {
	return s.updateProfile(id, patch)
}

func (s *stubAuth) CurrentUser(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, service.ErrUserNotFound
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	switch token {
	case "orphan":
		return nil, service.ErrUserNotFound
	case "broken":
		return nil, context.DeadlineExceeded
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, service.ErrInvalidToken
}

type stubWorkouts struct {
	generate func(service.GenerateInput) (service.GenerationResult, error)
	list     func(primitive.ObjectID, service.ListQuery) (*service.WorkoutPage, error)
	get      func(primitive.ObjectID, string) (*domain.Workout, error)
	update   func(primitive.ObjectID, string, domain.WorkoutPatch) (*domain.Workout, error)
	del      func(primitive.ObjectID, string) error
	export   func(primitive.ObjectID, string) (*service.ExportResult, error)
}

func (s *stubWorkouts) Generate(_ context.Context, in service.GenerateInput) (service.GenerationResult, error) {
	return s.generate(in)
}

func (s *stubWorkouts) List(_ context.Context, owner primitive.ObjectID, q service.ListQuery) (*service.WorkoutPage, error) {
	return s.list(owner, q)
}

func (s *stubWorkouts) Get(_ context.Context, owner primitive.ObjectID, id string) (*domain.Workout, error) {
	return s.get(owner, id)
}

func (s *stubWorkouts) Update(_ context.Context, owner primitive.ObjectID, id string, patch domain.WorkoutPatch) (*domain.Workout, error) {
	return s.update(owner, id, patch)
}

func (s *stubWorkouts) Delete(_ context.Context, owner primitive.ObjectID, id string) error {
	return s.del(owner, id)
}

func (s *stubWorkouts) Export(_ context.Context, owner primitive.ObjectID, id string) (*service.ExportResult, error) {
	return s.export(owner, id)
}

type stubChat struct {
	ask func(string) (string, error)
}

func (s *stubChat) Ask(_ context.Context, prompt string) (string, error) {
	return s.ask(prompt)
}

var testOwner = &domain.User{
	ID:       primitive.NewObjectID(),
	Username: "ada_l",
	Email:    "ada@example.com",
	Profile:  domain.Profile{FitnessLevel: domain.FitnessAdvanced, Goals: []domain.Goal{}},
}

func newTestRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	router := gin.New()
	SetupRoutes(router, deps)
	return router
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
