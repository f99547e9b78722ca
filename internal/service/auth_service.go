package service

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/logger"
	"alcyxob/workout-buddy/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the payload of a new account.
type RegisterInput struct {
	Username     string              `json:"username" validate:"required,min=3,username"`
	Email        string              `json:"email" validate:"required,email"`
	Password     string              `json:"password" validate:"required,min=6,max=72,password"`
	FirstName    string              `json:"firstName" validate:"max=50"`
	LastName     string              `json:"lastName" validate:"max=50"`
	FitnessLevel domain.FitnessLevel `json:"fitnessLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
	Goals        []domain.Goal       `json:"goals" validate:"omitempty,dive,oneof=weight_loss muscle_gain strength endurance flexibility general_fitness"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is a session token together with the public view of its user.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	// Login accepts either the email or the username as identifier.
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch domain.ProfilePatch) (*domain.User, error)
	CurrentUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	validate *validator.Validate
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		validate: newValidator(),
		hashCost: bcrypt.DefaultCost,
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	level := input.FitnessLevel
	if level == "" {
		level = domain.FitnessBeginner
	}
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Profile: domain.Profile{
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			FitnessLevel: level,
			Goals:        domain.UniqueGoals(input.Goals),
		},
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, conflictFor(err)
		}
		return nil, err
	}
	user.ID = userID

	logger.FromContext(ctx).Info().Str("user_id", userID.Hex()).Msg("user registered")
	return s.issue(user)
}

func (s *authService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func conflictFor(err error) error {
	var dup *repository.DuplicateKeyError
	if !errors.As(err, &dup) {
		return ErrConflict
	}
	switch dup.Field {
	case "username":
		return ErrUsernameTaken
	case "email":
		return ErrEmailTaken
	default:
		return ErrConflict
	}
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if err := validateStruct(s.validate, loginInput{Email: identifier, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByLogin(ctx, identifier)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
	})
	return s.dummyHash
}

func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch domain.ProfilePatch) (*domain.User, error) {
	if patch.FirstName != nil {
		trimmed := strings.TrimSpace(*patch.FirstName)
		patch.FirstName = &trimmed
	}
	if patch.LastName != nil {
		trimmed := strings.TrimSpace(*patch.LastName)
		patch.LastName = &trimmed
	}
	if err := validateStruct(s.validate, patch); err != nil {
		return nil, err
	}

	current, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.userRepo.UpdateProfile(ctx, userID, patch.Apply(current.Profile))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return publicUser(updated), nil
}

func (s *authService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return publicUser(user), nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.CurrentUser(ctx, userID)
}

func (s *authService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: publicUser(user)}, nil
}

// publicUser strips the password hash.
func publicUser(u *domain.User) *domain.User {
	out := *u
	out.PasswordHash = ""
	return &out
}
