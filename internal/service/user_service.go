package service

import (
	"context"
	"errors"

	"hostes/internal/database"
	"hostes/internal/domain"
	"hostes/internal/models"
	"hostes/internal/schedule"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidCredentials hides whether the login or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid login or password")

type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Login checks credentials with a plain comparison, matching how accounts
// are provisioned today.
func (s *UserService) Login(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password != password {
		s.logger.Warn().Str("login", login).Msg("Failed login attempt")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *UserService) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleHostess
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Str("login", u.Login).Msg("User created")
	return u, nil
}

func (s *UserService) UpdateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}

func validateUser(u *models.User) error {
	if len(u.Name) < 2 {
		return &schedule.ValidationError{Field: "name", Reason: "name must be at least 2 characters"}
	}
	if len(u.Login) < 3 {
		return &schedule.ValidationError{Field: "login", Reason: "login must be at least 3 characters"}
	}
	if u.Password == "" {
		return &schedule.ValidationError{Field: "password", Reason: "password is required"}
	}
	if u.Role != "" && u.Role != models.RoleAdmin && u.Role != models.RoleHostess {
		return &schedule.ValidationError{Field: "role", Reason: "unknown role"}
	}
	return nil
}
