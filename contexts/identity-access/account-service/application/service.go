package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainerrors "bookstack/contexts/identity-access/account-service/domain/errors"
	"bookstack/contexts/identity-access/account-service/ports"
	"bookstack/contexts/identity-access/authorization"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Service struct {
	Repo     ports.Repository
	Sessions ports.SessionStore
	Hasher   ports.PasswordHasher
	Activity ports.ActivityReader
	Clock    ports.Clock
	Logger   *slog.Logger
}

type RegisterInput struct {
	Username string `validate:"required,min=3,max=64"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	FullName string `validate:"max=128"`
	Bio      string `validate:"max=1000"`
}

func (s Service) Register(ctx context.Context, input RegisterInput) (ports.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if err := validate.Struct(input); err != nil {
		return ports.User{}, domainerrors.ErrInvalidInput
	}

	if _, err := s.Repo.GetUserByUsername(ctx, input.Username); err == nil {
		return ports.User{}, domainerrors.ErrUsernameTaken
	} else if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return ports.User{}, err
	}
	if _, err := s.Repo.GetUserByEmail(ctx, input.Email); err == nil {
		return ports.User{}, domainerrors.ErrEmailTaken
	} else if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return ports.User{}, err
	}

	hash, err := s.Hasher.Hash(input.Password)
	if err != nil {
		return ports.User{}, err
	}

	user, err := s.Repo.CreateUser(ctx, ports.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         authorization.RoleNormal,
		FullName:     strings.TrimSpace(input.FullName),
		Bio:          strings.TrimSpace(input.Bio),
		CreatedAt:    s.Clock.Now().UTC(),
	})
	if err != nil {
		return ports.User{}, err
	}

	s.logger().Info("user registered",
		"event", "account_registered",
		"module", "identity-access/account-service",
		"user_id", user.ID,
	)
	return user, nil
}

// Login verifies credentials and establishes a session. A banned identity is
// rejected before any session exists.
func (s Service) Login(ctx context.Context, username, password string) (ports.User, string, error) {
	username = strings.TrimSpace(username)
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return ports.User{}, "", domainerrors.ErrInvalidCredentials
		}
		return ports.User{}, "", err
	}
	if !s.Hasher.Verify(user.PasswordHash, password) {
		return ports.User{}, "", domainerrors.ErrInvalidCredentials
	}
	if user.Banned {
		return ports.User{}, "", domainerrors.ErrAccountBanned
	}

	sessionID, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		return ports.User{}, "", err
	}
	s.logger().Info("user logged in",
		"event", "account_login",
		"module", "identity-access/account-service",
		"user_id", user.ID,
	)
	return user, sessionID, nil
}

func (s Service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// IdentityFromSession resolves the requesting identity. A session whose user
// has been banned since login resolves as unauthenticated.
func (s Service) IdentityFromSession(ctx context.Context, sessionID string) (ports.User, bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return ports.User{}, false, nil
	}
	userID, ok, err := s.Sessions.Get(ctx, sessionID)
	if err != nil || !ok {
		return ports.User{}, false, err
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return ports.User{}, false, nil
		}
		return ports.User{}, false, err
	}
	if user.Banned {
		_ = s.Sessions.Delete(ctx, sessionID)
		return ports.User{}, false, nil
	}
	return user, true, nil
}

func (s Service) ChangePassword(ctx context.Context, userID uint, current, next, confirm string) error {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.Hasher.Verify(user.PasswordHash, current) {
		return domainerrors.ErrWrongPassword
	}
	if next != confirm {
		return domainerrors.ErrPasswordMismatch
	}
	if len(next) < 6 {
		return domainerrors.ErrPasswordTooShort
	}
	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePasswordHash(ctx, userID, hash)
}

func (s Service) GetUser(ctx context.Context, userID uint) (ports.User, error) {
	return s.Repo.GetUserByID(ctx, userID)
}

// Dashboard aggregates the caller's catalog activity: totals plus the five
// most recent books and reviews.
func (s Service) Dashboard(ctx context.Context, userID uint) (ports.Dashboard, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return ports.Dashboard{}, err
	}

	totalBooks, err := s.Activity.CountBooksBySubmitter(ctx, userID)
	if err != nil {
		return ports.Dashboard{}, err
	}
	totalReviews, err := s.Activity.CountReviewsByAuthor(ctx, userID)
	if err != nil {
		return ports.Dashboard{}, err
	}
	recentBooks, err := s.Activity.RecentBooksBySubmitter(ctx, userID, 5)
	if err != nil {
		return ports.Dashboard{}, err
	}
	recentReviews, err := s.Activity.RecentReviewsByAuthor(ctx, userID, 5)
	if err != nil {
		return ports.Dashboard{}, err
	}

	return ports.Dashboard{
		User:          user,
		TotalBooks:    totalBooks,
		TotalReviews:  totalReviews,
		RecentBooks:   recentBooks,
		RecentReviews: recentReviews,
	}, nil
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
