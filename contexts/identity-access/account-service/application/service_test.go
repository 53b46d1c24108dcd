package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstack/contexts/identity-access/account-service/adapters/memory"
	domainerrors "bookstack/contexts/identity-access/account-service/domain/errors"
	"bookstack/contexts/identity-access/account-service/ports"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(hash, password string) bool    { return hash == "hashed:"+password }

type emptyActivity struct{}

func (emptyActivity) CountBooksBySubmitter(ctx context.Context, userID uint) (int64, error) {
	return 0, nil
}
func (emptyActivity) CountReviewsByAuthor(ctx context.Context, userID uint) (int64, error) {
	return 0, nil
}
func (emptyActivity) RecentBooksBySubmitter(ctx context.Context, userID uint, limit int) ([]ports.BookSummary, error) {
	return nil, nil
}
func (emptyActivity) RecentReviewsByAuthor(ctx context.Context, userID uint, limit int) ([]ports.ReviewSummary, error) {
	return nil, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestService() (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{
		Repo:     store,
		Sessions: store,
		Hasher:   plainHasher{},
		Activity: emptyActivity{},
		Clock:    fixedClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)},
	}, store
}

func register(t *testing.T, service Service, username, email string) ports.User {
	t.Helper()
	user, err := service.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	service, store := newTestService()
	register(t, service, "alice", "alice@example.com")

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret-pass",
	})
	if !errors.Is(err, domainerrors.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if got := len(store.ListUsers(context.Background())); got != 1 {
		t.Fatalf("expected 1 stored user, got %d", got)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	service, store := newTestService()
	register(t, service, "alice", "alice@example.com")

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "alicia",
		Email:    "alice@example.com",
		Password: "secret-pass",
	})
	if !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if got := len(store.ListUsers(context.Background())); got != 1 {
		t.Fatalf("expected 1 stored user, got %d", got)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	service, _ := newTestService()
	cases := []RegisterInput{
		{Username: "", Email: "a@example.com", Password: "secret-pass"},
		{Username: "al", Email: "a@example.com", Password: "secret-pass"},
		{Username: "alice", Email: "not-an-email", Password: "secret-pass"},
		{Username: "alice", Email: "a@example.com", Password: "short"},
	}
	for _, input := range cases {
		if _, err := service.Register(context.Background(), input); !errors.Is(err, domainerrors.ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestLoginRejectsBannedIdentityBeforeSession(t *testing.T) {
	service, store := newTestService()
	user := register(t, service, "mallory", "mallory@example.com")
	if err := store.SetBanned(context.Background(), user.ID, true); err != nil {
		t.Fatal(err)
	}

	_, sessionID, err := service.Login(context.Background(), "mallory", "secret-pass")
	if !errors.Is(err, domainerrors.ErrAccountBanned) {
		t.Fatalf("expected ErrAccountBanned, got %v", err)
	}
	if sessionID != "" {
		t.Fatal("no session may exist for a banned identity")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service, _ := newTestService()
	register(t, service, "alice", "alice@example.com")

	if _, _, err := service.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := service.Login(context.Background(), "nobody", "secret-pass"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("unknown user should look like bad credentials, got %v", err)
	}
}

func TestIdentityFromSessionDropsBannedUser(t *testing.T) {
	service, store := newTestService()
	user := register(t, service, "alice", "alice@example.com")

	_, sessionID, err := service.Login(context.Background(), "alice", "secret-pass")
	if err != nil {
		t.Fatal(err)
	}

	resolved, ok, err := service.IdentityFromSession(context.Background(), sessionID)
	if err != nil || !ok {
		t.Fatalf("expected authenticated session, ok=%v err=%v", ok, err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("resolved user %d, want %d", resolved.ID, user.ID)
	}

	if err := store.SetBanned(context.Background(), user.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := service.IdentityFromSession(context.Background(), sessionID); ok {
		t.Fatal("banned user must resolve as unauthenticated")
	}
}

func TestChangePassword(t *testing.T) {
	service, _ := newTestService()
	user := register(t, service, "alice", "alice@example.com")
	ctx := context.Background()

	if err := service.ChangePassword(ctx, user.ID, "wrong", "new-secret", "new-secret"); !errors.Is(err, domainerrors.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := service.ChangePassword(ctx, user.ID, "secret-pass", "new-secret", "other"); !errors.Is(err, domainerrors.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := service.ChangePassword(ctx, user.ID, "secret-pass", "tiny", "tiny"); !errors.Is(err, domainerrors.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := service.ChangePassword(ctx, user.ID, "secret-pass", "new-secret", "new-secret"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, err := service.Login(ctx, "alice", "new-secret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
