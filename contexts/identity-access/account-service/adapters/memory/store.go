package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainerrors "bookstack/contexts/identity-access/account-service/domain/errors"
	"bookstack/contexts/identity-access/account-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory account repository and session store used by tests
// and by the dev runtime when no database is configured.
type Store struct {
	mu sync.RWMutex

	usersByID       map[uint]ports.User
	idByUsername    map[string]uint
	idByEmail       map[string]uint
	sessionToUserID map[string]uint
	sequence        uint
}

func NewStore() *Store {
	return &Store{
		usersByID:       make(map[uint]ports.User),
		idByUsername:    make(map[string]uint),
		idByEmail:       make(map[string]uint),
		sessionToUserID: make(map[string]uint),
	}
}

func (s *Store) CreateUser(ctx context.Context, user ports.User) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.TrimSpace(user.Username)
	email := strings.TrimSpace(user.Email)
	if _, exists := s.idByUsername[username]; exists {
		return ports.User{}, domainerrors.ErrUsernameTaken
	}
	if _, exists := s.idByEmail[email]; exists {
		return ports.User{}, domainerrors.ErrEmailTaken
	}

	s.sequence++
	user.ID = s.sequence
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.usersByID[user.ID] = user
	s.idByUsername[username] = user.ID
	s.idByEmail[email] = user.ID
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByID[id]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByUsername[strings.TrimSpace(username)]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return s.usersByID[id], nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByEmail[strings.TrimSpace(email)]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return s.usersByID[id], nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByID[id]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	user.PasswordHash = hash
	s.usersByID[id] = user
	return nil
}

// SetBanned flips the ban flag directly; used by the in-memory admin adapter.
func (s *Store) SetBanned(ctx context.Context, id uint, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByID[id]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	user.Banned = banned
	s.usersByID[id] = user
	return nil
}

// ListUsers returns every stored user; the in-memory admin adapter filters
// and paginates on top of this.
func (s *Store) ListUsers(ctx context.Context) []ports.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]ports.User, 0, len(s.usersByID))
	for _, user := range s.usersByID {
		users = append(users, user)
	}
	return users
}

func (s *Store) Create(ctx context.Context, userID uint) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := uuid.NewString()
	s.sessionToUserID[sessionID] = userID
	return sessionID, nil
}

func (s *Store) Get(ctx context.Context, sessionID string) (uint, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.sessionToUserID[sessionID]
	return userID, ok, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessionToUserID, sessionID)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
