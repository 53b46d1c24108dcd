package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstack/contexts/identity-access/authorization"
	domainerrors "bookstack/contexts/internal-ops/admin-dashboard-service/domain/errors"
	"bookstack/contexts/internal-ops/admin-dashboard-service/ports"
)

type fakeRepo struct {
	users       map[uint]ports.UserRow
	bookTimes   []time.Time
	reviewTimes []time.Time
	banned      map[uint]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:  map[uint]ports.UserRow{},
		banned: map[uint]bool{},
	}
}

func (f *fakeRepo) CountUsers(context.Context) (int64, error)   { return int64(len(f.users)), nil }
func (f *fakeRepo) CountBooks(context.Context) (int64, error)   { return int64(len(f.bookTimes)), nil }
func (f *fakeRepo) CountReviews(context.Context) (int64, error) { return int64(len(f.reviewTimes)), nil }

func (f *fakeRepo) CountBannedUsers(context.Context) (int64, error) {
	var count int64
	for _, banned := range f.banned {
		if banned {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) BookCreationTimes(_ context.Context, since time.Time) ([]time.Time, error) {
	return after(f.bookTimes, since), nil
}

func (f *fakeRepo) ReviewCreationTimes(_ context.Context, since time.Time) ([]time.Time, error) {
	return after(f.reviewTimes, since), nil
}

func after(times []time.Time, since time.Time) []time.Time {
	var kept []time.Time
	for _, t := range times {
		if !t.Before(since) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (f *fakeRepo) RecentUsers(context.Context, int) ([]ports.UserRow, error)     { return nil, nil }
func (f *fakeRepo) RecentBooks(context.Context, int) ([]ports.BookRow, error)     { return nil, nil }
func (f *fakeRepo) RecentReviews(context.Context, int) ([]ports.ReviewRow, error) { return nil, nil }

func (f *fakeRepo) ListUsers(context.Context, string, int, int) (ports.UserPage, error) {
	return ports.UserPage{}, nil
}

func (f *fakeRepo) GetUser(_ context.Context, id uint) (ports.UserRow, error) {
	user, ok := f.users[id]
	if !ok {
		return ports.UserRow{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepo) SetUserBanned(_ context.Context, id uint, banned bool) error {
	if _, ok := f.users[id]; !ok {
		return domainerrors.ErrUserNotFound
	}
	f.banned[id] = banned
	return nil
}

type fakeRemover struct {
	deleted []uint
	err     error
}

func (f *fakeRemover) DeleteReview(_ context.Context, id uint) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestOverviewBucketsTrendPerDay(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	repo.bookTimes = []time.Time{
		now,
		now.Add(-2 * time.Hour),
		now.AddDate(0, 0, -3),
		now.AddDate(0, 0, -10), // outside the window
	}
	repo.reviewTimes = []time.Time{now.AddDate(0, 0, -6)}

	service := Service{Repo: repo, Clock: fixedClock{now: now}}
	overview, err := service.Overview(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(overview.BooksPerDay) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(overview.BooksPerDay))
	}
	first, last := overview.BooksPerDay[0], overview.BooksPerDay[6]
	if first.Day != "2026-03-04" || last.Day != "2026-03-10" {
		t.Fatalf("window = %s .. %s", first.Day, last.Day)
	}
	if last.Count != 2 {
		t.Fatalf("today's book count = %d, want 2", last.Count)
	}
	if overview.BooksPerDay[3].Count != 1 {
		t.Fatalf("count three days back = %d, want 1", overview.BooksPerDay[3].Count)
	}
	if overview.ReviewsPerDay[0].Count != 1 {
		t.Fatalf("oldest review bucket = %d, want 1", overview.ReviewsPerDay[0].Count)
	}
}

func TestBanUserRejectsAdmins(t *testing.T) {
	repo := newFakeRepo()
	repo.users[1] = ports.UserRow{ID: 1, Username: "root", Role: authorization.RoleAdmin}
	repo.users[2] = ports.UserRow{ID: 2, Username: "mallory", Role: authorization.RoleNormal}
	service := Service{Repo: repo, Clock: fixedClock{now: time.Now()}}
	ctx := context.Background()

	if _, err := service.BanUser(ctx, 1); !errors.Is(err, domainerrors.ErrCannotBanAdmin) {
		t.Fatalf("expected ErrCannotBanAdmin, got %v", err)
	}
	if repo.banned[1] {
		t.Fatal("admin must not be flagged banned")
	}

	username, err := service.BanUser(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if username != "mallory" {
		t.Fatalf("username = %q", username)
	}
	if !repo.banned[2] {
		t.Fatal("user should be banned")
	}

	if _, err := service.BanUser(ctx, 99); !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUnbanUserClearsFlag(t *testing.T) {
	repo := newFakeRepo()
	repo.users[2] = ports.UserRow{ID: 2, Username: "mallory", Banned: true}
	repo.banned[2] = true
	service := Service{Repo: repo, Clock: fixedClock{now: time.Now()}}

	username, err := service.UnbanUser(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if username != "mallory" {
		t.Fatalf("username = %q", username)
	}
	if repo.banned[2] {
		t.Fatal("user should no longer be banned")
	}
}

func TestDeleteReviewDelegates(t *testing.T) {
	remover := &fakeRemover{}
	service := Service{Reviews: remover}

	if err := service.DeleteReview(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	if len(remover.deleted) != 1 || remover.deleted[0] != 7 {
		t.Fatalf("deleted = %v", remover.deleted)
	}

	remover.err = errors.New("gone already")
	if err := service.DeleteReview(context.Background(), 8); err == nil {
		t.Fatal("expected delegate error to surface")
	}
}
