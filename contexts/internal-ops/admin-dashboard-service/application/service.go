package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bookstack/contexts/identity-access/authorization"
	domainerrors "bookstack/contexts/internal-ops/admin-dashboard-service/domain/errors"
	"bookstack/contexts/internal-ops/admin-dashboard-service/ports"
)

const (
	userPageSize = 20
	recentLimit  = 10
	trendDays    = 7
)

type Service struct {
	Repo    ports.Repository
	Reviews ports.ReviewRemover
	Clock   ports.Clock
	Logger  *slog.Logger
}

// Overview assembles the dashboard: catalog totals, a seven day submission
// trend, and the ten newest users, books, and reviews.
func (s Service) Overview(ctx context.Context) (ports.Overview, error) {
	var (
		overview ports.Overview
		err      error
	)

	if overview.TotalUsers, err = s.Repo.CountUsers(ctx); err != nil {
		return ports.Overview{}, err
	}
	if overview.TotalBooks, err = s.Repo.CountBooks(ctx); err != nil {
		return ports.Overview{}, err
	}
	if overview.TotalReviews, err = s.Repo.CountReviews(ctx); err != nil {
		return ports.Overview{}, err
	}
	if overview.BannedUsers, err = s.Repo.CountBannedUsers(ctx); err != nil {
		return ports.Overview{}, err
	}

	now := s.Clock.Now().UTC()
	since := now.AddDate(0, 0, -(trendDays - 1)).Truncate(24 * time.Hour)

	bookTimes, err := s.Repo.BookCreationTimes(ctx, since)
	if err != nil {
		return ports.Overview{}, err
	}
	reviewTimes, err := s.Repo.ReviewCreationTimes(ctx, since)
	if err != nil {
		return ports.Overview{}, err
	}
	overview.BooksPerDay = bucketPerDay(bookTimes, now)
	overview.ReviewsPerDay = bucketPerDay(reviewTimes, now)

	if overview.RecentUsers, err = s.Repo.RecentUsers(ctx, recentLimit); err != nil {
		return ports.Overview{}, err
	}
	if overview.RecentBooks, err = s.Repo.RecentBooks(ctx, recentLimit); err != nil {
		return ports.Overview{}, err
	}
	if overview.RecentReviews, err = s.Repo.RecentReviews(ctx, recentLimit); err != nil {
		return ports.Overview{}, err
	}
	return overview, nil
}

// bucketPerDay folds instants into one bucket per calendar day (UTC), oldest
// first, covering the full window even when a day had no activity.
func bucketPerDay(times []time.Time, now time.Time) []ports.DayCount {
	counts := make(map[string]int, trendDays)
	for _, t := range times {
		counts[t.UTC().Format("2006-01-02")]++
	}

	buckets := make([]ports.DayCount, 0, trendDays)
	for offset := trendDays - 1; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset).Format("2006-01-02")
		buckets = append(buckets, ports.DayCount{Day: day, Count: counts[day]})
	}
	return buckets
}

func (s Service) ListUsers(ctx context.Context, search string, page int) (ports.UserPage, error) {
	if page < 1 {
		page = 1
	}
	return s.Repo.ListUsers(ctx, strings.TrimSpace(search), page, userPageSize)
}

// BanUser flags an account as banned and returns its username for display.
// Admin accounts cannot be banned.
func (s Service) BanUser(ctx context.Context, id uint) (string, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	if user.Role == authorization.RoleAdmin {
		return "", domainerrors.ErrCannotBanAdmin
	}
	if err := s.Repo.SetUserBanned(ctx, id, true); err != nil {
		return "", err
	}
	s.logger().Info("user banned",
		"event", "admin_user_banned",
		"module", "internal-ops/admin-dashboard-service",
		"user_id", id,
	)
	return user.Username, nil
}

func (s Service) UnbanUser(ctx context.Context, id uint) (string, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.Repo.SetUserBanned(ctx, id, false); err != nil {
		return "", err
	}
	s.logger().Info("user unbanned",
		"event", "admin_user_unbanned",
		"module", "internal-ops/admin-dashboard-service",
		"user_id", id,
	)
	return user.Username, nil
}

// DeleteReview removes any review regardless of author.
func (s Service) DeleteReview(ctx context.Context, id uint) error {
	if err := s.Reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.logger().Info("review removed by moderator",
		"event", "admin_review_deleted",
		"module", "internal-ops/admin-dashboard-service",
		"review_id", id,
	)
	return nil
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
