package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	bookservice "bookstack/contexts/catalog/book-service"
	bookmemory "bookstack/contexts/catalog/book-service/adapters/memory"
	bookports "bookstack/contexts/catalog/book-service/ports"
	reviewservice "bookstack/contexts/catalog/review-service"
	reviewmemory "bookstack/contexts/catalog/review-service/adapters/memory"
	reviewports "bookstack/contexts/catalog/review-service/ports"
	notificationservice "bookstack/contexts/community-experience/notification-service"
	accountservice "bookstack/contexts/identity-access/account-service"
	bcryptadapter "bookstack/contexts/identity-access/account-service/adapters/bcrypt"
	accountmemory "bookstack/contexts/identity-access/account-service/adapters/memory"
	accounterrors "bookstack/contexts/identity-access/account-service/domain/errors"
	accountports "bookstack/contexts/identity-access/account-service/ports"
	admindashboardservice "bookstack/contexts/internal-ops/admin-dashboard-service"
	adminerrors "bookstack/contexts/internal-ops/admin-dashboard-service/domain/errors"
	adminports "bookstack/contexts/internal-ops/admin-dashboard-service/ports"
	"bookstack/internal/platform/config"
	"bookstack/internal/platform/httpserver"

	"golang.org/x/crypto/bcrypt"
)

// InMemoryModules wires the whole application onto in-memory adapters. Used
// by the HTTP tests; no database, redis, or mail delivery involved.
func InMemoryModules(cfg config.Config, logger *slog.Logger) (httpserver.Modules, error) {
	books := bookservice.NewInMemoryModule(logger)
	reviews := reviewservice.NewInMemoryModule(logger)
	books.Store.ReviewPurge = reviews.Store.PurgeByBook

	accounts := accountservice.NewInMemoryModule(catalogActivity{books: books, reviews: reviews}, logger)
	notifications := notificationservice.NewInMemoryModule(logger)

	admin := admindashboardservice.NewModule(admindashboardservice.Dependencies{
		Repo: &adminMemoryRepository{
			accounts: accounts.Store,
			books:    books.Store,
			reviews:  reviews.Store,
		},
		Reviews: reviews.Service,
		Clock:   systemClock{},
		Logger:  logger,
	})

	hasher := bcryptadapter.Hasher{Cost: bcrypt.MinCost}
	if err := ensureAdminUser(context.Background(), accounts.Store, hasher, systemClock{}, cfg, logger); err != nil {
		return httpserver.Modules{}, err
	}

	return httpserver.Modules{
		Accounts:      accounts,
		Books:         books,
		Reviews:       reviews,
		Notifications: notifications,
		Admin:         admin,
	}, nil
}

// adminMemoryRepository implements the moderation panel's read model over the
// in-memory stores of the other services.
type adminMemoryRepository struct {
	accounts *accountmemory.Store
	books    *bookmemory.Store
	reviews  *reviewmemory.Store
}

func (r *adminMemoryRepository) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(r.accounts.ListUsers(ctx))), nil
}

func (r *adminMemoryRepository) CountBooks(ctx context.Context) (int64, error) {
	page, err := r.books.ListBooks(ctx, bookports.Filter{Page: 1}, 1)
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

func (r *adminMemoryRepository) CountReviews(ctx context.Context) (int64, error) {
	page, err := r.reviews.ListRecent(ctx, 1, 1)
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

func (r *adminMemoryRepository) CountBannedUsers(ctx context.Context) (int64, error) {
	var count int64
	for _, user := range r.accounts.ListUsers(ctx) {
		if user.Banned {
			count++
		}
	}
	return count, nil
}

func (r *adminMemoryRepository) allBooks(ctx context.Context) ([]bookports.Book, error) {
	total, err := r.CountBooks(ctx)
	if err != nil || total == 0 {
		return nil, err
	}
	page, err := r.books.ListBooks(ctx, bookports.Filter{Page: 1}, int(total))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *adminMemoryRepository) allReviews(ctx context.Context) ([]reviewports.Review, error) {
	total, err := r.CountReviews(ctx)
	if err != nil || total == 0 {
		return nil, err
	}
	page, err := r.reviews.ListRecent(ctx, 1, int(total))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *adminMemoryRepository) BookCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	books, err := r.allBooks(ctx)
	if err != nil {
		return nil, err
	}
	var times []time.Time
	for _, book := range books {
		if !book.CreatedAt.Before(since) {
			times = append(times, book.CreatedAt)
		}
	}
	return times, nil
}

func (r *adminMemoryRepository) ReviewCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	reviews, err := r.allReviews(ctx)
	if err != nil {
		return nil, err
	}
	var times []time.Time
	for _, review := range reviews {
		if !review.CreatedAt.Before(since) {
			times = append(times, review.CreatedAt)
		}
	}
	return times, nil
}

func (r *adminMemoryRepository) sortedUsers(ctx context.Context) []accountports.User {
	users := r.accounts.ListUsers(ctx)
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users
}

func (r *adminMemoryRepository) RecentUsers(ctx context.Context, limit int) ([]adminports.UserRow, error) {
	users := r.sortedUsers(ctx)
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return toUserRows(users), nil
}

func (r *adminMemoryRepository) RecentBooks(ctx context.Context, limit int) ([]adminports.BookRow, error) {
	page, err := r.books.ListBooks(ctx, bookports.Filter{Page: 1}, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]adminports.BookRow, 0, len(page.Items))
	for _, book := range page.Items {
		rows = append(rows, adminports.BookRow{
			ID:                book.ID,
			Title:             book.Title,
			Author:            book.Author,
			SubmitterUsername: book.SubmitterUsername,
			CreatedAt:         book.CreatedAt,
		})
	}
	return rows, nil
}

func (r *adminMemoryRepository) RecentReviews(ctx context.Context, limit int) ([]adminports.ReviewRow, error) {
	page, err := r.reviews.ListRecent(ctx, 1, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]adminports.ReviewRow, 0, len(page.Items))
	for _, review := range page.Items {
		rows = append(rows, adminports.ReviewRow{
			ID:             review.ID,
			BookID:         review.BookID,
			BookTitle:      review.BookTitle,
			AuthorUsername: review.AuthorUsername,
			Rating:         review.Rating,
			Comment:        review.Comment,
			CreatedAt:      review.CreatedAt,
		})
	}
	return rows, nil
}

func (r *adminMemoryRepository) ListUsers(ctx context.Context, search string, page, pageSize int) (adminports.UserPage, error) {
	matched := make([]accountports.User, 0)
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, user := range r.sortedUsers(ctx) {
		if needle != "" &&
			!strings.Contains(strings.ToLower(user.Username), needle) &&
			!strings.Contains(strings.ToLower(user.Email), needle) {
			continue
		}
		matched = append(matched, user)
	}

	if page < 1 {
		page = 1
	}
	total := int64(len(matched))
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return adminports.UserPage{
		Items:      toUserRows(matched[start:end]),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (r *adminMemoryRepository) GetUser(ctx context.Context, id uint) (adminports.UserRow, error) {
	user, err := r.accounts.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, accounterrors.ErrUserNotFound) {
			return adminports.UserRow{}, adminerrors.ErrUserNotFound
		}
		return adminports.UserRow{}, err
	}
	return toUserRow(user), nil
}

func (r *adminMemoryRepository) SetUserBanned(ctx context.Context, id uint, banned bool) error {
	err := r.accounts.SetBanned(ctx, id, banned)
	if errors.Is(err, accounterrors.ErrUserNotFound) {
		return adminerrors.ErrUserNotFound
	}
	return err
}

func toUserRow(user accountports.User) adminports.UserRow {
	return adminports.UserRow{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Banned:    user.Banned,
		CreatedAt: user.CreatedAt,
	}
}

func toUserRows(users []accountports.User) []adminports.UserRow {
	rows := make([]adminports.UserRow, 0, len(users))
	for _, user := range users {
		rows = append(rows, toUserRow(user))
	}
	return rows
}
