package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bookstack/contexts/identity-access/authorization"
	domainerrors "bookstack/contexts/internal-ops/admin-dashboard-service/domain/errors"
	"bookstack/contexts/internal-ops/admin-dashboard-service/ports"

	"gorm.io/gorm"
)

// Repository reads across the users, books, and reviews tables. It owns no
// table of its own; migration stays with the services that write them.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, "users")
}

func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	return r.count(ctx, "books")
}

func (r *Repository) CountReviews(ctx context.Context) (int64, error) {
	return r.count(ctx, "reviews")
}

func (r *Repository) count(ctx context.Context, table string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(table).Count(&count).Error
	return count, err
}

func (r *Repository) CountBannedUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("banned = ?", true).
		Count(&count).
		Error
	return count, err
}

func (r *Repository) BookCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	return r.creationTimes(ctx, "books", since)
}

func (r *Repository) ReviewCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	return r.creationTimes(ctx, "reviews", since)
}

func (r *Repository) creationTimes(ctx context.Context, table string, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Table(table).
		Where("created_at >= ?", since.UTC()).
		Order("created_at ASC").
		Pluck("created_at", &times).
		Error
	return times, err
}

func (r *Repository) RecentUsers(ctx context.Context, limit int) ([]ports.UserRow, error) {
	var rows []userRow
	err := r.db.WithContext(ctx).
		Table("users").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toUserPorts(rows), nil
}

func (r *Repository) RecentBooks(ctx context.Context, limit int) ([]ports.BookRow, error) {
	var rows []bookRow
	err := r.db.WithContext(ctx).
		Table("books").
		Select("books.id, books.title, books.author, books.created_at, users.username AS submitter_username").
		Joins("LEFT JOIN users ON users.id = books.submitted_by").
		Order("books.created_at DESC, books.id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.BookRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.BookRow(row))
	}
	return items, nil
}

func (r *Repository) RecentReviews(ctx context.Context, limit int) ([]ports.ReviewRow, error) {
	var rows []reviewRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.id, reviews.book_id, reviews.rating, reviews.comment, reviews.created_at, books.title AS book_title, users.username AS author_username").
		Joins("LEFT JOIN books ON books.id = reviews.book_id").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.ReviewRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.ReviewRow(row))
	}
	return items, nil
}

func (r *Repository) ListUsers(ctx context.Context, search string, page, pageSize int) (ports.UserPage, error) {
	query := r.db.WithContext(ctx).Table("users")
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return ports.UserPage{}, err
	}

	if page < 1 {
		page = 1
	}

	var rows []userRow
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).
		Error
	if err != nil {
		return ports.UserPage{}, err
	}

	return ports.UserPage{
		Items:      toUserPorts(rows),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (r *Repository) GetUser(ctx context.Context, id uint) (ports.UserRow, error) {
	var row userRow
	err := r.db.WithContext(ctx).Table("users").Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserRow{}, domainerrors.ErrUserNotFound
		}
		return ports.UserRow{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) SetUserBanned(ctx context.Context, id uint, banned bool) error {
	result := r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", id).
		Update("banned", banned)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

type userRow struct {
	ID        uint      `gorm:"column:id"`
	Username  string    `gorm:"column:username"`
	Email     string    `gorm:"column:email"`
	Role      string    `gorm:"column:role"`
	Banned    bool      `gorm:"column:banned"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (r userRow) toPort() ports.UserRow {
	role := authorization.Role(r.Role)
	if role != authorization.RoleAdmin {
		role = authorization.RoleNormal
	}
	return ports.UserRow{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Role:      role,
		Banned:    r.Banned,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func toUserPorts(rows []userRow) []ports.UserRow {
	items := make([]ports.UserRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items
}

type bookRow struct {
	ID                uint      `gorm:"column:id"`
	Title             string    `gorm:"column:title"`
	Author            string    `gorm:"column:author"`
	SubmitterUsername string    `gorm:"column:submitter_username"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

type reviewRow struct {
	ID             uint      `gorm:"column:id"`
	BookID         uint      `gorm:"column:book_id"`
	BookTitle      string    `gorm:"column:book_title"`
	AuthorUsername string    `gorm:"column:author_username"`
	Rating         int       `gorm:"column:rating"`
	Comment        string    `gorm:"column:comment"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}
