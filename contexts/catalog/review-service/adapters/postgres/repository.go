package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "bookstack/contexts/catalog/review-service/domain/errors"
	"bookstack/contexts/catalog/review-service/ports"

	"gorm.io/gorm"
)

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

// AutoMigrate creates the reviews table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&reviewModel{})
}

const joinedSelect = "reviews.*, users.username AS author_username, books.title AS book_title"

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reviews").
		Select(joinedSelect).
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Joins("LEFT JOIN books ON books.id = reviews.book_id")
}

func (r *Repository) CreateReview(ctx context.Context, review ports.Review) (ports.Review, error) {
	row := reviewModel{
		BookID:    review.BookID,
		UserID:    review.AuthorID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.Review{}, err
	}

	created := row.toPort()
	created.BookTitle = review.BookTitle
	created.AuthorUsername = review.AuthorUsername
	return created, nil
}

func (r *Repository) GetReview(ctx context.Context, id uint) (ports.Review, error) {
	var row reviewRow
	err := r.joined(ctx).Where("reviews.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Review{}, domainerrors.ErrReviewNotFound
		}
		return ports.Review{}, err
	}
	return row.toPortJoined(), nil
}

func (r *Repository) DeleteReview(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&reviewModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrReviewNotFound
	}
	return nil
}

func (r *Repository) ListByBook(ctx context.Context, bookID uint) ([]ports.Review, error) {
	var rows []reviewRow
	err := r.joined(ctx).
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at ASC, reviews.id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toPorts(rows), nil
}

func (r *Repository) ListRecent(ctx context.Context, page, pageSize int) (ports.Page, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&reviewModel{}).Count(&total).Error; err != nil {
		return ports.Page{}, err
	}

	if page < 1 {
		page = 1
	}

	var rows []reviewRow
	err := r.joined(ctx).
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).
		Error
	if err != nil {
		return ports.Page{}, err
	}

	return ports.Page{
		Items:      toPorts(rows),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (r *Repository) CountByAuthor(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error
	return count, err
}

func (r *Repository) RecentByAuthor(ctx context.Context, userID uint, limit int) ([]ports.Review, error) {
	var rows []reviewRow
	err := r.joined(ctx).
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toPorts(rows), nil
}

type reviewModel struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	BookID    uint      `gorm:"column:book_id;index"`
	UserID    uint      `gorm:"column:user_id;index"`
	Rating    int       `gorm:"column:rating"`
	Comment   string    `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

type reviewRow struct {
	reviewModel
	AuthorUsername string `gorm:"column:author_username"`
	BookTitle      string `gorm:"column:book_title"`
}

func (m reviewModel) toPort() ports.Review {
	return ports.Review{
		ID:        m.ID,
		BookID:    m.BookID,
		AuthorID:  m.UserID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func (r reviewRow) toPortJoined() ports.Review {
	review := r.toPort()
	review.AuthorUsername = r.AuthorUsername
	review.BookTitle = r.BookTitle
	return review
}

func toPorts(rows []reviewRow) []ports.Review {
	items := make([]ports.Review, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPortJoined())
	}
	return items
}
