package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "bookstack/contexts/catalog/book-service/domain/errors"
	"bookstack/contexts/catalog/book-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
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

// AutoMigrate creates the books table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&bookModel{})
}

func (r *Repository) CreateBook(ctx context.Context, book ports.Book) (ports.Book, error) {
	row := bookModelFromPort(book)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.Book{}, domainerrors.ErrDuplicateISBN
		}
		return ports.Book{}, err
	}
	created := row.toPort()
	created.SubmitterUsername = book.SubmitterUsername
	return created, nil
}

func (r *Repository) GetBook(ctx context.Context, id uint) (ports.Book, error) {
	var row bookRow
	err := r.db.WithContext(ctx).
		Table("books").
		Select("books.*, users.username AS submitter_username").
		Joins("LEFT JOIN users ON users.id = books.submitted_by").
		Where("books.id = ?", id).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Book{}, domainerrors.ErrBookNotFound
		}
		return ports.Book{}, err
	}
	return row.toPortWithSubmitter(), nil
}

func (r *Repository) UpdateBook(ctx context.Context, book ports.Book) error {
	updates := map[string]any{
		"title":          strings.TrimSpace(book.Title),
		"author":         strings.TrimSpace(book.Author),
		"isbn":           isbnOrNil(book.ISBN),
		"description":    strings.TrimSpace(book.Description),
		"published_date": book.PublishedDate,
	}
	result := r.db.WithContext(ctx).
		Model(&bookModel{}).
		Where("id = ?", book.ID).
		Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrDuplicateISBN
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrBookNotFound
	}
	return nil
}

func (r *Repository) DeleteBookCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM reviews WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&bookModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrBookNotFound
		}
		return nil
	})
}

func (r *Repository) ListBooks(ctx context.Context, filter ports.Filter, pageSize int) (ports.Page, error) {
	base := r.db.WithContext(ctx).Model(&bookModel{})
	if filter.Search != "" {
		base = base.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Author != "" {
		base = base.Where("LOWER(author) LIKE ?", "%"+strings.ToLower(filter.Author)+"%")
	}
	if filter.SubmittedBy != 0 {
		base = base.Where("submitted_by = ?", filter.SubmittedBy)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ports.Page{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	var rows []bookRow
	err := base.
		Select("books.*, users.username AS submitter_username").
		Joins("LEFT JOIN users ON users.id = books.submitted_by").
		Order("books.created_at DESC, books.id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).
		Error
	if err != nil {
		return ports.Page{}, err
	}

	items := make([]ports.Book, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPortWithSubmitter())
	}
	return ports.Page{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (r *Repository) CountBySubmitter(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&bookModel{}).
		Where("submitted_by = ?", userID).
		Count(&count).
		Error
	return count, err
}

func (r *Repository) RecentBySubmitter(ctx context.Context, userID uint, limit int) ([]ports.Book, error) {
	var rows []bookModel
	err := r.db.WithContext(ctx).
		Where("submitted_by = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.Book, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

type bookModel struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement"`
	Title         string     `gorm:"column:title;size:200"`
	Author        string     `gorm:"column:author;size:120"`
	ISBN          *string    `gorm:"column:isbn;uniqueIndex;size:20"`
	Description   string     `gorm:"column:description"`
	PublishedDate *time.Time `gorm:"column:published_date"`
	SubmittedBy   uint       `gorm:"column:submitted_by;index"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
}

func (bookModel) TableName() string { return "books" }

type bookRow struct {
	bookModel
	SubmitterUsername string `gorm:"column:submitter_username"`
}

func bookModelFromPort(book ports.Book) bookModel {
	return bookModel{
		ID:            book.ID,
		Title:         strings.TrimSpace(book.Title),
		Author:        strings.TrimSpace(book.Author),
		ISBN:          isbnOrNil(book.ISBN),
		Description:   strings.TrimSpace(book.Description),
		PublishedDate: book.PublishedDate,
		SubmittedBy:   book.SubmittedBy,
		CreatedAt:     book.CreatedAt.UTC(),
	}
}

func (m bookModel) toPort() ports.Book {
	book := ports.Book{
		ID:            m.ID,
		Title:         m.Title,
		Author:        m.Author,
		Description:   m.Description,
		PublishedDate: m.PublishedDate,
		SubmittedBy:   m.SubmittedBy,
		CreatedAt:     m.CreatedAt.UTC(),
	}
	if m.ISBN != nil {
		book.ISBN = *m.ISBN
	}
	return book
}

func (r bookRow) toPortWithSubmitter() ports.Book {
	book := r.toPort()
	book.SubmitterUsername = r.SubmitterUsername
	return book
}

func isbnOrNil(isbn string) *string {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil
	}
	return &isbn
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
