package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "bookstack/contexts/catalog/book-service/domain/errors"
	"bookstack/contexts/catalog/book-service/ports"

	"github.com/go-playground/validator/v10"
)

// pageSize is the fixed catalog page size, matching the public listing.
const pageSize = 10

var validate = validator.New()

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

type BookInput struct {
	Title         string `validate:"required,max=200"`
	Author        string `validate:"required,max=120"`
	ISBN          string `validate:"max=20"`
	Description   string `validate:"max=4000"`
	PublishedDate string
}

func (input BookInput) publishedDate() (*time.Time, error) {
	raw := strings.TrimSpace(input.PublishedDate)
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domainerrors.ErrInvalidPublishedDate
	}
	return &date, nil
}

func (s Service) AddBook(ctx context.Context, submitter uint, submitterUsername string, input BookInput) (ports.Book, error) {
	if err := validate.Struct(input); err != nil {
		return ports.Book{}, domainerrors.ErrInvalidBookInput
	}
	publishedDate, err := input.publishedDate()
	if err != nil {
		return ports.Book{}, err
	}

	book, err := s.Repo.CreateBook(ctx, ports.Book{
		Title:             strings.TrimSpace(input.Title),
		Author:            strings.TrimSpace(input.Author),
		ISBN:              strings.TrimSpace(input.ISBN),
		Description:       strings.TrimSpace(input.Description),
		PublishedDate:     publishedDate,
		CreatedAt:         s.Clock.Now().UTC(),
		SubmittedBy:       submitter,
		SubmitterUsername: submitterUsername,
	})
	if err != nil {
		return ports.Book{}, err
	}

	s.logger().Info("book added",
		"event", "catalog_book_added",
		"module", "catalog/book-service",
		"book_id", book.ID,
		"submitted_by", submitter,
	)
	return book, nil
}

func (s Service) GetBook(ctx context.Context, id uint) (ports.Book, error) {
	return s.Repo.GetBook(ctx, id)
}

func (s Service) UpdateBook(ctx context.Context, id uint, input BookInput) error {
	if err := validate.Struct(input); err != nil {
		return domainerrors.ErrInvalidBookInput
	}
	publishedDate, err := input.publishedDate()
	if err != nil {
		return err
	}

	book, err := s.Repo.GetBook(ctx, id)
	if err != nil {
		return err
	}
	book.Title = strings.TrimSpace(input.Title)
	book.Author = strings.TrimSpace(input.Author)
	book.ISBN = strings.TrimSpace(input.ISBN)
	book.Description = strings.TrimSpace(input.Description)
	book.PublishedDate = publishedDate
	return s.Repo.UpdateBook(ctx, book)
}

// DeleteBook removes the book together with its reviews. The cascade is an
// explicit decision: review reads are always book-scoped, so orphans would be
// unreachable rows.
func (s Service) DeleteBook(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteBookCascade(ctx, id); err != nil {
		return err
	}
	s.logger().Info("book deleted",
		"event", "catalog_book_deleted",
		"module", "catalog/book-service",
		"book_id", id,
	)
	return nil
}

func (s Service) ListBooks(ctx context.Context, filter ports.Filter) (ports.Page, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Author = strings.TrimSpace(filter.Author)
	return s.Repo.ListBooks(ctx, filter, pageSize)
}

func (s Service) CountBySubmitter(ctx context.Context, userID uint) (int64, error) {
	return s.Repo.CountBySubmitter(ctx, userID)
}

func (s Service) RecentBySubmitter(ctx context.Context, userID uint, limit int) ([]ports.Book, error) {
	return s.Repo.RecentBySubmitter(ctx, userID, limit)
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
