package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "bookstack/contexts/identity-access/account-service/domain/errors"
	"bookstack/contexts/identity-access/account-service/ports"
	"bookstack/contexts/identity-access/authorization"

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

// AutoMigrate creates the users table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{})
}

func (r *Repository) CreateUser(ctx context.Context, user ports.User) (ports.User, error) {
	row := userModelFromPort(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if column := uniqueViolationColumn(err); column != "" {
			if strings.Contains(column, "email") {
				return ports.User{}, domainerrors.ErrEmailTaken
			}
			return ports.User{}, domainerrors.ErrUsernameTaken
		}
		return ports.User{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (ports.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, domainerrors.ErrUserNotFound
		}
		return ports.User{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (ports.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, domainerrors.ErrUserNotFound
		}
		return ports.User{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (ports.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(email)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, domainerrors.ErrUserNotFound
		}
		return ports.User{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

type userModel struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string    `gorm:"column:username;uniqueIndex;size:64"`
	Email        string    `gorm:"column:email;uniqueIndex;size:254"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;size:20;default:normal"`
	Banned       bool      `gorm:"column:banned;default:false"`
	FullName     string    `gorm:"column:full_name;size:128"`
	Bio          string    `gorm:"column:bio"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

func userModelFromPort(user ports.User) userModel {
	return userModel{
		ID:           user.ID,
		Username:     strings.TrimSpace(user.Username),
		Email:        strings.TrimSpace(user.Email),
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Banned:       user.Banned,
		FullName:     user.FullName,
		Bio:          user.Bio,
		CreatedAt:    user.CreatedAt.UTC(),
	}
}

func (m userModel) toPort() ports.User {
	role := authorization.Role(m.Role)
	if role != authorization.RoleAdmin {
		role = authorization.RoleNormal
	}
	return ports.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         role,
		Banned:       m.Banned,
		FullName:     m.FullName,
		Bio:          m.Bio,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

// uniqueViolationColumn reports the constraint behind a unique violation, or
// "" when err is something else. Covers postgres (23505) and the sqlite
// driver used in dev and tests.
func uniqueViolationColumn(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return err.Error()
	}
	return ""
}
