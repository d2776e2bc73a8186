package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "user-management-service/internal/domain/user"
	"user-management-service/internal/usecase/user"
	"user-management-service/pkg/security"
)

var _ user.Repository = (*UserRepoSQL)(nil)

// UserRepoSQL implements the Repository interface on top of GORM.
// It works with any dialect GORM supports; the service uses PostgreSQL and SQLite.
type UserRepoSQL struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoSQL creates a new instance of UserRepoSQL.
func NewUserRepoSQL(db *gorm.DB, log *zap.Logger) *UserRepoSQL {
	return &UserRepoSQL{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        string    `gorm:"primaryKey;size:64"`   // Opaque identifier assigned by the domain
	Name      string    `gorm:"not null"`             // User's full name (required)
	Email     string    `gorm:"not null;uniqueIndex"` // User's unique email address (required, unique)
	CreatedAt time.Time `gorm:"not null;index"`       // Set once by the domain, never rewritten

	// Lowercased copies for Search. SQLite's LOWER folds ASCII only, so folding
	// happens in Go on write.
	NameLower  string `gorm:"not null;default:''"`
	EmailLower string `gorm:"not null;default:''"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// AutoMigrate creates or updates the users table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserSchema{})
}

func toSchema(u *domain.User) UserSchema {
	return UserSchema{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		CreatedAt:  u.CreatedAt,
		NameLower:  strings.ToLower(u.Name),
		EmailLower: strings.ToLower(u.Email),
	}
}

func (m UserSchema) toDomain() domain.User {
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// Save inserts the user or overwrites the row with the same ID.
func (r *UserRepoSQL) Save(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := toSchema(u)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "name_lower", "email_lower"}),
		}).
		Create(&model).Error
	if err != nil {
		r.log.Error("failed to save user in db", zap.Error(err), zap.String("id", u.ID))
		return fmt.Errorf("failed to save user: %w", err)
	}

	r.log.Info("user saved in db", zap.String("id", model.ID))
	return nil
}

// FindByID retrieves a user by ID, or nil if absent.
func (r *UserRepoSQL) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := model.toDomain()
	return &u, nil
}

// FindByEmail retrieves a user by exact email, or nil if absent.
func (r *UserRepoSQL) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	u := model.toDomain()
	return &u, nil
}

// ListAll retrieves every user ordered by creation time.
func (r *UserRepoSQL) ListAll(ctx context.Context) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return toDomainSlice(models), nil
}

// Search retrieves users whose name or email contains term, ignoring case.
// LIKE wildcards in term are matched literally.
func (r *UserRepoSQL) Search(ctx context.Context, term string) ([]domain.User, error) {
	pattern := "%" + security.EscapeLike(strings.ToLower(term)) + "%"

	var models []UserSchema
	err := r.db.WithContext(ctx).
		Where(`name_lower LIKE ? ESCAPE '\' OR email_lower LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to search users in db", zap.Error(err), zap.String("term", term))
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return toDomainSlice(models), nil
}

// Delete removes a user by ID and reports whether a row was deleted.
func (r *UserRepoSQL) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserSchema{})
	if result.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(result.Error), zap.String("id", id))
		return false, fmt.Errorf("failed to delete user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		r.log.Debug("no user deleted", zap.String("id", id))
		return false, nil
	}

	r.log.Info("user deleted in db", zap.String("id", id))
	return true, nil
}

// Exists reports whether any user has the given email.
func (r *UserRepoSQL) Exists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("email = ?", email).Count(&count).Error; err != nil {
		r.log.Error("failed to check email in db", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func toDomainSlice(models []UserSchema) []domain.User {
	users := make([]domain.User, len(models))
	for i, model := range models {
		users[i] = model.toDomain()
	}
	return users
}
