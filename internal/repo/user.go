package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecomarket/storefront/internal/models"
	"gorm.io/gorm"
)

// FindByEmail loads a user with its role and the role's permissions. The
// lookup key is case-sensitive.
func (r *GormRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("Role.Permissions").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}

// CreateUser persists a new user. Returns ErrEmailExists when the email is
// already taken.
func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	var existing models.User
	err := r.DB.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db error: %w", err)
	}
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Preload("Role.Permissions").Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

// AssignRole points the user at the named role.
func (r *GormRepo) AssignRole(ctx context.Context, email, roleName string) error {
	role, err := r.FindRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("role_id", role.ID)
	if result.Error != nil {
		return fmt.Errorf("db error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
