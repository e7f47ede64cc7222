package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecomarket/storefront/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.DB.WithContext(ctx).
		Preload("Permissions").
		Where("name = ?", name).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &role, nil
}

func (r *GormRepo) FindPermissionByName(ctx context.Context, name string) (*models.Permission, error) {
	var perm models.Permission
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &perm, nil
}

// AssignPermission adds an existing permission to an existing role. The role
// is left untouched when either lookup fails.
func (r *GormRepo) AssignPermission(ctx context.Context, roleName, permissionName string) error {
	role, err := r.FindRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	perm, err := r.FindPermissionByName(ctx, permissionName)
	if err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Model(role).Association("Permissions").Append(perm); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
