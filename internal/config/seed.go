package config

import (
	"fmt"

	"github.com/ecomarket/storefront/internal/models"
	"gorm.io/gorm"
)

var defaultRoles = map[string][]string{
	"USER": {
		"VIEW_ORDERS",
		"READ_PRODUCTS",
		"CREATE_ORDERS",
		"READ_OWN_ORDERS",
	},
	"ADMIN": {
		"VIEW_ORDERS",
		"READ_USERS",
		"MANAGE_ORDERS",
		"READ_PRODUCTS",
		"CREATE_PRODUCTS",
		"UPDATE_PRODUCTS",
		"DELETE_PRODUCTS",
		"READ_PRODUCT_STOCK",
		"CREATE_ORDERS",
		"READ_OWN_ORDERS",
		"READ_ALL_ORDERS",
		"UPDATE_ORDER_STATUS",
		"READ_USER_ORDERS",
	},
}

// Seed provisions the built-in roles and permissions. Safe to run on every
// start: existing rows are reused, never duplicated.
func Seed(db *gorm.DB) error {
	perms := map[string]models.Permission{}
	for _, names := range defaultRoles {
		for _, name := range names {
			if _, ok := perms[name]; ok {
				continue
			}
			p := models.Permission{Name: name}
			if err := db.Where("name = ?", name).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", name, err)
			}
			perms[name] = p
		}
	}

	for roleName, permNames := range defaultRoles {
		role := models.Role{Name: roleName}
		if err := db.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", roleName, err)
		}
		var rolePerms []models.Permission
		for _, name := range permNames {
			rolePerms = append(rolePerms, perms[name])
		}
		if err := db.Model(&role).Association("Permissions").Replace(rolePerms); err != nil {
			return fmt.Errorf("seed role %s permissions: %w", roleName, err)
		}
	}

	return nil
}
