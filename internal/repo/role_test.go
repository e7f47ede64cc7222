package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecomarket/storefront/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Permission{}, &models.Role{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func TestAssignPermission(t *testing.T) {
	db := initTestDB(t)
	r := New(db)
	ctx := context.Background()

	role := models.Role{Name: "STAFF"}
	require.NoError(t, db.Create(&role).Error)
	perm := models.Permission{Name: "READ_PRODUCTS"}
	require.NoError(t, db.Create(&perm).Error)

	require.NoError(t, r.AssignPermission(ctx, "STAFF", "READ_PRODUCTS"))

	got, err := r.FindRoleByName(ctx, "STAFF")
	require.NoError(t, err)
	require.Len(t, got.Permissions, 1)
	require.Equal(t, "READ_PRODUCTS", got.Permissions[0].Name)
}

func TestAssignPermissionUnknownPermission(t *testing.T) {
	db := initTestDB(t)
	r := New(db)
	ctx := context.Background()

	role := models.Role{Name: "STAFF"}
	require.NoError(t, db.Create(&role).Error)

	err := r.AssignPermission(ctx, "STAFF", "DOES_NOT_EXIST")
	require.ErrorIs(t, err, ErrPermissionNotFound)

	// The role must stay untouched on failure.
	got, err := r.FindRoleByName(ctx, "STAFF")
	require.NoError(t, err)
	require.Empty(t, got.Permissions)
}

func TestAssignPermissionUnknownRole(t *testing.T) {
	db := initTestDB(t)
	r := New(db)

	perm := models.Permission{Name: "READ_PRODUCTS"}
	require.NoError(t, db.Create(&perm).Error)

	err := r.AssignPermission(context.Background(), "GHOST", "READ_PRODUCTS")
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestFindByEmailLoadsAuthorities(t *testing.T) {
	db := initTestDB(t)
	r := New(db)
	ctx := context.Background()

	role := models.Role{
		Name:        "STAFF",
		Permissions: []models.Permission{{Name: "READ_PRODUCTS"}, {Name: "VIEW_ORDERS"}},
	}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "x", RoleID: &role.ID}
	require.NoError(t, db.Create(&user).Error)

	got, err := r.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, "STAFF", got.RoleName())
	require.ElementsMatch(t, []string{"READ_PRODUCTS", "VIEW_ORDERS"}, got.Authorities())

	_, err = r.FindByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := initTestDB(t)
	r := New(db)
	ctx := context.Background()

	first := &models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, first))

	second := &models.User{Username: "imposter", Email: "alice@x.com", PasswordHash: "y"}
	require.ErrorIs(t, r.CreateUser(ctx, second), ErrEmailExists)
}
