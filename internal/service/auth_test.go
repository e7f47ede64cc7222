package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecomarket/storefront/internal/hash"
	"github.com/ecomarket/storefront/internal/models"
	"github.com/ecomarket/storefront/internal/mykafka"
	"github.com/ecomarket/storefront/internal/repo"
	"github.com/ecomarket/storefront/internal/token"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.Product{},
		&models.Order{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	db := initTestDB(t)
	codec, err := token.NewCodec()
	require.NoError(t, err)

	svc := &AuthService{
		Repo:     repo.New(db),
		Codec:    codec,
		Producer: &mykafka.Producer{},
	}
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{Username: "alice", Email: email, PasswordHash: pwHash}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRegister(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "alice@x.com", "pw123"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@x.com").First(&user).Error)
	require.Equal(t, "alice", user.Username)
	require.Nil(t, user.RoleID)
	require.NotEqual(t, "pw123", user.PasswordHash)
	require.True(t, hash.CheckPassword(user.PasswordHash, "pw123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "alice@x.com", "pw123"))

	err := svc.Register(ctx, "other", "alice@x.com", "pw456")
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	seedUser(t, db, "alice@x.com", "pw123")

	res, err := svc.Login(ctx, "alice@x.com", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.NotEmpty(t, res.RefreshToken)
	require.Equal(t, int64(86400000), res.ExpiresIn)

	require.True(t, svc.Codec.VerifyAccessToken(res.Token))
	require.Equal(t, "alice@x.com", svc.Codec.ExtractSubject(res.Token))
	require.True(t, svc.Codec.VerifyRefreshToken(res.RefreshToken))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	seedUser(t, db, "alice@x.com", "pw123")

	_, wrongPassword := svc.Login(ctx, "alice@x.com", "nope")
	_, unknownEmail := svc.Login(ctx, "nobody@x.com", "pw123")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestRefresh(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	seedUser(t, db, "alice@x.com", "pw123")

	res, err := svc.Login(ctx, "alice@x.com", "pw123")
	require.NoError(t, err)

	newToken, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	require.True(t, svc.Codec.VerifyAccessToken(newToken))
	require.Equal(t, "alice@x.com", svc.Codec.ExtractSubject(newToken))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	seedUser(t, db, "alice@x.com", "pw123")

	res, err := svc.Login(ctx, "alice@x.com", "pw123")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.Token)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Refresh(context.Background(), "not.a.token")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshOrphanedSubject(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice@x.com", "pw123")

	res, err := svc.Login(ctx, "alice@x.com", "pw123")
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	_, err = svc.Refresh(ctx, res.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}
