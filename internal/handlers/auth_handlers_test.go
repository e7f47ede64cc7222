package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecomarket/storefront/internal/models"
	"github.com/ecomarket/storefront/internal/mykafka"
	"github.com/ecomarket/storefront/internal/repo"
	"github.com/ecomarket/storefront/internal/service"
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

func newAuthHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	db := initTestDB(t)
	codec, err := token.NewCodec()
	require.NoError(t, err)

	h := &AuthHandler{
		Svc: &service.AuthService{
			Repo:     repo.New(db),
			Codec:    codec,
			Producer: &mykafka.Producer{},
		},
	}
	return h, db
}

func doJSONRequest(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	e := echo.New()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, c
}

func registerAlice(t *testing.T, h *AuthHandler) {
	payload := map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "pw123",
	}
	rec, c := doJSONRequest(t, http.MethodPost, "/auth/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestRegisterHandler(t *testing.T) {
	h, db := newAuthHandler(t)
	registerAlice(t, h)

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@x.com").First(&user).Error)
	require.Equal(t, "alice", user.Username)
	require.Nil(t, user.RoleID)
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	h, _ := newAuthHandler(t)
	registerAlice(t, h)

	payload := map[string]string{
		"username": "imposter",
		"email":    "alice@x.com",
		"password": "pw456",
	}
	rec, c := doJSONRequest(t, http.MethodPost, "/auth/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Email already exists", resp["error"])
}

func TestLoginHandler(t *testing.T) {
	h, _ := newAuthHandler(t)
	registerAlice(t, h)

	payload := map[string]string{"email": "alice@x.com", "password": "pw123"}
	rec, c := doJSONRequest(t, http.MethodPost, "/auth/login", payload)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int64  `json:"expiresIn"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, int64(86400000), resp.ExpiresIn)
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	h, _ := newAuthHandler(t)
	registerAlice(t, h)

	for _, payload := range []map[string]string{
		{"email": "alice@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "pw123"},
	} {
		rec, c := doJSONRequest(t, http.MethodPost, "/auth/login", payload)
		require.NoError(t, h.Login(c))
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Invalid credentials", resp["error"])
	}
}

func TestRefreshHandler(t *testing.T) {
	h, _ := newAuthHandler(t)
	registerAlice(t, h)

	payload := map[string]string{"email": "alice@x.com", "password": "pw123"}
	recLogin, cLogin := doJSONRequest(t, http.MethodPost, "/auth/login", payload)
	require.NoError(t, h.Login(cLogin))

	var loginResp struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(recLogin.Body.Bytes(), &loginResp))

	rec, c := doJSONRequest(t, http.MethodPost, "/auth/refresh", map[string]string{
		"refreshToken": loginResp.RefreshToken,
	})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	require.True(t, h.Svc.Codec.VerifyAccessToken(resp["token"]))
}

func TestRefreshHandlerInvalidToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec, c := doJSONRequest(t, http.MethodPost, "/auth/refresh", map[string]string{
		"refreshToken": "garbage",
	})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Invalid refresh token", resp["error"])
}
