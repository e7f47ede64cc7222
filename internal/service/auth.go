package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecomarket/storefront/internal/hash"
	"github.com/ecomarket/storefront/internal/logging"
	"github.com/ecomarket/storefront/internal/models"
	"github.com/ecomarket/storefront/internal/mykafka"
	"github.com/ecomarket/storefront/internal/repo"
	"github.com/ecomarket/storefront/internal/token"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so login failures leak no account information.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type AuthService struct {
	Repo     *repo.GormRepo
	Codec    *token.Codec
	Producer *mykafka.Producer
}

type LoginResult struct {
	Token        string
	RefreshToken string
	ExpiresIn    int64
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.register", "email", email)

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailExists) {
			l.Warn("register failed", "reason", "email already exists")
			return ErrEmailExists
		}
		l.Error("register failed", "error", err)
		return err
	}

	s.publishUserEvent(ctx, "user_registered", user)
	l.Info("user registered")
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login failed", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.Codec.MintAccessToken(user)
	if err != nil {
		l.Error("login failed", "error", err)
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	refreshToken, err := s.Codec.MintRefreshToken(user)
	if err != nil {
		l.Error("login failed", "error", err)
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}

	s.publishUserEvent(ctx, "user_logged_in", user)
	l.Info("login successful")

	return &LoginResult{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    token.AccessTokenTTL.Milliseconds(),
	}, nil
}

// Refresh converts a valid refresh token into a fresh access token. The
// refresh token itself is not rotated. Every failure maps to
// ErrInvalidRefreshToken so token validity and account existence stay
// indistinguishable from the outside.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if !s.Codec.VerifyRefreshToken(refreshToken) {
		l.Warn("refresh failed", "reason", "verification failed")
		return "", ErrInvalidRefreshToken
	}

	email := s.Codec.ExtractRefreshSubject(refreshToken)
	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("refresh failed", "reason", "subject no longer resolves")
			return "", ErrInvalidRefreshToken
		}
		l.Error("refresh failed", "error", err)
		return "", err
	}

	accessToken, err := s.Codec.MintAccessToken(user)
	if err != nil {
		l.Error("refresh failed", "error", err)
		return "", fmt.Errorf("mint access token: %w", err)
	}

	l.Info("refresh successful", "email", email)
	return accessToken, nil
}

func (s *AuthService) publishUserEvent(ctx context.Context, eventType string, user *models.User) {
	event := map[string]interface{}{
		"type":     eventType,
		"userId":   user.ID,
		"username": user.Username,
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Producer.PublishEvent(pubCtx, "user_events", fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
