package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/marketplace/internal/domain"
	"github.com/Skotchmaster/marketplace/internal/events"
	"github.com/Skotchmaster/marketplace/internal/hash"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/query"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

var (
	ErrEmailTaken         = fmt.Errorf("%w: email already exists", domain.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
)

type AuthService struct {
	Users  Repository[models.User]
	Tokens *tokens.Issuer
	Deps
}

type LoginResult struct {
	Token string
	User  *models.User
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, req transport.SignupRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")
	email := normalizeEmail(req.Email)

	_, err := s.Users.FindOne(ctx, query.Eq("email", email))
	if err == nil {
		l.Warn("signup_failed", "status", 400, "reason", "email already exists")
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrNotFound) {
		l.Error("signup_failed", "status", 500, "reason", "cannot look up email", "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: pwHash,
		UserType:     req.UserType,
	}
	if err := s.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrEmailTaken
		}
		l.Error("signup_failed", "status", 500, "reason", "cannot insert user", "error", err)
		return nil, err
	}

	s.publish(ctx, events.TopicUsers, user.ID.String(), events.NewUserRegistered(user))
	l.Info("signup_success", "user_id", user.ID.String())
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.FindOne(ctx, query.Eq("email", normalizeEmail(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID.String(), user.UserType)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID.String())
	return &LoginResult{Token: token, User: user}, nil
}
