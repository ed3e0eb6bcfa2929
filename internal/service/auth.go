package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/edubridge/university-lms/internal/hash"
	"github.com/edubridge/university-lms/internal/logging"
	"github.com/edubridge/university-lms/internal/models"
	"github.com/edubridge/university-lms/internal/repo"
	"github.com/edubridge/university-lms/internal/tokens"
)

// Mailer sends one rendered message. Implemented by mailer.SMTPMailer.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EventPublisher publishes a domain event. Implemented by
// events.Producer; a nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event interface{}) error
}

type AuthService struct {
	Repo        *repo.GormRepo
	Tokens      *tokens.Service
	Mailer      Mailer
	Events      EventPublisher
	FrontendURL string
	RenderReset func(name, resetLink string) (string, error)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) issuePair(userID uint, email string) (TokenPair, error) {
	id := strconv.FormatUint(uint64(userID), 10)
	access, err := s.Tokens.IssueAccess(id, email)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Tokens.IssueRefresh(id, email)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	// Early exit only; the unique index on users.email is what actually
	// guards against a concurrent registration.
	existing, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, ErrInternal
	}
	if existing != nil {
		l.Warn("register_failed", "status", 409, "reason", "user_exists")
		return nil, ErrUserAlreadyExists
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, ErrInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		FullName:     fullName,
		IsActive:     true,
		IsVerified:   false,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_failed", "status", 409, "reason", "user_exists")
			return nil, ErrUserAlreadyExists
		}
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, ErrInternal
	}

	pair, err := s.issuePair(user.ID, user.Email)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot create token", "error", err)
		return nil, ErrInternal
	}

	s.publish(ctx, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("register_success", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: pair}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = normalizeEmail(email)

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, ErrInternal
	}
	// Unknown email and wrong password answer identically so the
	// response does not reveal which emails are registered.
	if user == nil {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return nil, ErrInvalidEmailOrPassword
	}
	if !user.IsActive {
		l.Warn("login_failed", "status", 403, "reason", "inactive")
		return nil, ErrUserInactive
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
		return nil, ErrInvalidEmailOrPassword
	}

	pair, err := s.issuePair(user.ID, user.Email)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return nil, ErrInternal
	}

	l.Info("login_success", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: pair}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "invalid refresh token", "error", err)
		return nil, ErrInvalidRefreshToken
	}
	if claims.UserID == "" || claims.Email == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "claims incomplete")
		return nil, ErrInvalidRefreshToken
	}

	// Lookup by the claims' email, not by the embedded id alone: a
	// token whose pair was tampered independently must not resolve.
	user, err := s.Repo.FindUserByEmail(ctx, claims.Email)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, ErrInternal
	}
	if user == nil {
		l.Warn("refresh_failed", "status", 401, "reason", "user not found")
		return nil, ErrRefreshUserNotFound
	}
	if !user.IsActive {
		l.Warn("refresh_failed", "status", 403, "reason", "inactive")
		return nil, ErrUserInactive
	}

	pair, err := s.issuePair(user.ID, user.Email)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot create token", "error", err)
		return nil, ErrInternal
	}

	l.Info("refresh_success", "user_id", user.ID)
	return &pair, nil
}

// ForgetPassword always reports success for anything short of an
// internal fault, including an unknown or inactive account and a failed
// mail send. The caller learns nothing about which emails exist.
func (s *AuthService) ForgetPassword(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.forget_password")

	email = normalizeEmail(email)

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		l.Error("forget_password_failed", "status", 500, "reason", "db_error", "error", err)
		return ErrInternal
	}
	if user == nil || !user.IsActive {
		l.Warn("forget_password_skipped", "reason", "no active user for email")
		return nil
	}

	resetToken, err := s.Tokens.IssueReset(strconv.FormatUint(uint64(user.ID), 10), user.Email)
	if err != nil {
		l.Error("forget_password_failed", "status", 500, "reason", "cannot create token", "error", err)
		return ErrInternal
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.FrontendURL, "/"), resetToken)

	name := user.FullName
	if name == "" {
		name = user.Email
	}
	body, err := s.RenderReset(name, resetLink)
	if err != nil {
		l.Error("forget_password_failed", "status", 500, "reason", "cannot render email", "error", err)
		return ErrInternal
	}

	if err := s.Mailer.Send(ctx, user.Email, "Reset Your Password - University LMS", body); err != nil {
		// Masked: surfacing the failure would distinguish existing
		// accounts from unknown ones.
		l.Error("forget_password_send_failed", "error", err)
		return nil
	}

	s.publish(ctx, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":    "password_reset_requested",
		"user_id": user.ID,
	})

	l.Info("forget_password_sent", "user_id", user.ID)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	claims, err := s.Tokens.Verify(resetToken)
	if err != nil {
		l.Warn("reset_password_failed", "status", 400, "reason", "invalid token", "error", err)
		return ErrInvalidResetToken
	}
	if claims.Type != tokens.TypePasswordReset {
		l.Warn("reset_password_failed", "status", 400, "reason", "wrong token type")
		return ErrInvalidResetToken
	}
	if claims.UserID == "" || claims.Email == "" {
		l.Warn("reset_password_failed", "status", 400, "reason", "claims incomplete")
		return ErrInvalidResetToken
	}

	user, err := s.Repo.FindUserByEmail(ctx, claims.Email)
	if err != nil {
		l.Error("reset_password_failed", "status", 500, "reason", "db_error", "error", err)
		return ErrInternal
	}
	if user == nil {
		l.Warn("reset_password_failed", "status", 404, "reason", "user not found")
		return ErrUserNotFound
	}
	// The token's id and the id the email resolves to must agree; a
	// stale token referencing another account is rejected outright.
	if strconv.FormatUint(uint64(user.ID), 10) != claims.UserID {
		l.Warn("reset_password_failed", "status", 400, "reason", "user_id mismatch")
		return ErrInvalidResetToken
	}
	if !user.IsActive {
		l.Warn("reset_password_failed", "status", 403, "reason", "inactive")
		return ErrUserInactive
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		l.Error("reset_password_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return ErrInternal
	}

	if err := s.Repo.ResetPassword(ctx, user.ID, claims.ID, pwHash); err != nil {
		if errors.Is(err, repo.ErrResetTokenUsed) {
			l.Warn("reset_password_failed", "status", 400, "reason", "token already used")
			return ErrInvalidResetToken
		}
		l.Error("reset_password_failed", "status", 500, "reason", "db_error", "error", err)
		return ErrInternal
	}

	s.publish(ctx, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":    "password_reset",
		"user_id": user.ID,
	})

	l.Info("reset_password_success", "user_id", user.ID)
	return nil
}
