// Package services implements the account operations of the development
// auth API on top of the users repository and the Redis token store.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/auth"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/config"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/users"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// TokenStore keeps reset tokens and revoked access token ids.
type TokenStore interface {
	SaveReset(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeReset(ctx context.Context, token string) (string, time.Duration, error)
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Session is the credential handed out on login.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

type Registration struct {
	Name          string
	Prenom        string
	Sexe          string
	DateNaissance string
	Email         string
	Password      string
	Telephone     string
	Ville         string
	Adresse       string
	AvatarURL     string
	Bio           string
}

type AuthService struct {
	users     users.Repository
	tokens    TokenStore
	jwtSecret []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	logger    logging.Logger
	now       func() time.Time
	cost      int
}

func NewAuthService(repo users.Repository, tokens TokenStore, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		users:     repo,
		tokens:    tokens,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: cfg.AccessTokenTTL,
		resetTTL:  cfg.ResetTokenTTL,
		logger:    logger,
		now:       time.Now,
		cost:      bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
}

func checkPassword(p string) error {
	if utf8.RuneCountInString(p) < minPasswordLength {
		return validationError("password must be at least 6 characters")
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, r Registration) (*models.User, error) {
	email := normalizeEmail(r.Email)
	switch {
	case strings.TrimSpace(r.Name) == "":
		return nil, validationError("name is required")
	case email == "":
		return nil, validationError("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("email is malformed")
	}
	if err := checkPassword(r.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:         email,
		PasswordHash:  hash,
		Name:          strings.TrimSpace(r.Name),
		Prenom:        r.Prenom,
		Sexe:          r.Sexe,
		DateNaissance: r.DateNaissance,
		Telephone:     r.Telephone,
		Ville:         r.Ville,
		Adresse:       r.Adresse,
		AvatarURL:     r.AvatarURL,
		Bio:           r.Bio,
		Role:          models.RoleLearner,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and issues an access token. Unknown emails
// and wrong passwords both yield common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	token, claims, err := auth.GenerateToken(user.ID, user.IsAdmin, s.jwtSecret, s.now(), s.accessTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{AccessToken: token, TokenType: "bearer", ExpiresAt: claims.ExpiresAt.Time}, user, nil
}

// AdminLogin is Login restricted to administrators; valid credentials of a
// regular user yield common.ErrorForbidden.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*Session, *models.User, error) {
	sess, user, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsAdmin {
		s.logger.Warn(ctx, "admin login refused", "user_id", user.ID)
		return nil, nil, common.ErrorForbidden
	}
	return sess, user, nil
}

// Authenticate verifies an access token and checks it was not revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}
	return claims, nil
}

// Logout revokes the token described by claims until it would expire anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	return s.tokens.Revoke(ctx, claims.ID, ttl)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ForgotPassword issues a reset token when the email is known. The link is
// logged instead of mailed. Unknown emails are not reported to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email, redirectTo string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.tokens.SaveReset(ctx, token, user.ID, s.resetTTL); err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset link issued", "user_id", user.ID, "link", resetLink(redirectTo, token))
	return nil
}

func resetLink(redirectTo, token string) string {
	if redirectTo == "" {
		return token
	}
	u, err := url.Parse(redirectTo)
	if err != nil {
		return token
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// ResetPassword consumes token and sets the new password. When the update
// fails for any reason other than a vanished account the token is put back
// with the time it had left, so the link can be used again.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID, ttl, err := s.tokens.ConsumeReset(ctx, token)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		if ttl > 0 {
			if rerr := s.tokens.SaveReset(ctx, token, userID, ttl); rerr != nil {
				s.logger.Error(ctx, "restore reset token", "user_id", userID, "error", rerr)
			}
		}
		return err
	}

	s.logger.Info(ctx, "password reset", "user_id", userID)
	return nil
}

// SeedAdmin creates the administrator account unless the email is taken.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrateur",
		Role:         models.RoleAdmin,
		IsAdmin:      true,
	})
	if err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("seed admin: %w", err)
	}
	if user != nil {
		s.logger.Info(ctx, "administrator seeded", "user_id", user.ID)
	}
	return nil
}
