package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/repository"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/applog"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/config"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetMe(ctx context.Context, userID int64) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	cfg    config.Auth
	logger *zap.Logger
	tracer trace.Tracer
}

func NewAuthService(users repository.UserRepository, cfg config.Auth, logger *zap.Logger) AuthService {
	return &authService{
		users:  users,
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("service/auth_service"),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	span.SetAttributes(attribute.String("email", input.Email))

	if !passwordStrongEnough(input.Password) {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &domain.User{
		Email:     input.Email,
		Password:  string(hash),
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}

		return nil, fmt.Errorf("error creating user: %w", err)
	}

	applog.Info(ctx, s.logger, "User registered", zap.Int64("user_id", user.ID))

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user.ID)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	userID, err := parseSubject(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Token subjects outlive users only if the account was deleted.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, ErrInvalidToken
	}

	return s.issueTokens(userID)
}

func (s *authService) GetMe(ctx context.Context, userID int64) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.GetMe")
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("error loading user: %w", err)
	}

	return user, nil
}

func (s *authService) issueTokens(userID int64) (*TokenPair, error) {
	access, err := signToken(userID, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}

	refresh, err := signToken(userID, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("error signing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func signToken(userID int64, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseSubject(tokenString, secret string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	return strconv.ParseInt(claims.Subject, 10, 64)
}

func passwordStrongEnough(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLetter && hasDigit
}
