package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Issuer signs and verifies the access/refresh pair. *token.Manager
// satisfies it.
type Issuer interface {
	SignAccess(employeeID, role string) (string, error)
	SignRefresh(employeeID, role string) (string, error)
	Verify(tokenString string) (*token.Claims, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	Me(ctx context.Context, employeeID uuid.UUID) (AuthResponse, error)
}

type service struct {
	repo   Repository
	tokens Issuer
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, tokens Issuer, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, tokens: tokens, now: time.Now, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	cred, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.String("request_id", rid), zap.Error(err))
			return TokenPair{}, AuthResponse{}, err
		}
		s.logger.Info("login rejected", zap.String("request_id", rid), zap.String("reason", "unknown_email"))
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// password dulu, baru status akun
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected",
			zap.String("request_id", rid),
			zap.String("employee_id", cred.ID.String()),
			zap.String("reason", "bad_password"),
		)
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !cred.canLogin() {
		return TokenPair{}, AuthResponse{}, autherrors.ErrAccountInactive
	}

	pair, err := s.issue(cred)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, cred.ID, now); err != nil {
		s.logger.Warn("last login update failed",
			zap.String("employee_id", cred.ID.String()),
			zap.Error(err),
		)
	} else {
		cred.LastLoginAt = &now
	}

	s.logger.Info("login success",
		zap.String("request_id", rid),
		zap.String("employee_id", cred.ID.String()),
		zap.String("role", cred.Role),
	)
	return pair, toResponse(*cred), nil
}

// Refresh re-reads the employee so a role change or termination applies to
// the next token pair.
func (s *service) Refresh(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return TokenPair{}, AuthResponse{}, autherrors.ErrTokenExpired
		}
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if claims.TokenType != token.TypeRefresh {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	id, err := uuid.Parse(claims.EmployeeID)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	cred, err := s.load(ctx, id)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}
	if !cred.canLogin() {
		return TokenPair{}, AuthResponse{}, autherrors.ErrAccountInactive
	}

	pair, err := s.issue(cred)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}
	return pair, toResponse(*cred), nil
}

func (s *service) Me(ctx context.Context, employeeID uuid.UUID) (AuthResponse, error) {
	cred, err := s.load(ctx, employeeID)
	if err != nil {
		return AuthResponse{}, err
	}
	return toResponse(*cred), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Credential, error) {
	cred, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrAccountNotFound
		}
		return nil, err
	}
	return cred, nil
}

func (s *service) issue(cred *Credential) (TokenPair, error) {
	access, err := s.tokens.SignAccess(cred.ID.String(), cred.Role)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}
	refresh, err := s.tokens.SignRefresh(cred.ID.String(), cred.Role)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func toResponse(c Credential) AuthResponse {
	resp := AuthResponse{
		ID:           c.ID.String(),
		EmployeeCode: c.EmployeeCode,
		Email:        c.Email,
		Name:         c.FirstName + " " + c.LastName,
		Role:         c.Role,
	}
	if c.LastLoginAt != nil {
		v := c.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &v
	}
	return resp
}
