package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrms/internal/auth"
	autherrors "go-hrms/internal/auth/errors"
	authMock "go-hrms/internal/auth/mock"
	"go-hrms/internal/shared/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func credential(t *testing.T, password, status string) *auth.Credential {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.Credential{
		ID:           uuid.New(),
		EmployeeCode: "EMP20250003",
		FirstName:    "Dewi",
		LastName:     "Lestari",
		Email:        "dewi@example.com",
		PasswordHash: string(hash),
		Role:         "manager",
		Status:       status,
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	tokens := token.NewManager("test-secret", 15*time.Minute, time.Hour)

	t.Run("success issues a verifiable pair", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, tokens, zap.NewNop())
		cred := credential(t, "Welcome@123", "active")

		repo.EXPECT().FindByEmail(ctx, cred.Email).Return(cred, nil)
		repo.EXPECT().TouchLastLogin(ctx, cred.ID, gomock.Any()).Return(nil)

		pair, resp, err := svc.Login(ctx, cred.Email, "Welcome@123")
		require.NoError(t, err)
		assert.Equal(t, "Dewi Lestari", resp.Name)
		assert.Equal(t, "manager", resp.Role)
		assert.NotNil(t, resp.LastLoginAt)

		claims, err := tokens.Verify(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, cred.ID.String(), claims.EmployeeID)
		assert.Equal(t, token.TypeAccess, claims.TokenType)

		claims, err = tokens.Verify(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, token.TypeRefresh, claims.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, tokens, zap.NewNop())
		cred := credential(t, "Welcome@123", "active")

		repo.EXPECT().FindByEmail(ctx, cred.Email).Return(cred, nil)

		_, _, err := svc.Login(ctx, cred.Email, "nope")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, tokens, zap.NewNop())

		repo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := svc.Login(ctx, "ghost@example.com", "x")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("terminated account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, tokens, zap.NewNop())
		cred := credential(t, "Welcome@123", "terminated")

		repo.EXPECT().FindByEmail(ctx, cred.Email).Return(cred, nil)

		_, _, err := svc.Login(ctx, cred.Email, "Welcome@123")
		assert.ErrorIs(t, err, autherrors.ErrAccountInactive)
	})

	t.Run("last login failure does not block login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, tokens, zap.NewNop())
		cred := credential(t, "Welcome@123", "on_leave")

		repo.EXPECT().FindByEmail(ctx, cred.Email).Return(cred, nil)
		repo.EXPECT().TouchLastLogin(ctx, cred.ID, gomock.Any()).Return(errors.New("db down"))

		_, resp, err := svc.Login(ctx, cred.Email, "Welcome@123")
		require.NoError(t, err)
		assert.Nil(t, resp.LastLoginAt)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	tokens := token.NewManager("test-secret", 15*time.Minute, time.Hour)

	t.Run("picks up the current role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, tokens, zap.NewNop())
		cred := credential(t, "x", "active")

		refresh, err := tokens.SignRefresh(cred.ID.String(), "employee")
		require.NoError(t, err)
		repo.EXPECT().FindByID(ctx, cred.ID).Return(cred, nil)

		pair, resp, err := svc.Refresh(ctx, refresh)
		require.NoError(t, err)
		assert.Equal(t, "manager", resp.Role)

		claims, err := tokens.Verify(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "manager", claims.Role)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := auth.NewService(authMock.NewMockRepository(ctrl), tokens, zap.NewNop())

		access, err := tokens.SignAccess(uuid.NewString(), "employee")
		require.NoError(t, err)

		_, _, err = svc.Refresh(ctx, access)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("deleted account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, tokens, zap.NewNop())
		id := uuid.New()

		refresh, err := tokens.SignRefresh(id.String(), "employee")
		require.NoError(t, err)
		repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, _, err = svc.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, autherrors.ErrAccountNotFound)
	})

	t.Run("garbage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := auth.NewService(authMock.NewMockRepository(ctrl), tokens, zap.NewNop())

		_, _, err := svc.Refresh(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}
