package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"sistema-hospitalar/config"
	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/mocks"
	"sistema-hospitalar/internal/repository"
	"sistema-hospitalar/internal/testutil"
	"sistema-hospitalar/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authFixture struct {
	uc     AuthUsecase
	db     *gorm.DB
	tokens *mocks.MockTokenStore
	jwt    *jwt.JWTService
	user   *entity.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := testutil.NewDB(t)
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
	tokens := new(mocks.MockTokenStore)

	user := testutil.CreateUser(t, db, "Rita Melo", "rita@hospital.com", false, false)
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Model(&entity.User{}).Where("id = ?", user.ID).Update("password", string(hashed)).Error)

	return &authFixture{
		uc:     NewAuthUsecase(db, testutil.NewLogger(), repository.NewUserRepository(), jwtService, tokens),
		db:     db,
		tokens: tokens,
		jwt:    jwtService,
		user:   user,
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.tokens.On("Store", mock.Anything, f.user.ID, mock.AnythingOfType("string"), 15*time.Minute).Return(nil).Once()

	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "rita@hospital.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.EqualValues(t, 900, tokens.ExpiresIn)
	f.tokens.AssertExpectations(t)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, claims.UserID)
	assert.Equal(t, entity.RoleReception, claims.Role)

	var stored entity.User
	require.NoError(t, f.db.Where("id = ?", f.user.ID).First(&stored).Error)
	require.NotNil(t, stored.RefreshTokenHash)
	assert.Equal(t, jwt.HashRefreshToken(tokens.RefreshToken), *stored.RefreshTokenHash)
	assert.NotEqual(t, tokens.RefreshToken, *stored.RefreshTokenHash)
}

func TestLoginRejections(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "rita@hospital.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.uc.Login(ctx, &dto.LoginRequest{Email: "nobody@hospital.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.db.Model(&entity.User{}).Where("id = ?", f.user.ID).Update("status", entity.LifecycleInactive).Error)
	_, err = f.uc.Login(ctx, &dto.LoginRequest{Email: "rita@hospital.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountInactive)

	f.tokens.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.tokens.On("Store", mock.Anything, f.user.ID, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	first, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "rita@hospital.com", Password: "secret123"})
	require.NoError(t, err)

	second, err := f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenExpired(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.tokens.On("Store", mock.Anything, f.user.ID, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "rita@hospital.com", Password: "secret123"})
	require.NoError(t, err)

	f.uc.(*authUsecase).now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.tokens.On("Store", mock.Anything, f.user.ID, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	tokens, err := f.uc.Login(ctx, &dto.LoginRequest{Email: "rita@hospital.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)

	f.tokens.On("Revoke", mock.Anything, f.user.ID, claims.TokenID).Return(nil).Once()
	require.NoError(t, f.uc.Logout(ctx, f.user.ID, claims.TokenID))
	f.tokens.AssertExpectations(t)

	_, err = f.uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutTokenStoreFailure(t *testing.T) {
	f := newAuthFixture(t)
	storeErr := errors.New("redis down")
	f.tokens.On("Revoke", mock.Anything, f.user.ID, "jti").Return(storeErr)

	err := f.uc.Logout(context.Background(), f.user.ID, "jti")
	assert.ErrorIs(t, err, storeErr)
}

func TestGetCurrentUser(t *testing.T) {
	f := newAuthFixture(t)

	me, err := f.uc.GetCurrentUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "rita@hospital.com", me.Email)
}
