package usecase

import (
	"context"
	"time"

	"sistema-hospitalar/internal/converter"
	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/repository"
	"sistema-hospitalar/internal/service"
	"sistema-hospitalar/pkg/apperror"
	"sistema-hospitalar/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTypeBearer = "Bearer"

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID string) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
	tokenStore service.TokenStore
	now        func() time.Time
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		db:         db,
		log:        log,
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Status.IsActive() {
		return nil, ErrAccountInactive
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.Role)
}

// RefreshToken rotates the refresh token. The presented one stops working.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByRefreshTokenHash(u.db.WithContext(ctx), jwt.HashRefreshToken(req.RefreshToken))
	if err != nil {
		u.log.Warnf("Failed to find user by refresh token: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if user == nil || user.RefreshTokenExpiry == nil || !u.now().Before(*user.RefreshTokenExpiry) {
		return nil, ErrInvalidToken
	}
	if !user.Status.IsActive() {
		return nil, ErrAccountInactive
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.Role)
}

// Logout revokes the presented access token and clears the stored refresh token.
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string) error {
	if err := u.tokenStore.Revoke(ctx, userID, accessTokenID); err != nil {
		return err
	}

	if err := u.userRepo.SetRefreshToken(u.db.WithContext(ctx), userID, nil, nil); err != nil {
		u.log.Warnf("Failed to clear refresh token of user %s: %+v", userID, err)
		return apperror.Persistence(err)
	}
	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email, role string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshHash, err := u.jwtService.GenerateRefreshToken()
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	expiry := u.now().Add(u.jwtService.GetRefreshExpiry()).UTC()
	if err := u.userRepo.SetRefreshToken(u.db.WithContext(ctx), userID, &refreshHash, &expiry); err != nil {
		u.log.Warnf("Failed to store refresh token of user %s: %+v", userID, err)
		return nil, apperror.Persistence(err)
	}

	if err := u.tokenStore.Store(ctx, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
