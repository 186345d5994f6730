package commands

import (
	"context"
	"log/slog"

	"labreserve/internal/domain/user"
	"labreserve/internal/pkg/clock"
	"labreserve/internal/pkg/errs"
	"labreserve/internal/pkg/jwt"
	"labreserve/internal/pkg/password"
	"labreserve/internal/usecase/queries"
	"labreserve/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

type LoginResult struct {
	UserID    uuid.UUID
	Role      user.Role
	TokenPair *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Login(ctx context.Context, credentials user.Credentials) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow         shared.UnitOfWork
	userQueries queries.UserQueries
	jwtService  *jwt.Service
	clock       clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, userQueries queries.UserQueries, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:         uow,
		userQueries: userQueries,
		jwtService:  jwtService,
		clock:       clk,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, credentials user.Credentials) (*LoginResult, error) {
	account, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	accessToken, err := a.jwtService.GenerateAccessToken(account.ID(), account.Role())
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	refreshToken, err := a.jwtService.GenerateRefreshToken(account.ID(), account.Role())
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if updateErr := tx.Users().UpdateLastLogin(ctx, account.ID(), a.clock.Now()); updateErr != nil {
			slog.Warn("failed to update last login", "user_id", account.ID(), "error", updateErr.Error())
			// Not critical, the login itself succeeded
		}
		return nil
	})
	if err != nil {
		slog.Warn("transaction failed during login", "user_id", account.ID(), "error", err.Error())
	}

	return &LoginResult{
		UserID: account.ID(),
		Role:   account.Role(),
		TokenPair: &TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	// Validate user still exists and is active; role comes from storage, not
	// the old token.
	view, err := a.userQueries.AuthorizedUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	accessToken, err := a.jwtService.GenerateAccessToken(claims.UserID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	newRefreshToken, err := a.jwtService.GenerateRefreshToken(claims.UserID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials user.Credentials) (*user.User, error) {
	var account *user.User
	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, findErr := tx.Users().FindByEmail(ctx, credentials.Email().Value())
		if findErr != nil {
			// Same error as password mismatch to prevent user enumeration
			return ErrInvalidCredentials
		}
		account = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !account.IsActive() {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(account.PasswordHash(), credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}
