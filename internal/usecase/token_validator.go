package usecase

import (
	"context"

	"labreserve/internal/domain/user"
	"labreserve/internal/pkg/errs"
	"labreserve/internal/pkg/jwt"
	"labreserve/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrTokenInvalid   = errs.New("invalid or expired token")
	ErrAccountRevoked = errs.New("account is deactivated or deleted")
)

// TokenValidator provides token validation for middleware. The role is taken
// from current storage state, not from the token, so role changes and account
// deletions take effect on the next request rather than at token expiry.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, user.Role, error)
}

type tokenValidatorImpl struct {
	jwtService  *jwt.Service
	userQueries queries.UserQueries
}

func NewTokenValidator(jwtService *jwt.Service, userQueries queries.UserQueries) TokenValidator {
	return &tokenValidatorImpl{
		jwtService:  jwtService,
		userQueries: userQueries,
	}
}

func (t *tokenValidatorImpl) ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", errs.Mark(err, ErrTokenInvalid)
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return uuid.Nil, "", ErrTokenInvalid
	}

	view, err := t.userQueries.AuthorizedUserByID(ctx, claims.UserID)
	if err != nil {
		return uuid.Nil, "", errs.Mark(err, ErrAccountRevoked)
	}
	if !view.IsActive {
		return uuid.Nil, "", ErrAccountRevoked
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return uuid.Nil, "", errs.Mark(err, ErrTokenInvalid)
	}

	return view.ID, role, nil
}
