package usecase

import (
	"context"

	authdomain "mailmate-backend/internal/auth/domain"
	authdto "mailmate-backend/internal/auth/dto"
)

// AuthUsecase defines the auth business logic
type AuthUsecase interface {
	GoogleSignIn(ctx context.Context, req *authdto.GoogleAuthRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)
}
