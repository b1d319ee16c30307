package dto

import (
	authdomain "mailmate-backend/internal/auth/domain"
)

// GoogleAuthRequest carries either an authorization code from the OAuth
// redirect flow or an access token from the implicit flow.
type GoogleAuthRequest struct {
	Code        string `json:"code"`
	AccessToken string `json:"access_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         *authdomain.User `json:"user"`
}
