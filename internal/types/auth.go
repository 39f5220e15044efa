package types

import "github.com/golang-jwt/jwt/v5"

// Claims are the JWT claims issued by POST /api/login. Subject carries the username.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenResponse is returned by POST /api/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"3600"`
}
