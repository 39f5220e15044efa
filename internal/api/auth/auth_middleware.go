package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-recipes-api/internal/api"
	"github.com/FACorreiaa/go-recipes-api/internal/api/user"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

type contextKey string

const UsernameKey contextKey = "username"

const (
	realmHeader    = `Basic realm="recipes"`
	msgBadLogin    = "Invalid username or password"
	msgMissingAuth = "Authorization header required"
)

// CredentialVerifier checks a username and raw password. user.Service satisfies it.
type CredentialVerifier interface {
	Authenticate(ctx context.Context, username, rawPassword string) (*types.User, error)
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", realmHeader)
	api.ErrorResponse(w, r, http.StatusUnauthorized, msg)
}

// Authenticate accepts HTTP Basic credentials or a Bearer token issued by tokens,
// and stores the username in the request context.
func Authenticate(logger *slog.Logger, verifier CredentialVerifier, tokens *TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.DebugContext(ctx, "Missing Authorization header")
				unauthorized(w, r, msgMissingAuth)
				return
			}

			var username string
			scheme, credentials, _ := strings.Cut(authHeader, " ")
			switch strings.ToLower(scheme) {
			case "basic":
				name, password, ok := r.BasicAuth()
				if !ok {
					l.WarnContext(ctx, "Malformed Basic credentials")
					unauthorized(w, r, msgBadLogin)
					return
				}
				u, err := verifier.Authenticate(ctx, name, password)
				if err != nil {
					if errors.Is(err, types.ErrUserNotFound) || errors.Is(err, user.ErrInvalidCredentials) {
						l.InfoContext(ctx, "Basic authentication rejected", slog.String("username", name))
						unauthorized(w, r, msgBadLogin)
						return
					}
					l.ErrorContext(ctx, "Credential check failed", slog.Any("error", err))
					api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
					return
				}
				username = u.Username

			case "bearer":
				if tokens == nil {
					unauthorized(w, r, "Bearer tokens are not accepted")
					return
				}
				claims, err := tokens.Parse(strings.TrimSpace(credentials))
				if err != nil {
					l.WarnContext(ctx, "Token parsing/validation failed", slog.Any("error", err))
					errMsg := "Invalid or expired token"
					switch {
					case errors.Is(err, jwt.ErrTokenExpired):
						errMsg = "Token has expired"
					case errors.Is(err, jwt.ErrTokenMalformed):
						errMsg = "Malformed token"
					case errors.Is(err, jwt.ErrTokenSignatureInvalid):
						errMsg = "Invalid token signature"
					case errors.Is(err, ErrInvalidIssuer):
						errMsg = "Invalid token issuer"
					case errors.Is(err, ErrInvalidAudience):
						errMsg = "Invalid token audience"
					}
					unauthorized(w, r, errMsg)
					return
				}
				username = claims.Username

			default:
				l.WarnContext(ctx, "Unsupported Authorization scheme", slog.String("scheme", scheme))
				unauthorized(w, r, "Authorization header format must be Basic or Bearer")
				return
			}

			l.DebugContext(ctx, "Authentication successful", slog.String("username", username))
			next.ServeHTTP(w, r.WithContext(WithUsername(ctx, username)))
		})
	}
}

// WithUsername returns a copy of ctx carrying username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}
