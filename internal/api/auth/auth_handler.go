package auth

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-recipes-api/internal/api"
)

type AuthHandler struct {
	tokens *TokenService
	logger *slog.Logger
}

func NewAuthHandler(tokens *TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		logger: logger,
	}
}

// Login godoc
// @Summary      Exchange Basic credentials for a token
// @Description  Runs behind Basic authentication and returns a Bearer access token for the same user.
// @Tags         Auth
// @Produce      json
// @Security     BasicAuth
// @Success      200 {object} types.TokenResponse
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Login"))

	username, ok := GetUsernameFromContext(ctx)
	if !ok || username == "" {
		span.SetStatus(codes.Error, "No identity")
		unauthorized(w, r, msgMissingAuth)
		return
	}

	resp, err := h.tokens.Issue(username)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token issue failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	l.InfoContext(ctx, "Token issued", slog.String("username", username))
	span.SetStatus(codes.Ok, "Token issued")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
