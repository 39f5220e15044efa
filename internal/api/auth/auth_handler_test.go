package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

func TestAuthHandler_Login(t *testing.T) {
	tokens := newTestTokenService(t)
	h := NewAuthHandler(tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("issues token for the authenticated user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req = req.WithContext(WithUsername(req.Context(), "a@x.com"))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp types.TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Bearer", resp.TokenType)

		claims, err := tokens.Parse(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Username)
	})

	t.Run("no identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
