package user

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) RegisterUser(ctx context.Context, username, rawPassword string) error {
	args := m.Called(ctx, username, rawPassword)
	return args.Error(0)
}

func (m *MockService) ResolveIdentity(ctx context.Context, username string) (*types.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockService) Authenticate(ctx context.Context, username, rawPassword string) (*types.User, error) {
	args := m.Called(ctx, username, rawPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func TestHandlerImpl_RegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	do := func(h *HandlerImpl, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.RegisterHandler(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		svc := new(MockService)
		svc.On("RegisterUser", mock.Anything, "a@x.com", "password1").Return(nil).Once()

		rec := do(NewHandlerImpl(svc, logger), `{"email":"a@x.com","password":"password1"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc := new(MockService)
		svc.On("RegisterUser", mock.Anything, "a@x.com", "password1").Return(types.ErrUserAlreadyExists).Once()

		rec := do(NewHandlerImpl(svc, logger), `{"email":"a@x.com","password":"password1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Username already exists in DB", body["error"])
	})

	t.Run("validation failure never reaches service", func(t *testing.T) {
		svc := new(MockService)

		rec := do(NewHandlerImpl(svc, logger), `{"email":"not-an-email","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body types.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "email Email should be valid", body.Message)
		assert.Len(t, body.Errors, 2)
		svc.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockService)
		rec := do(NewHandlerImpl(svc, logger), `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("RegisterUser", mock.Anything, "a@x.com", "password1").Return(errors.New("db down")).Once()

		rec := do(NewHandlerImpl(svc, logger), `{"email":"a@x.com","password":"password1"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}
