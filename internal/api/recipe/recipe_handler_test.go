package recipe

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

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-recipes-api/internal/api/auth"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateRecipe(ctx context.Context, draft types.RecipeDraft, identity string) (*types.Recipe, error) {
	args := m.Called(ctx, draft, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

func (m *MockService) GetRecipeByID(ctx context.Context, id int64) (*types.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

func (m *MockService) SearchRecipes(ctx context.Context, name, category *string) ([]types.Recipe, error) {
	args := m.Called(ctx, name, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

func (m *MockService) UpdateRecipe(ctx context.Context, id int64, changes types.RecipeDraft, identity string) error {
	args := m.Called(ctx, id, changes, identity)
	return args.Error(0)
}

func (m *MockService) DeleteRecipeByID(ctx context.Context, id int64, identity string) error {
	args := m.Called(ctx, id, identity)
	return args.Error(0)
}

const omeletteJSON = `{"name":"Omelette","category":"Breakfast","description":"Quick","ingredients":["egg","salt"],"directions":["beat","fry"]}`

func newTestRouter(svc Service) http.Handler {
	h := NewHandlerImpl(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Post("/api/recipe/new", h.CreateRecipe)
	r.Get("/api/recipe/search", h.SearchRecipes)
	r.Get("/api/recipe/{id}", h.GetRecipe)
	r.Put("/api/recipe/{id}", h.UpdateRecipe)
	r.Delete("/api/recipe/{id}", h.DeleteRecipe)
	return r
}

func serve(t *testing.T, handler http.Handler, method, target, body, username string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if username != "" {
		req = req.WithContext(auth.WithUsername(req.Context(), username))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestHandlerImpl_CreateRecipe(t *testing.T) {
	t.Run("returns id", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreateRecipe", mock.Anything, breakfastDraft(), "a@x.com").Return(&types.Recipe{ID: 1}, nil).Once()

		rec := serve(t, newTestRouter(svc), http.MethodPost, "/api/recipe/new", omeletteJSON, "a@x.com")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1}`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		svc := new(MockService)
		body := `{"name":" ","category":"Breakfast","description":"Quick","ingredients":[],"directions":["fry"]}`

		rec := serve(t, newTestRouter(svc), http.MethodPost, "/api/recipe/new", body, "a@x.com")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp types.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 400, resp.Status)
		assert.Equal(t, "name Name shouldn't be blank", resp.Message)
		assert.Len(t, resp.Errors, 2)
		svc.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := serve(t, newTestRouter(new(MockService)), http.MethodPost, "/api/recipe/new", `{"name":`, "a@x.com")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown author", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CreateRecipe", mock.Anything, mock.Anything, "ghost@x.com").Return(nil, types.ErrUserNotFound).Once()

		rec := serve(t, newTestRouter(svc), http.MethodPost, "/api/recipe/new", omeletteJSON, "ghost@x.com")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("no identity", func(t *testing.T) {
		rec := serve(t, newTestRouter(new(MockService)), http.MethodPost, "/api/recipe/new", omeletteJSON, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandlerImpl_GetRecipe(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockService)
		stored := storedOmelette()
		svc.On("GetRecipeByID", mock.Anything, int64(1)).Return(&stored, nil).Once()

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/api/recipe/1", "", "a@x.com")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1,"name":"Omelette","category":"Breakfast","date":"2024-05-01T10:00:00Z",
			"description":"Quick","ingredients":["egg","salt"],"directions":["beat","fry"]}`, rec.Body.String())
	})

	t.Run("not found has no body", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GetRecipeByID", mock.Anything, int64(2)).Return(nil, types.ErrRecipeNotFound).Once()

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/api/recipe/2", "", "a@x.com")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := serve(t, newTestRouter(new(MockService)), http.MethodGet, "/api/recipe/abc", "", "a@x.com")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, msgInvalidID, decodeError(t, rec))
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("GetRecipeByID", mock.Anything, int64(3)).Return(nil, errors.New("boom")).Once()

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/api/recipe/3", "", "a@x.com")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, msgInternal, decodeError(t, rec))
	})
}

func TestHandlerImpl_SearchRecipes(t *testing.T) {
	isNil := mock.MatchedBy(func(p *string) bool { return p == nil })
	is := func(v string) any {
		return mock.MatchedBy(func(p *string) bool { return p != nil && *p == v })
	}

	t.Run("by category", func(t *testing.T) {
		svc := new(MockService)
		svc.On("SearchRecipes", mock.Anything, isNil, is("breakfast")).Return([]types.Recipe{storedOmelette()}, nil).Once()

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/api/recipe/search?category=breakfast", "", "a@x.com")
		assert.Equal(t, http.StatusOK, rec.Code)
		var got []types.RecipeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
		svc.AssertExpectations(t)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		svc := new(MockService)
		svc.On("SearchRecipes", mock.Anything, is("zzz"), isNil).Return([]types.Recipe{}, nil).Once()

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/api/recipe/search?name=zzz", "", "a@x.com")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("present but empty key counts", func(t *testing.T) {
		svc := new(MockService)
		svc.On("SearchRecipes", mock.Anything, is(""), isNil).Return([]types.Recipe{}, nil).Once()

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/api/recipe/search?name=", "", "a@x.com")
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		svc := new(MockService)
		svc.On("SearchRecipes", mock.Anything, mock.Anything, mock.Anything).Return(nil, types.ErrInvalidSearchParameters).Once()

		rec := serve(t, newTestRouter(svc), http.MethodGet, "/api/recipe/search?name=a&category=b", "", "a@x.com")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Either 'category' or 'name' must be provided.", decodeError(t, rec))
	})
}

func TestHandlerImpl_UpdateRecipe(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		svc := new(MockService)
		svc.On("UpdateRecipe", mock.Anything, int64(1), breakfastDraft(), "a@x.com").Return(nil).Once()

		rec := serve(t, newTestRouter(svc), http.MethodPut, "/api/recipe/1", omeletteJSON, "a@x.com")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("not the author", func(t *testing.T) {
		svc := new(MockService)
		svc.On("UpdateRecipe", mock.Anything, int64(1), mock.Anything, "b@x.com").Return(types.ErrNotAuthor).Once()

		rec := serve(t, newTestRouter(svc), http.MethodPut, "/api/recipe/1", omeletteJSON, "b@x.com")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "User is not an author of current recipe", decodeError(t, rec))
	})

	t.Run("missing recipe", func(t *testing.T) {
		svc := new(MockService)
		svc.On("UpdateRecipe", mock.Anything, int64(8), mock.Anything, "a@x.com").Return(types.ErrRecipeNotFound).Once()

		rec := serve(t, newTestRouter(svc), http.MethodPut, "/api/recipe/8", omeletteJSON, "a@x.com")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		svc := new(MockService)
		rec := serve(t, newTestRouter(svc), http.MethodPut, "/api/recipe/1",
			`{"name":"x","category":"y","description":"z","ingredients":["a"],"directions":[]}`, "a@x.com")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateRecipe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandlerImpl_DeleteRecipe(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		svc := new(MockService)
		svc.On("DeleteRecipeByID", mock.Anything, int64(1), "a@x.com").Return(nil).Once()

		rec := serve(t, newTestRouter(svc), http.MethodDelete, "/api/recipe/1", "", "a@x.com")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("not the author", func(t *testing.T) {
		svc := new(MockService)
		svc.On("DeleteRecipeByID", mock.Anything, int64(1), "b@x.com").Return(types.ErrNotAuthor).Once()

		rec := serve(t, newTestRouter(svc), http.MethodDelete, "/api/recipe/1", "", "b@x.com")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := serve(t, newTestRouter(new(MockService)), http.MethodDelete, "/api/recipe/1x", "", "a@x.com")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
