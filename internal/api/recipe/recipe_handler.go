package recipe

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-recipes-api/internal/api"
	"github.com/FACorreiaa/go-recipes-api/internal/api/auth"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

const (
	msgInvalidSearch = "Either 'category' or 'name' must be provided."
	msgNotAuthor     = "User is not an author of current recipe"
	msgInvalidID     = "Invalid recipe ID format"
	msgUnknownUser   = "Authentication required"
	msgInternal      = "Internal server error"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateRecipe(w http.ResponseWriter, r *http.Request)
	GetRecipe(w http.ResponseWriter, r *http.Request)
	SearchRecipes(w http.ResponseWriter, r *http.Request)
	UpdateRecipe(w http.ResponseWriter, r *http.Request)
	DeleteRecipe(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

func toResponse(rec types.Recipe) types.RecipeResponse {
	return types.RecipeResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		Category:    rec.Category,
		Date:        rec.Date,
		Description: rec.Description,
		Ingredients: rec.Ingredients,
		Directions:  rec.Directions,
	}
}

// writeError maps domain failures to HTTP statuses.
func (h *HandlerImpl) writeError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, types.ErrRecipeNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, types.ErrInvalidSearchParameters):
		api.ErrorResponse(w, r, http.StatusBadRequest, msgInvalidSearch)
	case errors.Is(err, types.ErrNotAuthor):
		api.ErrorResponse(w, r, http.StatusForbidden, msgNotAuthor)
	case errors.Is(err, types.ErrUserNotFound):
		api.ErrorResponse(w, r, http.StatusUnauthorized, msgUnknownUser)
	default:
		l.ErrorContext(r.Context(), "Recipe request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, msgInternal)
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// identity returns the authenticated username. Routes are mounted behind auth.Authenticate,
// so a missing value is answered as unauthenticated.
func identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := auth.GetUsernameFromContext(r.Context())
	if !ok || username == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, msgUnknownUser)
		return "", false
	}
	return username, true
}

func (h *HandlerImpl) decodeDraft(w http.ResponseWriter, r *http.Request, l *slog.Logger) (types.RecipeDraft, bool) {
	var draft types.RecipeDraft
	if err := api.DecodeJSONBody(w, r, &draft); err != nil {
		l.WarnContext(r.Context(), "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return types.RecipeDraft{}, false
	}
	if fieldErrors := ValidateDraft(draft); len(fieldErrors) > 0 {
		l.InfoContext(r.Context(), "Recipe rejected by validation", slog.Int("violations", len(fieldErrors)))
		api.ValidationErrorResponse(w, r, fieldErrors)
		return types.RecipeDraft{}, false
	}
	return draft, true
}

// CreateRecipe godoc
// @Summary      Create a recipe
// @Description  Stores a new recipe authored by the authenticated user.
// @Tags         Recipe
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        recipe body types.RecipeDraft true "Recipe"
// @Success      200 {object} types.CreateRecipeResponse
// @Failure      400 {object} types.ValidationErrorResponse "Invalid input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /recipe/new [post]
func (h *HandlerImpl) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecipeHandler").Start(r.Context(), "CreateRecipe")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "CreateRecipe"))

	username, ok := identity(w, r)
	if !ok {
		return
	}
	draft, ok := h.decodeDraft(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Bad request")
		return
	}

	rec, err := h.service.CreateRecipe(ctx, draft, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		h.writeError(w, r, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Recipe created")
	api.WriteJSONResponse(w, r, http.StatusOK, types.CreateRecipeResponse{ID: rec.ID})
}

// GetRecipe godoc
// @Summary      Get a recipe
// @Tags         Recipe
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id path int true "Recipe ID"
// @Success      200 {object} types.RecipeResponse
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 "Not found"
// @Router       /recipe/{id} [get]
func (h *HandlerImpl) GetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecipeHandler").Start(r.Context(), "GetRecipe")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "GetRecipe"))

	id, err := parseID(r)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}
	span.SetAttributes(attribute.Int64("recipe.id", id))

	rec, err := h.service.GetRecipeByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		h.writeError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, toResponse(*rec))
}

// SearchRecipes godoc
// @Summary      Search recipes
// @Description  Exactly one of name (substring) or category (exact) is required. Matching ignores case. Newest first.
// @Tags         Recipe
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        name query string false "Name substring"
// @Param        category query string false "Category"
// @Success      200 {array} types.RecipeResponse
// @Failure      400 {object} types.Response "Invalid search parameters"
// @Failure      401 {object} types.Response "Unauthorized"
// @Router       /recipe/search [get]
func (h *HandlerImpl) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecipeHandler").Start(r.Context(), "SearchRecipes")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "SearchRecipes"))

	// A present key counts as supplied even when its value is empty.
	query := r.URL.Query()
	var name, category *string
	if query.Has("name") {
		v := query.Get("name")
		name = &v
	}
	if query.Has("category") {
		v := query.Get("category")
		category = &v
	}

	recipes, err := h.service.SearchRecipes(ctx, name, category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search failed")
		h.writeError(w, r, l, err)
		return
	}

	resp := make([]types.RecipeResponse, 0, len(recipes))
	for _, rec := range recipes {
		resp = append(resp, toResponse(rec))
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// UpdateRecipe godoc
// @Summary      Update a recipe
// @Description  Replaces every editable field. Only the author may update.
// @Tags         Recipe
// @Accept       json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id path int true "Recipe ID"
// @Param        recipe body types.RecipeDraft true "Recipe"
// @Success      204 "Updated"
// @Failure      400 {object} types.ValidationErrorResponse "Invalid input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Not the author"
// @Failure      404 "Not found"
// @Router       /recipe/{id} [put]
func (h *HandlerImpl) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecipeHandler").Start(r.Context(), "UpdateRecipe")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "UpdateRecipe"))

	username, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}
	span.SetAttributes(attribute.Int64("recipe.id", id))

	draft, ok := h.decodeDraft(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Bad request")
		return
	}

	if err = h.service.UpdateRecipe(ctx, id, draft, username); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		h.writeError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Recipe updated")
	w.WriteHeader(http.StatusNoContent)
}

// DeleteRecipe godoc
// @Summary      Delete a recipe
// @Description  Only the author may delete.
// @Tags         Recipe
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        id path int true "Recipe ID"
// @Success      204 "Deleted"
// @Failure      400 {object} types.Response "Invalid ID"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Not the author"
// @Failure      404 "Not found"
// @Router       /recipe/{id} [delete]
func (h *HandlerImpl) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecipeHandler").Start(r.Context(), "DeleteRecipe")
	defer span.End()
	r = r.WithContext(ctx)
	l := h.logger.With(slog.String("handler", "DeleteRecipe"))

	username, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := parseID(r)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, msgInvalidID)
		return
	}
	span.SetAttributes(attribute.Int64("recipe.id", id))

	if err = h.service.DeleteRecipeByID(ctx, id, username); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		h.writeError(w, r, l, err)
		return
	}
	span.SetStatus(codes.Ok, "Recipe deleted")
	w.WriteHeader(http.StatusNoContent)
}
