package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-recipes-api/app/observability/metrics"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// IdentityResolver turns a username into the stored user. user.Service satisfies it.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, username string) (*types.User, error)
}

// Service is the recipe domain. The caller identity is always the username of the
// authenticated user, passed explicitly.
type Service interface {
	CreateRecipe(ctx context.Context, draft types.RecipeDraft, identity string) (*types.Recipe, error)
	GetRecipeByID(ctx context.Context, id int64) (*types.Recipe, error)
	SearchRecipes(ctx context.Context, name, category *string) ([]types.Recipe, error)
	UpdateRecipe(ctx context.Context, id int64, changes types.RecipeDraft, identity string) error
	DeleteRecipeByID(ctx context.Context, id int64, identity string) error
}

type ServiceImpl struct {
	logger     *slog.Logger
	repo       Repository
	identities IdentityResolver
}

func NewServiceImpl(repo Repository, identities IdentityResolver, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		identities: identities,
	}
}

func failSpan(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

// CreateRecipe binds the draft to the user behind identity and stores it.
func (s *ServiceImpl) CreateRecipe(ctx context.Context, draft types.RecipeDraft, identity string) (_ *types.Recipe, err error) {
	ctx, span := otel.Tracer("RecipeService").Start(ctx, "CreateRecipe", trace.WithAttributes(
		attribute.String("recipe.category", draft.Category),
	))
	defer span.End()
	defer func() { metrics.Get().RecipeOperation(ctx, "create", err) }()

	l := s.logger.With(slog.String("method", "CreateRecipe"), slog.String("identity", identity))

	author, err := s.identities.ResolveIdentity(ctx, identity)
	if err != nil {
		l.WarnContext(ctx, "Could not resolve author", slog.Any("error", err))
		failSpan(span, err, "Author not resolved")
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	stored, err := s.repo.Insert(ctx, types.Recipe{
		Name:        draft.Name,
		Category:    draft.Category,
		Description: draft.Description,
		Ingredients: draft.Ingredients,
		Directions:  draft.Directions,
		AuthorID:    author.ID,
		Author:      author.Username,
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to store recipe", slog.Any("error", err))
		failSpan(span, err, "Insert failed")
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	l.InfoContext(ctx, "Recipe created", slog.Int64("recipeID", stored.ID))
	span.SetAttributes(attribute.Int64("recipe.id", stored.ID))
	span.SetStatus(codes.Ok, "Recipe created")
	return &stored, nil
}

func (s *ServiceImpl) GetRecipeByID(ctx context.Context, id int64) (_ *types.Recipe, err error) {
	ctx, span := otel.Tracer("RecipeService").Start(ctx, "GetRecipeByID", trace.WithAttributes(
		attribute.Int64("recipe.id", id),
	))
	defer span.End()
	defer func() { metrics.Get().RecipeOperation(ctx, "get", err) }()

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, types.ErrRecipeNotFound) {
			s.logger.ErrorContext(ctx, "Failed to get recipe", slog.Int64("recipeID", id), slog.Any("error", err))
		}
		failSpan(span, err, "Recipe not retrieved")
		return nil, err
	}
	return &rec, nil
}

// SearchRecipes dispatches to the name or the category query. Exactly one filter must be set.
func (s *ServiceImpl) SearchRecipes(ctx context.Context, name, category *string) (_ []types.Recipe, err error) {
	ctx, span := otel.Tracer("RecipeService").Start(ctx, "SearchRecipes")
	defer span.End()
	defer func() { metrics.Get().RecipeOperation(ctx, "search", err) }()

	l := s.logger.With(slog.String("method", "SearchRecipes"))

	if (name == nil) == (category == nil) {
		span.SetStatus(codes.Error, "Invalid search parameters")
		return nil, types.ErrInvalidSearchParameters
	}

	var recipes []types.Recipe
	if name != nil {
		span.SetAttributes(attribute.String("search.name", *name))
		recipes, err = s.repo.FindByNameContaining(ctx, *name)
	} else {
		span.SetAttributes(attribute.String("search.category", *category))
		recipes, err = s.repo.FindByCategory(ctx, *category)
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to search recipes", slog.Any("error", err))
		failSpan(span, err, "Search failed")
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	if recipes == nil {
		recipes = []types.Recipe{}
	}

	l.DebugContext(ctx, "Recipes found", slog.Int("count", len(recipes)))
	span.SetAttributes(attribute.Int("recipes.count", len(recipes)))
	return recipes, nil
}

// authorize loads recipe id and checks that identity wrote it.
func (s *ServiceImpl) authorize(ctx context.Context, id int64, identity string) (types.Recipe, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return types.Recipe{}, fmt.Errorf("failed to check recipe: %w", err)
	}
	if !exists {
		return types.Recipe{}, fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, id)
	}
	// FindByID reports not-found on its own if the recipe went away in between.
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return types.Recipe{}, err
	}
	if rec.Author != identity {
		return types.Recipe{}, types.ErrNotAuthor
	}
	return rec, nil
}

// UpdateRecipe replaces every editable field of recipe id. Only the author may do it.
func (s *ServiceImpl) UpdateRecipe(ctx context.Context, id int64, changes types.RecipeDraft, identity string) (err error) {
	ctx, span := otel.Tracer("RecipeService").Start(ctx, "UpdateRecipe", trace.WithAttributes(
		attribute.Int64("recipe.id", id),
	))
	defer span.End()
	defer func() { metrics.Get().RecipeOperation(ctx, "update", err) }()

	l := s.logger.With(slog.String("method", "UpdateRecipe"), slog.Int64("recipeID", id), slog.String("identity", identity))

	rec, err := s.authorize(ctx, id, identity)
	if err != nil {
		logRejection(ctx, l, err)
		failSpan(span, err, "Update rejected")
		return err
	}

	rec.Name = changes.Name
	rec.Category = changes.Category
	rec.Description = changes.Description
	rec.Ingredients = changes.Ingredients
	rec.Directions = changes.Directions

	if _, err = s.repo.Update(ctx, rec); err != nil {
		logRejection(ctx, l, err)
		failSpan(span, err, "Update failed")
		if errors.Is(err, types.ErrRecipeNotFound) {
			return err
		}
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	l.InfoContext(ctx, "Recipe updated")
	span.SetStatus(codes.Ok, "Recipe updated")
	return nil
}

// DeleteRecipeByID removes recipe id. Only the author may do it.
func (s *ServiceImpl) DeleteRecipeByID(ctx context.Context, id int64, identity string) (err error) {
	ctx, span := otel.Tracer("RecipeService").Start(ctx, "DeleteRecipeByID", trace.WithAttributes(
		attribute.Int64("recipe.id", id),
	))
	defer span.End()
	defer func() { metrics.Get().RecipeOperation(ctx, "delete", err) }()

	l := s.logger.With(slog.String("method", "DeleteRecipeByID"), slog.Int64("recipeID", id), slog.String("identity", identity))

	if _, err = s.authorize(ctx, id, identity); err != nil {
		logRejection(ctx, l, err)
		failSpan(span, err, "Delete rejected")
		return err
	}

	if err = s.repo.DeleteByID(ctx, id); err != nil {
		logRejection(ctx, l, err)
		failSpan(span, err, "Delete failed")
		if errors.Is(err, types.ErrRecipeNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	l.InfoContext(ctx, "Recipe deleted")
	span.SetStatus(codes.Ok, "Recipe deleted")
	return nil
}

// logRejection logs domain refusals at info and store failures at error.
func logRejection(ctx context.Context, l *slog.Logger, err error) {
	if errors.Is(err, types.ErrRecipeNotFound) || errors.Is(err, types.ErrNotAuthor) {
		l.InfoContext(ctx, "Request rejected", slog.Any("reason", err))
		return
	}
	l.ErrorContext(ctx, "Store call failed", slog.Any("error", err))
}
