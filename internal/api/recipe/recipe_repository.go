package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-recipes-api/app/db"
	"github.com/FACorreiaa/go-recipes-api/app/observability/metrics"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the recipe store. Every write stamps Date with a value strictly
// greater than the previous one for that recipe. Searches return newest first,
// with the higher id first on equal dates.
type Repository interface {
	// Insert assigns ID and Date. AuthorID and Author are taken from recipe.
	Insert(ctx context.Context, recipe types.Recipe) (types.Recipe, error)
	// Update replaces the editable fields of recipe.ID and returns the stored record.
	Update(ctx context.Context, recipe types.Recipe) (types.Recipe, error)
	FindByID(ctx context.Context, id int64) (types.Recipe, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
	// FindByNameContaining matches text as a case-insensitive substring of the name.
	FindByNameContaining(ctx context.Context, text string) ([]types.Recipe, error)
	// FindByCategory matches category case-insensitively and exactly.
	FindByCategory(ctx context.Context, category string) ([]types.Recipe, error)
}

const selectRecipe = `
        SELECT r.id, r.name, r.category, r.description, r.ingredients, r.directions,
               r.date, r.author_id, u.username
        FROM recipes r
        JOIN users u ON u.id = r.author_id`

type rowScanner interface {
	Scan(dest ...any) error
}

// RepositoryImpl is the postgres recipe store.
type RepositoryImpl struct {
	logger *slog.Logger
	pgpool database.PgxIface
}

func NewRepository(pgpool database.PgxIface, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func scanRecipe(row rowScanner) (types.Recipe, error) {
	var rec types.Recipe
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Category, &rec.Description, &rec.Ingredients, &rec.Directions,
		&rec.Date, &rec.AuthorID, &rec.Author,
	)
	return rec, err
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", "postgresql"))
	return otel.Tracer("RecipeRepository").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *RepositoryImpl) Insert(ctx context.Context, recipe types.Recipe) (_ types.Recipe, err error) {
	ctx, span := startSpan(ctx, "Insert", attribute.Int64("user.id", recipe.AuthorID))
	defer span.End()
	defer observe(ctx, "postgres", "insert_recipe", time.Now(), &err)

	query := `
        INSERT INTO recipes (name, category, description, ingredients, directions, author_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, date`
	err = r.pgpool.QueryRow(ctx, query,
		recipe.Name, recipe.Category, recipe.Description, recipe.Ingredients, recipe.Directions, recipe.AuthorID,
	).Scan(&recipe.ID, &recipe.Date)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert recipe", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return types.Recipe{}, fmt.Errorf("failed to insert recipe: %w", err)
	}
	span.SetAttributes(attribute.Int64("recipe.id", recipe.ID))
	return recipe, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, recipe types.Recipe) (_ types.Recipe, err error) {
	ctx, span := startSpan(ctx, "Update", attribute.Int64("recipe.id", recipe.ID))
	defer span.End()
	defer observe(ctx, "postgres", "update_recipe", time.Now(), &err)

	// clock_timestamp() moves within a transaction; GREATEST keeps the stamp strictly increasing.
	query := `
        UPDATE recipes
        SET name = $2, category = $3, description = $4, ingredients = $5, directions = $6,
            date = GREATEST(clock_timestamp(), date + interval '1 microsecond')
        WHERE id = $1
        RETURNING date, author_id`
	err = r.pgpool.QueryRow(ctx, query,
		recipe.ID, recipe.Name, recipe.Category, recipe.Description, recipe.Ingredients, recipe.Directions,
	).Scan(&recipe.Date, &recipe.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Recipe not found")
			return types.Recipe{}, fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, recipe.ID)
		}
		r.logger.ErrorContext(ctx, "Failed to update recipe", slog.Int64("recipeID", recipe.ID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return types.Recipe{}, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id int64) (_ types.Recipe, err error) {
	ctx, span := startSpan(ctx, "FindByID", attribute.Int64("recipe.id", id))
	defer span.End()
	defer observe(ctx, "postgres", "find_recipe_by_id", time.Now(), &err)

	rec, err := scanRecipe(r.pgpool.QueryRow(ctx, selectRecipe+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Recipe not found")
			return types.Recipe{}, fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, id)
		}
		r.logger.ErrorContext(ctx, "Failed to get recipe", slog.Int64("recipeID", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return types.Recipe{}, fmt.Errorf("failed to get recipe: %w", err)
	}
	return rec, nil
}

func (r *RepositoryImpl) ExistsByID(ctx context.Context, id int64) (exists bool, err error) {
	ctx, span := startSpan(ctx, "ExistsByID", attribute.Int64("recipe.id", id))
	defer span.End()
	defer observe(ctx, "postgres", "exists_recipe_by_id", time.Now(), &err)

	if err = r.pgpool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)`, id).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check recipe existence", slog.Int64("recipeID", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return false, fmt.Errorf("failed to check recipe existence: %w", err)
	}
	return exists, nil
}

func (r *RepositoryImpl) DeleteByID(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "DeleteByID", attribute.Int64("recipe.id", id))
	defer span.End()
	defer observe(ctx, "postgres", "delete_recipe", time.Now(), &err)

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete recipe", slog.Int64("recipeID", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Recipe not found")
		return fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, id)
	}
	return nil
}

func (r *RepositoryImpl) FindByNameContaining(ctx context.Context, text string) (_ []types.Recipe, err error) {
	ctx, span := startSpan(ctx, "FindByNameContaining")
	defer span.End()
	defer observe(ctx, "postgres", "find_recipes_by_name", time.Now(), &err)

	// strpos keeps % and _ in the search text literal.
	return r.queryRecipes(ctx, span, selectRecipe+`
        WHERE strpos(lower(r.name), lower($1)) > 0
        ORDER BY r.date DESC, r.id DESC`, text)
}

func (r *RepositoryImpl) FindByCategory(ctx context.Context, category string) (_ []types.Recipe, err error) {
	ctx, span := startSpan(ctx, "FindByCategory")
	defer span.End()
	defer observe(ctx, "postgres", "find_recipes_by_category", time.Now(), &err)

	return r.queryRecipes(ctx, span, selectRecipe+`
        WHERE lower(r.category) = lower($1)
        ORDER BY r.date DESC, r.id DESC`, category)
}

func (r *RepositoryImpl) queryRecipes(ctx context.Context, span trace.Span, query string, args ...any) ([]types.Recipe, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to search recipes", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer rows.Close()

	recipes := []types.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan recipe", slog.Any("error", err))
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating recipe rows", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating recipe rows: %w", err)
	}
	span.SetAttributes(attribute.Int("recipes.count", len(recipes)))
	return recipes, nil
}

// observe records query latency. A missing recipe is an expected outcome, not a query error.
func observe(ctx context.Context, store, query string, start time.Time, errp *error) {
	err := *errp
	if errors.Is(err, types.ErrRecipeNotFound) {
		err = nil
	}
	metrics.Get().ObserveQuery(ctx, store, query, start, err)
}
