package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	database "github.com/FACorreiaa/go-recipes-api/app/db"
	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

var _ Repository = (*SQLiteRepository)(nil)

const selectSQLiteRecipe = `
        SELECT r.id, r.name, r.category, r.description, r.ingredients, r.directions,
               r.date_us, r.author_id, u.username
        FROM recipes r
        JOIN users u ON u.id = r.author_id`

// SQLiteRepository is the embedded recipe store. Ingredient and direction lists are
// stored as JSON arrays and dates as unix microseconds.
type SQLiteRepository struct {
	logger *slog.Logger
	db     *database.SQLiteDB
	now    func() time.Time
}

func NewSQLiteRepository(db *database.SQLiteDB, logger *slog.Logger) *SQLiteRepository {
	return &SQLiteRepository{logger: logger, db: db, now: time.Now}
}

func (r *SQLiteRepository) scan(row rowScanner) (types.Recipe, error) {
	var (
		rec                     types.Recipe
		ingredients, directions string
		dateUS                  int64
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Category, &rec.Description, &ingredients, &directions,
		&dateUS, &rec.AuthorID, &rec.Author)
	if err != nil {
		return types.Recipe{}, err
	}
	if err := json.Unmarshal([]byte(ingredients), &rec.Ingredients); err != nil {
		return types.Recipe{}, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(directions), &rec.Directions); err != nil {
		return types.Recipe{}, fmt.Errorf("decode directions: %w", err)
	}
	rec.Date = time.UnixMicro(dateUS).UTC()
	return rec, nil
}

func encodeLists(rec types.Recipe) (string, string, error) {
	ingredients, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return "", "", fmt.Errorf("encode ingredients: %w", err)
	}
	directions, err := json.Marshal(rec.Directions)
	if err != nil {
		return "", "", fmt.Errorf("encode directions: %w", err)
	}
	return string(ingredients), string(directions), nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, recipe types.Recipe) (_ types.Recipe, err error) {
	defer observe(ctx, "sqlite", "insert_recipe", time.Now(), &err)

	ingredients, directions, err := encodeLists(recipe)
	if err != nil {
		return types.Recipe{}, err
	}
	dateUS := r.now().UnixMicro()

	const query = `
        INSERT INTO recipes (name, category, description, ingredients, directions, date_us, author_id)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.Writer.ExecContext(ctx, query,
		recipe.Name, recipe.Category, recipe.Description, ingredients, directions, dateUS, recipe.AuthorID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert recipe", slog.Any("error", err))
		return types.Recipe{}, fmt.Errorf("failed to insert recipe: %w", err)
	}
	if recipe.ID, err = res.LastInsertId(); err != nil {
		return types.Recipe{}, fmt.Errorf("failed to read recipe id: %w", err)
	}
	recipe.Date = time.UnixMicro(dateUS).UTC()
	return recipe, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, recipe types.Recipe) (_ types.Recipe, err error) {
	defer observe(ctx, "sqlite", "update_recipe", time.Now(), &err)

	ingredients, directions, err := encodeLists(recipe)
	if err != nil {
		return types.Recipe{}, err
	}

	const query = `
        UPDATE recipes
        SET name = ?, category = ?, description = ?, ingredients = ?, directions = ?,
            date_us = MAX(?, date_us + 1)
        WHERE id = ?
        RETURNING date_us, author_id`
	var dateUS int64
	err = r.db.Writer.QueryRowContext(ctx, query,
		recipe.Name, recipe.Category, recipe.Description, ingredients, directions, r.now().UnixMicro(), recipe.ID,
	).Scan(&dateUS, &recipe.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Recipe{}, fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, recipe.ID)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update recipe", slog.Int64("recipeID", recipe.ID), slog.Any("error", err))
		return types.Recipe{}, fmt.Errorf("failed to update recipe: %w", err)
	}
	recipe.Date = time.UnixMicro(dateUS).UTC()
	return recipe, nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (_ types.Recipe, err error) {
	defer observe(ctx, "sqlite", "find_recipe_by_id", time.Now(), &err)

	rec, err := r.scan(r.db.Reader.QueryRowContext(ctx, selectSQLiteRecipe+` WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Recipe{}, fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, id)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get recipe", slog.Int64("recipeID", id), slog.Any("error", err))
		return types.Recipe{}, fmt.Errorf("failed to get recipe: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) ExistsByID(ctx context.Context, id int64) (exists bool, err error) {
	defer observe(ctx, "sqlite", "exists_recipe_by_id", time.Now(), &err)

	err = r.db.Reader.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM recipes WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check recipe existence", slog.Int64("recipeID", id), slog.Any("error", err))
		return false, fmt.Errorf("failed to check recipe existence: %w", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) (err error) {
	defer observe(ctx, "sqlite", "delete_recipe", time.Now(), &err)

	res, err := r.db.Writer.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete recipe", slog.Int64("recipeID", id), slog.Any("error", err))
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, id)
	}
	return nil
}

func (r *SQLiteRepository) FindByNameContaining(ctx context.Context, text string) (_ []types.Recipe, err error) {
	defer observe(ctx, "sqlite", "find_recipes_by_name", time.Now(), &err)

	return r.queryRecipes(ctx, selectSQLiteRecipe+`
        WHERE instr(lower(r.name), lower(?)) > 0
        ORDER BY r.date_us DESC, r.id DESC`, text)
}

func (r *SQLiteRepository) FindByCategory(ctx context.Context, category string) (_ []types.Recipe, err error) {
	defer observe(ctx, "sqlite", "find_recipes_by_category", time.Now(), &err)

	return r.queryRecipes(ctx, selectSQLiteRecipe+`
        WHERE r.category = ? COLLATE NOCASE
        ORDER BY r.date_us DESC, r.id DESC`, category)
}

func (r *SQLiteRepository) queryRecipes(ctx context.Context, query string, args ...any) ([]types.Recipe, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to search recipes", slog.Any("error", err))
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer rows.Close()

	recipes := []types.Recipe{}
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe rows: %w", err)
	}
	return recipes, nil
}
