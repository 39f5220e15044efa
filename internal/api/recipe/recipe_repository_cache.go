package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

var _ Repository = (*CachedRepository)(nil)

// CachedRepository keeps recently read recipes in memory in front of another store.
// Writes that go through it refresh, invalidate or tombstone the entry. Writes that
// bypass it are visible once the entry expires.
//
// Reads fill the cache only when the key is absent, so a read that started before a
// write can never overwrite what that write left behind.
type CachedRepository struct {
	next   Repository
	cache  *cache.Cache
	logger *slog.Logger
}

type entryState int

const (
	entryLive entryState = iota
	// entryStale blocks read fills until it expires; lookups treat it as a miss.
	entryStale
	// entryDeleted answers not-found. Ids are never reused, so it cannot hide a later row.
	entryDeleted
)

type cacheEntry struct {
	recipe types.Recipe
	state  entryState
}

func NewCachedRepository(next Repository, ttl, cleanup time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		cache:  cache.New(ttl, cleanup),
		logger: logger,
	}
}

func cacheKey(id int64) string {
	return "recipe:" + strconv.FormatInt(id, 10)
}

func (c *CachedRepository) lookup(ctx context.Context, id int64) (types.Recipe, entryState, bool) {
	key := cacheKey(id)
	_, span := otel.Tracer("RecipeCache").Start(ctx, "lookup")
	defer span.End()
	span.SetAttributes(attribute.String("cache.key", key))

	cached, found := c.cache.Get(key)
	if !found {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return types.Recipe{}, entryStale, false
	}
	entry := cached.(cacheEntry)
	hit := entry.state != entryStale
	span.SetAttributes(attribute.Bool("cache.hit", hit), attribute.Bool("cache.tombstone", entry.state == entryDeleted))
	if !hit {
		return types.Recipe{}, entryStale, false
	}
	return cloneRecipe(entry.recipe), entry.state, true
}

func (c *CachedRepository) store(id int64, entry cacheEntry) {
	entry.recipe = cloneRecipe(entry.recipe)
	c.cache.Set(cacheKey(id), entry, cache.DefaultExpiration)
}

func (c *CachedRepository) Insert(ctx context.Context, recipe types.Recipe) (types.Recipe, error) {
	stored, err := c.next.Insert(ctx, recipe)
	if err != nil {
		return types.Recipe{}, err
	}
	c.store(stored.ID, cacheEntry{recipe: stored})
	return stored, nil
}

func (c *CachedRepository) Update(ctx context.Context, recipe types.Recipe) (types.Recipe, error) {
	stored, err := c.next.Update(ctx, recipe)
	if err != nil {
		if errors.Is(err, types.ErrRecipeNotFound) {
			c.store(recipe.ID, cacheEntry{state: entryDeleted})
		} else {
			// The write may still have landed.
			c.store(recipe.ID, cacheEntry{state: entryStale})
		}
		return types.Recipe{}, err
	}
	// Update does not return the author's username; keep it from the input.
	if stored.Author == "" {
		stored.Author = recipe.Author
	}
	if stored.Author != "" {
		c.store(stored.ID, cacheEntry{recipe: stored})
	} else {
		c.store(stored.ID, cacheEntry{state: entryStale})
	}
	return stored, nil
}

func (c *CachedRepository) FindByID(ctx context.Context, id int64) (types.Recipe, error) {
	if rec, state, ok := c.lookup(ctx, id); ok {
		if state == entryDeleted {
			return types.Recipe{}, fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, id)
		}
		return rec, nil
	}
	rec, err := c.next.FindByID(ctx, id)
	if err != nil {
		return types.Recipe{}, err
	}
	if c.cache.Add(cacheKey(id), cacheEntry{recipe: cloneRecipe(rec)}, cache.DefaultExpiration) == nil {
		c.logger.DebugContext(ctx, "Cached recipe", slog.Int64("recipeID", id))
	}
	return rec, nil
}

func (c *CachedRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if _, state, ok := c.lookup(ctx, id); ok {
		return state == entryLive, nil
	}
	return c.next.ExistsByID(ctx, id)
}

func (c *CachedRepository) DeleteByID(ctx context.Context, id int64) error {
	err := c.next.DeleteByID(ctx, id)
	switch {
	case err == nil || errors.Is(err, types.ErrRecipeNotFound):
		c.store(id, cacheEntry{state: entryDeleted})
	default:
		c.store(id, cacheEntry{state: entryStale})
	}
	return err
}

// Searches always hit the underlying store.
func (c *CachedRepository) FindByNameContaining(ctx context.Context, text string) ([]types.Recipe, error) {
	return c.next.FindByNameContaining(ctx, text)
}

func (c *CachedRepository) FindByCategory(ctx context.Context, category string) ([]types.Recipe, error) {
	return c.next.FindByCategory(ctx, category)
}
