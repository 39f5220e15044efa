package recipe

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps recipes in process memory. Used by the memory storage driver and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	recipes map[int64]types.Recipe
	nextID  int64
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		recipes: make(map[int64]types.Recipe),
		now:     time.Now,
	}
}

func cloneRecipe(r types.Recipe) types.Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	r.Directions = slices.Clone(r.Directions)
	return r
}

// stamp returns the current time truncated to the precision the SQL stores keep,
// moved past prev when the clock has not advanced.
func (r *MemoryRepository) stamp(prev time.Time) time.Time {
	now := r.now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

func (r *MemoryRepository) Insert(_ context.Context, recipe types.Recipe) (types.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	recipe.ID = r.nextID
	recipe.Date = r.stamp(time.Time{})
	r.recipes[recipe.ID] = cloneRecipe(recipe)
	return cloneRecipe(recipe), nil
}

func (r *MemoryRepository) Update(_ context.Context, recipe types.Recipe) (types.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.recipes[recipe.ID]
	if !ok {
		return types.Recipe{}, fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, recipe.ID)
	}
	stored.Name = recipe.Name
	stored.Category = recipe.Category
	stored.Description = recipe.Description
	stored.Ingredients = slices.Clone(recipe.Ingredients)
	stored.Directions = slices.Clone(recipe.Directions)
	stored.Date = r.stamp(stored.Date)
	r.recipes[recipe.ID] = stored
	return cloneRecipe(stored), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (types.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recipes[id]
	if !ok {
		return types.Recipe{}, fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, id)
	}
	return cloneRecipe(rec), nil
}

func (r *MemoryRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.recipes[id]
	return ok, nil
}

func (r *MemoryRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[id]; !ok {
		return fmt.Errorf("%w: id %d", types.ErrRecipeNotFound, id)
	}
	delete(r.recipes, id)
	return nil
}

func (r *MemoryRepository) FindByNameContaining(_ context.Context, text string) ([]types.Recipe, error) {
	needle := strings.ToLower(text)
	return r.filter(func(rec types.Recipe) bool {
		return strings.Contains(strings.ToLower(rec.Name), needle)
	}), nil
}

func (r *MemoryRepository) FindByCategory(_ context.Context, category string) ([]types.Recipe, error) {
	return r.filter(func(rec types.Recipe) bool {
		return strings.EqualFold(rec.Category, category)
	}), nil
}

func (r *MemoryRepository) filter(match func(types.Recipe) bool) []types.Recipe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []types.Recipe{}
	for _, rec := range r.recipes {
		if match(rec) {
			out = append(out, cloneRecipe(rec))
		}
	}
	slices.SortFunc(out, func(a, b types.Recipe) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}
