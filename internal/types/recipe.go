package types

import "time"

// Recipe is a stored recipe together with its author reference.
type Recipe struct {
	ID          int64     `json:"id" example:"1"`
	Name        string    `json:"name" example:"Omelette"`
	Category    string    `json:"category" example:"Breakfast"`
	Description string    `json:"description" example:"Quick"`
	Ingredients []string  `json:"ingredients"`
	Directions  []string  `json:"directions"`
	Date        time.Time `json:"date"` // Last modification, stamped by the store on every write.
	AuthorID    int64     `json:"-"`    // Set once at creation.
	Author      string    `json:"-"`    // Username of AuthorID, read-only.
}

// RecipeDraft holds the caller-supplied fields of a recipe before it is stored.
// Updates use the same shape since they replace all five fields at once.
type RecipeDraft struct {
	Name        string   `json:"name" example:"Omelette"`
	Category    string   `json:"category" example:"Breakfast"`
	Description string   `json:"description" example:"Quick"`
	Ingredients []string `json:"ingredients"`
	Directions  []string `json:"directions"`
}

// CreateRecipeResponse is returned by POST /api/recipe/new.
type CreateRecipeResponse struct {
	ID int64 `json:"id" example:"1"`
}

// RecipeResponse is the wire shape of a single recipe.
type RecipeResponse struct {
	ID          int64     `json:"id" example:"1"`
	Name        string    `json:"name" example:"Omelette"`
	Category    string    `json:"category" example:"Breakfast"`
	Date        time.Time `json:"date"`
	Description string    `json:"description" example:"Quick"`
	Ingredients []string  `json:"ingredients"`
	Directions  []string  `json:"directions"`
}

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field" example:"name"`
	Message string `json:"message" example:"Name shouldn't be blank"`
}

// ValidationErrorResponse is written when request validation fails.
type ValidationErrorResponse struct {
	Status  int          `json:"status" example:"400"`
	Message string       `json:"message" example:"name Name shouldn't be blank"`
	Errors  []FieldError `json:"errors"`
}
