package types

import "errors"

var (
	ErrRecipeNotFound          = errors.New("recipe not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrNotAuthor               = errors.New("user is not the author of the recipe")
	ErrInvalidSearchParameters = errors.New("exactly one of name or category must be provided")
)
