package recipe

import (
	"strings"

	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

// ValidateDraft returns one entry per invalid field, in field order.
func ValidateDraft(d types.RecipeDraft) []types.FieldError {
	var errs []types.FieldError
	blank := func(field, value, message string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, types.FieldError{Field: field, Message: message})
		}
	}
	blank("name", d.Name, "Name shouldn't be blank")
	blank("category", d.Category, "Category shouldn't be blank")
	blank("description", d.Description, "Description shouldn't be blank")
	if len(d.Ingredients) == 0 {
		errs = append(errs, types.FieldError{Field: "ingredients", Message: "Ingredients shouldn't be empty"})
	}
	if len(d.Directions) == 0 {
		errs = append(errs, types.FieldError{Field: "directions", Message: "Directions shouldn't be empty"})
	}
	return errs
}
