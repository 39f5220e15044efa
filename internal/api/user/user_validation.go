package user

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateRegistration returns one entry per invalid field, in field order.
func ValidateRegistration(req types.RegisterRequest) []types.FieldError {
	var errs []types.FieldError
	if !emailPattern.MatchString(req.Email) {
		errs = append(errs, types.FieldError{Field: "email", Message: "Email should be valid"})
	}
	switch {
	case len(strings.TrimSpace(req.Password)) < minPasswordLength:
		errs = append(errs, types.FieldError{Field: "password", Message: "Password should contain at least 8 characters"})
	case len(req.Password) > maxPasswordBytes:
		errs = append(errs, types.FieldError{Field: "password", Message: "Password should not exceed 72 bytes"})
	}
	return errs
}
