package types

// User is a registered account. Password holds the bcrypt hash, never the raw value.
type User struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"a@x.com"`
	Password string `json:"-"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"secret123"`
}
