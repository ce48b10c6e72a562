package model

// User represents a system user; every user may act as a provider
type User struct {
	Base
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	Avatar       *string `db:"avatar" json:"avatar"`
}

// CreateUserRequest represents sign-up parameters
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateProfileRequest represents profile update parameters.
// Password changes require the old password.
type UpdateProfileRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    *string `json:"password"`
	OldPassword *string `json:"old_password"`
}

// LoginRequest represents session creation parameters
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
