package auth

import (
	"github.com/wayplan/backend/internal/users"
)

// SignupRequest carries the fields needed to create an account.
type SignupRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8,max=128"`
	FirstName  string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	ProfilePic int     `json:"profile_pic" validate:"gte=0"`
}

// LoginRequest carries the credentials for an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the account plus a signed access token.
type AuthResponse struct {
	User        *users.UserDTO `json:"user"`
	AccessToken string         `json:"access_token"`
}

// ForgotPasswordRequest asks for a reset token for the given email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordResponse is deliberately the same whether or not the email
// exists. ResetToken is populated only in dev, where there is no mail relay.
type ForgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token,omitempty"`
}

// ResetPasswordRequest consumes a reset token and sets a new password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}
