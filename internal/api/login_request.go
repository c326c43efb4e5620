package api

import "time"

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"john.doe@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"password123"`
	Role     string `json:"role" form:"role" validate:"required,oneof=admin student" example:"student"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	AccessToken string       `json:"access_token" example:"eyJhbGciOi..."`
	ExpiresAt   time.Time    `json:"expires_at" example:"2025-05-09T15:04:05Z"`
	User        UserResponse `json:"user"`
}
