package api

// swagger:model api.ForgotPasswordRequest
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email" example:"john.doe@example.com"`
}

// swagger:model api.ResetPasswordRequest
type ResetPasswordRequest struct {
	Token    string `json:"token" form:"token" validate:"required" example:"eyJhbGciOi..."`
	Password string `json:"password" form:"password" validate:"required,min=8" example:"NewSecret456!"`
}

// swagger:model api.UpdateMyPasswordRequest
type UpdateMyPasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required" example:"OldSecret123!"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=8" example:"NewSecret456!"`
}
