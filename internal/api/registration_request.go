package api

// swagger:model api.RegistrationLinkRequest
type RegistrationLinkRequest struct {
	Email     string `json:"email" form:"email" validate:"required,email" example:"john.doe@example.com"`
	FirstName string `json:"first_name" form:"first_name" validate:"required" example:"John"`
}

// swagger:model api.ConfirmRegistrationRequest
type ConfirmRegistrationRequest struct {
	Token       string `json:"token" form:"token" validate:"required,hexadecimal,len=64" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
	Email       string `json:"email" form:"email" validate:"required,email" example:"john.doe@example.com"`
	Password    string `json:"password" form:"password" validate:"required,min=8" example:"Secret123!"`
	FirstName   string `json:"first_name" form:"first_name" validate:"required" example:"John"`
	LastName    string `json:"last_name" form:"last_name" validate:"required" example:"Doe"`
	PhoneNumber string `json:"phone_number" form:"phone_number" example:"+2348012345678"`
}
