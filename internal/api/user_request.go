package api

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Email       string  `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Password    string  `json:"password" form:"password" validate:"required,min=8" example:"Secret123!"`
	FirstName   string  `json:"first_name" form:"first_name" example:"Alice"`
	LastName    string  `json:"last_name" form:"last_name" example:"Smith"`
	PhoneNumber string  `json:"phone_number" form:"phone_number" example:"+2348012345678"`
	Progress    float64 `json:"progress" form:"progress" validate:"gte=0,lte=100" example:"0"`
	Role        string  `json:"role" form:"role" validate:"required,oneof=admin student" example:"student"`
}

// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Email       string  `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	FirstName   string  `json:"first_name" form:"first_name" example:"Alice"`
	LastName    string  `json:"last_name" form:"last_name" example:"Smith"`
	PhoneNumber string  `json:"phone_number" form:"phone_number" example:"+2348012345678"`
	Progress    float64 `json:"progress" form:"progress" validate:"gte=0,lte=100" example:"40.5"`
	Role        string  `json:"role" form:"role" validate:"required,oneof=admin student" example:"student"`
	Status      string  `json:"status" form:"status" validate:"required,oneof=active disabled" example:"active"`
}

// swagger:model api.UpdateMeRequest
type UpdateMeRequest struct {
	Email       string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	FirstName   string `json:"first_name" form:"first_name" example:"Alice"`
	LastName    string `json:"last_name" form:"last_name" example:"Smith"`
	PhoneNumber string `json:"phone_number" form:"phone_number" example:"+2348012345678"`
}
