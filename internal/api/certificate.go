package api

// swagger:model api.CertificateRequest
type CertificateRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required" example:"Alice"`
	LastName  string `json:"last_name" form:"last_name" validate:"required" example:"Smith"`
	Email     string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
}

// swagger:model api.CertificateResponse
type CertificateResponse struct {
	Message string `json:"message" example:"certificate generated and email with download link sent successfully"`
	URL     string `json:"url" example:"https://res.cloudinary.com/demo/raw/upload/certificates/Alice_Smith_1700000000.pdf"`
}
