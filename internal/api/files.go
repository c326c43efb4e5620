package api

// swagger:model api.UploadResponse
type UploadResponse struct {
	PublicID string `json:"public_id" example:"uploads/lesson-1"`
	URL      string `json:"url" example:"https://res.cloudinary.com/demo/image/upload/v1/uploads/lesson-1.pdf"`
}

// swagger:model api.PagesResponse
type PagesResponse struct {
	URLs []string `json:"urls"`
}
