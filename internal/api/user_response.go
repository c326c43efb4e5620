package api

import (
	"time"

	"coding-club/internal/model"
)

// swagger:model api.UserResponse
type UserResponse struct {
	ID             int       `json:"id" example:"1"`
	Email          string    `json:"email" example:"alice@example.com"`
	FirstName      string    `json:"first_name" example:"Alice"`
	LastName       string    `json:"last_name" example:"Smith"`
	PhoneNumber    string    `json:"phone_number" example:"+2348012345678"`
	Role           string    `json:"role" example:"student"`
	Status         string    `json:"status" example:"active"`
	Progress       float64   `json:"progress" example:"40.5"`
	TotalScore     int       `json:"total_score" example:"240"`
	AverageScore   float64   `json:"average_score" example:"80"`
	CurrentTopicID int       `json:"current_topic_id" example:"4"`
	LastTaskID     int       `json:"last_task_id" example:"3"`
	CertificateURL *string   `json:"certificate_url,omitempty" example:"https://res.cloudinary.com/demo/raw/upload/certificates/Alice_Smith_1700000000.pdf"`
	CreatedAt      time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
	UpdatedAt      time.Time `json:"updated_at" example:"2025-05-01T15:04:05Z"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		PhoneNumber:    u.PhoneNumber,
		Role:           string(u.Role),
		Status:         u.Status,
		Progress:       u.Progress,
		TotalScore:     u.TotalScore,
		AverageScore:   u.AverageScore,
		CurrentTopicID: u.CurrentTopicID,
		LastTaskID:     u.LastTaskID,
		CertificateURL: u.CertificateURL,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
