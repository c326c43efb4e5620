package api

// swagger:model api.ReviewRequest
type ReviewRequest struct {
	Query          string `form:"query" validate:"max=10000" example:"function add(a, b) { return a + b; }"`
	Criteria       string `form:"criteria" validate:"required,max=1000" example:"Check for readability, efficiency, and best practices"`
	UserID         int    `form:"user_id" validate:"gte=0" example:"1"`
	CurrentTopicID *int   `form:"current_topic_id" validate:"required,gt=0" example:"5"`
	LastTaskID     *int   `form:"last_task_id" validate:"required,gte=0" example:"12"`
}

// swagger:model api.ReviewResponse
type ReviewResponse struct {
	Score       int           `json:"score" example:"85"`
	Hints       string        `json:"hints" example:"Use more descriptive variable names"`
	UpdatedUser *UserResponse `json:"updated_user,omitempty"`
}
