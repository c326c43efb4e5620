// File: internal/model/user.go
package model

import "time"

// Role 對應 users.role 欄位
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid 回報角色是否為已知值
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

type User struct {
	ID                 int       `db:"id" json:"id"`
	Email              string    `db:"email" json:"email"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	FirstName          string    `db:"first_name" json:"first_name"`
	LastName           string    `db:"last_name" json:"last_name"`
	PhoneNumber        string    `db:"phone_number" json:"phone_number"`
	Progress           float64   `db:"progress" json:"progress"`
	TotalScore         int       `db:"total_score" json:"total_score"`
	AverageScore       float64   `db:"average_score" json:"average_score"`
	Role               Role      `db:"role" json:"role"`
	CurrentTopicID     int       `db:"current_topic_id" json:"current_topic_id"`
	LastTaskID         int       `db:"last_task_id" json:"last_task_id"`
	ResetPasswordToken *string   `db:"reset_password_token" json:"-"`
	CertificateURL     *string   `db:"certificate_url" json:"certificate_url,omitempty"`
	Status             string    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// FullName 組合姓名，兩者皆空時回傳空字串
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
