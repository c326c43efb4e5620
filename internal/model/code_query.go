// File: internal/model/code_query.go
package model

import "time"

// CodeQuery 記錄一次通過評分的程式碼提交
type CodeQuery struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	Query       *string   `db:"query" json:"query,omitempty"`
	FileContent *string   `db:"file_content" json:"file_content,omitempty"`
	FileNames   []string  `db:"file_names" json:"file_names"`
	Criteria    string    `db:"criteria" json:"criteria"`
	Score       int       `db:"score" json:"score"`
	Hints       *string   `db:"hints" json:"hints,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
