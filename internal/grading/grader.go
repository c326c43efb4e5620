// Package grading 以 AI 供應商為程式碼提交評分，並在通過時推進使用者進度
package grading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"coding-club/internal/database"
	"coding-club/internal/model"
	"coding-club/internal/store"
)

const (
	PassingScore      = 50
	MaxQueryLength    = 10000
	MaxCriteriaLength = 1000
)

var (
	getUserByID         = store.GetUserByID
	recordPassingReview = store.RecordPassingReview
)

// InvalidError 表示請求內容不合法
type InvalidError struct{ msg string }

func (e *InvalidError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &InvalidError{msg: fmt.Sprintf(format, args...)}
}

// UpstreamError 包裝 AI 供應商的失敗
type UpstreamError struct{ Err error }

func (e *UpstreamError) Error() string { return "API call failed: " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

type Request struct {
	Query          string
	Files          []File
	Criteria       string
	UserID         int
	CurrentTopicID int
	LastTaskID     int
}

func (r Request) validate() error {
	switch {
	case r.Criteria == "":
		return invalid("grading criteria is required")
	case utf8.RuneCountInString(r.Criteria) > MaxCriteriaLength:
		return invalid("criteria must be at most %d characters", MaxCriteriaLength)
	case utf8.RuneCountInString(r.Query) > MaxQueryLength:
		return invalid("query must be at most %d characters", MaxQueryLength)
	case r.UserID <= 0:
		return invalid("user ID is required")
	case r.CurrentTopicID <= 0:
		return invalid("valid current topic ID is required")
	case r.LastTaskID < 0:
		return invalid("valid last task ID is required")
	}
	return nil
}

// Result 為評分結果；通過時 Hints 為空並帶回更新後的使用者
type Result struct {
	Score       int
	Hints       string
	UpdatedUser *model.User
}

func (r Result) Passed() bool { return r.Score > PassingScore }

type Grader struct {
	db    database.DB
	model Completer
	log   *slog.Logger
}

func NewGrader(db database.DB, c Completer, log *slog.Logger) *Grader {
	return &Grader{db: db, model: c, log: log}
}

func (g *Grader) Review(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if _, err := getUserByID(ctx, g.db, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid("user with ID %d not found", req.UserID)
		}
		return nil, err
	}

	sub, err := BuildSubmission(req.Query, req.Files)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(sub.Code, req.Criteria)
	g.log.DebugContext(ctx, "grading submission", "user_id", req.UserID, "files", sub.FileNames)

	text, err := g.model.Complete(ctx, prompt)
	if err != nil {
		g.log.ErrorContext(ctx, "AI completion failed", "user_id", req.UserID, "error", err)
		return nil, &UpstreamError{Err: err}
	}

	review := ParseReview(text)
	res := &Result{Score: review.Score, Hints: review.Hints}
	if !res.Passed() {
		return res, nil
	}

	updated, err := recordPassingReview(ctx, g.db, &model.CodeQuery{
		UserID:      req.UserID,
		Query:       sub.Query,
		FileContent: sub.FileContent,
		FileNames:   sub.FileNames,
		Criteria:    req.Criteria,
		Score:       review.Score,
	}, store.Progress{CurrentTopicID: req.CurrentTopicID, LastTaskID: req.LastTaskID})
	if err != nil {
		return nil, err
	}
	g.log.InfoContext(ctx, "submission passed",
		"user_id", updated.ID,
		"score", review.Score,
		"total_score", updated.TotalScore,
		"average_score", updated.AverageScore,
		"current_topic_id", updated.CurrentTopicID,
	)

	res.Hints = ""
	res.UpdatedUser = updated
	return res, nil
}
