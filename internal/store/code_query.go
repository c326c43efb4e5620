package store

import (
	"context"
	"errors"
	"fmt"

	"coding-club/internal/database"
	"coding-club/internal/model"

	"github.com/jackc/pgx/v5"
)

// Progress 為評分通過前使用者所在的主題與任務
type Progress struct {
	CurrentTopicID int
	LastTaskID     int
}

// RecordPassingReview 在同一個交易中寫入提交紀錄並推進使用者的分數與進度
// 總分在 SQL 中累加，平均分數以新的 last_task_id 為分母
func RecordPassingReview(ctx context.Context, db database.DB, q *model.CodeQuery, p Progress) (_ *model.User, err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("RecordPassingReview: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && err == nil {
			err = fmt.Errorf("RecordPassingReview: rollback: %w", rbErr)
		}
	}()

	if q.FileNames == nil {
		q.FileNames = []string{}
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO code_queries (user_id, query, file_content, file_names, criteria, score, hints)
		 VALUES ($1, $2, $3, $4, $5, $6, NULL)
		 RETURNING id, created_at`,
		q.UserID,
		q.Query,
		q.FileContent,
		q.FileNames,
		q.Criteria,
		q.Score,
	).Scan(&q.ID, &q.CreatedAt); err != nil {
		return nil, wrap("RecordPassingReview", err)
	}

	nextTask := p.LastTaskID + 1
	// SET 右側的 total_score 仍是更新前的值，平均分數因此以 total_score + $1 計算
	u, err := scanUser(tx.QueryRow(ctx,
		`UPDATE users
		 SET total_score = total_score + $1,
		     last_task_id = $2,
		     average_score = (total_score + $1)::float8 / $2,
		     current_topic_id = $3,
		     updated_at = now()
		 WHERE id = $4
		 RETURNING `+userColumns,
		q.Score,
		nextTask,
		p.CurrentTopicID+1,
		q.UserID,
	))
	if err != nil {
		return nil, wrap("RecordPassingReview", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("RecordPassingReview: commit: %w", err)
	}
	return u, nil
}

func ListCodeQueriesByUser(ctx context.Context, db database.DB, userID int) ([]model.CodeQuery, error) {
	rows, err := db.Query(ctx,
		`SELECT id, user_id, query, file_content, file_names, criteria, score, hints, created_at
		 FROM code_queries WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, wrap("ListCodeQueriesByUser", err)
	}
	defer rows.Close()

	queries := []model.CodeQuery{}
	for rows.Next() {
		var q model.CodeQuery
		if err := rows.Scan(
			&q.ID,
			&q.UserID,
			&q.Query,
			&q.FileContent,
			&q.FileNames,
			&q.Criteria,
			&q.Score,
			&q.Hints,
			&q.CreatedAt,
		); err != nil {
			return nil, wrap("ListCodeQueriesByUser", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("ListCodeQueriesByUser", err)
	}
	return queries, nil
}
