package store

import (
	"context"
	"errors"
	"fmt"

	"coding-club/internal/database"
	"coding-club/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

const userColumns = `id, email, password_hash, first_name, last_name, phone_number,
	progress, total_score, average_score, role::text, current_topic_id, last_task_id,
	reset_password_token, certificate_url, status, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.PhoneNumber,
		&u.Progress,
		&u.TotalScore,
		&u.AverageScore,
		(*string)(&u.Role),
		&u.CurrentTopicID,
		&u.LastTaskID,
		&u.ResetPasswordToken,
		&u.CertificateURL,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

// wrap 將 pgx 錯誤轉為 store 的哨兵錯誤並加上函式名稱
func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	))
	if err != nil {
		return nil, wrap("GetUserByID", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		return nil, wrap("GetUserByEmail", err)
	}
	return u, nil
}

func GetUserByResetToken(ctx context.Context, db database.DB, token string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE reset_password_token = $1`,
		token,
	))
	if err != nil {
		return nil, wrap("GetUserByResetToken", err)
	}
	return u, nil
}

func ListUsers(ctx context.Context, db database.DB) ([]model.User, error) {
	rows, err := db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, wrap("ListUsers", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrap("ListUsers", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("ListUsers", err)
	}
	return users, nil
}

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	if u.Status == "" {
		u.Status = model.StatusActive
	}
	row := db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, phone_number, progress, role, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, current_topic_id, last_task_id, created_at, updated_at`,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.PhoneNumber,
		u.Progress,
		string(u.Role),
		u.Status,
	)
	if err := row.Scan(&u.ID, &u.CurrentTopicID, &u.LastTaskID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, wrap("CreateUser", err)
	}
	return u, nil
}

// UpdateUser 更新個人資料欄位；分數與進度只由評分流程寫入
func UpdateUser(ctx context.Context, db database.DB, u *model.User) error {
	tag, err := db.Exec(ctx,
		`UPDATE users
		 SET email = $1, first_name = $2, last_name = $3, phone_number = $4,
		     progress = $5, role = $6, status = $7, updated_at = now()
		 WHERE id = $8`,
		u.Email,
		u.FirstName,
		u.LastName,
		u.PhoneNumber,
		u.Progress,
		string(u.Role),
		u.Status,
		u.ID,
	)
	if err != nil {
		return wrap("UpdateUser", err)
	}
	if tag.RowsAffected() == 0 {
		return wrap("UpdateUser", pgx.ErrNoRows)
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, db database.DB, userID int, passwordHash string) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1, reset_password_token = NULL, updated_at = now()
		 WHERE id = $2`,
		passwordHash,
		userID,
	)
	if err != nil {
		return wrap("UpdateUserPassword", err)
	}
	return nil
}

// SetResetPasswordToken 寫入或清除 (token == nil) 密碼重設令牌
func SetResetPasswordToken(ctx context.Context, db database.DB, userID int, token *string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET reset_password_token = $1, updated_at = now() WHERE id = $2`,
		token,
		userID,
	)
	if err != nil {
		return wrap("SetResetPasswordToken", err)
	}
	return nil
}

func SetCertificateURL(ctx context.Context, db database.DB, userID int, url string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET certificate_url = $1, updated_at = now() WHERE id = $2`,
		url,
		userID,
	)
	if err != nil {
		return wrap("SetCertificateURL", err)
	}
	return nil
}

func DeleteUser(ctx context.Context, db database.DB, ID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM users WHERE id = $1`,
		ID,
	)
	if err != nil {
		return wrap("DeleteUser", err)
	}
	if tag.RowsAffected() == 0 {
		return wrap("DeleteUser", pgx.ErrNoRows)
	}
	return nil
}
