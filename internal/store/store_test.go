package store

import (
	"time"

	"coding-club/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/* ---------- 假實作 ---------- */

// fakeRow 實作 pgx.Row，依 scanFn 填入目的欄位
type fakeRow struct {
	scanErr error
	scanFn  func(dest ...any)
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	if r.scanFn != nil {
		r.scanFn(dest...)
	}
	return nil
}

func userRow(u model.User) *fakeRow {
	return &fakeRow{scanFn: func(dest ...any) { fillUser(u, dest...) }}
}

func fillUser(u model.User, dest ...any) {
	if len(dest) != 17 {
		panic("fillUser: unexpected number of dest")
	}
	*dest[0].(*int) = u.ID
	*dest[1].(*string) = u.Email
	*dest[2].(*string) = u.PasswordHash
	*dest[3].(*string) = u.FirstName
	*dest[4].(*string) = u.LastName
	*dest[5].(*string) = u.PhoneNumber
	*dest[6].(*float64) = u.Progress
	*dest[7].(*int) = u.TotalScore
	*dest[8].(*float64) = u.AverageScore
	*dest[9].(*string) = string(u.Role)
	*dest[10].(*int) = u.CurrentTopicID
	*dest[11].(*int) = u.LastTaskID
	*dest[12].(**string) = u.ResetPasswordToken
	*dest[13].(**string) = u.CertificateURL
	*dest[14].(*string) = u.Status
	*dest[15].(*time.Time) = u.CreatedAt
	*dest[16].(*time.Time) = u.UpdatedAt
}

// fakeRows 實作 pgx.Rows
type fakeRows struct {
	n       int
	idx     int
	fill    func(i int, dest ...any)
	scanErr error
	err     error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return r.idx < r.n }
func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	r.fill(r.idx, dest...)
	r.idx++
	return nil
}
func (r *fakeRows) Values() ([]any, error) { return nil, nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }
