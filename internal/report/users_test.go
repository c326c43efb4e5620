package report

import (
	"bytes"
	"testing"
	"time"

	"coding-club/internal/model"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteUsers(t *testing.T) {
	cert := "https://res.cloudinary.com/demo/raw/upload/c.pdf"
	users := []model.User{
		{ID: 1, Email: "amy@example.com", FirstName: "Amy", LastName: "Lee", Role: model.RoleStudent, Status: model.StatusActive,
			CurrentTopicID: 3, LastTaskID: 2, TotalScore: 150, AverageScore: 75, CertificateURL: &cert,
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: 2, Email: "bob@example.com", Role: model.RoleAdmin, Status: model.StatusActive},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteUsers(&buf, users))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(UsersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Email", rows[0][1])
	require.Equal(t, []string{"1", "amy@example.com", "Amy", "Lee", "student", "active", "3", "2", "150", "75", "0", cert, "2026-01-02T03:04:05Z"}, rows[1])
	require.Equal(t, "admin", rows[2][4])
}

func TestWriteUsersEmpty(t *testing.T) {
	f, err := UsersWorkbook(nil)
	require.NoError(t, err)
	rows, err := f.GetRows(UsersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, []string{UsersSheet}, f.GetSheetList())
}
