// Package report 匯出使用者學習進度試算表
package report

import (
	"io"
	"time"

	"coding-club/internal/model"

	"github.com/xuri/excelize/v2"
)

const UsersSheet = "Users"

var usersHeader = []interface{}{
	"ID", "Email", "First Name", "Last Name", "Role", "Status",
	"Current Topic", "Last Task", "Total Score", "Average Score", "Progress",
	"Certificate URL", "Created At",
}

// UsersWorkbook 每位使用者一列，第一列為粗體標題並凍結
func UsersWorkbook(users []model.User) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", UsersSheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(UsersSheet, "A1", &usersHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(usersHeader))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(UsersSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	if err := f.SetPanes(UsersSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	for i, u := range users {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		certificate := ""
		if u.CertificateURL != nil {
			certificate = *u.CertificateURL
		}
		row := []interface{}{
			u.ID, u.Email, u.FirstName, u.LastName, string(u.Role), u.Status,
			u.CurrentTopicID, u.LastTaskID, u.TotalScore, u.AverageScore, u.Progress,
			certificate, u.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(UsersSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteUsers 將試算表寫入 w
func WriteUsers(w io.Writer, users []model.User) error {
	f, err := UsersWorkbook(users)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}
