// Package certificate 產生結業證書 PDF，上傳後寄送下載連結
package certificate

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	Track  = "Beks Coding Club Foundation Track"
	Course = "Fundamentals of HTML and CSS"
	Issuer = "Issued by Beks Coding Club"

	margin = 13.2
)

type rgb struct{ r, g, b int }

var (
	blue  = rgb{0, 82, 204}
	light = rgb{38, 132, 255}
	dark  = rgb{51, 51, 51}
	grey  = rgb{119, 119, 119}
)

// Render 以橫式 A4 繪製證書並回傳 PDF 內容
func Render(firstName, lastName string, issuedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w, h := pdf.GetPageSize()

	line := func(y float64, size float64, style string, c rgb, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(c.r, c.g, c.b)
		pdf.SetXY(margin, y+margin)
		pdf.CellFormat(w-2*margin, size*0.5, tr(text), "", 0, "C", false, 0, "")
	}

	line(20, 30, "B", blue, "Certificate of Completion")
	line(35, 20, "", dark, Track)
	line(45, 18, "", dark, Course)
	line(75, 16, "", dark, "This certifies that")
	line(85, 24, "B", light, firstName+" "+lastName)
	line(105, 16, "", dark, "has successfully completed the course on")
	line(115, 14, "", dark, "Date: "+issuedAt.Format("January 2, 2006"))
	line(135, 12, "I", grey, Issuer)

	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(blue.r, blue.g, blue.b)
	pdf.Rect(margin, margin, w-2*margin, h-2*margin, "D")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "rendering certificate")
	}
	return buf.Bytes(), nil
}
