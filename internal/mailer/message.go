// Package mailer 以內嵌樣板產生郵件並透過 SendGrid 或 console 寄送
package mailer

import (
	"bytes"
	"context"
	"embed"
	htmltmpl "html/template"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

const (
	TemplateResetPassword = "reset_password"
	TemplateRegistration  = "registration"
	TemplateCertificate   = "certificate"
)

//go:embed templates/*
var templateFS embed.FS

// Mailer 寄出單封郵件，失敗時回傳錯誤
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// Message 描述一封樣板郵件；Render 後填入 Text 與 HTML
type Message struct {
	To       string
	ToName   string
	Subject  string
	Template string // 不含副檔名
	Data     any

	Text string
	HTML string
}

// TemplateData 是三種樣板共用的欄位
type TemplateData struct {
	Name   string
	Link   string
	Course string
	Date   string
}

func (m *Message) Render() error {
	if m.Template == "" {
		return errors.New("mailer: message has no template")
	}

	txt, err := texttmpl.New("").Option("missingkey=error").
		ParseFS(templateFS, "templates/_base.txt", "templates/"+m.Template+".txt")
	if err != nil {
		return errors.Wrapf(err, "parsing %s text template", m.Template)
	}
	var buf bytes.Buffer
	if err := txt.ExecuteTemplate(&buf, "base", m.Data); err != nil {
		return errors.Wrapf(err, "rendering %s text template", m.Template)
	}
	m.Text = buf.String()

	html, err := htmltmpl.New("").Option("missingkey=error").
		ParseFS(templateFS, "templates/_base.gohtml", "templates/"+m.Template+".gohtml")
	if err != nil {
		return errors.Wrapf(err, "parsing %s html template", m.Template)
	}
	buf.Reset()
	if err := html.ExecuteTemplate(&buf, "base", m.Data); err != nil {
		return errors.Wrapf(err, "rendering %s html template", m.Template)
	}
	m.HTML = buf.String()
	return nil
}

func ResetPasswordMessage(to, name, link string) *Message {
	return &Message{
		To:       to,
		ToName:   name,
		Subject:  "Password Reset Request",
		Template: TemplateResetPassword,
		Data:     TemplateData{Name: name, Link: link},
	}
}

func RegistrationMessage(to, name, link string) *Message {
	return &Message{
		To:       to,
		ToName:   name,
		Subject:  "Welcome to Beks Coding Club - Confirm Your Registration",
		Template: TemplateRegistration,
		Data:     TemplateData{Name: name, Link: link},
	}
}

func CertificateMessage(to, name, course, date, link string) *Message {
	return &Message{
		To:       to,
		ToName:   name,
		Subject:  "Your Certificate of Completion - Beks Coding Club",
		Template: TemplateCertificate,
		Data:     TemplateData{Name: name, Link: link, Course: course, Date: date},
	}
}
