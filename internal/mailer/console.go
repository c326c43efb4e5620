package mailer

import (
	"context"
	"log/slog"
)

// ConsoleMailer 只把郵件內容寫進日誌，未設定 SendGrid 時使用
type ConsoleMailer struct {
	log *slog.Logger
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(log *slog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (c *ConsoleMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.Render(); err != nil {
		return err
	}
	c.log.InfoContext(ctx, "email",
		"to", msg.To,
		"subject", msg.Subject,
		"template", msg.Template,
		"text", msg.Text,
	)
	return nil
}
