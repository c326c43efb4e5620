// Package logger 建立服務共用的 slog.Logger
// 設定 Rollbar token 時，Error 以上的紀錄同時回報到 Rollbar
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/rollbar/rollbar-go"
)

// reporter 是 *rollbar.Client 用到的方法
type reporter interface {
	MessageWithExtras(level string, msg string, extras map[string]interface{})
	Close() error
}

var newRollbarClient = func(token, env string) reporter {
	host, _ := os.Hostname()
	return rollbar.New(token, env, "", host, "")
}

type Options struct {
	Level        slog.Level
	Env          string
	RollbarToken string
}

// New 回傳 JSON logger 與關閉函式（送出尚未完成的 Rollbar 請求）
func New(w io.Writer, opts Options) (*slog.Logger, func()) {
	var h slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	closeFn := func() {}
	if opts.RollbarToken != "" {
		client := newRollbarClient(opts.RollbarToken, opts.Env)
		h = &rollbarHandler{Handler: h, client: client}
		closeFn = func() { _ = client.Close() }
	}
	return slog.New(h), closeFn
}

type rollbarHandler struct {
	slog.Handler
	client reporter
	attrs  []slog.Attr
}

func (h *rollbarHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		extras := make(map[string]interface{}, len(h.attrs)+r.NumAttrs())
		for _, a := range h.attrs {
			extras[a.Key] = attrValue(a.Value)
		}
		r.Attrs(func(a slog.Attr) bool {
			extras[a.Key] = attrValue(a.Value)
			return true
		})
		h.client.MessageWithExtras(rollbar.ERR, r.Message, extras)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *rollbarHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &rollbarHandler{Handler: h.Handler.WithAttrs(attrs), client: h.client, attrs: merged}
}

func (h *rollbarHandler) WithGroup(name string) slog.Handler {
	return &rollbarHandler{Handler: h.Handler.WithGroup(name), client: h.client, attrs: h.attrs}
}

func attrValue(v slog.Value) interface{} {
	v = v.Resolve()
	if err, ok := v.Any().(error); ok {
		return err.Error()
	}
	return v.Any()
}

// Discard 給測試用，不輸出任何內容
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
