package certificate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coding-club/internal/assets"
	"coding-club/internal/database"
	"coding-club/internal/mailer"
	"coding-club/internal/model"
	"coding-club/internal/store"

	"github.com/pkg/errors"
)

var (
	timeNow           = time.Now
	render            = Render
	getUserByEmail    = store.GetUserByEmail
	setCertificateURL = store.SetCertificateURL
)

type Request struct {
	FirstName string
	LastName  string
	Email     string
}

type Issued struct {
	URL string
	// 對應到既有使用者時為其 ID
	UserID int
}

type Service struct {
	db    database.DB
	files assets.Store
	mail  mailer.Mailer
	log   *slog.Logger
}

func NewService(db database.DB, files assets.Store, mail mailer.Mailer, log *slog.Logger) *Service {
	return &Service{db: db, files: files, mail: mail, log: log}
}

func publicID(first, last string, at time.Time) string {
	clean := func(s string) string { return strings.Join(strings.Fields(s), "_") }
	return fmt.Sprintf("certificates/%s_%s_%d", clean(first), clean(last), at.Unix())
}

// Issue 產生證書、上傳、記錄到使用者並寄出下載連結
func (s *Service) Issue(ctx context.Context, req Request) (*Issued, error) {
	now := timeNow()
	pdf, err := render(req.FirstName, req.LastName, now)
	if err != nil {
		return nil, err
	}

	up, err := s.files.Upload(ctx, bytes.NewReader(pdf), assets.UploadParams{
		PublicID:     publicID(req.FirstName, req.LastName, now),
		ResourceType: assets.ResourceRaw,
		Format:       "pdf",
	})
	if err != nil {
		return nil, errors.Wrap(err, "uploading certificate")
	}
	if !strings.HasPrefix(up.URL, "https://") {
		return nil, errors.Errorf("failed to generate a valid certificate link: %q", up.URL)
	}
	s.log.DebugContext(ctx, "certificate uploaded", "public_id", up.PublicID, "url", up.URL)

	issued := &Issued{URL: up.URL}
	u, err := getUserByEmail(ctx, s.db, strings.ToLower(req.Email))
	switch {
	case err == nil:
		if err := setCertificateURL(ctx, s.db, u.ID, up.URL); err != nil {
			return nil, err
		}
		issued.UserID = u.ID
	case errors.Is(err, store.ErrNotFound):
		s.log.InfoContext(ctx, "certificate issued for unregistered email", "email", req.Email)
	default:
		return nil, err
	}

	name := model.User{FirstName: req.FirstName, LastName: req.LastName}.FullName()
	msg := mailer.CertificateMessage(req.Email, name, Course, now.Format("January 2, 2006"), up.URL)
	if err := s.mail.Send(ctx, msg); err != nil {
		return nil, errors.Wrap(err, "sending certificate email")
	}
	return issued, nil
}
