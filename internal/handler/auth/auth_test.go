package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coding-club/internal/cache"
	"coding-club/internal/database"
	"coding-club/internal/mailer"
	"coding-club/internal/model"
	"coding-club/internal/registration"
	"coding-club/internal/service"
	"coding-club/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (v stubValidator) Validate(any) error { return v.err }

type errBinder struct{}

func (errBinder) Bind(any, echo.Context) error { return errors.New("bind") }

type fakeMailer struct {
	sent []*mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg *mailer.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func newJSONCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newEcho(err error) *echo.Echo {
	e := echo.New()
	e.Validator = stubValidator{err: err}
	return e
}

func restore() {
	getUserByEmail = store.GetUserByEmail
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
	timeNow = time.Now
	issueResetToken = service.IssueResetToken
	verifyResetToken = service.VerifyResetToken
	hashPassword = service.HashPassword
	setResetPasswordToken = store.SetResetPasswordToken
	getUserByResetToken = store.GetUserByResetToken
	updateUserPassword = store.UpdateUserPassword
	issueRegistrationToken = service.IssueRegistrationToken
	validateRegistrationToken = service.ValidateRegistrationToken
	revokeRegistrationToken = service.RevokeRegistrationToken
	createUser = store.CreateUser
}

func TestLoginHandler(t *testing.T) {
	const body = `{"email":"Alice@Example.com","password":"pw","role":"student"}`
	student := &model.User{ID: 7, Email: "alice@example.com", Role: model.RoleStudent, Status: model.StatusActive}

	t.Run("bind error", func(t *testing.T) {
		e := newEcho(nil)
		e.Binder = errBinder{}
		ctx, rec := newJSONCtx(e, body)
		require.NoError(t, LoginHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(errors.New("bad email")), body)
		require.NoError(t, LoginHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "bad email")
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Cleanup(restore)
		var got string
		getUserByEmail = func(_ context.Context, _ database.DB, email string) (*model.User, error) {
			got = email
			return nil, store.ErrNotFound
		}
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, LoginHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid credentials")
		require.Equal(t, "alice@example.com", got)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return student, nil }
		authenticateUser = func(model.User, string) error { return service.ErrInvalidCredentials }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, LoginHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid credentials")
	})

	t.Run("role mismatch", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return student, nil }
		authenticateUser = func(model.User, string) error { return nil }
		ctx, rec := newJSONCtx(newEcho(nil), `{"email":"alice@example.com","password":"pw","role":"admin"}`)
		require.NoError(t, LoginHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid role for this user")
	})

	t.Run("disabled account", func(t *testing.T) {
		t.Cleanup(restore)
		disabled := *student
		disabled.Status = model.StatusDisabled
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return &disabled, nil }
		authenticateUser = func(model.User, string) error { return nil }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, LoginHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("token error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return student, nil }
		authenticateUser = func(model.User, string) error { return nil }
		issueAccessToken = func(model.User, time.Duration) (string, error) { return "", errors.New("no secret") }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, LoginHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
		timeNow = func() time.Time { return now }
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return student, nil }
		authenticateUser = func(model.User, string) error { return nil }
		var ttl time.Duration
		issueAccessToken = func(_ model.User, d time.Duration) (string, error) {
			ttl = d
			return "tok", nil
		}
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, LoginHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 30*time.Minute, ttl)
		require.Contains(t, rec.Body.String(), `"access_token":"tok"`)
		require.Contains(t, rec.Body.String(), `"expires_at":"2025-05-01T12:30:00Z"`)
	})
}

func TestForgotPasswordHandler(t *testing.T) {
	const body = `{"email":"Alice@Example.com"}`
	user := &model.User{ID: 3, Email: "alice@example.com"}

	t.Run("validate error", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(errors.New("v")), body)
		require.NoError(t, ForgotPasswordHandler(&database.FakeDB{}, &fakeMailer{}, "https://club.dev")(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return nil, store.ErrNotFound }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ForgotPasswordHandler(&database.FakeDB{}, &fakeMailer{}, "https://club.dev")(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("lookup error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return nil, errors.New("db down") }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ForgotPasswordHandler(&database.FakeDB{}, &fakeMailer{}, "https://club.dev")(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("store token error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return user, nil }
		issueResetToken = func(string) (string, error) { return "reset", nil }
		setResetPasswordToken = func(context.Context, database.DB, int, *string) error { return errors.New("boom") }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ForgotPasswordHandler(&database.FakeDB{}, &fakeMailer{}, "https://club.dev")(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("mail error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return user, nil }
		issueResetToken = func(string) (string, error) { return "reset", nil }
		setResetPasswordToken = func(context.Context, database.DB, int, *string) error { return nil }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ForgotPasswordHandler(&database.FakeDB{}, &fakeMailer{err: errors.New("quota")}, "https://club.dev")(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "failed to send email: quota")
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return user, nil }
		issueResetToken = func(string) (string, error) { return "a.b.c", nil }
		var stored *string
		setResetPasswordToken = func(_ context.Context, _ database.DB, id int, tok *string) error {
			require.Equal(t, 3, id)
			stored = tok
			return nil
		}
		m := &fakeMailer{}
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ForgotPasswordHandler(&database.FakeDB{}, m, "https://club.dev")(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, stored)
		require.Equal(t, "a.b.c", *stored)
		require.Len(t, m.sent, 1)
		require.Equal(t, mailer.TemplateResetPassword, m.sent[0].Template)
		data := m.sent[0].Data.(mailer.TemplateData)
		require.Equal(t, "User", data.Name)
		require.Equal(t, "https://club.dev/passwordreset/token?token=a.b.c&email=alice%40example.com", data.Link)
	})
}

func TestResetPasswordHandler(t *testing.T) {
	const body = `{"token":"a.b.c","password":"NewSecret456!"}`
	user := &model.User{ID: 3}

	t.Run("unknown token", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByResetToken = func(context.Context, database.DB, string) (*model.User, error) { return nil, store.ErrNotFound }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ResetPasswordHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid reset token")
	})

	t.Run("expired token is cleared", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByResetToken = func(context.Context, database.DB, string) (*model.User, error) { return user, nil }
		verifyResetToken = func(string) (*service.ResetClaims, error) { return nil, service.ErrTokenExpired }
		cleared := false
		setResetPasswordToken = func(_ context.Context, _ database.DB, _ int, tok *string) error {
			cleared = tok == nil
			return nil
		}
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ResetPasswordHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "token expired")
		require.True(t, cleared)
	})

	t.Run("update error", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByResetToken = func(context.Context, database.DB, string) (*model.User, error) { return user, nil }
		verifyResetToken = func(string) (*service.ResetClaims, error) { return &service.ResetClaims{}, nil }
		hashPassword = func(string) (string, error) { return "hash", nil }
		updateUserPassword = func(context.Context, database.DB, int, string) error { return errors.New("boom") }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ResetPasswordHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		getUserByResetToken = func(context.Context, database.DB, string) (*model.User, error) { return user, nil }
		verifyResetToken = func(string) (*service.ResetClaims, error) { return &service.ResetClaims{}, nil }
		hashPassword = func(string) (string, error) { return "hash", nil }
		var gotHash string
		updateUserPassword = func(_ context.Context, _ database.DB, _ int, h string) error {
			gotHash = h
			return nil
		}
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ResetPasswordHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "password reset successfully")
		require.Equal(t, "hash", gotHash)
	})
}

type errDirectory struct{}

func (errDirectory) IsMember(context.Context, string) (bool, error) { return false, errors.New("firestore down") }

func TestRegistrationLinkHandler(t *testing.T) {
	const body = `{"email":"Bob@Example.com","first_name":"Bob"}`
	dir := registration.NewStatic("bob@example.com")

	t.Run("directory error", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, RegistrationLinkHandler(errDirectory{}, &cache.FakeCache{}, &fakeMailer{}, "https://club.dev")(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not a member", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(nil), `{"email":"eve@example.com","first_name":"Eve"}`)
		require.NoError(t, RegistrationLinkHandler(dir, &cache.FakeCache{}, &fakeMailer{}, "https://club.dev")(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "user is not a club member")
	})

	t.Run("token error", func(t *testing.T) {
		t.Cleanup(restore)
		issueRegistrationToken = func(context.Context, cache.Cache, string) (string, error) { return "", errors.New("redis down") }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, RegistrationLinkHandler(dir, &cache.FakeCache{}, &fakeMailer{}, "https://club.dev")(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		var gotEmail string
		issueRegistrationToken = func(_ context.Context, _ cache.Cache, email string) (string, error) {
			gotEmail = email
			return "abc123", nil
		}
		m := &fakeMailer{}
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, RegistrationLinkHandler(dir, &cache.FakeCache{}, m, "https://club.dev")(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "registration link sent to your email")
		require.Equal(t, "bob@example.com", gotEmail)
		require.Len(t, m.sent, 1)
		require.Equal(t, mailer.TemplateRegistration, m.sent[0].Template)
		data := m.sent[0].Data.(mailer.TemplateData)
		require.Equal(t, "https://club.dev/signup/confirm?token=abc123&email=bob%40example.com", data.Link)
		require.Equal(t, "Bob", data.Name)
	})
}

func TestConfirmRegistrationHandler(t *testing.T) {
	const body = `{"token":"abc","email":"Bob@Example.com","password":"Secret123!","first_name":"Bob","last_name":"Lee"}`

	t.Run("invalid token", func(t *testing.T) {
		t.Cleanup(restore)
		validateRegistrationToken = func(context.Context, cache.Cache, string, string) error { return service.ErrInvalidConfirmation }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ConfirmRegistrationHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("cache error", func(t *testing.T) {
		t.Cleanup(restore)
		validateRegistrationToken = func(context.Context, cache.Cache, string, string) error { return errors.New("redis down") }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ConfirmRegistrationHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("email taken", func(t *testing.T) {
		t.Cleanup(restore)
		validateRegistrationToken = func(context.Context, cache.Cache, string, string) error { return nil }
		hashPassword = func(string) (string, error) { return "hash", nil }
		createUser = func(context.Context, database.DB, *model.User) (*model.User, error) { return nil, store.ErrEmailTaken }
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ConfirmRegistrationHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		validateRegistrationToken = func(_ context.Context, _ cache.Cache, tok, email string) error {
			require.Equal(t, "abc", tok)
			require.Equal(t, "bob@example.com", email)
			return nil
		}
		hashPassword = func(string) (string, error) { return "hash", nil }
		var created *model.User
		createUser = func(_ context.Context, _ database.DB, u *model.User) (*model.User, error) {
			created = u
			out := *u
			out.ID = 11
			return &out, nil
		}
		revoked := ""
		revokeRegistrationToken = func(_ context.Context, _ cache.Cache, tok string) error {
			revoked = tok
			return nil
		}
		ctx, rec := newJSONCtx(newEcho(nil), body)
		require.NoError(t, ConfirmRegistrationHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, model.RoleStudent, created.Role)
		require.Equal(t, "hash", created.PasswordHash)
		require.Equal(t, "abc", revoked)
		require.Contains(t, rec.Body.String(), `"id":11`)
	})
}
