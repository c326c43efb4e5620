package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"coding-club/internal/api"
	"coding-club/internal/cache"
	"coding-club/internal/database"
	"coding-club/internal/mailer"
	"coding-club/internal/model"
	"coding-club/internal/registration"
	"coding-club/internal/service"
	"coding-club/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	issueRegistrationToken    = service.IssueRegistrationToken
	validateRegistrationToken = service.ValidateRegistrationToken
	revokeRegistrationToken   = service.RevokeRegistrationToken
	createUser                = store.CreateUser
)

func confirmLink(domain, token, email string) string {
	return fmt.Sprintf("%s/signup/confirm?token=%s&email=%s", domain, url.QueryEscape(token), url.QueryEscape(email))
}

// RegistrationLinkHandler 對會員名冊內的 Email 寄送註冊確認連結
// @Summary     寄送註冊連結
// @Description 確認 Email 在會員名冊中，產生 24 小時有效的確認令牌並寄出註冊連結
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegistrationLinkRequest true "Email 與名字"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register/link [post]
func RegistrationLinkHandler(dir registration.Directory, cc cache.Cache, m mailer.Mailer, domain string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegistrationLinkRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		ctx := c.Request().Context()
		email := strings.ToLower(req.Email)

		member, err := dir.IsMember(ctx, email)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: fmt.Sprintf("failed to check email existence: %v", err)})
		}
		if !member {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "user is not a club member"})
		}

		token, err := issueRegistrationToken(ctx, cc, email)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		msg := mailer.RegistrationMessage(email, req.FirstName, confirmLink(domain, token, email))
		if err := m.Send(ctx, msg); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: fmt.Sprintf("failed to send email: %v", err)})
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "registration link sent to your email"})
	}
}

// ConfirmRegistrationHandler 驗證確認令牌並建立學生帳號
// @Summary     確認註冊
// @Description 確認令牌需存在且屬於該 Email；成功後建立 student 帳號並作廢令牌
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.ConfirmRegistrationRequest true "確認令牌與個人資料"
// @Success     201  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register/confirm [post]
func ConfirmRegistrationHandler(db database.DB, cc cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ConfirmRegistrationRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		ctx := c.Request().Context()
		email := strings.ToLower(req.Email)

		if err := validateRegistrationToken(ctx, cc, req.Token, email); err != nil {
			if errors.Is(err, service.ErrInvalidConfirmation) {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}
		user, err := createUser(ctx, db, &model.User{
			Email:        email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PhoneNumber:  req.PhoneNumber,
			Role:         model.RoleStudent,
		})
		if errors.Is(err, store.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "email already registered"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		// 令牌本身 24 小時後過期，作廢失敗不影響帳號建立
		_ = revokeRegistrationToken(ctx, cc, req.Token)

		return c.JSON(http.StatusCreated, api.NewUserResponse(*user))
	}
}
