package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"coding-club/internal/api"
	"coding-club/internal/database"
	"coding-club/internal/mailer"
	"coding-club/internal/service"
	"coding-club/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	issueResetToken       = service.IssueResetToken
	verifyResetToken      = service.VerifyResetToken
	hashPassword          = service.HashPassword
	setResetPasswordToken = store.SetResetPasswordToken
	getUserByResetToken   = store.GetUserByResetToken
	updateUserPassword    = store.UpdateUserPassword
)

func resetLink(domain, token, email string) string {
	return fmt.Sprintf("%s/passwordreset/token?token=%s&email=%s", domain, url.QueryEscape(token), url.QueryEscape(email))
}

// ForgotPasswordHandler 寄送 15 分鐘有效的密碼重設連結
// @Summary     忘記密碼
// @Description 產生密碼重設令牌並寄送重設連結到使用者信箱
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.ForgotPasswordRequest true "使用者 Email"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/password/forgot [post]
func ForgotPasswordHandler(db database.DB, m mailer.Mailer, domain string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ForgotPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		ctx := c.Request().Context()

		user, err := getUserByEmail(ctx, db, strings.ToLower(req.Email))
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "user with this email does not exist"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		token, err := issueResetToken(user.Email)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		if err := setResetPasswordToken(ctx, db, user.ID, &token); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		name := user.FirstName
		if name == "" {
			name = "User"
		}
		msg := mailer.ResetPasswordMessage(user.Email, name, resetLink(domain, token, user.Email))
		if err := m.Send(ctx, msg); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: fmt.Sprintf("failed to send email: %v", err)})
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "reset link sent to your email"})
	}
}

// ResetPasswordHandler 以重設令牌設定新密碼
// @Summary     重設密碼
// @Description 令牌需與使用者目前保存的重設令牌一致；令牌過期時會被清除
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.ResetPasswordRequest true "重設令牌與新密碼"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/password/reset [post]
func ResetPasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ResetPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		ctx := c.Request().Context()

		user, err := getUserByResetToken(ctx, db, req.Token)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid reset token"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if _, err := verifyResetToken(req.Token); err != nil {
			if err := setResetPasswordToken(ctx, db, user.ID, nil); err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
			}
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "token expired"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}
		// UpdateUserPassword 同時清除重設令牌
		if err := updateUserPassword(ctx, db, user.ID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "password reset successfully"})
	}
}
