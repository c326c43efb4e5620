package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"coding-club/internal/api"
	"coding-club/internal/database"
	"coding-club/internal/model"
	"coding-club/internal/service"
	"coding-club/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByEmail   = store.GetUserByEmail
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
	timeNow          = time.Now
)

// LoginHandler 使用 Email/Password/Role 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 驗證 Email 與密碼，並確認角色相符；管理員令牌 1 小時、學生 30 分鐘到期
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.LoginResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		// 先 Bind
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: fmt.Sprintf("無效的表單資料: %v", err)})
		}
		// 再驗證結構化參數 (go-playground/validator)
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		// 撈使用者資料
		user, err := getUserByEmail(c.Request().Context(), db, strings.ToLower(req.Email))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		// 驗證密碼
		if err := authenticateUser(*user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}
		if user.Role != model.Role(req.Role) {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid role for this user"})
		}
		if user.Status == model.StatusDisabled {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "account disabled"})
		}

		// 發行存取令牌
		ttl := service.TokenTTL(user.Role)
		token, err := issueAccessToken(*user, ttl)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: fmt.Sprintf("failed to issue token: %v", err)})
		}

		return c.JSON(http.StatusOK, api.LoginResponse{
			AccessToken: token,
			ExpiresAt:   timeNow().Add(ttl),
			User:        api.NewUserResponse(*user),
		})
	}
}
