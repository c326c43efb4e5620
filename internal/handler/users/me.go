package users

import (
	"errors"
	"net/http"
	"strings"

	"coding-club/internal/api"
	"coding-club/internal/database"
	"coding-club/internal/middleware"
	"coding-club/internal/service"

	"github.com/labstack/echo/v4"
)

// @Summary     Get current user info
// @Description 透過 JWT Token 取得當前使用者詳細資訊
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMyUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.Claims(c)
		if claims == nil || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(*user))
	}
}

// @Summary     Update current user info
// @Description 使用 JWT 更新當前使用者的姓名、Email 與電話；角色、狀態與進度維持不變
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateMeRequest true "個人資料"
// @Success     204  "No Content"
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [put]
func UpdateMyUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims := middleware.Claims(c)
		if claims == nil || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		ctx := c.Request().Context()
		user, err := getUserByID(ctx, db, claims.UserID)
		if err != nil {
			return storeError(c, err)
		}
		user.Email = strings.ToLower(req.Email)
		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.PhoneNumber = req.PhoneNumber

		if err := updateUser(ctx, db, user); err != nil {
			return storeError(c, err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Update own password
// @Description 驗證舊密碼並更新為新密碼
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateMyPasswordRequest true "舊密碼與新密碼"
// @Success     204  "No Content"
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/password [patch]
func UpdateMyUserPasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMyPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims := middleware.Claims(c)
		if claims == nil || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return storeError(c, err)
		}

		if err := authenticateUser(*user, req.OldPassword); err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid current password"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash new password"})
		}

		if err := updateUserPassword(c.Request().Context(), db, claims.UserID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Delete current user
// @Description 使用 JWT Token 刪除當前使用者帳號
// @Tags        users
// @Produce     json
// @Success     204
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [delete]
func DeleteMyUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.Claims(c)
		if claims == nil || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		if err := deleteUser(c.Request().Context(), db, claims.UserID); err != nil {
			return storeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
