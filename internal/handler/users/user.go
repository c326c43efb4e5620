package users

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"coding-club/internal/api"
	"coding-club/internal/database"
	"coding-club/internal/model"
	"coding-club/internal/report"
	"coding-club/internal/service"
	"coding-club/internal/store"

	"github.com/labstack/echo/v4"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	hashPassword          = service.HashPassword
	authenticateUser      = service.AuthenticateUser
	createUser            = store.CreateUser
	getUserByID           = store.GetUserByID
	listUsers             = store.ListUsers
	updateUser            = store.UpdateUser
	updateUserPassword    = store.UpdateUserPassword
	deleteUser            = store.DeleteUser
	listCodeQueriesByUser = store.ListCodeQueriesByUser
	writeUsers            = report.WriteUsers
)

func userID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("user_id"))
	return id, err == nil && id > 0
}

// storeError 將 store 錯誤轉為 HTTP 回應
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
	case errors.Is(err, store.ErrEmailTaken):
		return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "email already registered"})
	}
	return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
}

// @Summary     Create a new user
// @Description 建立新帳號 (Email 會自動轉小寫)
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateUserRequest true "使用者資料"
// @Success     201  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "failed to hash password"})
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Email:        strings.ToLower(req.Email),
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PhoneNumber:  req.PhoneNumber,
			Progress:     req.Progress,
			Role:         model.Role(req.Role),
		})
		if err != nil {
			return storeError(c, err)
		}

		return c.JSON(http.StatusCreated, api.NewUserResponse(*user))
	}
}

// @Summary     List users
// @Description 依 ID 順序列出所有使用者
// @Tags        users
// @Produce     json
// @Success     200 {array}  api.UserResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := listUsers(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		out := make([]api.UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, api.NewUserResponse(u))
		}
		return c.JSON(http.StatusOK, out)
	}
}

// @Summary     Export users
// @Description 匯出所有使用者的學習進度為 Excel 檔
// @Tags        users
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success     200 {file}   file
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/export [get]
func ExportUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := listUsers(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		var buf bytes.Buffer
		if err := writeUsers(&buf, users); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="users.xlsx"`)
		return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
	}
}

// @Summary     Get a user by ID
// @Description 透過 ID 查詢並回傳使用者詳細資料
// @Tags        users
// @Produce     json
// @Param       user_id   path      int  true  "使用者 ID"
// @Success     200  {object}  api.UserResponse
// @Failure     400  {object}  api.ErrorResponse  "參數錯誤"
// @Failure     404  {object}  api.ErrorResponse  "使用者不存在"
// @Failure     500  {object}  api.ErrorResponse  "伺服器錯誤"
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := userID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}
		user, err := getUserByID(c.Request().Context(), db, id)
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(*user))
	}
}

// @Summary     Update a user by ID
// @Description 根據使用者 ID 更新個人資料、進度、角色與狀態
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       user_id  path     int                   true "使用者 ID"
// @Param       body     body     api.UpdateUserRequest true "使用者資料"
// @Success     204      "No Content"
// @Failure     400      {object} api.ErrorResponse
// @Failure     404      {object} api.ErrorResponse
// @Failure     409      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [put]
func UpdateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := userID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}

		var req api.UpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		if err := updateUser(c.Request().Context(), db, &model.User{
			ID:          id,
			Email:       strings.ToLower(req.Email),
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNumber: req.PhoneNumber,
			Progress:    req.Progress,
			Role:        model.Role(req.Role),
			Status:      req.Status,
		}); err != nil {
			return storeError(c, err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Delete a user by ID
// @Description 根據使用者 ID 刪除使用者帳號與其提交紀錄
// @Tags        users
// @Param       user_id   path      int  true  "使用者 ID"
// @Success     204  "No Content"
// @Failure     400  {object}  api.ErrorResponse  "參數錯誤"
// @Failure     404  {object}  api.ErrorResponse  "使用者不存在"
// @Failure     500  {object}  api.ErrorResponse  "伺服器錯誤"
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [delete]
func DeleteUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := userID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}
		if err := deleteUser(c.Request().Context(), db, id); err != nil {
			return storeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     List a user's passing submissions
// @Description 依時間順序列出使用者通過評分的提交紀錄
// @Tags        users
// @Produce     json
// @Param       user_id path     int true "使用者 ID"
// @Success     200     {array}  model.CodeQuery
// @Failure     400     {object} api.ErrorResponse
// @Failure     500     {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id}/submissions [get]
func ListSubmissionsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := userID(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}
		queries, err := listCodeQueriesByUser(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, queries)
	}
}
