package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"coding-club/internal/api"
	"coding-club/internal/grading"
	"coding-club/internal/middleware"

	"github.com/labstack/echo/v4"
)

const (
	maxFiles    = 2
	maxFileSize = 1 << 20
)

// Reviewer 由 *grading.Grader 實作
type Reviewer interface {
	Review(ctx context.Context, req grading.Request) (*grading.Result, error)
}

func readFiles(headers []*multipart.FileHeader) ([]grading.File, error) {
	files := make([]grading.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxFileSize {
			return nil, fmt.Errorf("file %s exceeds %d bytes", fh.Filename, maxFileSize)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, grading.File{Name: fh.Filename, Content: string(body)})
	}
	return files, nil
}

// ReviewHandler 以 AI 評分程式碼或上傳的 HTML/CSS 檔案
// @Summary     評分程式碼提交
// @Description 分數大於 50 視為通過：保存提交紀錄並推進使用者進度，回傳更新後的使用者；否則回傳改進提示
// @Tags        task
// @Accept      multipart/form-data
// @Produce     json
// @Param       query            formData string false "程式碼文字"
// @Param       files            formData file   false "最多兩個檔案 (一個 .html 與一個 .css)"
// @Param       criteria         formData string true  "評分標準"
// @Param       user_id          formData int    false "使用者 ID，預設為令牌持有者"
// @Param       current_topic_id formData int    true  "目前主題 ID"
// @Param       last_task_id     formData int    true  "最後完成的任務 ID"
// @Success     200 {object} api.ReviewResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /task/review [post]
func ReviewHandler(r Reviewer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ReviewRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		// 0 是合法的 last_task_id，欄位缺漏時指標為 nil
		if req.CurrentTopicID == nil || *req.CurrentTopicID <= 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "valid current topic ID is required"})
		}
		if req.LastTaskID == nil || *req.LastTaskID < 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "valid last task ID is required"})
		}

		claims := middleware.Claims(c)
		if claims == nil || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		// 學生只能替自己提交；管理員可指定任一使用者
		if req.UserID == 0 {
			req.UserID = claims.UserID
		}
		if req.UserID != claims.UserID && !claims.IsAdmin() {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "cannot submit on behalf of another user"})
		}

		var files []grading.File
		if form, err := c.MultipartForm(); err == nil {
			headers := form.File["files"]
			if len(headers) > maxFiles {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "maximum of 2 files (HTML and CSS) allowed"})
			}
			if files, err = readFiles(headers); err != nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
			}
		}

		res, err := r.Review(c.Request().Context(), grading.Request{
			Query:          req.Query,
			Files:          files,
			Criteria:       req.Criteria,
			UserID:         req.UserID,
			CurrentTopicID: *req.CurrentTopicID,
			LastTaskID:     *req.LastTaskID,
		})
		if err != nil {
			var invalid *grading.InvalidError
			var upstream *grading.UpstreamError
			if errors.As(err, &invalid) || errors.As(err, &upstream) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		resp := api.ReviewResponse{Score: res.Score, Hints: res.Hints}
		if res.UpdatedUser != nil {
			u := api.NewUserResponse(*res.UpdatedUser)
			resp.UpdatedUser = &u
		}
		return c.JSON(http.StatusOK, resp)
	}
}
