package files

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"coding-club/internal/api"
	"coding-club/internal/assets"

	"github.com/labstack/echo/v4"
)

// Service 由 *assets.Files 實作
type Service interface {
	Upload(ctx context.Context, in assets.FileUpload) (*assets.Uploaded, error)
	PageURLs(publicID, pages string) ([]string, error)
}

func failure(c echo.Context, prefix string, err error) error {
	var invalid *assets.InvalidError
	if errors.As(err, &invalid) {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
	}
	return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: fmt.Sprintf("%s: %v", prefix, err)})
}

// UploadHandler 上傳單一檔案到 Cloudinary
// @Summary     上傳檔案
// @Description 允許 doc、docx、pdf、html、css、js；PDF 以圖片資源上傳以便產生分頁圖
// @Tags        files
// @Accept      multipart/form-data
// @Produce     json
// @Param       file        formData file   true  "檔案"
// @Param       title       formData string false "標題，同時作為 public id"
// @Param       description formData string false "描述"
// @Success     200 {object} api.UploadResponse
// @Failure     400 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /files/upload [post]
func UploadHandler(s Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "no file provided"})
		}
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		defer f.Close()

		up, err := s.Upload(c.Request().Context(), assets.FileUpload{
			Name:        fh.Filename,
			MIMEType:    fh.Header.Get(echo.HeaderContentType),
			Body:        f,
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
		})
		if err != nil {
			return failure(c, "failed to upload file", err)
		}
		return c.JSON(http.StatusOK, api.UploadResponse{PublicID: up.PublicID, URL: up.URL})
	}
}

// PagesHandler 回傳 PDF 指定頁的圖片網址
// @Summary     取得 PDF 分頁圖片網址
// @Tags        files
// @Produce     json
// @Param       public_id query    string true "上傳時取得的 public id"
// @Param       pages     query    string true "頁碼範圍 a-b 或逗號分隔清單"
// @Success     200 {object} api.PagesResponse
// @Failure     400 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /files/pages [get]
func PagesHandler(s Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		urls, err := s.PageURLs(c.QueryParam("public_id"), c.QueryParam("pages"))
		if err != nil {
			return failure(c, "failed to generate page urls", err)
		}
		return c.JSON(http.StatusOK, api.PagesResponse{URLs: urls})
	}
}
