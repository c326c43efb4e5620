package certificates

import (
	"context"
	"net/http"

	"coding-club/internal/api"
	"coding-club/internal/certificate"

	"github.com/labstack/echo/v4"
)

// Issuer 由 *certificate.Service 實作
type Issuer interface {
	Issue(ctx context.Context, req certificate.Request) (*certificate.Issued, error)
}

// IssueHandler 產生結業證書並寄送下載連結
// @Summary     發放結業證書
// @Description 產生 PDF 證書、上傳後寄送下載連結；若 Email 屬於既有使用者則一併記錄證書網址
// @Tags        certificates
// @Accept      json
// @Produce     json
// @Param       body body     api.CertificateRequest true "收件人資料"
// @Success     200  {object} api.CertificateResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /certificates [post]
func IssueHandler(s Issuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CertificateRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		issued, err := s.Issue(c.Request().Context(), certificate.Request{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		})
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, api.CertificateResponse{
			Message: "certificate generated and email with download link sent successfully",
			URL:     issued.URL,
		})
	}
}
