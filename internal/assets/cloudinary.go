// Package assets 上傳檔案到 Cloudinary 並產生 PDF 頁面預覽網址
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	ResourceImage = "image"
	ResourceRaw   = "raw"
)

type UploadParams struct {
	PublicID     string
	Folder       string
	ResourceType string
	Format       string
	Context      map[string]string
}

type Uploaded struct {
	PublicID string
	URL      string
}

// Store 是檔案主機的最小介面
type Store interface {
	Upload(ctx context.Context, r io.Reader, p UploadParams) (*Uploaded, error)
	PageURL(publicID string, page int) (string, error)
}

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	upload func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

var _ Store = (*Cloudinary)(nil)

func NewCloudinary(cloud, key, secret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloud, key, secret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld, upload: cld.Upload.Upload}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, p UploadParams) (*Uploaded, error) {
	res, err := c.upload(ctx, r, uploader.UploadParams{
		PublicID:     p.PublicID,
		Folder:       p.Folder,
		ResourceType: p.ResourceType,
		Format:       p.Format,
		Context:      p.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("upload to Cloudinary failed: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("upload to Cloudinary failed: %s", res.Error.Message)
	}
	if res.PublicID == "" || res.SecureURL == "" {
		return nil, errors.New("upload failed: invalid response from Cloudinary")
	}
	return &Uploaded{PublicID: res.PublicID, URL: res.SecureURL}, nil
}

// PageURL 回傳 PDF 指定頁面的 JPG 網址
func (c *Cloudinary) PageURL(publicID string, page int) (string, error) {
	img, err := c.cld.Image(publicID + ".jpg")
	if err != nil {
		return "", err
	}
	img.Transformation = fmt.Sprintf("pg_%d", page)
	return img.String()
}
