package assets

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UploadFolder = "uploads"
	MaxPages     = 1000
)

// AllowedMIMETypes 依序為 doc、docx、pdf、html、css、js
var AllowedMIMETypes = []string{
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/pdf",
	"text/html",
	"text/css",
	"application/javascript",
}

var (
	timeNow = time.Now
	newUUID = uuid.NewString
)

type InvalidError struct{ msg string }

func (e *InvalidError) Error() string { return e.msg }

type FileUpload struct {
	Name        string
	MIMEType    string
	Body        io.Reader
	Title       string
	Description string
}

// Files 處理使用者上傳與 PDF 頁面網址
type Files struct {
	store Store
}

func NewFiles(s Store) *Files {
	return &Files{store: s}
}

func allowed(mime string) bool {
	for _, m := range AllowedMIMETypes {
		if m == mime {
			return true
		}
	}
	return false
}

// Upload PDF 以 image 類型上傳以便轉頁，其他檔案為 raw
func (f *Files) Upload(ctx context.Context, in FileUpload) (*Uploaded, error) {
	if in.Body == nil || in.Name == "" || in.MIMEType == "" {
		return nil, &InvalidError{msg: "no file provided"}
	}
	if !allowed(in.MIMEType) {
		return nil, &InvalidError{msg: fmt.Sprintf("invalid file type: %s. Allowed types: %s",
			in.MIMEType, strings.Join(AllowedMIMETypes, ", "))}
	}

	resourceType := ResourceRaw
	if in.MIMEType == "application/pdf" {
		resourceType = ResourceImage
	}
	publicID := in.Title
	if publicID == "" {
		publicID = fmt.Sprintf("file_%d_%s", timeNow().UnixMilli(), newUUID()[:8])
	}

	meta := map[string]string{}
	if in.Title != "" {
		meta["title"] = in.Title
	}
	if in.Description != "" {
		meta["description"] = in.Description
	}

	return f.store.Upload(ctx, in.Body, UploadParams{
		PublicID:     publicID,
		Folder:       UploadFolder,
		ResourceType: resourceType,
		Context:      meta,
	})
}

// PageURLs 依頁碼規格產生每一頁的網址
func (f *Files) PageURLs(publicID, pages string) ([]string, error) {
	if publicID == "" {
		return nil, &InvalidError{msg: "public_id is required"}
	}
	nums, err := ParsePages(pages)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(nums))
	for _, n := range nums {
		u, err := f.store.PageURL(publicID, n)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// ParsePages 接受 "a-b" (1 <= a <= b) 或逗號分隔的正整數
func ParsePages(in string) ([]int, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return nil, &InvalidError{msg: "pages is required"}
	}

	if start, end, ok := strings.Cut(in, "-"); ok {
		a, errA := strconv.Atoi(strings.TrimSpace(start))
		b, errB := strconv.Atoi(strings.TrimSpace(end))
		if errA != nil || errB != nil || a < 1 || a > b {
			return nil, &InvalidError{msg: "invalid page range"}
		}
		if b-a+1 > MaxPages {
			return nil, &InvalidError{msg: fmt.Sprintf("at most %d pages per request", MaxPages)}
		}
		nums := make([]int, 0, b-a+1)
		for i := a; i <= b; i++ {
			nums = append(nums, i)
		}
		return nums, nil
	}

	parts := strings.Split(in, ",")
	if len(parts) > MaxPages {
		return nil, &InvalidError{msg: fmt.Sprintf("at most %d pages per request", MaxPages)}
	}
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, &InvalidError{msg: "invalid page numbers"}
		}
		nums = append(nums, n)
	}
	return nums, nil
}
