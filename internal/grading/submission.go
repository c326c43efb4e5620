package grading

import (
	"strings"
)

// File 是一個上傳的程式碼檔案
type File struct {
	Name    string
	Content string
}

// Submission 是送去評分的程式碼與要保存的原始輸入
type Submission struct {
	Code        string
	Query       *string
	FileContent *string
	FileNames   []string
}

// BuildSubmission 組合評分用的程式碼，檔案優先於 query
func BuildSubmission(query string, files []File) (Submission, error) {
	var s Submission
	if query != "" {
		s.Query = &query
	}

	switch len(files) {
	case 0:
		if query == "" {
			return Submission{}, invalid("either query or files must be provided")
		}
		s.Code = query
		s.FileNames = []string{}
		return s, nil
	case 1:
		s.Code = files[0].Content
	case 2:
		html, css := pick(files, ".html"), pick(files, ".css")
		if html == nil || css == nil {
			return Submission{}, invalid("two files must be HTML and CSS")
		}
		s.Code = "HTML:\n" + html.Content + "\nCSS:\n" + css.Content
	default:
		return Submission{}, invalid("maximum of 2 files (HTML and CSS) allowed")
	}

	s.FileContent = &s.Code
	for _, f := range files {
		s.FileNames = append(s.FileNames, f.Name)
	}
	return s, nil
}

func pick(files []File, ext string) *File {
	for i := range files {
		if strings.HasSuffix(files[i].Name, ext) {
			return &files[i]
		}
	}
	return nil
}
