package grading

import (
	"fmt"
	"regexp"
	"strconv"
)

const NoHints = "No hints provided"

var (
	scorePattern = regexp.MustCompile(`Score: (\d+)`)
	hintsPattern = regexp.MustCompile(`Hints: ([^\r\n]+)`)
)

// BuildPrompt 產生要求模型回覆 Score/Hints 格式的評分指示
func BuildPrompt(code, criteria string) string {
	return fmt.Sprintf(`Review this code, score it 0-100 based on criteria.
Format: Score: <number>
Hints: <suggestions>
Explanation follows.
Code:
%s
Criteria:
%s`, code, criteria)
}

// Review 是模型回覆解析後的結果
type Review struct {
	Score int
	Hints string
}

// ParseReview 取第一個 Score 與 Hints；解析失敗時分數為 0
func ParseReview(text string) Review {
	r := Review{Hints: NoHints}
	if m := scorePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			r.Score = n
		}
	}
	if m := hintsPattern.FindStringSubmatch(text); m != nil {
		r.Hints = m[1]
	}
	return r
}
