package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"coding-club/internal/database"
	"coding-club/internal/logger"
	"coding-club/internal/model"
	"coding-club/internal/store"

	"github.com/stretchr/testify/require"
)

func restore() {
	getUserByID = store.GetUserByID
	recordPassingReview = store.RecordPassingReview
}

type stubCompleter struct {
	text   string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

func validRequest() Request {
	return Request{Query: "<p>hi</p>", Criteria: "semantic html", UserID: 7, CurrentTopicID: 2, LastTaskID: 3}
}

func existingUser() {
	getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
		return &model.User{ID: id, TotalScore: 210, LastTaskID: 3, CurrentTopicID: 2}, nil
	}
}

func TestReviewValidation(t *testing.T) {
	t.Cleanup(restore)
	existingUser()
	g := NewGrader(nil, &stubCompleter{}, logger.Discard())

	cases := map[string]func(*Request){
		"criteria required": func(r *Request) { r.Criteria = "" },
		"criteria too long": func(r *Request) { r.Criteria = strings.Repeat("c", MaxCriteriaLength+1) },
		"query too long":    func(r *Request) { r.Query = strings.Repeat("q", MaxQueryLength+1) },
		"user id":           func(r *Request) { r.UserID = 0 },
		"topic id":          func(r *Request) { r.CurrentTopicID = 0 },
		"last task id":      func(r *Request) { r.LastTaskID = -1 },
		"no code":           func(r *Request) { r.Query = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := g.Review(context.Background(), req)
			var ie *InvalidError
			require.ErrorAs(t, err, &ie)
		})
	}
}

func TestReviewUserLookup(t *testing.T) {
	t.Cleanup(restore)
	g := NewGrader(nil, &stubCompleter{}, logger.Discard())

	getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
		return nil, fmt.Errorf("GetUserByID: %w", store.ErrNotFound)
	}
	_, err := g.Review(context.Background(), validRequest())
	require.EqualError(t, err, "user with ID 7 not found")

	getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
		return nil, errors.New("conn reset")
	}
	_, err = g.Review(context.Background(), validRequest())
	require.EqualError(t, err, "conn reset")
}

func TestReviewUpstreamFailure(t *testing.T) {
	t.Cleanup(restore)
	existingUser()
	g := NewGrader(nil, &stubCompleter{err: errors.New("2 errors occurred")}, logger.Discard())

	_, err := g.Review(context.Background(), validRequest())
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "API call failed: 2 errors occurred", err.Error())
}

func TestReviewFailingScoreKeepsProgress(t *testing.T) {
	t.Cleanup(restore)
	existingUser()
	recordPassingReview = func(context.Context, database.DB, *model.CodeQuery, store.Progress) (*model.User, error) {
		t.Fatal("failing score must not be recorded")
		return nil, nil
	}

	for _, score := range []int{0, 30, PassingScore} {
		c := &stubCompleter{text: fmt.Sprintf("Score: %d\nHints: close the tags", score)}
		res, err := NewGrader(nil, c, logger.Discard()).Review(context.Background(), validRequest())
		require.NoError(t, err)
		require.Equal(t, score, res.Score)
		require.Equal(t, "close the tags", res.Hints)
		require.Nil(t, res.UpdatedUser)
		require.False(t, res.Passed())
		require.Contains(t, c.prompt, "semantic html")
	}
}

func TestReviewPassingScoreRecordsProgress(t *testing.T) {
	t.Cleanup(restore)
	existingUser()

	var gotQuery *model.CodeQuery
	var gotProgress store.Progress
	recordPassingReview = func(_ context.Context, _ database.DB, q *model.CodeQuery, p store.Progress) (*model.User, error) {
		gotQuery, gotProgress = q, p
		total := 210 + q.Score
		next := p.LastTaskID + 1
		return &model.User{
			ID:             q.UserID,
			TotalScore:     total,
			LastTaskID:     next,
			AverageScore:   float64(total) / float64(next),
			CurrentTopicID: p.CurrentTopicID + 1,
		}, nil
	}

	req := validRequest()
	req.Files = []File{{Name: "index.html", Content: "<p></p>"}, {Name: "style.css", Content: "p{}"}}
	res, err := NewGrader(nil, &stubCompleter{text: "Score: 90\nHints: nothing"}, logger.Discard()).Review(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Passed())
	require.Empty(t, res.Hints)
	require.Equal(t, 300, res.UpdatedUser.TotalScore)
	require.Equal(t, 4, res.UpdatedUser.LastTaskID)
	require.Equal(t, 3, res.UpdatedUser.CurrentTopicID)
	require.InDelta(t, 75.0, res.UpdatedUser.AverageScore, 1e-9)

	require.Equal(t, 90, gotQuery.Score)
	require.Equal(t, "HTML:\n<p></p>\nCSS:\np{}", *gotQuery.FileContent)
	require.Equal(t, []string{"index.html", "style.css"}, gotQuery.FileNames)
	require.Nil(t, gotQuery.Hints)
	require.Equal(t, store.Progress{CurrentTopicID: 2, LastTaskID: 3}, gotProgress)

	recordPassingReview = func(context.Context, database.DB, *model.CodeQuery, store.Progress) (*model.User, error) {
		return nil, errors.New("tx failed")
	}
	_, err = NewGrader(nil, &stubCompleter{text: "Score: 90"}, logger.Discard()).Review(context.Background(), req)
	require.EqualError(t, err, "tx failed")
}
