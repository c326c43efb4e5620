package registration

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type fakeIterator struct {
	doc     *firestore.DocumentSnapshot
	err     error
	stopped bool
}

func (f *fakeIterator) Next() (*firestore.DocumentSnapshot, error) { return f.doc, f.err }
func (f *fakeIterator) Stop()                                      { f.stopped = true }

func TestFirestoreIsMember(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		it      *fakeIterator
		member  bool
		wantErr bool
	}{
		{"member", &fakeIterator{doc: &firestore.DocumentSnapshot{}}, true, false},
		{"not member", &fakeIterator{err: iterator.Done}, false, false},
		{"backend error", &fakeIterator{err: errors.New("unavailable")}, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotEmail string
			f := &Firestore{query: func(_ context.Context, email string) docIterator {
				gotEmail = email
				return tc.it
			}}
			ok, err := f.IsMember(ctx, "amy@example.com")
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.member, ok)
			require.Equal(t, "amy@example.com", gotEmail)
			require.True(t, tc.it.stopped)
		})
	}

	require.NoError(t, (&Firestore{}).Close())
}

func TestNewFirestore(t *testing.T) {
	t.Cleanup(func() { newFirestoreClient = firestore.NewClient })

	var gotProject string
	var gotOpts int
	newFirestoreClient = func(_ context.Context, projectID string, opts ...option.ClientOption) (*firestore.Client, error) {
		gotProject, gotOpts = projectID, len(opts)
		return nil, errors.New("no credentials")
	}
	_, err := NewFirestore(context.Background(), "beks", "/secrets/sa.json")
	require.ErrorContains(t, err, "no credentials")
	require.Equal(t, "beks", gotProject)
	require.Equal(t, 1, gotOpts)
}

func TestStatic(t *testing.T) {
	s := NewStatic(" Amy@Example.com ", "")
	ok, err := s.IsMember(context.Background(), "amy@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	ok, _ = s.IsMember(context.Background(), "bob@example.com")
	require.False(t, ok)
	require.Len(t, s, 1)
}
