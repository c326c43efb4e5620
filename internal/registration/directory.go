// Package registration 查詢俱樂部會員名冊，只有名冊內的 Email 能收到註冊連結
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const Collection = "registrations"

// Directory 回報 Email 是否為會員
type Directory interface {
	IsMember(ctx context.Context, email string) (bool, error)
}

type docIterator interface {
	Next() (*firestore.DocumentSnapshot, error)
	Stop()
}

// Firestore 以 registrations 集合的 email 欄位比對
type Firestore struct {
	client *firestore.Client
	query  func(ctx context.Context, email string) docIterator
}

var _ Directory = (*Firestore)(nil)

var newFirestoreClient = firestore.NewClient

func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := newFirestoreClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: %w", err)
	}
	f := &Firestore{client: client}
	f.query = func(ctx context.Context, email string) docIterator {
		return client.Collection(Collection).Where("email", "==", email).Limit(1).Documents(ctx)
	}
	return f, nil
}

func (f *Firestore) IsMember(ctx context.Context, email string) (bool, error) {
	it := f.query(ctx, email)
	defer it.Stop()

	_, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check registration for %s: %w", email, err)
	}
	return true, nil
}

func (f *Firestore) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}

// Static 是固定名單，未設定 Firestore 時使用
type Static map[string]struct{}

var _ Directory = Static(nil)

func NewStatic(emails ...string) Static {
	s := make(Static, len(emails))
	for _, e := range emails {
		if e = strings.TrimSpace(strings.ToLower(e)); e != "" {
			s[e] = struct{}{}
		}
	}
	return s
}

func (s Static) IsMember(_ context.Context, email string) (bool, error) {
	_, ok := s[strings.ToLower(email)]
	return ok, nil
}
