package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/vidfeed/internal/domain"
)

// fakeVideos scripts the directory client per test.
type fakeVideos struct {
	listFn   func(ctx context.Context) ([]domain.VideoRecord, error)
	detailFn func(ctx context.Context, id int64) (*domain.VideoDetail, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeVideos) List(ctx context.Context) ([]domain.VideoRecord, error) {
	return f.listFn(ctx)
}

func (f *fakeVideos) Detail(ctx context.Context, id int64) (*domain.VideoDetail, error) {
	return f.detailFn(ctx, id)
}

func (f *fakeVideos) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func TestFetchListReplacesItems(t *testing.T) {
	videos := &fakeVideos{
		listFn: func(ctx context.Context) ([]domain.VideoRecord, error) {
			return []domain.VideoRecord{
				{ID: 1, Title: "one", Status: domain.VideoReady},
				{ID: 2, Title: "two", Status: domain.VideoUploading},
			}, nil
		},
	}
	s := NewDirectoryStore(videos, zerolog.Nop())

	s.FetchList(context.Background())

	assert.False(t, s.Loading())
	assert.Nil(t, s.Err())
	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].Title)
}

func TestFetchListFailureKeepsAPIError(t *testing.T) {
	videos := &fakeVideos{
		listFn: func(ctx context.Context) ([]domain.VideoRecord, error) {
			return nil, &domain.APIError{Code: domain.ErrCodeNetwork, Message: "connection refused"}
		},
	}
	s := NewDirectoryStore(videos, zerolog.Nop())

	s.FetchList(context.Background())

	assert.Empty(t, s.Items())
	require.NotNil(t, s.Err())
	assert.Equal(t, domain.ErrCodeNetwork, s.Err().Code)
	assert.Equal(t, "connection refused", s.Err().Message)
	assert.False(t, s.Loading())
}

func TestFetchListFailureWithMalformedError(t *testing.T) {
	videos := &fakeVideos{
		listFn: func(ctx context.Context) ([]domain.VideoRecord, error) {
			return nil, errors.New("unexpected panic downstream")
		},
	}
	s := NewDirectoryStore(videos, zerolog.Nop())

	s.FetchList(context.Background())

	require.NotNil(t, s.Err())
	assert.Equal(t, domain.ErrCodeUnknown, s.Err().Code)
	assert.Equal(t, "load failed", s.Err().Message)
	assert.Empty(t, s.Items())
}

func TestFetchListClearsPreviousError(t *testing.T) {
	fail := true
	videos := &fakeVideos{
		listFn: func(ctx context.Context) ([]domain.VideoRecord, error) {
			if fail {
				return nil, &domain.APIError{Code: domain.ErrCodeUnknown, Message: "load failed"}
			}
			return []domain.VideoRecord{{ID: 1}}, nil
		},
	}
	s := NewDirectoryStore(videos, zerolog.Nop())

	s.FetchList(context.Background())
	require.NotNil(t, s.Err())

	fail = false
	s.FetchList(context.Background())
	assert.Nil(t, s.Err())
	assert.Len(t, s.Items(), 1)
}

func TestFetchListLoadingFlag(t *testing.T) {
	release := make(chan struct{})
	videos := &fakeVideos{
		listFn: func(ctx context.Context) ([]domain.VideoRecord, error) {
			<-release
			return nil, nil
		},
	}
	s := NewDirectoryStore(videos, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		s.FetchList(context.Background())
		close(done)
	}()

	require.Eventually(t, s.Loading, 2*time.Second, 5*time.Millisecond)
	close(release)
	<-done
	assert.False(t, s.Loading())
}

func TestDirectorySubscribe(t *testing.T) {
	videos := &fakeVideos{
		listFn: func(ctx context.Context) ([]domain.VideoRecord, error) { return nil, nil },
	}
	s := NewDirectoryStore(videos, zerolog.Nop())

	count := 0
	unsubscribe := s.Subscribe(func() { count++ })

	s.FetchList(context.Background())
	assert.Equal(t, 2, count, "loading start and resolution both notify")

	unsubscribe()
	s.FetchList(context.Background())
	assert.Equal(t, 2, count)
}
