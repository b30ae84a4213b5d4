package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"wordle-tracker/core/storage/mocks"
	"wordle-tracker/feature/wordle/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMessage(id string) models.Message {
	return models.Message{
		ID:        id,
		AuthorID:  "alice",
		ChannelID: "chan-1",
		Content:   "Wordle 100 4/6",
		Timestamp: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestEnsureBucket(t *testing.T) {
	t.Run("AlreadyExists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "wordle").Return(true, nil)

		a := New(client, "wordle", zap.NewNop())
		require.NoError(t, a.EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "wordle").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "wordle", mock.Anything).Return(nil)

		a := New(client, "wordle", zap.NewNop())
		require.NoError(t, a.EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})
}

func TestPut_KeyIsPaddedSnowflake(t *testing.T) {
	client := new(mocks.Client)
	expectedKey := "messages/chan-1/00000000000000001234.json"
	client.On("PutObject", mock.Anything, "wordle", expectedKey, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	a := New(client, "wordle", zap.NewNop())
	require.NoError(t, a.Put(context.Background(), testMessage("1234")))
	client.AssertExpectations(t)
}

func TestPut_PropagatesStorageError(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "wordle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("storage down"))

	a := New(client, "wordle", zap.NewNop())
	assert.Error(t, a.Put(context.Background(), testMessage("1234")))
}

func TestEmpty(t *testing.T) {
	t.Run("NoObjects", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo)
		close(ch)
		client.On("ListObjects", mock.Anything, "wordle", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		a := New(client, "wordle", zap.NewNop())
		empty, err := a.Empty(context.Background(), "chan-1")
		require.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("HasObjects", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Key: "messages/chan-1/00000000000000000001.json"}
		close(ch)
		client.On("ListObjects", mock.Anything, "wordle", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		a := New(client, "wordle", zap.NewNop())
		empty, err := a.Empty(context.Background(), "chan-1")
		require.NoError(t, err)
		assert.False(t, empty)
	})

	t.Run("ListingError", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: errors.New("listing failed")}
		close(ch)
		client.On("ListObjects", mock.Anything, "wordle", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		a := New(client, "wordle", zap.NewNop())
		_, err := a.Empty(context.Background(), "chan-1")
		assert.Error(t, err)
	})
}

func TestHistory_ReplaysArchivedMessages(t *testing.T) {
	client := new(mocks.Client)
	a := New(client, "wordle", zap.NewNop())

	msgs := []models.Message{testMessage("1"), testMessage("2")}

	ch := make(chan minio.ObjectInfo, len(msgs))
	for _, m := range msgs {
		ch <- minio.ObjectInfo{Key: objectKey(m)}
		body, err := json.Marshal(m)
		require.NoError(t, err)
		client.On("GetObject", mock.Anything, "wordle", objectKey(m), mock.Anything).
			Return(io.NopCloser(bytes.NewReader(body)), nil)
	}
	close(ch)
	client.On("ListObjects", mock.Anything, "wordle", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	ctx := context.Background()
	history := a.History(ctx, "chan-1")

	first, err := history.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Wordle 100 4/6", first.Content)

	second, err := history.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", second.ID)

	_, err = history.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestHistory_ListingError(t *testing.T) {
	client := new(mocks.Client)
	a := New(client, "wordle", zap.NewNop())

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("listing failed")}
	close(ch)
	client.On("ListObjects", mock.Anything, "wordle", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	ctx := context.Background()
	history := a.History(ctx, "chan-1")

	_, err := history.Next(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestHistory_CancelledContext(t *testing.T) {
	client := new(mocks.Client)
	a := New(client, "wordle", zap.NewNop())

	ch := make(chan minio.ObjectInfo)
	client.On("ListObjects", mock.Anything, "wordle", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	ctx, cancel := context.WithCancel(context.Background())
	history := a.History(ctx, "chan-1")
	cancel()

	_, err := history.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
