package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"wordle-tracker/core/storage"
	"wordle-tracker/feature/wordle/models"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// objectPrefix is the key prefix under which raw messages are archived.
const objectPrefix = "messages"

// Archive persists raw announcement messages as JSON objects and replays
// them as a rescan history source. Object keys embed the zero-padded message
// snowflake, so the storage's lexical listing order is chronological.
type Archive struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// New creates an archive over the given bucket.
func New(client storage.Client, bucket string, logger *zap.Logger) *Archive {
	return &Archive{client: client, bucket: bucket, logger: logger}
}

// EnsureBucket creates the archive bucket when it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create archive bucket: %w", err)
	}
	a.logger.Info("Created archive bucket", zap.String("bucket", a.bucket))
	return nil
}

// Put stores one raw message. Writes are idempotent: the key is derived from
// the message id, so re-archiving the same message overwrites the same object.
func (a *Archive) Put(ctx context.Context, msg models.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, objectKey(msg), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to archive message %s: %w", msg.ID, err)
	}
	return nil
}

// Empty reports whether the archive holds no messages for the channel. A
// fresh archive only fills from live traffic, so rescans must not treat its
// silence as an empty channel.
func (a *Archive) Empty(ctx context.Context, channelID string) (bool, error) {
	objects := a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:  fmt.Sprintf("%s/%s/", objectPrefix, channelID),
		MaxKeys: 1,
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case info, ok := <-objects:
		if !ok {
			return true, nil
		}
		if info.Err != nil {
			return false, fmt.Errorf("archive listing failed: %w", info.Err)
		}
		return false, nil
	}
}

// History streams the archived messages of one channel, oldest first. The
// supplied context must stay valid for the whole replay.
func (a *Archive) History(ctx context.Context, channelID string) *History {
	objects := a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    fmt.Sprintf("%s/%s/", objectPrefix, channelID),
		Recursive: true,
	})
	return &History{archive: a, objects: objects}
}

// History replays archived messages as a reconcile source.
type History struct {
	archive *Archive
	objects <-chan minio.ObjectInfo
}

// Next returns the next archived message, or io.EOF when the listing ends.
func (h *History) Next(ctx context.Context) (*models.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case info, ok := <-h.objects:
		if !ok {
			return nil, io.EOF
		}
		if info.Err != nil {
			return nil, fmt.Errorf("archive listing failed: %w", info.Err)
		}
		return h.archive.read(ctx, info.Key)
	}
}

// read fetches and decodes one archived message.
func (a *Archive) read(ctx context.Context, key string) (*models.Message, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archived message %s: %w", key, err)
	}
	defer obj.Close()

	var msg models.Message
	if err := json.NewDecoder(obj).Decode(&msg); err != nil {
		return nil, fmt.Errorf("failed to decode archived message %s: %w", key, err)
	}
	return &msg, nil
}

// objectKey builds the archive key for a message. Snowflake ids are decimal
// strings of up to 20 digits; zero-padding makes lexical order numeric order.
func objectKey(msg models.Message) string {
	return fmt.Sprintf("%s/%s/%020s.json", objectPrefix, msg.ChannelID, msg.ID)
}
