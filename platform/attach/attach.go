// Package attach is the port to the binary store that holds note attachments.
package attach

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// ErrNotFound reports that a key references no stored object.
var ErrNotFound = errors.New("attachment not found")

// Object describes one stored attachment, used by the reconciliation sweep.
type Object struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// Store is the attachment storage contract. Delete is idempotent: deleting
// an absent key is not an error, so release retries are always safe.
type Store interface {
	Put(ctx context.Context, owner, name string, data []byte) (string, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Object, error)
}

// BucketStore implements Store on top of a gocloud blob bucket
// (s3, file or in-memory depending on the bucket URL).
type BucketStore struct {
	bucket *blob.Bucket
}

func NewBucketStore(bucket *blob.Bucket) *BucketStore {
	return &BucketStore{bucket: bucket}
}

// Put stores data under a fresh owner-scoped key and returns the key.
func (s *BucketStore) Put(ctx context.Context, owner, name string, data []byte) (string, error) {
	base := path.Base(name)
	if base == "" || base == "." || base == "/" {
		base = "attachment"
	}
	key := fmt.Sprintf("%s/%s-%s", owner, uuid.NewString(), base)

	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return "", fmt.Errorf("failed to write attachment %s: %w", key, err)
	}

	return key, nil
}

func (s *BucketStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read attachment %s: %w", key, err)
	}
	return data, nil
}

func (s *BucketStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		return fmt.Errorf("failed to delete attachment %s: %w", key, err)
	}
	return nil
}

func (s *BucketStore) List(ctx context.Context) ([]Object, error) {
	var objects []Object

	iter := s.bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list attachments: %w", err)
		}
		objects = append(objects, Object{Key: obj.Key, Size: obj.Size, ModTime: obj.ModTime})
	}

	return objects, nil
}
