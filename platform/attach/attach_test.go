package attach_test

import (
	"context"
	"strings"
	"testing"

	"github.com/notably/notes-api/platform/attach"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func newStore(t *testing.T) *attach.BucketStore {
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() {
		_ = bucket.Close()
	})
	return attach.NewBucketStore(bucket)
}

func TestPutFetch(t *testing.T) {
	store := newStore(t)

	key, err := store.Put(context.Background(), "u1", "grocery.jpg", []byte("bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "u1/"), "key should be owner scoped: %s", key)
	assert.True(t, strings.HasSuffix(key, "-grocery.jpg"), "key should keep the file name: %s", key)

	data, err := store.Fetch(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)
}

func TestPutUniqueKeys(t *testing.T) {
	store := newStore(t)

	first, err := store.Put(context.Background(), "u1", "name.txt", []byte("a"))
	require.NoError(t, err)
	second, err := store.Put(context.Background(), "u1", "name.txt", []byte("b"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestPutSanitizesName(t *testing.T) {
	store := newStore(t)

	key, err := store.Put(context.Background(), "u1", "../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "u1/"), "key must stay under the owner prefix: %s", key)
	assert.NotContains(t, key, "..")

	key, err = store.Put(context.Background(), "u1", "", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, "-attachment"), "empty names fall back to a default: %s", key)
}

func TestDeleteIdempotent(t *testing.T) {
	store := newStore(t)

	key, err := store.Put(context.Background(), "u1", "a.txt", []byte("a"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), key))
	// deleting an absent key is not an error
	require.NoError(t, store.Delete(context.Background(), key))
	require.NoError(t, store.Delete(context.Background(), "u1/never-existed"))

	_, err = store.Fetch(context.Background(), key)
	assert.ErrorIs(t, err, attach.ErrNotFound)
}

func TestList(t *testing.T) {
	store := newStore(t)

	objects, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects)

	first, err := store.Put(context.Background(), "u1", "a.txt", []byte("aaaa"))
	require.NoError(t, err)
	second, err := store.Put(context.Background(), "u2", "b.txt", []byte("bb"))
	require.NoError(t, err)

	objects, err = store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 2)

	keys := map[string]int64{}
	for _, obj := range objects {
		keys[obj.Key] = obj.Size
	}
	assert.EqualValues(t, 4, keys[first])
	assert.EqualValues(t, 2, keys[second])
}
