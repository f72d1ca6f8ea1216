package note_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	note "github.com/notably/notes-api/business/v1/note"
	notestore "github.com/notably/notes-api/persistence/v1/note"
	"github.com/notably/notes-api/persistence/v1/schema"
	"github.com/notably/notes-api/platform/attach"
	"github.com/notably/notes-api/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "github.com/proullon/ramsql/driver"
)

// recordingStore stands in for the blob store and keeps every key it
// handed out or deleted, so the cleanup of a failed write is observable.
type recordingStore struct {
	mu      sync.Mutex
	puts    []string
	deletes []string
}

func (r *recordingStore) Put(_ context.Context, ownerID, name string, _ []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s/%d-%s", ownerID, len(r.puts), name)
	r.puts = append(r.puts, key)
	return key, nil
}

func (r *recordingStore) Fetch(context.Context, string) ([]byte, error) {
	return nil, attach.ErrNotFound
}

func (r *recordingStore) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, key)
	return nil
}

func (r *recordingStore) List(context.Context) ([]attach.Object, error) {
	return nil, nil
}

// newCore builds a core over a ramsql database. With withSchema false the
// notes table does not exist and every record write fails.
func newCore(t *testing.T, blobs attach.Store, withSchema bool) (*note.Core, *sql.DB) {
	var cfg sys.Config
	cfg.Database.OperationTimeout = 5 * time.Second
	cfg.Cache.OperationTimeout = 5 * time.Second
	cfg.Cache.CacheTTL = time.Hour

	db, err := sql.Open("ramsql", "NotesCoreTest"+t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	if withSchema {
		require.NoError(t, schema.Create(context.Background(), db))
		t.Cleanup(func() {
			_ = schema.Drop(context.Background(), db)
		})
	}

	res := sys.Resources{
		Log:      zap.NewNop().Sugar(),
		Database: db,
	}

	return note.NewCore(res.Log, notestore.New(&res, &cfg), blobs, nil, 1024, time.Second), db
}

func countNotes(t *testing.T, db *sql.DB) int {
	rows, err := db.Query("SELECT id FROM notes")
	require.NoError(t, err)
	defer func() {
		_ = rows.Close()
	}()

	count := 0
	for rows.Next() {
		count++
	}
	require.NoError(t, rows.Err())
	return count
}

func TestCreateReleasesUploadWhenInsertFails(t *testing.T) {
	blobs := &recordingStore{}
	core, _ := newCore(t, blobs, false)

	_, err := core.Create(context.Background(), "u1", note.NewNote{
		Content:        "with attachment",
		Attachment:     []byte("payload"),
		AttachmentName: "receipt.pdf",
	})
	require.Error(t, err)

	require.Len(t, blobs.puts, 1)
	assert.Equal(t, blobs.puts, blobs.deletes, "failed create must release the uploaded blob")
}

func TestCreateCancelledBeforePersist(t *testing.T) {
	blobs := &recordingStore{}
	core, db := newCore(t, blobs, true)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := core.Create(cancelled, "u1", note.NewNote{
		Content:        "never lands",
		Attachment:     []byte("payload"),
		AttachmentName: "receipt.pdf",
	})
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, blobs.puts, 1)
	assert.Equal(t, blobs.puts, blobs.deletes, "cancelled create must release the uploaded blob")
	assert.Zero(t, countNotes(t, db), "cancelled create must not write a record")
}

func TestUpdateReleasesUploadWhenWriteFails(t *testing.T) {
	blobs := &recordingStore{}
	core, _ := newCore(t, blobs, false)

	_, err := core.Update(context.Background(), "u1", "some-id", note.UpdateNote{
		Attachment:     []byte("payload"),
		AttachmentName: "receipt.pdf",
	})
	require.Error(t, err)

	require.Len(t, blobs.puts, 1)
	assert.Equal(t, blobs.puts, blobs.deletes, "failed update must release the uploaded blob")
}

func TestUpdateCancelledBeforePersist(t *testing.T) {
	blobs := &recordingStore{}
	core, _ := newCore(t, blobs, true)

	created, err := core.Create(context.Background(), "u1", note.NewNote{Content: "v1"})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = core.Update(cancelled, "u1", created.ID, note.UpdateNote{
		Attachment:     []byte("payload"),
		AttachmentName: "receipt.pdf",
	})
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, blobs.puts, 1)
	assert.Equal(t, blobs.puts, blobs.deletes, "cancelled update must release the uploaded blob")

	kept, err := core.Find(context.Background(), "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", kept.Content)
	assert.Empty(t, kept.AttachmentKey)
}
