package tests

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/notably/notes-api/app/api/handlers"
	"github.com/notably/notes-api/business/v1/note"
	notestore "github.com/notably/notes-api/persistence/v1/note"
	"github.com/notably/notes-api/persistence/v1/schema"
	"github.com/notably/notes-api/platform/attach"
	"github.com/notably/notes-api/platform/auth"
	"github.com/notably/notes-api/platform/logger"
	"github.com/notably/notes-api/sys"
	"gocloud.dev/blob/memblob"

	_ "github.com/proullon/ramsql/driver"
)

type NoteTests struct {
	app         http.Handler
	verifier    *auth.HMACVerifier
	attachments attach.Store
	cache       *miniredis.Miniredis
}

func TestNote(t *testing.T) {
	log, err := logger.New("Notes-API-Tests")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	// =======================================================================================================
	// Mocks

	// miniredis
	s := miniredis.RunT(t)

	// memory bucket
	bucket := memblob.OpenBucket(nil)
	defer func() {
		_ = bucket.Close()
	}()
	attachments := attach.NewBucketStore(bucket)

	// =======================================================================================================
	// Setup configs
	var cfg sys.Config
	cfg.Database.PingTimeout = 2 * time.Second
	cfg.Database.OperationTimeout = 5 * time.Second
	cfg.Cache.ConnectionURL = s.Addr()
	cfg.Cache.PingTimeout = 2 * time.Second
	cfg.Cache.OperationTimeout = 10 * time.Second
	cfg.Cache.CacheTTL = 24 * time.Hour
	cfg.Attachment.MaxSize = 128
	cfg.Messaging.PublishTimeout = time.Second

	// =======================================================================================================
	// Setup resources

	res := sys.Resources{Log: log}

	// ramsql standing in for mysql
	var db *sql.DB
	if err := func() error {
		testDb, err := sql.Open("ramsql", "NotesApiTest")
		if err != nil {
			return fmt.Errorf("error to connect to database: %w", err)
		}
		dbCtx, dbCancel := context.WithTimeout(context.Background(), cfg.Database.PingTimeout)
		defer dbCancel()
		if err := testDb.PingContext(dbCtx); err != nil {
			return fmt.Errorf("could not connect to database: %w", err)
		}
		db = testDb
		return nil
	}(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = db.Close()
	}()
	res.Database = db

	// redis
	var rdb *redis.Client
	if err := func() error {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.Cache.ConnectionURL,
		})
		rdsCtx, rdsCancel := context.WithTimeout(context.Background(), cfg.Cache.PingTimeout)
		defer rdsCancel()
		if err := rdb.Ping(rdsCtx).Err(); err != nil {
			return fmt.Errorf("could not connect to redis: %w", err)
		}
		return nil
	}(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = rdb.Close()
	}()
	res.Cache = rdb

	// =======================================================================================================
	// Database setup

	if err := schema.Create(context.Background(), db); err != nil {
		t.Fatalf("sql.Exec: Error: %s\n", err)
	}
	defer func() {
		_ = schema.Drop(context.Background(), db)
	}()

	// =======================================================================================================
	// Setup router

	store := notestore.New(&res, &cfg)
	core := note.NewCore(log, store, attachments, nil, cfg.Attachment.MaxSize, cfg.Messaging.PublishTimeout)
	verifier := auth.NewHMACVerifier("test-secret")

	engine := gin.Default()
	handlers.MapApi(engine, verifier, core)

	tests := NoteTests{
		app:         engine,
		verifier:    verifier,
		attachments: attachments,
		cache:       s,
	}

	// =======================================================================================================
	// Run tests

	tests.testUnauthorized(t)
	tests.testCrudScenario(t)
	tests.testOwnerIsolation(t)
	tests.testListOrdering(t)
	tests.testEmptyContent(t)
	tests.testAttachmentLifecycle(t)
	tests.testAttachmentTooLarge(t)
}

func (nt *NoteTests) do(t *testing.T, method, target, owner string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	r := httptest.NewRequest(method, target, reader)
	if owner != "" {
		r.Header.Set("Authorization", "Bearer "+nt.verifier.Credential(owner))
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	nt.app.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	if err := json.NewDecoder(w.Body).Decode(into); err != nil {
		t.Fatalf("should be able to unmarshal the response: %v", err)
	}
}

func (nt *NoteTests) testUnauthorized(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/notes", nil)
	w := httptest.NewRecorder()
	nt.app.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Test testUnauthorized: should receive 401 without credentials: %v", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/v1/notes", nil)
	r.Header.Set("Authorization", "Bearer u1:deadbeef")
	w = httptest.NewRecorder()
	nt.app.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Test testUnauthorized: should receive 401 with a forged credential: %v", w.Code)
	}
}

func (nt *NoteTests) testCrudScenario(t *testing.T) {
	w := nt.do(t, http.MethodPost, "/v1/notes", "u1", note.NewNote{Content: "Buy milk"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Test testCrudScenario: should receive 201 for the create: %v %s", w.Code, w.Body.String())
	}
	var created note.Note
	decode(t, w, &created)
	if created.ID == "" {
		t.Fatalf("Test testCrudScenario: should have received a non-empty id: %+v", created)
	}
	if created.OwnerID != "u1" {
		t.Fatalf("Test testCrudScenario: should have received \"u1\" as ownerId: %+v", created)
	}
	if created.Content != "Buy milk" {
		t.Fatalf("Test testCrudScenario: should have received \"Buy milk\" as content: %+v", created)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("Test testCrudScenario: createdAt and updatedAt should match on create: %+v", created)
	}

	w = nt.do(t, http.MethodGet, "/v1/notes/"+created.ID, "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Test testCrudScenario: should receive 200 for the get: %v", w.Code)
	}
	var found note.Note
	decode(t, w, &found)
	if found.ID != created.ID || found.Content != created.Content {
		t.Fatalf("Test testCrudScenario: get should return the created note: %+v", found)
	}
	if !nt.cache.Exists(fmt.Sprintf("notes.%s.%s", "u1", created.ID)) {
		t.Fatalf("Test testCrudScenario: note %s should be in cache after a get", created.ID)
	}

	time.Sleep(2 * time.Millisecond)

	newContent := "Buy milk and eggs"
	w = nt.do(t, http.MethodPut, "/v1/notes/"+created.ID, "u1", note.UpdateNote{Content: &newContent})
	if w.Code != http.StatusOK {
		t.Fatalf("Test testCrudScenario: should receive 200 for the update: %v %s", w.Code, w.Body.String())
	}
	var updated note.Note
	decode(t, w, &updated)
	if updated.Content != newContent {
		t.Fatalf("Test testCrudScenario: update should change the content: %+v", updated)
	}
	if updated.ID != created.ID || updated.OwnerID != created.OwnerID {
		t.Fatalf("Test testCrudScenario: update should not change id or ownerId: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("Test testCrudScenario: update should not change createdAt: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("Test testCrudScenario: updatedAt should move past createdAt: %+v", updated)
	}

	w = nt.do(t, http.MethodDelete, "/v1/notes/"+created.ID, "u1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Test testCrudScenario: should receive 204 for the delete: %v", w.Code)
	}

	w = nt.do(t, http.MethodGet, "/v1/notes/"+created.ID, "u1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Test testCrudScenario: should receive 404 after the delete: %v", w.Code)
	}

	w = nt.do(t, http.MethodDelete, "/v1/notes/"+created.ID, "u1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Test testCrudScenario: a second delete should also receive 404: %v", w.Code)
	}
}

func (nt *NoteTests) testOwnerIsolation(t *testing.T) {
	w := nt.do(t, http.MethodPost, "/v1/notes", "owner-a", note.NewNote{Content: "owner-a secret"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Test testOwnerIsolation: should receive 201 for the create: %v", w.Code)
	}
	var created note.Note
	decode(t, w, &created)

	if w = nt.do(t, http.MethodGet, "/v1/notes/"+created.ID, "owner-b", nil); w.Code != http.StatusNotFound {
		t.Fatalf("Test testOwnerIsolation: foreign get should receive 404: %v", w.Code)
	}

	other := "overwritten"
	if w = nt.do(t, http.MethodPut, "/v1/notes/"+created.ID, "owner-b", note.UpdateNote{Content: &other}); w.Code != http.StatusNotFound {
		t.Fatalf("Test testOwnerIsolation: foreign update should receive 404: %v", w.Code)
	}

	if w = nt.do(t, http.MethodDelete, "/v1/notes/"+created.ID, "owner-b", nil); w.Code != http.StatusNotFound {
		t.Fatalf("Test testOwnerIsolation: foreign delete should receive 404: %v", w.Code)
	}

	w = nt.do(t, http.MethodGet, "/v1/notes", "owner-b", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Test testOwnerIsolation: foreign list should receive 200: %v", w.Code)
	}
	var foreign []note.Note
	decode(t, w, &foreign)
	if len(foreign) != 0 {
		t.Fatalf("Test testOwnerIsolation: foreign list should be empty: %+v", foreign)
	}

	w = nt.do(t, http.MethodGet, "/v1/notes", "owner-a", nil)
	var own []note.Note
	decode(t, w, &own)
	if len(own) != 1 || own[0].Content != "owner-a secret" {
		t.Fatalf("Test testOwnerIsolation: owner list should hold the note: %+v", own)
	}

	// still untouched after the foreign update attempt
	if w = nt.do(t, http.MethodGet, "/v1/notes/"+created.ID, "owner-a", nil); w.Code != http.StatusOK {
		t.Fatalf("Test testOwnerIsolation: owner get should receive 200: %v", w.Code)
	}
	var found note.Note
	decode(t, w, &found)
	if found.Content != "owner-a secret" {
		t.Fatalf("Test testOwnerIsolation: foreign update should not have landed: %+v", found)
	}
}

func (nt *NoteTests) testListOrdering(t *testing.T) {
	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		if w := nt.do(t, http.MethodPost, "/v1/notes", "order-owner", note.NewNote{Content: c}); w.Code != http.StatusCreated {
			t.Fatalf("Test testListOrdering: should receive 201 for the create: %v", w.Code)
		}
		time.Sleep(2 * time.Millisecond)
	}

	w := nt.do(t, http.MethodGet, "/v1/notes", "order-owner", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Test testListOrdering: should receive 200 for the list: %v", w.Code)
	}
	var listed []note.Note
	decode(t, w, &listed)
	if len(listed) != 3 {
		t.Fatalf("Test testListOrdering: should list exactly the three created notes: %+v", listed)
	}
	for i, want := range []string{"third", "second", "first"} {
		if listed[i].Content != want {
			t.Fatalf("Test testListOrdering: position %d should be %q, list is not most recent first: %+v", i, want, listed)
		}
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].CreatedAt.After(listed[i-1].CreatedAt) {
			t.Fatalf("Test testListOrdering: createdAt should not increase down the list: %+v", listed)
		}
	}
}

func (nt *NoteTests) testEmptyContent(t *testing.T) {
	if w := nt.do(t, http.MethodPost, "/v1/notes", "empty-owner", note.NewNote{Content: ""}); w.Code != http.StatusBadRequest {
		t.Fatalf("Test testEmptyContent: empty content should receive 400: %v", w.Code)
	}
	if w := nt.do(t, http.MethodPost, "/v1/notes", "empty-owner", note.NewNote{Content: "   "}); w.Code != http.StatusBadRequest {
		t.Fatalf("Test testEmptyContent: blank content should receive 400: %v", w.Code)
	}

	w := nt.do(t, http.MethodGet, "/v1/notes", "empty-owner", nil)
	var listed []note.Note
	decode(t, w, &listed)
	if len(listed) != 0 {
		t.Fatalf("Test testEmptyContent: nothing should have been persisted: %+v", listed)
	}
}

func (nt *NoteTests) testAttachmentLifecycle(t *testing.T) {
	first := []byte("grocery list scan")
	w := nt.do(t, http.MethodPost, "/v1/notes", "att-owner", note.NewNote{
		Content:        "with attachment",
		Attachment:     first,
		AttachmentName: "grocery.txt",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Test testAttachmentLifecycle: should receive 201 for the create: %v %s", w.Code, w.Body.String())
	}
	var created note.Note
	decode(t, w, &created)
	if created.AttachmentKey == "" {
		t.Fatalf("Test testAttachmentLifecycle: created note should carry an attachment key: %+v", created)
	}

	stored, err := nt.attachments.Fetch(context.Background(), created.AttachmentKey)
	if err != nil || !bytes.Equal(stored, first) {
		t.Fatalf("Test testAttachmentLifecycle: blob should hold the uploaded bytes: %v", err)
	}

	w = nt.do(t, http.MethodGet, "/v1/notes/"+created.ID+"/attachment", "att-owner", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Test testAttachmentLifecycle: should receive 200 for the download: %v", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), first) {
		t.Fatalf("Test testAttachmentLifecycle: download should return the uploaded bytes")
	}

	// replacing the attachment releases the old blob
	second := []byte("updated scan")
	w = nt.do(t, http.MethodPut, "/v1/notes/"+created.ID, "att-owner", note.UpdateNote{
		Attachment:     second,
		AttachmentName: "grocery-v2.txt",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Test testAttachmentLifecycle: should receive 200 for the replace: %v %s", w.Code, w.Body.String())
	}
	var replaced note.Note
	decode(t, w, &replaced)
	if replaced.AttachmentKey == "" || replaced.AttachmentKey == created.AttachmentKey {
		t.Fatalf("Test testAttachmentLifecycle: replace should produce a fresh key: %+v", replaced)
	}
	if _, err := nt.attachments.Fetch(context.Background(), created.AttachmentKey); err == nil {
		t.Fatalf("Test testAttachmentLifecycle: replaced blob should be released")
	}

	// clearing the attachment releases the blob
	w = nt.do(t, http.MethodPut, "/v1/notes/"+created.ID, "att-owner", note.UpdateNote{ClearAttachment: true})
	if w.Code != http.StatusOK {
		t.Fatalf("Test testAttachmentLifecycle: should receive 200 for the clear: %v", w.Code)
	}
	var cleared note.Note
	decode(t, w, &cleared)
	if cleared.AttachmentKey != "" {
		t.Fatalf("Test testAttachmentLifecycle: clear should drop the key: %+v", cleared)
	}
	if _, err := nt.attachments.Fetch(context.Background(), replaced.AttachmentKey); err == nil {
		t.Fatalf("Test testAttachmentLifecycle: cleared blob should be released")
	}

	// deleting a note releases its blob
	w = nt.do(t, http.MethodPost, "/v1/notes", "att-owner", note.NewNote{
		Content:    "short lived",
		Attachment: []byte("bytes to release"),
	})
	var doomed note.Note
	decode(t, w, &doomed)
	if w := nt.do(t, http.MethodDelete, "/v1/notes/"+doomed.ID, "att-owner", nil); w.Code != http.StatusNoContent {
		t.Fatalf("Test testAttachmentLifecycle: should receive 204 for the delete: %v", w.Code)
	}
	if _, err := nt.attachments.Fetch(context.Background(), doomed.AttachmentKey); err == nil {
		t.Fatalf("Test testAttachmentLifecycle: deleted note's blob should be released")
	}
}

func (nt *NoteTests) testAttachmentTooLarge(t *testing.T) {
	before, err := nt.attachments.List(context.Background())
	if err != nil {
		t.Fatalf("Test testAttachmentTooLarge: should be able to list blobs: %v", err)
	}

	oversize := bytes.Repeat([]byte("x"), 129) // limit is 128 in this suite
	w := nt.do(t, http.MethodPost, "/v1/notes", "large-owner", note.NewNote{
		Content:    "too big",
		Attachment: oversize,
	})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Test testAttachmentTooLarge: should receive 413: %v", w.Code)
	}

	after, err := nt.attachments.List(context.Background())
	if err != nil {
		t.Fatalf("Test testAttachmentTooLarge: should be able to list blobs: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("Test testAttachmentTooLarge: no blob should have been written: %d != %d", len(after), len(before))
	}

	var listed []note.Note
	decode(t, nt.do(t, http.MethodGet, "/v1/notes", "large-owner", nil), &listed)
	if len(listed) != 0 {
		t.Fatalf("Test testAttachmentTooLarge: no note should have been persisted: %+v", listed)
	}
}
