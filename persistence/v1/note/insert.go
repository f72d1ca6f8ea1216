package note

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Insert stores a fresh note for the owner. The id is assigned here and the
// timestamps are stamped to the same instant. Blank content is rejected with
// ErrEmptyContent before anything reaches the database.
func (s *Store) Insert(ctx context.Context, ownerID, content, attachmentKey string) (Note, error) {
	if strings.TrimSpace(content) == "" {
		return Note{}, ErrEmptyContent
	}

	now := time.Now().UTC()

	r := row{
		id:            uuid.NewString(),
		ownerID:       ownerID,
		content:       content,
		attachmentKey: attachmentKey,
		updatedAt:     now.UnixMicro(),
		createdAt:     now.UnixMicro(),
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, s.dbTimeout)
	defer dbCancel()
	stmt, err := s.db.PrepareContext(dbCtx, "INSERT INTO notes (id, ownerId, content, attachmentKey, updatedAt, createdAt) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return Note{}, fmt.Errorf("failed to prepare insert stmt: %w", err)
	}
	if _, err := stmt.ExecContext(dbCtx, r.id, r.ownerID, r.content, r.attachmentKey, r.updatedAt, r.createdAt); err != nil {
		return Note{}, fmt.Errorf("failed to exec insert stmt: %w", err)
	}

	return r.note(), nil
}
