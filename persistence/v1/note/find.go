package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Find returns the note only when it exists and belongs to the owner,
// otherwise ErrNotFound.
func (s *Store) Find(ctx context.Context, ownerID, id string) (Note, error) {
	if found, ok := s.cached(ctx, ownerID, id); ok {
		return found, nil
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, s.dbTimeout)
	defer dbCancel()
	stmt, err := s.db.PrepareContext(dbCtx, "SELECT id, ownerId, content, attachmentKey, updatedAt, createdAt FROM notes WHERE id = ? AND ownerId = ?")
	if err != nil {
		return Note{}, fmt.Errorf("failed to prepare find stmt: %w", err)
	}

	var r row
	err = stmt.QueryRowContext(dbCtx, id, ownerID).Scan(&r.id, &r.ownerID, &r.content, &r.attachmentKey, &r.updatedAt, &r.createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Note{}, ErrNotFound
	case err != nil:
		return Note{}, fmt.Errorf("failed to query find stmt: %w", err)
	}

	found := r.note()
	s.fillCache(ctx, found)

	return found, nil
}
