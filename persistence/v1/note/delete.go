package note

import (
	"context"
	"fmt"
)

// Delete removes the note and reports the attachment key it referenced so
// the caller can release the blob. A second delete yields ErrNotFound, it
// is not silently idempotent.
func (s *Store) Delete(ctx context.Context, ownerID, id string) (string, error) {
	prev, err := s.Find(ctx, ownerID, id)
	if err != nil {
		return "", err
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, s.dbTimeout)
	defer dbCancel()
	stmt, err := s.db.PrepareContext(dbCtx, "DELETE FROM notes WHERE id = ? AND ownerId = ?")
	if err != nil {
		return "", fmt.Errorf("failed to prepare delete stmt: %w", err)
	}
	result, err := stmt.ExecContext(dbCtx, id, ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to exec delete stmt: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to read delete result: %w", err)
	}

	s.dropCache(ctx, ownerID, id)

	if affected == 0 {
		return "", ErrNotFound
	}

	return prev.AttachmentKey, nil
}
