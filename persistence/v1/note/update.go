package note

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Update applies the patch in a single owner-scoped statement, so a mutation
// racing another mutation or a delete lands cleanly or not at all. The note
// is re-read after the write, so the response always matches the stored row.
// It also returns the attachment key the record held before this call, for
// the caller to release when the patch replaced or cleared it; a key written
// by a racing update in between stays in the bucket until the sweep.
func (s *Store) Update(ctx context.Context, ownerID, id string, patch Patch) (Note, string, error) {
	prev, err := s.Find(ctx, ownerID, id)
	if err != nil {
		return Note{}, "", err
	}

	// round-trip through micros so the returned time matches what is stored
	now := time.UnixMicro(time.Now().UnixMicro()).UTC()

	sets := []string{"updatedAt = ?"}
	args := []any{now.UnixMicro()}
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.AttachmentKey != nil {
		sets = append(sets, "attachmentKey = ?")
		args = append(args, *patch.AttachmentKey)
	}
	args = append(args, id, ownerID)

	query := fmt.Sprintf("UPDATE notes SET %s WHERE id = ? AND ownerId = ?", strings.Join(sets, ", "))

	dbCtx, dbCancel := context.WithTimeout(ctx, s.dbTimeout)
	defer dbCancel()
	stmt, err := s.db.PrepareContext(dbCtx, query)
	if err != nil {
		return Note{}, "", fmt.Errorf("failed to prepare update stmt: %w", err)
	}
	result, err := stmt.ExecContext(dbCtx, args...)
	if err != nil {
		return Note{}, "", fmt.Errorf("failed to exec update stmt: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Note{}, "", fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		// deleted between the lookup and the write
		s.dropCache(ctx, ownerID, id)
		return Note{}, "", ErrNotFound
	}

	s.dropCache(ctx, ownerID, id)

	updated, err := s.Find(ctx, ownerID, id)
	switch {
	case errors.Is(err, ErrNotFound):
		// deleted right after our write landed, answer with what we wrote
		updated = prev
		updated.UpdatedAt = now
		if patch.Content != nil {
			updated.Content = *patch.Content
		}
		if patch.AttachmentKey != nil {
			updated.AttachmentKey = *patch.AttachmentKey
		}
	case err != nil:
		return Note{}, "", fmt.Errorf("failed to re-read updated note: %w", err)
	}

	return updated, prev.AttachmentKey, nil
}
