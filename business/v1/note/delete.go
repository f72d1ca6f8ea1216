package note

import (
	"context"
	"errors"
	"fmt"

	store "github.com/notably/notes-api/persistence/v1/note"
)

// Delete removes the record, then releases its attachment. The record is
// the source of truth: the blob goes only after the row is gone.
func (c *Core) Delete(ctx context.Context, ownerID, id string) error {
	prevKey, err := c.store.Delete(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}

	c.release(prevKey)

	c.publish(EventDeleted, DeletedNote{ID: id, OwnerID: ownerID, AttachmentKey: prevKey})

	return nil
}
