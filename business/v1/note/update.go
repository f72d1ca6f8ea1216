package note

import (
	"context"
	"errors"
	"fmt"
	"strings"

	store "github.com/notably/notes-api/persistence/v1/note"
)

// Update applies a partial patch. A new attachment is uploaded before the
// record write; the previous blob is released only after the write succeeds,
// so a mid-failure never leaves the record pointing at a released blob.
func (c *Core) Update(ctx context.Context, ownerID, id string, upd UpdateNote) (Note, error) {
	if upd.Content != nil && strings.TrimSpace(*upd.Content) == "" {
		return Note{}, ErrEmptyContent
	}
	if int64(len(upd.Attachment)) > c.maxAttachment {
		return Note{}, ErrAttachmentTooLarge
	}

	var newKey *string
	switch {
	case len(upd.Attachment) > 0:
		uploaded, err := c.attachments.Put(ctx, ownerID, upd.AttachmentName, upd.Attachment)
		if err != nil {
			return Note{}, fmt.Errorf("upload attachment: %w", err)
		}
		newKey = &uploaded
	case upd.ClearAttachment:
		empty := ""
		newKey = &empty
	}

	if err := ctx.Err(); err != nil {
		if newKey != nil {
			c.release(*newKey)
		}
		return Note{}, err
	}

	updated, prevKey, err := c.store.Update(ctx, ownerID, id, store.Patch{Content: upd.Content, AttachmentKey: newKey})
	if err != nil {
		if newKey != nil {
			c.release(*newKey)
		}
		if errors.Is(err, store.ErrNotFound) {
			return Note{}, ErrNotFound
		}
		return Note{}, fmt.Errorf("update note: %w", err)
	}

	if newKey != nil && prevKey != "" && prevKey != *newKey {
		c.release(prevKey)
	}

	c.publish(EventUpdated, toNote(updated))

	return toNote(updated), nil
}
