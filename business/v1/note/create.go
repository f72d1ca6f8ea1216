package note

import (
	"context"
	"fmt"
	"strings"
)

// Create validates the payload, uploads the attachment when present and only
// then writes the record, so a stored note never references a blob that was
// not written first. A failed record write releases the uploaded blob.
func (c *Core) Create(ctx context.Context, ownerID string, newN NewNote) (Note, error) {
	if strings.TrimSpace(newN.Content) == "" {
		return Note{}, ErrEmptyContent
	}
	if int64(len(newN.Attachment)) > c.maxAttachment {
		return Note{}, ErrAttachmentTooLarge
	}

	var key string
	if len(newN.Attachment) > 0 {
		uploaded, err := c.attachments.Put(ctx, ownerID, newN.AttachmentName, newN.Attachment)
		if err != nil {
			return Note{}, fmt.Errorf("upload attachment: %w", err)
		}
		key = uploaded
	}

	if err := ctx.Err(); err != nil {
		c.release(key)
		return Note{}, err
	}

	created, err := c.store.Insert(ctx, ownerID, newN.Content, key)
	if err != nil {
		c.release(key)
		return Note{}, fmt.Errorf("insert note: %w", err)
	}

	c.publish(EventCreated, toNote(created))

	return toNote(created), nil
}
