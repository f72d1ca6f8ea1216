package note

import (
	"context"
	"errors"
	"fmt"

	"github.com/notably/notes-api/platform/attach"
)

// Attachment streams back the blob attached to the caller's note. The note
// lookup carries the ownership check, a foreign note is a plain ErrNotFound.
func (c *Core) Attachment(ctx context.Context, ownerID, id string) ([]byte, error) {
	found, err := c.Find(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if found.AttachmentKey == "" {
		return nil, ErrNotFound
	}

	data, err := c.attachments.Fetch(ctx, found.AttachmentKey)
	if err != nil {
		if errors.Is(err, attach.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch attachment: %w", err)
	}

	return data, nil
}
