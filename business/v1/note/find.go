package note

import (
	"context"
	"errors"
	"fmt"

	store "github.com/notably/notes-api/persistence/v1/note"
)

func (c *Core) Find(ctx context.Context, ownerID, id string) (Note, error) {
	found, err := c.store.Find(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Note{}, ErrNotFound
		}
		return Note{}, fmt.Errorf("find note: %w", err)
	}

	return toNote(found), nil
}
