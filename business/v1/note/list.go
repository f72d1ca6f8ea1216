package note

import (
	"context"
	"fmt"
)

// List returns every note the caller owns, most recent first.
func (c *Core) List(ctx context.Context, ownerID string) ([]Note, error) {
	all, err := c.store.FindAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]Note, 0, len(all))
	for _, n := range all {
		notes = append(notes, toNote(n))
	}

	return notes, nil
}
