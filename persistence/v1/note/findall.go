package note

import (
	"context"
	"fmt"
	"sort"
)

// FindAll returns every note owned by ownerID ordered most recent first,
// with the id breaking ties when creation times collide.
func (s *Store) FindAll(ctx context.Context, ownerID string) ([]Note, error) {
	dbCtx, dbCancel := context.WithTimeout(ctx, s.dbTimeout)
	defer dbCancel()
	stmt, err := s.db.PrepareContext(dbCtx, "SELECT id, ownerId, content, attachmentKey, updatedAt, createdAt FROM notes WHERE ownerId = ?")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare list stmt: %w", err)
	}

	rows, err := stmt.QueryContext(dbCtx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query list stmt: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	notes := make([]Note, 0)
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.ownerID, &r.content, &r.attachmentKey, &r.updatedAt, &r.createdAt); err != nil {
			return nil, fmt.Errorf("error parsing db data: %w", err)
		}
		notes = append(notes, r.note())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list rows: %w", err)
	}

	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID < notes[j].ID
	})

	return notes, nil
}
