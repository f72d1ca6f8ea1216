// Package sweep reconciles the attachment bucket against the notes table.
// It exists because the upload-then-write saga can crash between steps and
// leave a blob no record references.
package sweep

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/notably/notes-api/platform/attach"
	"go.uber.org/zap"
)

type Sweeper struct {
	Log         *zap.SugaredLogger
	DB          *sql.DB
	Attachments attach.Store
	Interval    time.Duration
	// GraceAge spares recently written objects, an upload may still be
	// waiting for its record write.
	GraceAge  time.Duration
	DBTimeout time.Duration
}

// Run sweeps on every interval tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := s.Sweep(ctx); err != nil {
			s.Log.Errorw("sweep", "ERROR", err)
		}
	}
}

// Sweep deletes every bucket object that no note references and that is
// older than the grace age.
func (s *Sweeper) Sweep(ctx context.Context) error {
	objects, err := s.Attachments.List(ctx)
	if err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}

	referenced, err := s.referencedKeys(ctx)
	if err != nil {
		return fmt.Errorf("load referenced keys: %w", err)
	}

	for _, obj := range objects {
		if referenced[obj.Key] {
			continue
		}
		if time.Since(obj.ModTime) < s.GraceAge {
			continue
		}

		if err := s.Attachments.Delete(ctx, obj.Key); err != nil {
			s.Log.Errorw("delete orphaned attachment", "key", obj.Key, "ERROR", err)
			continue
		}
		s.Log.Infow("released orphaned attachment", "key", obj.Key, "size", obj.Size)
	}

	return nil
}

func (s *Sweeper) referencedKeys(ctx context.Context) (map[string]bool, error) {
	dbCtx, dbCancel := context.WithTimeout(ctx, s.DBTimeout)
	defer dbCancel()

	rows, err := s.DB.QueryContext(dbCtx, "SELECT attachmentKey FROM notes")
	if err != nil {
		return nil, fmt.Errorf("failed to query attachment keys: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	referenced := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("error parsing db data: %w", err)
		}
		if key != "" {
			referenced[key] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachment keys: %w", err)
	}

	return referenced, nil
}
