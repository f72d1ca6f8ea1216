package schema

import (
	"context"
	"database/sql"
	"errors"
)

func Create(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return errors.New("create schema: " + err.Error())
	}

	return nil
}
