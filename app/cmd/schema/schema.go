package schema

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/notably/notes-api/persistence/v1/schema"
	"github.com/notably/notes-api/platform/env"
	"go.uber.org/zap"

	_ "github.com/go-sql-driver/mysql"
)

func ListCommands() {
	println("Schema Commands")
	println("\tcreate\t\t\t- Creates the schema")
	println("\tdelete\t\t\t- Deletes the schema")
	println("\thelp\t\t\t- Print the commands available")
}

func Run(options []string) {
	if len(options) == 0 {
		ListCommands()
		return
	}
	// empty logger
	log := zap.NewNop().Sugar()

	db, err := connect(log)
	if err != nil {
		println("error:", err.Error())
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			println("could not close db conn gracefully:", err.Error())
		}
	}()

	switch options[0] {
	case "create":
		println("creating schema")
		if err := schema.Create(context.Background(), db); err != nil {
			println("failed to create schema:", err.Error())
		} else {
			println("created schema")
		}
	case "delete":
		println("deleting schema")
		if err := schema.Drop(context.Background(), db); err != nil {
			println("failed to delete schema:", err.Error())
		} else {
			println("deleted schema")
		}
	case "help":
		fallthrough
	default:
		ListCommands()
	}
}

func connect(log *zap.SugaredLogger) (*sql.DB, error) {
	connectionURL := env.OrDefault(log, "DATABASE_CONNECTION_URL", "root:admin@localhost:3306/notes")
	pingTimeout := env.DurationDefault(log, "DATABASE_PING_TIMEOUT", "2s")

	db, err := sql.Open("mysql", connectionURL)
	if err != nil {
		return nil, fmt.Errorf("error to connect to database: %w", err)
	}
	dbCtx, dbCancel := context.WithTimeout(context.Background(), pingTimeout)
	defer dbCancel()
	if err := db.PingContext(dbCtx); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	return db, nil
}
