package db

import (
	"database/sql"
)

// Database is the lifecycle contract for a relational backend holding the
// post and account tables. Connect runs pending migrations before returning.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
