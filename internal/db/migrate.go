package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations for the dialect. Statements are
// idempotent and re-run on every open.
func Migrate(db *sql.DB, dialect Dialect) error {
	stmts := sqliteMigrations
	if dialect == DialectMySQL {
		stmts = mysqlMigrations
	}
	for i, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate re-running ALTER TABLE / CREATE INDEX on an existing schema.
			if isDuplicateSchemaErr(err) {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func isDuplicateSchemaErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") || // sqlite
		strings.Contains(msg, "Duplicate column name") || // mysql 1060
		strings.Contains(msg, "Duplicate key name") // mysql 1061
}

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS time_entries (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		work_date   TEXT NOT NULL,
		start_min   INTEGER NOT NULL CHECK(start_min BETWEEN 0 AND 1440),
		end_min     INTEGER NOT NULL CHECK(end_min BETWEEN 0 AND 1440),
		biz_type    TEXT NOT NULL DEFAULT '',
		biz_code    TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(end_min >= start_min)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_user_date ON time_entries(user_id, work_date)`,
	`CREATE TABLE IF NOT EXISTS work_types (
		biz_type TEXT NOT NULL,
		biz_code TEXT NOT NULL,
		biz_name TEXT NOT NULL,
		PRIMARY KEY (biz_type, biz_code)
	)`,
	// Seed the default catalogue
	`INSERT OR IGNORE INTO work_types (biz_type, biz_code, biz_name) VALUES
		('DEV', 'D01', 'Development'),
		('DEV', 'D02', 'Code review'),
		('MTG', 'M01', 'Meeting'),
		('OPS', 'O01', 'Operations support'),
		('ADM', 'A01', 'Administration')`,
}

var mysqlMigrations = []string{
	`CREATE TABLE IF NOT EXISTS time_entries (
		id          VARCHAR(36)  NOT NULL PRIMARY KEY,
		user_id     VARCHAR(64)  NOT NULL,
		work_date   CHAR(10)     NOT NULL,
		start_min   SMALLINT     NOT NULL,
		end_min     SMALLINT     NOT NULL,
		biz_type    VARCHAR(32)  NOT NULL DEFAULT '',
		biz_code    VARCHAR(32)  NOT NULL DEFAULT '',
		description TEXT         NOT NULL,
		created_at  VARCHAR(40)  NOT NULL,
		updated_at  VARCHAR(40)  NOT NULL,
		CHECK (start_min BETWEEN 0 AND 1440),
		CHECK (end_min BETWEEN 0 AND 1440),
		CHECK (end_min >= start_min),
		INDEX idx_time_entries_user_date (user_id, work_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS work_types (
		biz_type VARCHAR(32)  NOT NULL,
		biz_code VARCHAR(32)  NOT NULL,
		biz_name VARCHAR(128) NOT NULL,
		PRIMARY KEY (biz_type, biz_code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`INSERT IGNORE INTO work_types (biz_type, biz_code, biz_name) VALUES
		('DEV', 'D01', 'Development'),
		('DEV', 'D02', 'Code review'),
		('MTG', 'M01', 'Meeting'),
		('OPS', 'O01', 'Operations support'),
		('ADM', 'A01', 'Administration')`,
}
