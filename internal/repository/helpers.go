package repository

import (
	"strings"
	"time"

	"github.com/alexanderramin/timesheet/internal/db"
)

// formatTime converts a timestamp to the RFC3339 UTC text stored in every dialect.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// lockingSuffix returns the row-lock clause for reads that precede a write in
// the same transaction. SQLite serializes writers on its own.
func lockingSuffix(dialect db.Dialect) string {
	if dialect == db.DialectMySQL {
		return " FOR UPDATE"
	}
	return ""
}

// isDuplicateKey matches unique-constraint violations from sqlite and mysql (1062).
func isDuplicateKey(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}
