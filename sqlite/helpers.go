package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %s: %w", column, err)
	}
	return t, nil
}

// writePage appends LIMIT/OFFSET for positive values. SQLite rejects an
// OFFSET without a LIMIT, so an offset alone gets LIMIT -1.
func writePage(query *strings.Builder, args []any, limit, offset int) []any {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, offset)
	}
	return args
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
