package quack

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Call queries the table function registered as fn for name and returns the
// value of its single row.
func Call(ctx context.Context, conn *sql.Conn, fn, name string) (string, error) {
	if !identifierRe.MatchString(fn) {
		return "", fmt.Errorf("%w: invalid function name %q", ErrInvalidConfig, fn)
	}

	query := "SELECT value FROM " + fn + "(" + quoteLiteral(name) + ")"
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("query %s failed: %w", fn, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return "", fmt.Errorf("failed to scan row: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if len(values) != 1 {
		return "", fmt.Errorf("%s returned %d rows, expected 1", fn, len(values))
	}
	return values[0], nil
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
