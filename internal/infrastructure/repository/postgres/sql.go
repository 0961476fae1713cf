package postgres

import (
	"database/sql"
	"errors"
	"strings"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUndefinedTable reports a missing relation, i.e. migrations were not applied.
func isUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "42P01") || (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"))
}
