package repository

import (
	"database/sql"
	"fmt"
)

// expectAffected maps a write that touched no rows to sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
