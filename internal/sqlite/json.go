package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// marshalColumn serializes a value for a JSON text column. Nil and empty
// collections become NULL so the column stays queryable for absence.
func marshalColumn(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal column: %w", err)
	}
	s := string(data)
	if s == "null" || s == "[]" || s == "{}" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: s, Valid: true}, nil
}

// unmarshalColumn deserializes a JSON text column into v, leaving v untouched
// for NULL columns.
func unmarshalColumn(col sql.NullString, v any) error {
	if !col.Valid {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), v); err != nil {
		return fmt.Errorf("failed to unmarshal column: %w", err)
	}
	return nil
}
