package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// marshalJSONColumn serializes a value for storage in a TEXT column.
// A nil pointer becomes SQL NULL.
func marshalJSONColumn(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling json column: %w", err)
	}
	return string(data), nil
}

// unmarshalJSONColumn deserializes a nullable TEXT column into dst.
// Leaves dst untouched when the column is NULL or empty.
func unmarshalJSONColumn(col sql.NullString, dst any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), dst); err != nil {
		return fmt.Errorf("unmarshaling json column: %w", err)
	}
	return nil
}
