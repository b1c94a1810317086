package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Custom serializer for opaque key-value preference blobs

type JSONMap map[string]any

// Value implements the driver.Valuer interface.
// This defines how the map is stored in the database.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap, %w", err)
	}

	return string(b), nil
}

// Scan implements the sql.Scanner interface.
// This defines how the database value is converted back into go.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var b []byte

	switch v := value.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("failed to scan JSONMap, %v", value)
	}

	if len(b) == 0 {
		*m = JSONMap{}
		return nil
	}

	return json.Unmarshal(b, m)
}
