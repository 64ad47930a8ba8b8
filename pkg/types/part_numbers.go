package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PartNumbers is the ordered list of part numbers on a parts order, stored as a JSON array.
type PartNumbers []string

func (p PartNumbers) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (p *PartNumbers) Scan(value interface{}) error {
	if value == nil {
		*p = PartNumbers{}
		return nil
	}

	raw, ok := toString(value)
	if !ok {
		return fmt.Errorf("part numbers: unsupported scan type %T", value)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*p = PartNumbers{}
		return nil
	}

	var parts []string
	if err := json.Unmarshal([]byte(raw), &parts); err != nil {
		return fmt.Errorf("part numbers: %w", err)
	}
	*p = PartNumbers(parts)
	return nil
}

// Normalize trims entries and drops blanks while keeping order.
func (p PartNumbers) Normalize() PartNumbers {
	out := make(PartNumbers, 0, len(p))
	for _, part := range p {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
