package mamba

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a scalar the API sends either as a JSON string or a JSON number.
// It re-encodes in the form it was decoded from.
type Value struct {
	raw    string
	number bool
}

// StringValue returns a Value encoded as a JSON string
func StringValue(s string) Value {
	return Value{raw: s}
}

// NumberValue returns a Value encoded as a JSON number
func NumberValue(n int64) Value {
	return Value{raw: strconv.FormatInt(n, 10), number: true}
}

// String returns the value as sent in query parameters
func (v Value) String() string {
	return v.raw
}

// IsZero reports whether the value was absent or null
func (v Value) IsZero() bool {
	return v.raw == "" && !v.number
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.number {
		return []byte(v.raw), nil
	}
	return json.Marshal(v.raw)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Value{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{raw: s}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("cursor value must be a string or number: %s", data)
		}
		*v = Value{raw: n.String(), number: true}
	}
	return nil
}

// Cursor is the server-issued pagination token
type Cursor struct {
	Type           string `json:"type,omitempty"`
	SearchID       Value  `json:"searchId"`
	SearcherOffset Value  `json:"searcherOffset"`
}

// FreshCursor returns the cursor used for the first page of a new crawl
func FreshCursor() Cursor {
	return Cursor{
		SearchID:       StringValue("0"),
		SearcherOffset: StringValue("0"),
	}
}

// LogFields returns the cursor position as log fields
func (c Cursor) LogFields() map[string]interface{} {
	fields := map[string]interface{}{
		"search_id": c.SearchID.String(),
		"offset":    c.SearcherOffset.String(),
	}
	if c.Type != "" {
		fields["cursor_type"] = c.Type
	}
	return fields
}
