package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONTime wraps time.Time so we can accept the date formats the mobile
// clients actually send (full RFC3339, seconds-only, or a bare date for
// expiry fields) while always emitting RFC3339.
type JSONTime time.Time

func (jt *JSONTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*jt = JSONTime(time.Time{})
		return nil
	}

	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			*jt = JSONTime(t)
			return nil
		}
	}
	return fmt.Errorf("JSONTime.UnmarshalJSON: cannot parse %q", s)
}

func (jt JSONTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(jt).Format(time.RFC3339))
}

// Value implements driver.Valuer so GORM can bind JSONTime as TIMESTAMPTZ.
func (jt JSONTime) Value() (driver.Value, error) {
	return time.Time(jt), nil
}

// Scan implements sql.Scanner for reading TIMESTAMPTZ back.
func (jt *JSONTime) Scan(src interface{}) error {
	if src == nil {
		*jt = JSONTime(time.Time{})
		return nil
	}
	switch v := src.(type) {
	case time.Time:
		*jt = JSONTime(v)
		return nil
	case []byte:
		t, err := time.Parse(time.RFC3339Nano, string(v))
		if err != nil {
			return fmt.Errorf("JSONTime.Scan: parse %q: %w", string(v), err)
		}
		*jt = JSONTime(t)
		return nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return fmt.Errorf("JSONTime.Scan: parse %q: %w", v, err)
		}
		*jt = JSONTime(t)
		return nil
	default:
		return fmt.Errorf("JSONTime.Scan: unsupported type %T", src)
	}
}

// Time returns the wrapped time.Time.
func (jt JSONTime) Time() time.Time {
	return time.Time(jt)
}

// IsZero reports whether the wrapped time is the zero value.
func (jt JSONTime) IsZero() bool {
	return time.Time(jt).IsZero()
}
