package storage

import (
	"database/sql"
	"strings"
	"time"
)

// TimeFormat is how timestamps are stored in the database.
const TimeFormat = time.RFC3339Nano

// FormatTime renders a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a stored timestamp, tolerating older rows without
// fractional seconds.
func ParseTime(value string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, value)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// NullableString converts a sql.NullString to a *string.
func NullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// NullableInt converts a sql.NullInt64 to a *int.
func NullableInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

// NullableFloat converts a sql.NullFloat64 to a *float64.
func NullableFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

// NullableTime parses an optional stored timestamp. Unparseable values are
// treated as absent rather than failing the whole row.
func NullableTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := ParseTime(ns.String)
	if err != nil {
		return nil
	}
	return &t
}

// StringOrNil returns the value for binding an optional text column.
func StringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// IntOrNil returns the value for binding an optional integer column.
func IntOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// FloatOrNil returns the value for binding an optional real column.
func FloatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// BoolToInt converts a bool to SQLite's integer representation.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// MakePlaceholders builds a comma separated list of n bind markers.
func MakePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
