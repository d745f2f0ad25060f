// ABOUTME: Shared scanning and encoding helpers for SQLite stores
// ABOUTME: JSON string lists, nullable strings, LIKE escaping, and UTC timestamps
package sqlite

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"
)

// now returns the current time in UTC without a monotonic reading
func now() time.Time {
	return time.Now().UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeStrings(raw sql.NullString) []string {
	out := []string{}
	if !raw.Valid || raw.String == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return []string{}
	}
	return out
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

type scanner interface {
	Scan(dest ...any) error
}
