package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "6f1c2a34-0000-4000-8000-000000000001",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, cursor, decoded)

	// Current time keeps nanosecond precision
	now := time.Now().UTC()
	decoded, err = DecodeToken(EncodeToken(Cursor{Date: now, CreatedAt: now, ID: "x"}))
	require.NoError(t, err)
	assert.True(t, now.Equal(decoded.Date))
	assert.True(t, now.Equal(decoded.CreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	enc := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"not base64", "this is not base64!", "base64 decode"},
		{"missing separators", enc("2023-05-15T00:00:00Z"), "split"},
		{"bad date", enc("notadate|2023-05-15T14:30:45Z|id"), "date parse"},
		{"bad created_at", enc("2023-05-15T00:00:00Z|notatime|id"), "created_at parse"},
		{"missing id", enc("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|"), "missing id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCursorBefore(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	at := day.Add(10 * time.Hour)
	c := Cursor{Date: day, CreatedAt: at, ID: "m"}

	assert.True(t, c.Before(day.AddDate(0, 0, -1), at, "z"), "earlier date is on the next page")
	assert.False(t, c.Before(day.AddDate(0, 0, 1), at, "a"), "later date was already listed")
	assert.True(t, c.Before(day, at.Add(-time.Second), "z"))
	assert.True(t, c.Before(day, at, "a"))
	assert.False(t, c.Before(day, at, "m"), "the cursor row itself is excluded")
}
