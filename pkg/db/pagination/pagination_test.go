package pagination

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "42", CreatedAt: "2026-08-01T12:00:00.123456789Z"})
	require.NoError(t, err)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "42", cursor.ID)
	assert.Equal(t, "2026-08-01T12:00:00.123456789Z", cursor.CreatedAt)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	_, err := DecodeCursor("not base64 at all!")
	assert.Error(t, err)

	// Valid base64, invalid JSON.
	_, err = DecodeCursor("bm90IGpzb24=")
	assert.Error(t, err)
}

type row struct{ ID int }

func makeRows(n int) []*row {
	rows := make([]*row, n)
	for i := range rows {
		rows[i] = &row{ID: i}
	}
	return rows
}

func cursorOf(r *row) string { return strconv.Itoa(r.ID) }

func TestBuildCursorPageInfo(t *testing.T) {
	// Fetched limit+1 rows: there is a next page and the token points at
	// the last row of the page.
	info := BuildCursorPageInfo(makeRows(4), 3, cursorOf)
	assert.True(t, info.HasMore)
	assert.Equal(t, "2", info.NextPageToken)

	// Exactly limit rows: last page.
	info = BuildCursorPageInfo(makeRows(3), 3, cursorOf)
	assert.False(t, info.HasMore)
	assert.Equal(t, "2", info.NextPageToken)

	// Empty result.
	info = BuildCursorPageInfo(makeRows(0), 3, cursorOf)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)
}
