package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
	assert.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2026, 1, 5, 9, 30, 0, 123, time.UTC), ID: uuid.New()}

	out, err := ParseCursor(EncodeCursor(in))
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.ID, out.ID)
}

func TestParseCursorBlankAndInvalid(t *testing.T) {
	cursor, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, cursor)

	_, err = ParseCursor("not-base64!")
	assert.Error(t, err)
}

func TestTrimPage(t *testing.T) {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	rows := make([]Cursor, 0, 4)
	for i := 0; i < 4; i++ {
		rows = append(rows, Cursor{CreatedAt: base.Add(-time.Duration(i) * time.Hour), ID: uuid.New()})
	}
	identity := func(c Cursor) Cursor { return c }

	page, next := TrimPage(rows, 3, identity)
	require.Len(t, page, 3)
	require.NotEmpty(t, next)
	decoded, err := ParseCursor(next)
	require.NoError(t, err)
	assert.Equal(t, rows[2].ID, decoded.ID)

	page, next = TrimPage(rows[:2], 3, identity)
	assert.Len(t, page, 2)
	assert.Empty(t, next)
}
