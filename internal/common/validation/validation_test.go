package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserID(t *testing.T) {
	assert.NoError(t, UserID(1))
	assert.NoError(t, UserID(123456789))
	assert.Error(t, UserID(0))
	assert.Error(t, UserID(-5))
}

func TestUsername(t *testing.T) {
	t.Run("strips @ prefix", func(t *testing.T) {
		got, err := Username("@john_doe")
		require.NoError(t, err)
		assert.Equal(t, "john_doe", got)
	})

	t.Run("empty is allowed", func(t *testing.T) {
		got, err := Username("   ")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("rejects short names", func(t *testing.T) {
		_, err := Username("abc")
		assert.Error(t, err)
	})

	t.Run("rejects invalid characters", func(t *testing.T) {
		_, err := Username("john-doe!")
		assert.Error(t, err)
	})
}

func TestName(t *testing.T) {
	got, err := Name("  Alice  ", "first_name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)

	long := make([]byte, MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = Name(string(long), "first_name")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ", "giveaway_id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseID("abc", "giveaway_id")
	assert.Error(t, err)

	_, err = ParseID("0", "giveaway_id")
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	page, limit := Pagination(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, limit)

	page, limit = Pagination(3, 25)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)

	_, limit = Pagination(1, 10000)
	assert.Equal(t, 50, limit)
}

func TestWinnerCount(t *testing.T) {
	assert.NoError(t, WinnerCount(1))
	assert.NoError(t, WinnerCount(MaxWinnerCount))
	assert.Error(t, WinnerCount(0))
	assert.Error(t, WinnerCount(MaxWinnerCount+1))
}
