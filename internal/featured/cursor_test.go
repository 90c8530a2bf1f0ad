package featured

import (
	"fmt"
	"testing"

	apierrors "github.com/driftnote/backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descendingIDs(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = fmt.Sprintf("id%03d", n-i)
	}
	return out
}

func TestNewPageCursorDefaults(t *testing.T) {
	cur, err := NewPageCursor("", "", 0, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, cur.Limit)
}

func TestNewPageCursorClampsToMax(t *testing.T) {
	cur, err := NewPageCursor("", "", 500, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, cur.Limit, "over-limit requests are clamped, not rejected")
}

func TestNewPageCursorRejectsContradictoryBounds(t *testing.T) {
	_, err := NewPageCursor("id900", "id100", 10, 10, 100)
	require.Error(t, err)

	apiErr, ok := apierrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, apierrors.ErrInvalidCursor, apiErr.Code)
}

func TestPaginateUntilID(t *testing.T) {
	ids := descendingIDs(100)

	out := Paginate(ids, PageCursor{UntilID: "id055", Limit: 10})
	require.Len(t, out, 10)
	assert.Equal(t, "id054", out[0], "first entry must be strictly less than untilId")
	for _, id := range out {
		assert.Less(t, id, "id055")
	}
}

func TestPaginateSinceID(t *testing.T) {
	ids := descendingIDs(10)

	out := Paginate(ids, PageCursor{SinceID: "id007", Limit: 100})
	assert.Equal(t, []string{"id010", "id009", "id008"}, out)
}

func TestPaginateBothBounds(t *testing.T) {
	ids := descendingIDs(10)

	out := Paginate(ids, PageCursor{SinceID: "id003", UntilID: "id008", Limit: 100})
	assert.Equal(t, []string{"id007", "id006", "id005", "id004"}, out)
}

func TestPaginateEmptyWindow(t *testing.T) {
	ids := descendingIDs(10)

	out := Paginate(ids, PageCursor{SinceID: "id005", UntilID: "id006", Limit: 10})
	assert.Empty(t, out, "an empty window is an empty result, not an error")
}

func TestPaginateEmptyInput(t *testing.T) {
	out := Paginate(nil, PageCursor{UntilID: "id005", Limit: 10})
	assert.Empty(t, out)
}

func TestPaginateTruncatesToLimit(t *testing.T) {
	ids := descendingIDs(100)

	out := Paginate(ids, PageCursor{Limit: 7})
	assert.Equal(t, ids[:7], out)
}

func TestWindow(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	assert.Equal(t, []int{3, 4, 5}, Window(items, 3, 3))
	assert.Equal(t, []int{8, 9}, Window(items, 8, 10))
	assert.Empty(t, Window(items, 15, 10))
	assert.Equal(t, []int{0, 1}, Window(items, -1, 2))
}
