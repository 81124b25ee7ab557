package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/crm/pkg/db/pagination"
)

var sortable = map[string]bool{"name": true, "created_at": true}

func TestSortBy(t *testing.T) {
	opt, err := SortBy("name", sortable)
	require.NoError(t, err)
	assert.NotNil(t, opt)

	opt, err = SortBy("-created_at", sortable)
	require.NoError(t, err)
	assert.NotNil(t, opt)

	_, err = SortBy("stock", sortable)
	assert.ErrorIs(t, err, ErrInvalidSortField)

	_, err = SortBy("-", sortable)
	assert.ErrorIs(t, err, ErrInvalidSortField)

	_, err = SortBy("", sortable)
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestForList_Unpaginated(t *testing.T) {
	opts, pageSize, err := ForList(ListParams{Table: "customers", Sortable: sortable})
	require.NoError(t, err)
	assert.Equal(t, 0, pageSize)
	assert.Len(t, opts, 1)
}

func TestForList_OrderBy(t *testing.T) {
	opts, pageSize, err := ForList(ListParams{Table: "customers", OrderBy: "-name", Sortable: sortable})
	require.NoError(t, err)
	assert.Equal(t, 0, pageSize)
	assert.Len(t, opts, 1)
}

func TestForList_Paginated(t *testing.T) {
	opts, pageSize, err := ForList(ListParams{Table: "customers", PageSize: 5, Sortable: sortable})
	require.NoError(t, err)
	assert.Equal(t, 5, pageSize)
	assert.Len(t, opts, 2)

	// A bare token defaults the page size.
	token, err := pagination.EncodeCursor(pagination.Cursor{ID: "1", CreatedAt: "2026-01-01T00:00:00Z"})
	require.NoError(t, err)
	opts, pageSize, err = ForList(ListParams{Table: "customers", PageToken: token, Sortable: sortable})
	require.NoError(t, err)
	assert.Equal(t, 10, pageSize)
	assert.Len(t, opts, 3)
}

func TestForList_OrderByWithPagination(t *testing.T) {
	_, _, err := ForList(ListParams{Table: "customers", PageSize: 5, OrderBy: "name", Sortable: sortable})
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestForList_BadToken(t *testing.T) {
	_, _, err := ForList(ListParams{Table: "customers", PageToken: "%%%not-base64%%%", Sortable: sortable})
	assert.ErrorIs(t, err, ErrInvalidPageToken)
}
