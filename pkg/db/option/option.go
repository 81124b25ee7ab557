package option

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/crm/pkg/db/pagination"
	"gorm.io/gorm"
)

// ErrInvalidSortField is returned when an order_by value names a field that
// the entity does not expose for sorting.
var ErrInvalidSortField = errors.New("invalid_sort_field")

// ErrInvalidPageToken is returned when a cursor token cannot be decoded.
var ErrInvalidPageToken = errors.New("invalid_page_token")

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type queryOptionFunc func(*gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(stmt *gorm.DB) *gorm.DB {
	return f(stmt)
}

// Apply runs every option in order.
func Apply(stmt *gorm.DB, opts ...QueryOption) *gorm.DB {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		stmt = opt.Apply(stmt)
	}
	return stmt
}

// SortBy parses an order_by value of the form "field" or "-field" and
// validates it against the entity's allowlist of sortable columns.
func SortBy(orderBy string, allowed map[string]bool) (QueryOption, error) {
	field := strings.TrimSpace(orderBy)
	desc := false
	if strings.HasPrefix(field, "-") {
		desc = true
		field = field[1:]
	}
	if field == "" || !allowed[field] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, orderBy)
	}

	expr := field
	if desc {
		expr += " DESC"
	}
	return queryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		return stmt.Order(expr)
	}), nil
}

// StableOrder applies the fixed ordering the cursor contract relies on.
func StableOrder(table string) QueryOption {
	return queryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		return stmt.Order(table + ".created_at DESC, " + table + ".id DESC")
	})
}

// AfterCursor narrows the result set to rows strictly after the cursor in
// the stable ordering.
func AfterCursor(table string, cursor *pagination.Cursor) QueryOption {
	return queryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		if cursor == nil {
			return stmt
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return stmt
		}
		return stmt.Where(
			table+".created_at < ? OR ("+table+".created_at = ? AND "+table+".id < ?)",
			createdAt, createdAt, cursor.ID,
		)
	})
}

// Limit caps the number of returned rows.
func Limit(n int) QueryOption {
	return queryOptionFunc(func(stmt *gorm.DB) *gorm.DB {
		if n <= 0 {
			return stmt
		}
		return stmt.Limit(n)
	})
}

// ListParams describes the ordering and pagination surface shared by every
// listing endpoint.
type ListParams struct {
	Table     string
	PageToken string
	PageSize  int
	OrderBy   string
	Sortable  map[string]bool
}

// ForList resolves ListParams into query options. It returns the effective
// page size, or 0 when the listing is unpaginated. OrderBy and cursor
// pagination are mutually exclusive because the cursor encodes the stable
// (created_at, id) ordering.
func ForList(p ListParams) ([]QueryOption, int, error) {
	paginated := p.PageSize > 0 || p.PageToken != ""
	if paginated && p.OrderBy != "" {
		return nil, 0, ErrInvalidSortField
	}

	if p.OrderBy != "" {
		sort, err := SortBy(p.OrderBy, p.Sortable)
		if err != nil {
			return nil, 0, err
		}
		return []QueryOption{sort}, 0, nil
	}

	if !paginated {
		return []QueryOption{StableOrder(p.Table)}, 0, nil
	}

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	var opts []QueryOption
	if p.PageToken != "" {
		cursor, err := pagination.DecodeCursor(p.PageToken)
		if err != nil {
			return nil, 0, ErrInvalidPageToken
		}
		opts = append(opts, AfterCursor(p.Table, cursor))
	}

	opts = append(opts, StableOrder(p.Table), Limit(pageSize+1))
	return opts, pageSize, nil
}
