package db

import "fmt"

const (
	DefaultLimit = 10
	MaxLimit     = 50
	// TreeFetchLimit caps depth-limited tree fetches, which run without
	// pagination because a materialized path cannot limit per branch. A
	// policy trade-off carried over deliberately, not a bug.
	TreeFetchLimit = 300
	// MaxPage bounds legacy offset paging so a hostile offset cannot force
	// an unbounded scan.
	MaxPage = 9999
)

// Keyset is the decoded resume point of a cursor: one encoded value per
// effective sort key (id excluded) plus the id of the boundary row.
type Keyset struct {
	Values []string
	LastId int64
}

// ClampLimit applies the default and ceiling for cursor pagination. Asking
// for more than the ceiling yields the ceiling, not an error.
func ClampLimit(limit *int64) int {
	if limit == nil {
		return DefaultLimit
	}
	if *limit < 1 {
		return DefaultLimit
	}
	if *limit > MaxLimit {
		return MaxLimit
	}
	return int(*limit)
}

// LimitAndOffset validates legacy page/limit paging. Unlike cursor paging it
// rejects out-of-bounds values instead of clamping them.
func LimitAndOffset(page, limit *int64) (int, int, error) {
	resolvedLimit := int64(DefaultLimit)
	if limit != nil {
		if *limit < 1 || *limit > MaxLimit {
			return 0, 0, fmt.Errorf("%w: limit %d out of [1, %d]", ErrInvalidPagination, *limit, MaxLimit)
		}
		resolvedLimit = *limit
	}
	resolvedPage := int64(1)
	if page != nil {
		if *page < 1 || *page > MaxPage {
			return 0, 0, fmt.Errorf("%w: page %d out of [1, %d]", ErrInvalidPagination, *page, MaxPage)
		}
		resolvedPage = *page
	}
	return int(resolvedLimit), int(resolvedLimit * (resolvedPage - 1)), nil
}
