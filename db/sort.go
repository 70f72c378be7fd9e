package db

import (
	"fmt"
	"strconv"
	"time"

	"github.com/thicket-social/thicket-be/model"
)

// SortField names one orderable attribute of a comment row. The same field
// table drives the SQL ORDER BY, the in-memory comparator and the cursor
// codec, so the three can never disagree on the total order.
type SortField string

const (
	FieldParentPath      SortField = "parent_path"
	FieldDistinguished   SortField = "distinguished"
	FieldHotRank         SortField = "hot_rank"
	FieldControversyRank SortField = "controversy_rank"
	FieldScore           SortField = "score"
	FieldPublished       SortField = "published"
	FieldId              SortField = "id"
)

type SortKey struct {
	Field SortField
	Desc  bool
}

// SortKeys maps a sort strategy to its ranking keys, tie-breaks included.
func SortKeys(sort model.CommentSortType) []SortKey {
	switch sort {
	case model.SortControversial:
		return []SortKey{{FieldControversyRank, true}}
	case model.SortNew:
		return []SortKey{{FieldPublished, true}}
	case model.SortOld:
		return []SortKey{{FieldPublished, false}}
	case model.SortTop:
		return []SortKey{{FieldScore, true}}
	default:
		return []SortKey{{FieldHotRank, true}, {FieldScore, true}}
	}
}

// EffectiveSortKeys is the complete key list for a query. Scoped queries
// promote distinguished comments before the chosen ranking; depth-limited
// tree fetches additionally group each branch under its ancestor. The id
// tie-break makes the order total so pages stay disjoint under concurrent
// writes.
func EffectiveSortKeys(sort model.CommentSortType, scoped, treeFetch bool) []SortKey {
	var keys []SortKey
	if scoped && treeFetch {
		keys = append(keys, SortKey{FieldParentPath, false})
	}
	if scoped {
		keys = append(keys, SortKey{FieldDistinguished, true})
	}
	keys = append(keys, SortKeys(sort)...)
	return append(keys, SortKey{FieldId, true})
}

// fieldValue extracts the orderable value of a field from a view.
func fieldValue(field SortField, v *model.CommentView) interface{} {
	switch field {
	case FieldParentPath:
		return v.Comment.Path.ParentPrefix()
	case FieldDistinguished:
		return v.Comment.Distinguished
	case FieldHotRank:
		return v.Comment.HotRank
	case FieldControversyRank:
		return v.Comment.ControversyRank
	case FieldScore:
		return v.Comment.Score
	case FieldPublished:
		return v.Comment.PublishedAt
	default:
		return v.Comment.Id
	}
}

// EncodeKeyValue renders a field of a view as the string form used inside
// pagination cursors.
func EncodeKeyValue(field SortField, v *model.CommentView) string {
	switch value := fieldValue(field, v).(type) {
	case string:
		return value
	case bool:
		if value {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case time.Time:
		return value.UTC().Format(time.RFC3339Nano)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return ""
	}
}

// DecodeKeyArg parses a cursor value back into the typed form a storage
// backend can compare or bind as a query argument.
func DecodeKeyArg(field SortField, encoded string) (interface{}, error) {
	switch field {
	case FieldParentPath:
		return encoded, nil
	case FieldDistinguished:
		switch encoded {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
		return nil, fmt.Errorf("%w: bad bool %q", ErrInvalidCursor, encoded)
	case FieldHotRank, FieldControversyRank:
		value, err := strconv.ParseFloat(encoded, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad rank %q", ErrInvalidCursor, encoded)
		}
		return value, nil
	case FieldPublished:
		value, err := time.Parse(time.RFC3339Nano, encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q", ErrInvalidCursor, encoded)
		}
		return value, nil
	default:
		value, err := strconv.ParseInt(encoded, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad id %q", ErrInvalidCursor, encoded)
		}
		return value, nil
	}
}

// CompareToArg orders a view's field against a decoded cursor argument.
// Returns <0, 0 or >0 in the field's natural (ascending) direction.
func CompareToArg(field SortField, v *model.CommentView, arg interface{}) int {
	switch value := fieldValue(field, v).(type) {
	case string:
		other := arg.(string)
		switch {
		case value < other:
			return -1
		case value > other:
			return 1
		}
		return 0
	case bool:
		other := arg.(bool)
		switch {
		case !value && other:
			return -1
		case value && !other:
			return 1
		}
		return 0
	case float64:
		other := arg.(float64)
		switch {
		case value < other:
			return -1
		case value > other:
			return 1
		}
		return 0
	case time.Time:
		other := arg.(time.Time)
		switch {
		case value.Before(other):
			return -1
		case value.After(other):
			return 1
		}
		return 0
	default:
		other := arg.(int64)
		i := value.(int64)
		switch {
		case i < other:
			return -1
		case i > other:
			return 1
		}
		return 0
	}
}

// CompareViews orders two views by a single field, ascending.
func CompareViews(field SortField, a, b *model.CommentView) int {
	return CompareToArg(field, a, fieldValue(field, b))
}
