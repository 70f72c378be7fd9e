package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thicket-social/thicket-be/model"
)

func viewWith(comment model.Comment) *model.CommentView {
	return &model.CommentView{Comment: &comment}
}

func TestSortKeysPerStrategy(t *testing.T) {
	assert.Equal(t, []SortKey{{FieldHotRank, true}, {FieldScore, true}}, SortKeys(model.SortHot))
	assert.Equal(t, []SortKey{{FieldControversyRank, true}}, SortKeys(model.SortControversial))
	assert.Equal(t, []SortKey{{FieldPublished, true}}, SortKeys(model.SortNew))
	assert.Equal(t, []SortKey{{FieldPublished, false}}, SortKeys(model.SortOld))
	assert.Equal(t, []SortKey{{FieldScore, true}}, SortKeys(model.SortTop))
}

func TestEffectiveSortKeys(t *testing.T) {
	unscoped := EffectiveSortKeys(model.SortTop, false, false)
	assert.Equal(t, []SortKey{{FieldScore, true}, {FieldId, true}}, unscoped)

	scoped := EffectiveSortKeys(model.SortTop, true, false)
	assert.Equal(t, []SortKey{
		{FieldDistinguished, true},
		{FieldScore, true},
		{FieldId, true},
	}, scoped)

	treeFetch := EffectiveSortKeys(model.SortTop, true, true)
	assert.Equal(t, []SortKey{
		{FieldParentPath, false},
		{FieldDistinguished, true},
		{FieldScore, true},
		{FieldId, true},
	}, treeFetch)

	// depth limits without a post or parent scope do not group by ancestor
	unscopedTree := EffectiveSortKeys(model.SortTop, false, true)
	assert.Equal(t, unscoped, unscopedTree)
}

func TestEncodeDecodeKeyValueRoundTrip(t *testing.T) {
	published := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	view := viewWith(model.Comment{
		Id:              91,
		Path:            model.ThreadPath{3, 91},
		Distinguished:   true,
		Score:           -4,
		HotRank:         0.0001729,
		ControversyRank: 12.5,
		PublishedAt:     published,
	})

	for _, field := range []SortField{
		FieldParentPath, FieldDistinguished, FieldHotRank,
		FieldControversyRank, FieldScore, FieldPublished, FieldId,
	} {
		encoded := EncodeKeyValue(field, view)
		arg, err := DecodeKeyArg(field, encoded)
		require.NoError(t, err, string(field))
		assert.Zero(t, CompareToArg(field, view, arg), string(field))
	}
}

func TestDecodeKeyArgRejectsGarbage(t *testing.T) {
	for field, encoded := range map[SortField]string{
		FieldDistinguished: "yes",
		FieldHotRank:       "fast",
		FieldPublished:     "yesterday",
		FieldId:            "1e3",
	} {
		_, err := DecodeKeyArg(field, encoded)
		assert.ErrorIs(t, err, ErrInvalidCursor, string(field))
	}
}

func TestCompareViews(t *testing.T) {
	low := viewWith(model.Comment{Id: 1, Path: model.ThreadPath{1}, Score: 3})
	high := viewWith(model.Comment{Id: 2, Path: model.ThreadPath{2}, Score: 9})

	assert.Negative(t, CompareViews(FieldScore, low, high))
	assert.Positive(t, CompareViews(FieldScore, high, low))
	assert.Zero(t, CompareViews(FieldScore, low, low))

	assert.Negative(t, CompareViews(FieldId, low, high))
}

func TestClampLimit(t *testing.T) {
	limit := func(v int64) *int64 { return &v }

	assert.Equal(t, DefaultLimit, ClampLimit(nil))
	assert.Equal(t, DefaultLimit, ClampLimit(limit(0)))
	assert.Equal(t, 25, ClampLimit(limit(25)))
	assert.Equal(t, MaxLimit, ClampLimit(limit(5000)))
}

func TestLimitAndOffset(t *testing.T) {
	val := func(v int64) *int64 { return &v }

	limit, offset, err := LimitAndOffset(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 0, offset)

	limit, offset, err = LimitAndOffset(val(3), val(20))
	require.NoError(t, err)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	_, _, err = LimitAndOffset(val(0), nil)
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, _, err = LimitAndOffset(val(MaxPage+1), nil)
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, _, err = LimitAndOffset(val(1), val(MaxLimit+1))
	assert.ErrorIs(t, err, ErrInvalidPagination)
}
