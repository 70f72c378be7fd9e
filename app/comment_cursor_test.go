package app

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
)

func boundaryView() *model.CommentView {
	return &model.CommentView{
		Comment: &model.Comment{
			Id:          42,
			Path:        model.ThreadPath{7, 42},
			Score:       13,
			HotRank:     0.25,
			PublishedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

func TestCommentCursorRoundTrip(t *testing.T) {
	for _, sort := range []model.CommentSortType{
		model.SortHot, model.SortControversial, model.SortNew, model.SortOld, model.SortTop,
	} {
		for _, scoped := range []bool{false, true} {
			token := EncodeCommentCursor(sort, scoped, boundaryView())
			keyset, err := DecodeCommentCursor(token, sort, scoped)
			require.NoError(t, err, "%v scoped=%v", sort, scoped)
			assert.EqualValues(t, 42, keyset.LastId)
			assert.Len(t, keyset.Values, len(db.EffectiveSortKeys(sort, scoped, false))-1)
		}
	}
}

func TestDecodeCommentCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCommentCursor("not base64 ###", model.SortHot, false)
	assert.ErrorIs(t, err, db.ErrInvalidCursor)

	notJSON := base64.RawURLEncoding.EncodeToString([]byte("hello"))
	_, err = DecodeCommentCursor(notJSON, model.SortHot, false)
	assert.ErrorIs(t, err, db.ErrInvalidCursor)
}

func TestDecodeCommentCursorRejectsShapeMismatch(t *testing.T) {
	token := EncodeCommentCursor(model.SortHot, false, boundaryView())

	_, err := DecodeCommentCursor(token, model.SortTop, false)
	assert.ErrorIs(t, err, db.ErrInvalidCursor)

	_, err = DecodeCommentCursor(token, model.SortHot, true)
	assert.ErrorIs(t, err, db.ErrInvalidCursor)
}

func TestDecodeCommentCursorRejectsTamperedValues(t *testing.T) {
	token := EncodeCommentCursor(model.SortNew, false, boundaryView())
	payload, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)

	var cursor struct {
		Sort   model.CommentSortType `json:"sort"`
		Scoped bool                  `json:"scoped"`
		Keys   []string              `json:"keys"`
		LastId int64                 `json:"lastId"`
	}
	require.NoError(t, json.Unmarshal(payload, &cursor))

	cursor.Keys[0] = "yesterday"
	tampered, err := json.Marshal(&cursor)
	require.NoError(t, err)

	_, err = DecodeCommentCursor(base64.RawURLEncoding.EncodeToString(tampered), model.SortNew, false)
	assert.ErrorIs(t, err, db.ErrInvalidCursor)

	cursor.Keys = append(cursor.Keys, "extra")
	tampered, err = json.Marshal(&cursor)
	require.NoError(t, err)

	_, err = DecodeCommentCursor(base64.RawURLEncoding.EncodeToString(tampered), model.SortNew, false)
	assert.ErrorIs(t, err, db.ErrInvalidCursor)
}
