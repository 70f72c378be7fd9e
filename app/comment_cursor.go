package app

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
)

// commentCursor is the decoded form of an opaque page token: the sort it was
// minted under, whether the query was post/parent scoped (the two change the
// key shape), the boundary row's key values and its id. Clients must treat
// the token as opaque; any mismatch on decode is an invalid cursor, never a
// silent default.
type commentCursor struct {
	Sort   model.CommentSortType `json:"sort"`
	Scoped bool                  `json:"scoped"`
	Keys   []string              `json:"keys"`
	LastId int64                 `json:"lastId"`
}

// EncodeCommentCursor mints the resume token for the given boundary row.
// Tree fetches never paginate, so cursor keys always use the non-tree shape.
func EncodeCommentCursor(sort model.CommentSortType, scoped bool, boundary *model.CommentView) string {
	keys := db.EffectiveSortKeys(sort, scoped, false)
	values := make([]string, 0, len(keys)-1)
	for _, key := range keys[:len(keys)-1] {
		values = append(values, db.EncodeKeyValue(key.Field, boundary))
	}
	payload, err := json.Marshal(&commentCursor{
		Sort:   sort,
		Scoped: scoped,
		Keys:   values,
		LastId: boundary.Comment.Id,
	})
	if err != nil {
		// all fields are plain strings and ints
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(payload)
}

// DecodeCommentCursor parses and validates a page token against the current
// query shape.
func DecodeCommentCursor(token string, sort model.CommentSortType, scoped bool) (*db.Keyset, error) {
	payload, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", db.ErrInvalidCursor, err)
	}
	var cursor commentCursor
	if err := json.Unmarshal(payload, &cursor); err != nil {
		return nil, fmt.Errorf("%w: %v", db.ErrInvalidCursor, err)
	}
	if cursor.Sort != sort || cursor.Scoped != scoped {
		return nil, fmt.Errorf("%w: cursor minted under a different query shape", db.ErrInvalidCursor)
	}
	keys := db.EffectiveSortKeys(sort, scoped, false)
	if len(cursor.Keys) != len(keys)-1 {
		return nil, fmt.Errorf("%w: wrong key count", db.ErrInvalidCursor)
	}
	for i, key := range keys[:len(keys)-1] {
		if _, err := db.DecodeKeyArg(key.Field, cursor.Keys[i]); err != nil {
			return nil, err
		}
	}
	return &db.Keyset{Values: cursor.Keys, LastId: cursor.LastId}, nil
}
