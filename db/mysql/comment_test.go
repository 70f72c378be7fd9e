package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
)

func TestPredicateCondAnonymousCommunityVisibility(t *testing.T) {
	cond := predicateCond(db2.CommunityVisibilityFilter{ViewerId: 0})
	assert.Equal(t, "cm.visibility IN ?", cond.expr)
	require.Len(t, cond.args, 1)
	assert.Equal(t, []string{"Public", "LocalOnlyPublic"}, cond.args[0])
}

func TestPredicateCondAuthedCommunityVisibility(t *testing.T) {
	cond := predicateCond(db2.CommunityVisibilityFilter{ViewerId: 7})
	assert.Equal(t, "(cm.visibility != ? OR my_follow.state = ?)", cond.expr)
	assert.Equal(t, []interface{}{"Private", "Accepted"}, cond.args)
}

func TestPredicateCondBlockExemptsSelf(t *testing.T) {
	cond := predicateCond(db2.BlockFilter{ViewerId: 7})
	assert.Contains(t, cond.expr, "c.creator_id = ?")
	assert.Contains(t, cond.expr, "my_block.person_id IS NULL")
	assert.Contains(t, cond.expr, "my_instance_block.person_id IS NULL")
}

func TestPredicateCondListingTypes(t *testing.T) {
	assert.Equal(t, "my_follow.person_id IS NOT NULL",
		predicateCond(db2.ListingTypeFilter{Type: model.ListingSubscribed}).expr)
	assert.Equal(t, "cm.local = true",
		predicateCond(db2.ListingTypeFilter{Type: model.ListingLocal}).expr)
	assert.Equal(t, "my_mod.person_id IS NOT NULL",
		predicateCond(db2.ListingTypeFilter{Type: model.ListingModeratorView}).expr)
}

func TestKeysetCondForwardTop(t *testing.T) {
	keys := db2.EffectiveSortKeys(model.SortTop, false, false)
	cond, err := keysetCond(keys, &db2.Keyset{Values: []string{"42"}, LastId: 9}, false)
	require.NoError(t, err)

	// score desc then id desc: strictly beyond means lower score, or equal
	// score and lower id
	assert.Equal(t, "((c.score < ?) OR (c.score = ? AND c.id < ?))", cond.expr)
	assert.Equal(t, []interface{}{int64(42), int64(42), int64(9)}, cond.args)
}

func TestKeysetCondBackInvertsDirection(t *testing.T) {
	keys := db2.EffectiveSortKeys(model.SortOld, false, false)
	cond, err := keysetCond(keys, &db2.Keyset{
		Values: []string{"2026-01-02T03:04:05Z"},
		LastId: 9,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "((c.published_at < ?) OR (c.published_at = ? AND c.id > ?))", cond.expr)
}

func TestKeysetCondRejectsBadValues(t *testing.T) {
	keys := db2.EffectiveSortKeys(model.SortNew, false, false)

	_, err := keysetCond(keys, &db2.Keyset{Values: []string{"yesterday"}, LastId: 9}, false)
	assert.ErrorIs(t, err, db2.ErrInvalidCursor)

	_, err = keysetCond(keys, &db2.Keyset{Values: nil, LastId: 9}, false)
	assert.ErrorIs(t, err, db2.ErrInvalidCursor)
}

func TestOrderColumnCoversAllFields(t *testing.T) {
	assert.Equal(t, parentPrefixExpr, orderColumn(db2.FieldParentPath))
	assert.Equal(t, "c.distinguished", orderColumn(db2.FieldDistinguished))
	assert.Equal(t, "c.hot_rank", orderColumn(db2.FieldHotRank))
	assert.Equal(t, "c.controversy_rank", orderColumn(db2.FieldControversyRank))
	assert.Equal(t, "c.score", orderColumn(db2.FieldScore))
	assert.Equal(t, "c.published_at", orderColumn(db2.FieldPublished))
	assert.Equal(t, "c.id", orderColumn(db2.FieldId))
}
