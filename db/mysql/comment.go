package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
	"github.com/upper/db/v4"
)

type CommentDB struct {
	sess db.Session
}

func getCommentDB(sess db.Session) *CommentDB {
	return &CommentDB{sess}
}

// parentPrefixExpr strips the last path segment in SQL, mirroring
// ThreadPath.ParentPrefix. SUBSTRING_INDEX with count 0 yields the empty
// string for top-level comments, which sorts before every real prefix.
const parentPrefixExpr = "SUBSTRING_INDEX(c.path, '.', LENGTH(c.path) - LENGTH(REPLACE(c.path, '.', '')))"

// pathLevelsExpr counts path segments in SQL, mirroring ThreadPath.Levels.
const pathLevelsExpr = "(LENGTH(c.path) - LENGTH(REPLACE(c.path, '.', '')) + 1)"

type flattenedCommentView struct {
	Id                int64      `db:"id"`
	PostId            int64      `db:"post_id"`
	CreatorId         int64      `db:"creator_id"`
	Content           string     `db:"content"`
	Path              string     `db:"path"`
	LanguageId        int64      `db:"language_id"`
	Removed           bool       `db:"removed"`
	Deleted           bool       `db:"deleted"`
	Distinguished     bool       `db:"distinguished"`
	FederationPending bool       `db:"federation_pending"`
	Score             int64      `db:"score"`
	HotRank           float64    `db:"hot_rank"`
	ControversyRank   float64    `db:"controversy_rank"`
	PublishedAt       time.Time  `db:"published_at"`
	UpdatedAt         *time.Time `db:"updated_at"`

	PostCommunityId int64     `db:"post_community_id"`
	PostCreatorId   int64     `db:"post_creator_id"`
	PostTitle       string    `db:"post_title"`
	PostNsfw        bool      `db:"post_nsfw"`
	PostRemoved     bool      `db:"post_removed"`
	PostDeleted     bool      `db:"post_deleted"`
	PostLocked      bool      `db:"post_locked"`
	PostPublishedAt time.Time `db:"post_published_at"`

	CommunityInstanceId  int64     `db:"community_instance_id"`
	CommunityName        string    `db:"community_name"`
	CommunityTitle       string    `db:"community_title"`
	CommunityVisibility  string    `db:"community_visibility"`
	CommunityNsfw        bool      `db:"community_nsfw"`
	CommunityLocal       bool      `db:"community_local"`
	CommunityRemoved     bool      `db:"community_removed"`
	CommunityDeleted     bool      `db:"community_deleted"`
	CommunityPublishedAt time.Time `db:"community_published_at"`

	CreatorInstanceId  int64     `db:"creator_instance_id"`
	CreatorName        string    `db:"creator_name"`
	CreatorDisplayName string    `db:"creator_display_name"`
	CreatorAvatar      string    `db:"creator_avatar"`
	CreatorBot         bool      `db:"creator_bot"`
	CreatorAdmin       bool      `db:"creator_admin"`
	CreatorPublishedAt time.Time `db:"creator_published_at"`

	MyVote             sql.NullInt64 `db:"my_vote"`
	CreatorIsModerator bool          `db:"creator_is_moderator"`
	CreatorBanned      bool          `db:"creator_banned"`
	CreatorBlocked     bool          `db:"creator_blocked"`
	ViewerIsModerator  bool          `db:"viewer_is_moderator"`
}

var commentViewColumns = []interface{}{
	"c.id", "c.post_id", "c.creator_id", "c.content", "c.path", "c.language_id",
	"c.removed", "c.deleted", "c.distinguished", "c.federation_pending",
	"c.score", "c.hot_rank", "c.controversy_rank", "c.published_at", "c.updated_at",
	"p.community_id as post_community_id",
	"p.creator_id as post_creator_id",
	"p.title as post_title",
	"p.nsfw as post_nsfw",
	"p.removed as post_removed",
	"p.deleted as post_deleted",
	"p.locked as post_locked",
	"p.published_at as post_published_at",
	"cm.instance_id as community_instance_id",
	"cm.name as community_name",
	"cm.title as community_title",
	"cm.visibility as community_visibility",
	"cm.nsfw as community_nsfw",
	"cm.local as community_local",
	"cm.removed as community_removed",
	"cm.deleted as community_deleted",
	"cm.published_at as community_published_at",
	"creator.instance_id as creator_instance_id",
	"creator.name as creator_name",
	"creator.display_name as creator_display_name",
	"creator.avatar as creator_avatar",
	"creator.bot_account as creator_bot",
	"creator.admin as creator_admin",
	"creator.published_at as creator_published_at",
	db.Raw("my_vote.score as my_vote"),
	db.Raw("creator_mod.person_id IS NOT NULL as creator_is_moderator"),
	db.Raw("creator_ban.person_id IS NOT NULL as creator_banned"),
	db.Raw("my_block.person_id IS NOT NULL as creator_blocked"),
	db.Raw("my_mod.person_id IS NOT NULL as viewer_is_moderator"),
}

// viewSelector joins the comment with its post, community, creator and the
// per-viewer relation rows. All visibility conditions are layered onto this
// one selector so the whole decision executes as a single statement.
func (cdb *CommentDB) viewSelector(viewerId int64) db.Selector {
	return cdb.sess.SQL().
		Select(commentViewColumns...).
		From("comment as c").
		Join("post as p").On("c.post_id = p.id").
		Join("community as cm").On("p.community_id = cm.id").
		Join("person as creator").On("c.creator_id = creator.id").
		LeftJoin("comment_like as my_vote").On("my_vote.comment_id = c.id AND my_vote.person_id = ?", viewerId).
		LeftJoin("community_follow as my_follow").On("my_follow.community_id = cm.id AND my_follow.person_id = ?", viewerId).
		LeftJoin("community_moderator as my_mod").On("my_mod.community_id = cm.id AND my_mod.person_id = ?", viewerId).
		LeftJoin("community_moderator as creator_mod").On("creator_mod.community_id = cm.id AND creator_mod.person_id = c.creator_id").
		LeftJoin("community_ban as creator_ban").On("creator_ban.community_id = cm.id AND creator_ban.person_id = c.creator_id").
		LeftJoin("person_block as my_block").On("my_block.person_id = ? AND my_block.target_id = c.creator_id", viewerId).
		LeftJoin("instance_block as my_instance_block").On("my_instance_block.person_id = ? AND my_instance_block.instance_id = creator.instance_id", viewerId)
}

type sqlCond struct {
	expr string
	args []interface{}
}

func predicateCond(p db2.Predicate) sqlCond {
	switch filter := p.(type) {
	case db2.BlockFilter:
		return sqlCond{
			"(c.creator_id = ? OR (my_block.person_id IS NULL AND my_instance_block.person_id IS NULL))",
			[]interface{}{filter.ViewerId},
		}
	case db2.CommunityVisibilityFilter:
		if filter.ViewerId == 0 {
			return sqlCond{"cm.visibility IN ?", []interface{}{
				[]string{string(model.VisibilityPublic), string(model.VisibilityLocalOnlyPublic)},
			}}
		}
		return sqlCond{
			"(cm.visibility != ? OR my_follow.state = ?)",
			[]interface{}{string(model.VisibilityPrivate), string(model.FollowAccepted)},
		}
	case db2.NsfwFilter:
		return sqlCond{"(p.nsfw = false AND cm.nsfw = false)", nil}
	case db2.LanguageFilter:
		return sqlCond{"c.language_id IN ?", []interface{}{filter.LanguageIds}}
	case db2.BotFilter:
		return sqlCond{"creator.bot_account = false", nil}
	case db2.PendingFilter:
		return sqlCond{"(c.federation_pending = false OR c.creator_id = ?)", []interface{}{filter.ViewerId}}
	case db2.ListingTypeFilter:
		switch filter.Type {
		case model.ListingSubscribed:
			return sqlCond{"my_follow.person_id IS NOT NULL", nil}
		case model.ListingLocal:
			return sqlCond{"cm.local = true", nil}
		case model.ListingModeratorView:
			return sqlCond{"my_mod.person_id IS NOT NULL", nil}
		}
	case db2.LikedFilter:
		return sqlCond{"(c.creator_id != ? AND my_vote.score = ?)", []interface{}{filter.ViewerId, filter.Score}}
	}
	return sqlCond{"true", nil}
}

func orderColumn(field db2.SortField) string {
	switch field {
	case db2.FieldParentPath:
		return parentPrefixExpr
	case db2.FieldDistinguished:
		return "c.distinguished"
	case db2.FieldHotRank:
		return "c.hot_rank"
	case db2.FieldControversyRank:
		return "c.controversy_rank"
	case db2.FieldScore:
		return "c.score"
	case db2.FieldPublished:
		return "c.published_at"
	default:
		return "c.id"
	}
}

// keysetCond builds the strict "beyond the boundary" condition for keyset
// pagination: a disjunction over key prefixes, ending in the id tie-break.
func keysetCond(keys []db2.SortKey, keyset *db2.Keyset, back bool) (sqlCond, error) {
	var terms []string
	var args []interface{}

	decoded := make([]interface{}, len(keys))
	for i, key := range keys {
		if key.Field == db2.FieldId {
			decoded[i] = keyset.LastId
			continue
		}
		if i >= len(keyset.Values) {
			return sqlCond{}, fmt.Errorf("%w: wrong key count", db2.ErrInvalidCursor)
		}
		arg, err := db2.DecodeKeyArg(key.Field, keyset.Values[i])
		if err != nil {
			return sqlCond{}, err
		}
		decoded[i] = arg
	}

	for i, key := range keys {
		var parts []string
		for j := 0; j < i; j++ {
			parts = append(parts, fmt.Sprintf("%s = ?", orderColumn(keys[j].Field)))
			args = append(args, decoded[j])
		}
		op := ">"
		if key.Desc != back {
			op = "<"
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", orderColumn(key.Field), op))
		args = append(args, decoded[i])
		terms = append(terms, "("+strings.Join(parts, " AND ")+")")
	}
	return sqlCond{"(" + strings.Join(terms, " OR ") + ")", args}, nil
}

func applyConds(sel db.Selector, conds []sqlCond) db.Selector {
	for i, cond := range conds {
		condArgs := append([]interface{}{cond.expr}, cond.args...)
		if i == 0 {
			sel = sel.Where(condArgs...)
		} else {
			sel = sel.And(condArgs...)
		}
	}
	return sel
}

func (cdb *CommentDB) GetCommentById(ctx context.Context, id int64, q *db2.CommentReadQuery) (*model.CommentView, error) {
	conds := []sqlCond{{"c.id = ?", []interface{}{id}}}
	filters := db2.VisibilityFilters(q.Viewer, q.Site, model.ListingAll, false, false, db2.VisibilityRead)
	for _, filter := range filters {
		conds = append(conds, predicateCond(filter))
	}

	var flattened flattenedCommentView
	if err := applyConds(cdb.viewSelector(q.Viewer.PersonIdOrZero()), conds).
		IteratorContext(ctx).
		One(&flattened); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, db2.ErrNotFound
		}
		return nil, err
	}
	return buildCommentView(&flattened)
}

func (cdb *CommentDB) GetComments(ctx context.Context, q *db2.CommentListQuery) ([]*model.CommentView, error) {
	var conds []sqlCond
	if q.CreatorId != 0 {
		conds = append(conds, sqlCond{"c.creator_id = ?", []interface{}{q.CreatorId}})
	}
	if q.PostId != 0 {
		conds = append(conds, sqlCond{"c.post_id = ?", []interface{}{q.PostId}})
	}
	if q.CommunityId != 0 {
		conds = append(conds, sqlCond{"p.community_id = ?", []interface{}{q.CommunityId}})
	}
	if q.ParentPath != nil {
		conds = append(conds, sqlCond{"c.path LIKE ?", []interface{}{q.ParentPath.String() + ".%"}})
	}
	if ceiling, ok := q.DepthCeiling(); ok {
		conds = append(conds, sqlCond{pathLevelsExpr + " <= ?", []interface{}{ceiling}})
	}
	if q.TimeRangeSeconds > 0 {
		cutoff := time.Now().Add(-time.Duration(q.TimeRangeSeconds) * time.Second)
		conds = append(conds, sqlCond{"c.published_at > ?", []interface{}{cutoff}})
	}

	filters := db2.VisibilityFilters(q.Viewer, q.Site, q.ListingType, q.LikedOnly, q.DislikedOnly, db2.VisibilityList)
	for _, filter := range filters {
		conds = append(conds, predicateCond(filter))
	}

	keys := db2.EffectiveSortKeys(q.Sort, q.Scoped(), q.MaxDepth != nil)
	if q.Keyset != nil {
		cond, err := keysetCond(keys, q.Keyset, q.PageBack)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	orderBy := make([]interface{}, len(keys))
	for i, key := range keys {
		direction := " ASC"
		if key.Desc != q.PageBack {
			direction = " DESC"
		}
		orderBy[i] = orderColumn(key.Field) + direction
	}

	sel := applyConds(cdb.viewSelector(q.Viewer.PersonIdOrZero()), conds).
		OrderBy(orderBy...).
		Limit(q.Limit)
	if q.Offset > 0 {
		sel = sel.Offset(q.Offset)
	}

	var flattenedViews []flattenedCommentView
	if err := sel.IteratorContext(ctx).All(&flattenedViews); err != nil {
		return nil, err
	}

	views := make([]*model.CommentView, len(flattenedViews))
	for i := range flattenedViews {
		view, err := buildCommentView(&flattenedViews[i])
		if err != nil {
			return nil, err
		}
		views[i] = view
	}
	if q.PageBack {
		for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
			views[i], views[j] = views[j], views[i]
		}
	}
	return views, nil
}

func buildCommentView(flattened *flattenedCommentView) (*model.CommentView, error) {
	path, err := model.ParseThreadPath(flattened.Path)
	if err != nil {
		return nil, err
	}
	view := &model.CommentView{
		Comment: &model.Comment{
			Id:                flattened.Id,
			PostId:            flattened.PostId,
			CreatorId:         flattened.CreatorId,
			Content:           flattened.Content,
			Path:              path,
			LanguageId:        flattened.LanguageId,
			Removed:           flattened.Removed,
			Deleted:           flattened.Deleted,
			Distinguished:     flattened.Distinguished,
			FederationPending: flattened.FederationPending,
			Score:             flattened.Score,
			HotRank:           flattened.HotRank,
			ControversyRank:   flattened.ControversyRank,
			PublishedAt:       flattened.PublishedAt,
			UpdatedAt:         flattened.UpdatedAt,
		},
		Creator: &model.Person{
			Id:          flattened.CreatorId,
			InstanceId:  flattened.CreatorInstanceId,
			Name:        flattened.CreatorName,
			DisplayName: flattened.CreatorDisplayName,
			Avatar:      flattened.CreatorAvatar,
			Bot:         flattened.CreatorBot,
			Admin:       flattened.CreatorAdmin,
			PublishedAt: flattened.CreatorPublishedAt,
		},
		Post: &model.Post{
			Id:          flattened.PostId,
			CommunityId: flattened.PostCommunityId,
			CreatorId:   flattened.PostCreatorId,
			Title:       flattened.PostTitle,
			Nsfw:        flattened.PostNsfw,
			Removed:     flattened.PostRemoved,
			Deleted:     flattened.PostDeleted,
			Locked:      flattened.PostLocked,
			PublishedAt: flattened.PostPublishedAt,
		},
		Community: &model.Community{
			Id:          flattened.PostCommunityId,
			InstanceId:  flattened.CommunityInstanceId,
			Name:        flattened.CommunityName,
			Title:       flattened.CommunityTitle,
			Visibility:  model.CommunityVisibility(flattened.CommunityVisibility),
			Nsfw:        flattened.CommunityNsfw,
			Local:       flattened.CommunityLocal,
			Removed:     flattened.CommunityRemoved,
			Deleted:     flattened.CommunityDeleted,
			PublishedAt: flattened.CommunityPublishedAt,
		},
		CreatorIsAdmin:     flattened.CreatorAdmin,
		CreatorIsModerator: flattened.CreatorIsModerator,
		CreatorBanned:      flattened.CreatorBanned,
		CreatorBlocked:     flattened.CreatorBlocked,
		ViewerIsModerator:  flattened.ViewerIsModerator,
	}
	if flattened.MyVote.Valid {
		vote := int16(flattened.MyVote.Int64)
		view.MyVote = &vote
	}
	return view, nil
}
