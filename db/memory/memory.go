// Package memory implements db.Database over process-local maps. It backs
// the engine's tests and local development; every query is evaluated under
// one read lock so it sees a single consistent snapshot, matching the
// atomicity the SQL backend gets from a single statement.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	appDb "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
)

type MemoryDB struct {
	mu     sync.RWMutex
	nextId int64

	comments    map[int64]*model.Comment
	posts       map[int64]*model.Post
	communities map[int64]*model.Community
	persons     map[int64]*model.Person

	likes          map[int64]map[int64]int16             // person -> comment -> score
	follows        map[int64]map[int64]model.FollowState // person -> community
	moderators     map[int64]map[int64]struct{}          // community -> person
	bans           map[int64]map[int64]struct{}          // community -> person
	personBlocks   map[int64]map[int64]struct{}          // person -> target
	instanceBlocks map[int64]map[int64]struct{}          // person -> instance
	languages      map[int64]map[int64]struct{}          // person -> language
}

func NewDatabase() *MemoryDB {
	return &MemoryDB{
		comments:       make(map[int64]*model.Comment),
		posts:          make(map[int64]*model.Post),
		communities:    make(map[int64]*model.Community),
		persons:        make(map[int64]*model.Person),
		likes:          make(map[int64]map[int64]int16),
		follows:        make(map[int64]map[int64]model.FollowState),
		moderators:     make(map[int64]map[int64]struct{}),
		bans:           make(map[int64]map[int64]struct{}),
		personBlocks:   make(map[int64]map[int64]struct{}),
		instanceBlocks: make(map[int64]map[int64]struct{}),
		languages:      make(map[int64]map[int64]struct{}),
	}
}

func (m *MemoryDB) Close() error {
	return nil
}

func (m *MemoryDB) allocId() int64 {
	m.nextId++
	return m.nextId
}

// row bundles a comment with the joined context a predicate may consult.
type row struct {
	comment   *model.Comment
	post      *model.Post
	community *model.Community
	creator   *model.Person
}

func (m *MemoryDB) rowFor(comment *model.Comment) (*row, bool) {
	post, ok := m.posts[comment.PostId]
	if !ok {
		return nil, false
	}
	community, ok := m.communities[post.CommunityId]
	if !ok {
		return nil, false
	}
	creator, ok := m.persons[comment.CreatorId]
	if !ok {
		return nil, false
	}
	return &row{comment: comment, post: post, community: community, creator: creator}, true
}

func (m *MemoryDB) evalPredicate(p appDb.Predicate, r *row) bool {
	switch filter := p.(type) {
	case appDb.BlockFilter:
		if r.comment.CreatorId == filter.ViewerId {
			return true
		}
		if _, blocked := m.personBlocks[filter.ViewerId][r.comment.CreatorId]; blocked {
			return false
		}
		_, blocked := m.instanceBlocks[filter.ViewerId][r.creator.InstanceId]
		return !blocked
	case appDb.CommunityVisibilityFilter:
		switch r.community.Visibility {
		case model.VisibilityPrivate:
			return m.follows[filter.ViewerId][r.community.Id] == model.FollowAccepted
		case model.VisibilityLocalOnlyPrivate:
			return filter.ViewerId != 0
		default:
			return true
		}
	case appDb.NsfwFilter:
		return !r.post.Nsfw && !r.community.Nsfw
	case appDb.LanguageFilter:
		for _, id := range filter.LanguageIds {
			if r.comment.LanguageId == id {
				return true
			}
		}
		return false
	case appDb.BotFilter:
		return !r.creator.Bot
	case appDb.PendingFilter:
		return !r.comment.FederationPending || r.comment.CreatorId == filter.ViewerId
	case appDb.ListingTypeFilter:
		switch filter.Type {
		case model.ListingSubscribed:
			return m.follows[filter.ViewerId][r.community.Id] != model.FollowNone
		case model.ListingLocal:
			return r.community.Local
		case model.ListingModeratorView:
			_, mod := m.moderators[r.community.Id][filter.ViewerId]
			return mod
		}
		return true
	case appDb.LikedFilter:
		if r.comment.CreatorId == filter.ViewerId {
			return false
		}
		return m.likes[filter.ViewerId][r.comment.Id] == filter.Score
	}
	return true
}

func (m *MemoryDB) buildView(r *row, viewer *model.ViewerContext) *model.CommentView {
	comment := *r.comment
	post := *r.post
	community := *r.community
	creator := *r.creator

	view := &model.CommentView{
		Comment:   &comment,
		Creator:   &creator,
		Post:      &post,
		Community: &community,
	}
	view.CreatorIsAdmin = r.creator.Admin
	_, view.CreatorIsModerator = m.moderators[r.community.Id][r.comment.CreatorId]
	_, view.CreatorBanned = m.bans[r.community.Id][r.comment.CreatorId]

	viewerId := viewer.PersonIdOrZero()
	if viewerId == 0 {
		return view
	}
	if score, ok := m.likes[viewerId][r.comment.Id]; ok {
		vote := score
		view.MyVote = &vote
	}
	_, view.ViewerIsModerator = m.moderators[r.community.Id][viewerId]
	_, view.CreatorBlocked = m.personBlocks[viewerId][r.comment.CreatorId]
	return view
}

func (m *MemoryDB) GetCommentById(ctx context.Context, id int64, q *appDb.CommentReadQuery) (*model.CommentView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comment, ok := m.comments[id]
	if !ok {
		return nil, appDb.ErrNotFound
	}
	r, ok := m.rowFor(comment)
	if !ok {
		return nil, appDb.ErrNotFound
	}
	filters := appDb.VisibilityFilters(q.Viewer, q.Site, model.ListingAll, false, false, appDb.VisibilityRead)
	for _, filter := range filters {
		if !m.evalPredicate(filter, r) {
			return nil, appDb.ErrNotFound
		}
	}
	return m.buildView(r, q.Viewer), nil
}

func (m *MemoryDB) GetComments(ctx context.Context, q *appDb.CommentListQuery) ([]*model.CommentView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filters := appDb.VisibilityFilters(q.Viewer, q.Site, q.ListingType, q.LikedOnly, q.DislikedOnly, appDb.VisibilityList)
	ceiling, depthLimited := q.DepthCeiling()
	var cutoff time.Time
	if q.TimeRangeSeconds > 0 {
		cutoff = time.Now().Add(-time.Duration(q.TimeRangeSeconds) * time.Second)
	}

	var rows []*row
candidates:
	for _, comment := range m.comments {
		r, ok := m.rowFor(comment)
		if !ok {
			continue
		}
		if q.CreatorId != 0 && comment.CreatorId != q.CreatorId {
			continue
		}
		if q.PostId != 0 && comment.PostId != q.PostId {
			continue
		}
		if q.CommunityId != 0 && r.post.CommunityId != q.CommunityId {
			continue
		}
		if q.ParentPath != nil && !q.ParentPath.Contains(comment.Path) {
			continue
		}
		if depthLimited && comment.Path.Levels() > ceiling {
			continue
		}
		if q.TimeRangeSeconds > 0 && !comment.PublishedAt.After(cutoff) {
			continue
		}
		for _, filter := range filters {
			if !m.evalPredicate(filter, r) {
				continue candidates
			}
		}
		rows = append(rows, r)
	}

	views := make([]*model.CommentView, len(rows))
	for i, r := range rows {
		views[i] = m.buildView(r, q.Viewer)
	}

	keys := appDb.EffectiveSortKeys(q.Sort, q.Scoped(), q.MaxDepth != nil)
	sort.SliceStable(views, func(i, j int) bool {
		for _, key := range keys {
			c := appDb.CompareViews(key.Field, views[i], views[j])
			if key.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})

	if q.Keyset != nil {
		var err error
		views, err = filterAfterKeyset(views, keys, q.Keyset, q.PageBack)
		if err != nil {
			return nil, err
		}
	}

	limit := q.Limit
	if limit <= 0 || limit > len(views) {
		limit = len(views)
	}
	switch {
	case q.Keyset != nil && q.PageBack:
		// nearest rows before the boundary, still in display order
		views = views[len(views)-limit:]
	default:
		if q.Offset >= len(views) {
			return nil, nil
		}
		views = views[q.Offset:]
		if limit > len(views) {
			limit = len(views)
		}
		views = views[:limit]
	}
	return views, nil
}

// filterAfterKeyset keeps the rows strictly beyond the cursor boundary in
// the paging direction. Input and output stay in display order.
func filterAfterKeyset(views []*model.CommentView, keys []appDb.SortKey, keyset *appDb.Keyset, back bool) ([]*model.CommentView, error) {
	args := make([]interface{}, len(keys))
	for i, key := range keys {
		var encoded string
		if i < len(keyset.Values) {
			encoded = keyset.Values[i]
		}
		if key.Field == appDb.FieldId {
			args[i] = keyset.LastId
			continue
		}
		arg, err := appDb.DecodeKeyArg(key.Field, encoded)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	kept := views[:0:0]
	for _, view := range views {
		c := 0
		for i, key := range keys {
			c = appDb.CompareToArg(key.Field, view, args[i])
			if key.Desc {
				c = -c
			}
			if c != 0 {
				break
			}
		}
		if (!back && c > 0) || (back && c < 0) {
			kept = append(kept, view)
		}
	}
	return kept, nil
}
