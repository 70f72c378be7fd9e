package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	appDb "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
)

func (m *MemoryDB) CreateComment(ctx context.Context, req *appDb.CreateComment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[req.PostId]; !ok {
		return 0, fmt.Errorf("create comment: post %d: %w", req.PostId, appDb.ErrNotFound)
	}
	id := m.allocId()
	path := model.ThreadPath{id}
	if req.ParentPath != nil {
		path = req.ParentPath.Child(id)
	}
	publishedAt := time.Now()
	if req.PublishedAt != nil {
		publishedAt = *req.PublishedAt
	}
	m.comments[id] = &model.Comment{
		Id:                id,
		PostId:            req.PostId,
		CreatorId:         req.CreatorId,
		Content:           req.Content,
		Path:              path,
		LanguageId:        req.LanguageId,
		FederationPending: req.Pending,
		PublishedAt:       publishedAt,
	}
	return id, nil
}

func (m *MemoryDB) LikeComment(ctx context.Context, personId, commentId int64, score int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment, ok := m.comments[commentId]
	if !ok {
		return fmt.Errorf("like comment %d: %w", commentId, appDb.ErrNotFound)
	}
	if m.likes[personId] == nil {
		m.likes[personId] = make(map[int64]int16)
	}
	if score == 0 {
		delete(m.likes[personId], commentId)
	} else {
		m.likes[personId][commentId] = score
	}

	var total int64
	for _, scores := range m.likes {
		total += int64(scores[commentId])
	}
	comment.Score = total
	return nil
}

func (m *MemoryDB) UpdateCommentRanks(ctx context.Context, commentId int64, score int64, hotRank, controversyRank float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment, ok := m.comments[commentId]
	if !ok {
		return fmt.Errorf("update ranks for comment %d: %w", commentId, appDb.ErrNotFound)
	}
	comment.Score = score
	comment.HotRank = hotRank
	comment.ControversyRank = controversyRank
	return nil
}

func (m *MemoryDB) setCommentFlag(commentId int64, set func(*model.Comment)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment, ok := m.comments[commentId]
	if !ok {
		return fmt.Errorf("comment %d: %w", commentId, appDb.ErrNotFound)
	}
	set(comment)
	return nil
}

func (m *MemoryDB) SetCommentRemoved(ctx context.Context, commentId int64, removed bool) error {
	return m.setCommentFlag(commentId, func(c *model.Comment) { c.Removed = removed })
}

func (m *MemoryDB) SetCommentDeleted(ctx context.Context, commentId int64, deleted bool) error {
	return m.setCommentFlag(commentId, func(c *model.Comment) { c.Deleted = deleted })
}

func (m *MemoryDB) SetCommentDistinguished(ctx context.Context, commentId int64, distinguished bool) error {
	return m.setCommentFlag(commentId, func(c *model.Comment) { c.Distinguished = distinguished })
}

func (m *MemoryDB) SetCommentFederationPending(ctx context.Context, commentId int64, pending bool) error {
	return m.setCommentFlag(commentId, func(c *model.Comment) { c.FederationPending = pending })
}

func (m *MemoryDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.communities[req.CommunityId]; !ok {
		return 0, fmt.Errorf("create post: community %d: %w", req.CommunityId, appDb.ErrNotFound)
	}
	id := m.allocId()
	m.posts[id] = &model.Post{
		Id:          id,
		CommunityId: req.CommunityId,
		CreatorId:   req.CreatorId,
		Title:       req.Title,
		Nsfw:        req.Nsfw,
		PublishedAt: time.Now(),
	}
	return id, nil
}

func (m *MemoryDB) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, appDb.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *MemoryDB) CreateCommunity(ctx context.Context, req *appDb.CreateCommunity) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.allocId()
	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	m.communities[id] = &model.Community{
		Id:          id,
		InstanceId:  req.InstanceId,
		Name:        req.Name,
		Title:       req.Title,
		Visibility:  visibility,
		Nsfw:        req.Nsfw,
		Local:       req.Local,
		PublishedAt: time.Now(),
	}
	return id, nil
}

// SetCommunityVisibility applies a visibility transition on behalf of the
// moderation collaborator.
func (m *MemoryDB) SetCommunityVisibility(ctx context.Context, communityId int64, visibility model.CommunityVisibility) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	community, ok := m.communities[communityId]
	if !ok {
		return fmt.Errorf("community %d: %w", communityId, appDb.ErrNotFound)
	}
	community.Visibility = visibility
	return nil
}

func (m *MemoryDB) GetCommunityById(ctx context.Context, id int64) (*model.Community, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	community, ok := m.communities[id]
	if !ok {
		return nil, appDb.ErrNotFound
	}
	copied := *community
	return &copied, nil
}

func (m *MemoryDB) GetCommunityByName(ctx context.Context, name string) (*model.Community, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, community := range m.communities {
		if community.Name == name {
			copied := *community
			return &copied, nil
		}
	}
	return nil, appDb.ErrNotFound
}

func (m *MemoryDB) ListCommunities(ctx context.Context) ([]*model.Community, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var communities []*model.Community
	for _, community := range m.communities {
		if community.Removed || community.Deleted {
			continue
		}
		copied := *community
		communities = append(communities, &copied)
	}
	sort.Slice(communities, func(i, j int) bool { return communities[i].Id < communities[j].Id })
	return communities, nil
}

func (m *MemoryDB) Follow(ctx context.Context, follow *model.CommunityFollow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.communities[follow.CommunityId]; !ok {
		return fmt.Errorf("follow community %d: %w", follow.CommunityId, appDb.ErrNotFound)
	}
	if m.follows[follow.PersonId] == nil {
		m.follows[follow.PersonId] = make(map[int64]model.FollowState)
	}
	m.follows[follow.PersonId][follow.CommunityId] = follow.State
	return nil
}

func (m *MemoryDB) Unfollow(ctx context.Context, personId, communityId int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.follows[personId], communityId)
	return nil
}

func (m *MemoryDB) AddModerator(ctx context.Context, communityId, personId int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.moderators[communityId] == nil {
		m.moderators[communityId] = make(map[int64]struct{})
	}
	m.moderators[communityId][personId] = struct{}{}
	return nil
}

func (m *MemoryDB) BanFromCommunity(ctx context.Context, communityId, personId int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bans[communityId] == nil {
		m.bans[communityId] = make(map[int64]struct{})
	}
	m.bans[communityId][personId] = struct{}{}
	return nil
}

func (m *MemoryDB) CreatePerson(ctx context.Context, req *appDb.CreatePerson) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.allocId()
	m.persons[id] = &model.Person{
		Id:              id,
		InstanceId:      req.InstanceId,
		FirebaseId:      req.FirebaseId,
		Name:            req.Name,
		DisplayName:     req.DisplayName,
		Avatar:          req.Avatar,
		Bot:             req.Bot,
		Admin:           req.Admin,
		ShowNsfw:        req.ShowNsfw,
		ShowBotAccounts: req.ShowBotAccounts,
		ShowReadPosts:   req.ShowReadPosts,
		PublishedAt:     time.Now(),
	}
	if len(req.EnabledLanguageIds) > 0 {
		enabled := make(map[int64]struct{}, len(req.EnabledLanguageIds))
		for _, languageId := range req.EnabledLanguageIds {
			enabled[languageId] = struct{}{}
		}
		m.languages[id] = enabled
	}
	return id, nil
}

func (m *MemoryDB) GetPersonById(ctx context.Context, id int64) (*model.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	person, ok := m.persons[id]
	if !ok {
		return nil, appDb.ErrNotFound
	}
	copied := *person
	return &copied, nil
}

func (m *MemoryDB) GetPersonByFirebaseId(ctx context.Context, firebaseId string) (*model.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, person := range m.persons {
		if person.FirebaseId != "" && person.FirebaseId == firebaseId {
			copied := *person
			return &copied, nil
		}
	}
	return nil, appDb.ErrNotFound
}

func (m *MemoryDB) BlockPerson(ctx context.Context, personId, targetId int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.personBlocks[personId] == nil {
		m.personBlocks[personId] = make(map[int64]struct{})
	}
	m.personBlocks[personId][targetId] = struct{}{}
	return nil
}

func (m *MemoryDB) UnblockPerson(ctx context.Context, personId, targetId int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.personBlocks[personId], targetId)
	return nil
}

func (m *MemoryDB) BlockInstance(ctx context.Context, personId, instanceId int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.instanceBlocks[personId] == nil {
		m.instanceBlocks[personId] = make(map[int64]struct{})
	}
	m.instanceBlocks[personId][instanceId] = struct{}{}
	return nil
}

func (m *MemoryDB) GetBlockedPersonIds(ctx context.Context, personId int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.personBlocks[personId]), nil
}

func (m *MemoryDB) GetBlockedInstanceIds(ctx context.Context, personId int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.instanceBlocks[personId]), nil
}

func (m *MemoryDB) GetEnabledLanguageIds(ctx context.Context, personId int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.languages[personId]), nil
}

func sortedKeys(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
