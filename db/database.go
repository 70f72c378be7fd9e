package db

import (
	"context"
	"time"

	"github.com/thicket-social/thicket-be/model"
)

type Database interface {
	CommentDatabase
	PostDatabase
	CommunityDatabase
	PersonDatabase
	Close() error
}

// CommentReadQuery carries the viewer context for a single-item read. Reads
// apply the block, community-visibility, federation-pending and NSFW
// (viewer preference only) rules; an invisible comment is indistinguishable
// from a missing one.
type CommentReadQuery struct {
	Viewer *model.ViewerContext
	Site   *model.SiteConfig
}

// CommentListQuery is the full logical comment query: scope, visibility
// inputs, ranking and pagination. Each backend must evaluate it as one
// atomic request against a single consistent snapshot; evaluating the
// filters as separate round-trips races with concurrent block and
// visibility changes.
type CommentListQuery struct {
	Viewer *model.ViewerContext
	Site   *model.SiteConfig

	ListingType      model.ListingType
	Sort             model.CommentSortType
	TimeRangeSeconds int32

	// Scope. Zero ids mean unset.
	CommunityId int64
	PostId      int64
	CreatorId   int64
	ParentPath  model.ThreadPath

	LikedOnly    bool
	DislikedOnly bool

	// MaxDepth switches the query into tree-fetch mode: pagination inputs
	// are ignored and TreeFetchLimit applies.
	MaxDepth *int32

	Keyset   *Keyset
	PageBack bool
	Limit    int
	Offset   int
}

// Scoped reports whether the query targets a single post or subtree. Scoped
// queries order ancestors first and promote distinguished comments.
func (q *CommentListQuery) Scoped() bool {
	return q.PostId != 0 || q.ParentPath != nil
}

// DepthCeiling resolves MaxDepth into an absolute path-level ceiling.
func (q *CommentListQuery) DepthCeiling() (int, bool) {
	if q.MaxDepth == nil {
		return 0, false
	}
	if q.ParentPath != nil {
		return q.ParentPath.Levels() + int(*q.MaxDepth), true
	}
	return int(*q.MaxDepth), true
}

type CreateComment struct {
	PostId     int64
	CreatorId  int64
	Content    string
	LanguageId int64
	// ParentPath nil creates a top-level comment.
	ParentPath model.ThreadPath
	Pending    bool
	// PublishedAt carries the origin timestamp of federated comments; nil
	// means published now.
	PublishedAt *time.Time
}

type CreatePost struct {
	CommunityId int64
	CreatorId   int64
	Title       string
	Nsfw        bool
}

type CreateCommunity struct {
	InstanceId int64
	Name       string
	Title      string
	Visibility model.CommunityVisibility
	Nsfw       bool
	Local      bool
}

type CreatePerson struct {
	InstanceId  int64
	FirebaseId  string
	Name        string
	DisplayName string
	Avatar      string
	Bot         bool
	Admin       bool

	ShowNsfw           bool
	ShowBotAccounts    bool
	ShowReadPosts      bool
	EnabledLanguageIds []int64
}

// CommentDatabase is the storage collaborator of the retrieval engine. The
// read methods never mutate anything; the write methods exist for the
// federation and moderation collaborators (and tests) and are never called
// during a read.
type CommentDatabase interface {
	GetCommentById(ctx context.Context, id int64, q *CommentReadQuery) (*model.CommentView, error)
	GetComments(ctx context.Context, q *CommentListQuery) ([]*model.CommentView, error)

	CreateComment(ctx context.Context, req *CreateComment) (commentId int64, err error)
	LikeComment(ctx context.Context, personId, commentId int64, score int16) error
	UpdateCommentRanks(ctx context.Context, commentId int64, score int64, hotRank, controversyRank float64) error
	SetCommentRemoved(ctx context.Context, commentId int64, removed bool) error
	SetCommentDeleted(ctx context.Context, commentId int64, deleted bool) error
	SetCommentDistinguished(ctx context.Context, commentId int64, distinguished bool) error
	SetCommentFederationPending(ctx context.Context, commentId int64, pending bool) error
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId int64, err error)
	GetPostById(ctx context.Context, id int64) (*model.Post, error)
}

type CommunityDatabase interface {
	CreateCommunity(ctx context.Context, req *CreateCommunity) (communityId int64, err error)
	GetCommunityById(ctx context.Context, id int64) (*model.Community, error)
	GetCommunityByName(ctx context.Context, name string) (*model.Community, error)
	ListCommunities(ctx context.Context) ([]*model.Community, error)
	Follow(ctx context.Context, follow *model.CommunityFollow) error
	Unfollow(ctx context.Context, personId, communityId int64) error
	AddModerator(ctx context.Context, communityId, personId int64) error
	BanFromCommunity(ctx context.Context, communityId, personId int64) error
}

type PersonDatabase interface {
	CreatePerson(ctx context.Context, req *CreatePerson) (personId int64, err error)
	GetPersonById(ctx context.Context, id int64) (*model.Person, error)
	GetPersonByFirebaseId(ctx context.Context, firebaseId string) (*model.Person, error)
	BlockPerson(ctx context.Context, personId, targetId int64) error
	UnblockPerson(ctx context.Context, personId, targetId int64) error
	BlockInstance(ctx context.Context, personId, instanceId int64) error
	GetBlockedPersonIds(ctx context.Context, personId int64) ([]int64, error)
	GetBlockedInstanceIds(ctx context.Context, personId int64) ([]int64, error)
	GetEnabledLanguageIds(ctx context.Context, personId int64) ([]int64, error)
}
