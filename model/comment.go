package model

import "time"

type CommentSortType string

const (
	SortHot           CommentSortType = "Hot"
	SortControversial CommentSortType = "Controversial"
	SortNew           CommentSortType = "New"
	SortOld           CommentSortType = "Old"
	SortTop           CommentSortType = "Top"
)

type ListingType string

const (
	ListingAll           ListingType = "All"
	ListingLocal         ListingType = "Local"
	ListingSubscribed    ListingType = "Subscribed"
	ListingModeratorView ListingType = "ModeratorView"
)

// UndeterminedLanguageId tags comments without a detected language. Viewers
// must explicitly enable it to see them.
const UndeterminedLanguageId int64 = 0

type Comment struct {
	Id                int64      `json:"id"`
	PostId            int64      `json:"postId"`
	CreatorId         int64      `json:"creatorId"`
	Content           string     `json:"content"`
	Path              ThreadPath `json:"path"`
	LanguageId        int64      `json:"languageId"`
	Removed           bool       `json:"removed"`
	Deleted           bool       `json:"deleted"`
	Distinguished     bool       `json:"distinguished"`
	FederationPending bool       `json:"federationPending"`
	Score             int64      `json:"score"`
	HotRank           float64    `json:"hotRank"`
	ControversyRank   float64    `json:"controversyRank"`
	PublishedAt       time.Time  `json:"publishedAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

// Depth of the comment in its thread. Top-level comments are depth 0.
func (c *Comment) Depth() int {
	return c.Path.Levels() - 1
}

// CommentView is the full projection of a comment: the comment itself plus
// the denormalized creator, post and community context and the per-viewer
// facts the storage layer joined in.
type CommentView struct {
	Comment   *Comment   `json:"comment"`
	Creator   *Person    `json:"creator"`
	Post      *Post      `json:"post"`
	Community *Community `json:"community"`

	MyVote             *int16 `json:"myVote,omitempty"`
	CreatorIsAdmin     bool   `json:"creatorIsAdmin"`
	CreatorIsModerator bool   `json:"creatorIsModerator"`
	CreatorBanned      bool   `json:"creatorBanned"`
	CreatorBlocked     bool   `json:"creatorBlocked"`
	// ViewerIsModerator is true when the viewer moderates the community the
	// comment was posted in.
	ViewerIsModerator bool `json:"viewerIsModerator"`
}

// CommentSlimView omits the post and community context for callers that
// already hold it. It is always derived from a CommentView, never fetched
// separately.
type CommentSlimView struct {
	Comment            *Comment `json:"comment"`
	Creator            *Person  `json:"creator"`
	MyVote             *int16   `json:"myVote,omitempty"`
	CreatorIsAdmin     bool     `json:"creatorIsAdmin"`
	CreatorIsModerator bool     `json:"creatorIsModerator"`
	CreatorBanned      bool     `json:"creatorBanned"`
	CreatorBlocked     bool     `json:"creatorBlocked"`
	ViewerIsModerator  bool     `json:"viewerIsModerator"`
}

func (v *CommentView) Slim() *CommentSlimView {
	return &CommentSlimView{
		Comment:            v.Comment,
		Creator:            v.Creator,
		MyVote:             v.MyVote,
		CreatorIsAdmin:     v.CreatorIsAdmin,
		CreatorIsModerator: v.CreatorIsModerator,
		CreatorBanned:      v.CreatorBanned,
		CreatorBlocked:     v.CreatorBlocked,
		ViewerIsModerator:  v.ViewerIsModerator,
	}
}

// MakeDisplayableFor blanks the body of removed and deleted comments unless
// the viewer is an admin or moderates the owning community. Display-time
// only; the stored row is untouched. Mutates the view.
func (v *CommentView) MakeDisplayableFor(viewer *ViewerContext) *CommentView {
	if !v.Comment.Removed && !v.Comment.Deleted {
		return v
	}
	if viewer.IsAdmin() || v.ViewerIsModerator {
		return v
	}
	redacted := *v.Comment
	redacted.Content = ""
	v.Comment = &redacted
	return v
}
