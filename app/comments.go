package app

import (
	"context"
	"fmt"

	"github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
	"github.com/thicket-social/thicket-be/util"
)

// CommentService answers comment listing and single-item reads. It is
// stateless and side-effect free: it composes one query, hands it to the
// storage collaborator, then redacts and projects the result.
type CommentService struct {
	db   db.Database
	site *model.SiteConfig
}

func NewCommentService(database db.Database, site *model.SiteConfig) *CommentService {
	return &CommentService{db: database, site: site}
}

type ListCommentsReq struct {
	Viewer *model.ViewerContext

	ListingType      model.ListingType
	Sort             model.CommentSortType
	TimeRangeSeconds int32
	MaxDepth         *int32

	PageCursor *string
	PageBack   bool
	Limit      *int64
	// Page selects legacy offset paging. Ignored when a cursor is given.
	Page *int64

	CommunityId   int64
	CommunityName string
	PostId        int64
	ParentId      int64
	CreatorId     int64
	LikedOnly     bool
	DislikedOnly  bool
}

type CommentListResponse struct {
	Comments []*model.CommentView `json:"comments"`
	NextPage *string              `json:"nextPage,omitempty"`
	PrevPage *string              `json:"prevPage,omitempty"`
}

type CommentSlimListResponse struct {
	Comments []*model.CommentSlimView `json:"comments"`
	NextPage *string                  `json:"nextPage,omitempty"`
	PrevPage *string                  `json:"prevPage,omitempty"`
}

func (cs *CommentService) List(ctx context.Context, req *ListCommentsReq) (*CommentListResponse, error) {
	sort := req.Sort
	if sort == "" {
		sort = model.SortHot
	}
	listingType := req.ListingType
	if listingType == "" {
		listingType = model.ListingAll
	}

	communityId := req.CommunityId
	if communityId == 0 && req.CommunityName != "" {
		community, err := cs.db.GetCommunityByName(ctx, req.CommunityName)
		if err != nil {
			return nil, fmt.Errorf("resolve community %q: %w", req.CommunityName, err)
		}
		communityId = community.Id
	}

	var parentPath model.ThreadPath
	if req.ParentId != 0 {
		// resolved with the viewer's visibility so an invisible parent stays
		// indistinguishable from a missing one
		parent, err := cs.db.GetCommentById(ctx, req.ParentId, &db.CommentReadQuery{Viewer: req.Viewer, Site: cs.site})
		if err != nil {
			return nil, fmt.Errorf("resolve parent comment %d: %w", req.ParentId, err)
		}
		parentPath = parent.Comment.Path
	}

	q := &db.CommentListQuery{
		Viewer:           req.Viewer,
		Site:             cs.site,
		ListingType:      listingType,
		Sort:             sort,
		TimeRangeSeconds: req.TimeRangeSeconds,
		CommunityId:      communityId,
		PostId:           req.PostId,
		CreatorId:        req.CreatorId,
		ParentPath:       parentPath,
		LikedOnly:        req.LikedOnly,
		DislikedOnly:     req.DislikedOnly,
		MaxDepth:         req.MaxDepth,
	}

	cursorMode := false
	switch {
	case req.MaxDepth != nil:
		// tree fetch: pagination off, fixed cap on
		q.Limit = db.TreeFetchLimit
	case req.Page != nil && req.PageCursor == nil:
		limit, offset, err := db.LimitAndOffset(req.Page, req.Limit)
		if err != nil {
			return nil, err
		}
		q.Limit, q.Offset = limit, offset
	default:
		cursorMode = true
		q.Limit = db.ClampLimit(req.Limit)
		if req.PageCursor != nil {
			keyset, err := DecodeCommentCursor(*req.PageCursor, sort, q.Scoped())
			if err != nil {
				return nil, err
			}
			q.Keyset = keyset
			q.PageBack = req.PageBack
		}
	}

	views, err := cs.db.GetComments(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, view := range views {
		displayable(view, req.Viewer)
	}

	resp := &CommentListResponse{Comments: views}
	if !cursorMode || len(views) == 0 {
		return resp, nil
	}
	full := len(views) == q.Limit
	hadCursor := q.Keyset != nil
	if (!q.PageBack && full) || (q.PageBack && hadCursor) {
		token := EncodeCommentCursor(sort, q.Scoped(), views[len(views)-1])
		resp.NextPage = &token
	}
	if (!q.PageBack && hadCursor) || (q.PageBack && full) {
		token := EncodeCommentCursor(sort, q.Scoped(), views[0])
		resp.PrevPage = &token
	}
	return resp, nil
}

// ListSlim runs the same query and projects the reduced shape. It is a pure
// field subset of the full view, never a second query.
func (cs *CommentService) ListSlim(ctx context.Context, req *ListCommentsReq) (*CommentSlimListResponse, error) {
	resp, err := cs.List(ctx, req)
	if err != nil {
		return nil, err
	}
	slim := make([]*model.CommentSlimView, len(resp.Comments))
	for i, view := range resp.Comments {
		slim[i] = view.Slim()
	}
	return &CommentSlimListResponse{
		Comments: slim,
		NextPage: resp.NextPage,
		PrevPage: resp.PrevPage,
	}, nil
}

func (cs *CommentService) Get(ctx context.Context, id int64, viewer *model.ViewerContext) (*model.CommentView, error) {
	view, err := cs.db.GetCommentById(ctx, id, &db.CommentReadQuery{Viewer: viewer, Site: cs.site})
	if err != nil {
		return nil, err
	}
	return displayable(view, viewer), nil
}

func displayable(view *model.CommentView, viewer *model.ViewerContext) *model.CommentView {
	view.MakeDisplayableFor(viewer)
	view.Comment.Content = util.XSSSanitize(view.Comment.Content)
	return view
}
