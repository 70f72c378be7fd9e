package routes

import (
	"net/http"
	"strconv"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/thicket-social/thicket-be/app"
	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/middleware"
	"github.com/thicket-social/thicket-be/model"
	"github.com/thicket-social/thicket-be/util"
)

type commentRoutes struct {
	db       db2.Database
	comments *app.CommentService
}

func AddCommentRoutes(group *gin.RouterGroup, db db2.Database, comments *app.CommentService, authClient *auth.Client) {
	routes := commentRoutes{db, comments}
	commentGroup := group.Group("/comments", middleware.GenAuth(db, authClient, &middleware.AuthConfig{}))
	commentGroup.GET("", util.HandlerWrapper(routes.listComments, &util.HandlerOpts{}))
	commentGroup.GET("/:id", util.HandlerWrapper(routes.getCommentById, &util.HandlerOpts{}))

	authed := group.Group("/comments", middleware.GenAuth(db, authClient, &middleware.AuthConfig{
		SessionRequired: true,
		AccountRequired: true,
	}))
	authed.POST("", util.HandlerWrapper(routes.createComment, &util.HandlerOpts{}))
	authed.POST("/:id/votes", util.HandlerWrapper(routes.voteOnComment, &util.HandlerOpts{}))
}

func (cr *commentRoutes) listComments(c *gin.Context) (interface{}, *util.HTTPError) {
	viewer, err := app.ResolveViewer(c, cr.db, middleware.GetPersonIdMaybe(c))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}

	req := &app.ListCommentsReq{
		Viewer:        viewer,
		ListingType:   model.ListingType(c.Query("listingType")),
		Sort:          model.CommentSortType(c.Query("sort")),
		CommunityName: c.Query("communityName"),
		PageBack:      c.Query("pageBack") == "true",
		LikedOnly:     c.Query("likedOnly") == "true",
		DislikedOnly:  c.Query("dislikedOnly") == "true",
	}
	if cursor := c.Query("pageCursor"); cursor != "" {
		req.PageCursor = &cursor
	}

	var httpErr *util.HTTPError
	if req.CommunityId, httpErr = optionalIdQuery(c, "communityId"); httpErr != nil {
		return nil, httpErr
	}
	if req.PostId, httpErr = optionalIdQuery(c, "postId"); httpErr != nil {
		return nil, httpErr
	}
	if req.ParentId, httpErr = optionalIdQuery(c, "parentId"); httpErr != nil {
		return nil, httpErr
	}
	if req.CreatorId, httpErr = optionalIdQuery(c, "creatorId"); httpErr != nil {
		return nil, httpErr
	}
	if timeRange, httpErr := optionalInt32Query(c, "timeRangeSeconds"); httpErr != nil {
		return nil, httpErr
	} else if timeRange != nil {
		req.TimeRangeSeconds = *timeRange
	}
	if maxDepth, httpErr := optionalInt32Query(c, "maxDepth"); httpErr != nil {
		return nil, httpErr
	} else if maxDepth != nil {
		req.MaxDepth = maxDepth
	}
	if limit, httpErr := optionalIntQuery(c, "limit"); httpErr != nil {
		return nil, httpErr
	} else if limit != nil {
		req.Limit = limit
	}
	if page, httpErr := optionalIntQuery(c, "page"); httpErr != nil {
		return nil, httpErr
	} else if page != nil {
		req.Page = page
	}

	if c.Query("slim") == "true" {
		resp, err := cr.comments.ListSlim(c, req)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return resp, nil
	}
	resp, err := cr.comments.List(c, req)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return resp, nil
}

func (cr *commentRoutes) getCommentById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	viewer, err := app.ResolveViewer(c, cr.db, middleware.GetPersonIdMaybe(c))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	view, err := cr.comments.Get(c, id, viewer)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return view, nil
}

type createCommentReq struct {
	PostId     int64  `json:"postId"`
	ParentId   int64  `json:"parentId"`
	Content    string `json:"content"`
	LanguageId int64  `json:"languageId"`
}

func (cr *commentRoutes) createComment(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createCommentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if req.Content == "" {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "comment content must not be empty",
		}
	}
	person := middleware.MustGetPerson(c)

	var parentPath model.ThreadPath
	postId := req.PostId
	if req.ParentId != 0 {
		viewer, err := app.ResolveViewer(c, cr.db, person.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		parent, err := cr.db.GetCommentById(c, req.ParentId, &db2.CommentReadQuery{Viewer: viewer})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		parentPath = parent.Comment.Path
		postId = parent.Comment.PostId
	}
	if _, err := cr.db.GetPostById(c, postId); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}

	commentId, err := cr.db.CreateComment(c, &db2.CreateComment{
		PostId:     postId,
		CreatorId:  person.Id,
		Content:    util.XSSSanitize(req.Content),
		LanguageId: req.LanguageId,
		ParentPath: parentPath,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id": commentId,
	}, nil
}

type voteReq struct {
	Score int16 `json:"score"`
}

func (cr *commentRoutes) voteOnComment(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req voteReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if req.Score < -1 || req.Score > 1 {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "score must be -1, 0 or 1",
		}
	}
	if err := cr.db.LikeComment(c, middleware.MustGetPerson(c).Id, id, req.Score); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func optionalIdQuery(c *gin.Context, name string) (int64, *util.HTTPError) {
	val := c.Query(name)
	if val == "" {
		return 0, nil
	}
	return util.ParseId(val)
}

func optionalIntQuery(c *gin.Context, name string) (*int64, *util.HTTPError) {
	val := c.Query(name)
	if val == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: name + " malformed",
		}
	}
	return &parsed, nil
}

// optionalInt32Query rejects values outside int32 rather than letting a
// conversion wrap them negative.
func optionalInt32Query(c *gin.Context, name string) (*int32, *util.HTTPError) {
	val := c.Query(name)
	if val == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(val, 10, 32)
	if err != nil || parsed < 0 {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: name + " malformed",
		}
	}
	narrowed := int32(parsed)
	return &narrowed, nil
}
