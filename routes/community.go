package routes

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/thicket-social/thicket-be/controllers"
	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/middleware"
	"github.com/thicket-social/thicket-be/model"
	"github.com/thicket-social/thicket-be/util"
)

type communityRoutes struct {
	db         db2.Database
	controller *controllers.CommunityController
}

func AddCommunityRoutes(group *gin.RouterGroup, db db2.Database, controller *controllers.CommunityController, authClient *auth.Client) {
	routes := communityRoutes{db, controller}
	communities := group.Group("/communities", middleware.GenAuth(db, authClient, &middleware.AuthConfig{}))
	communities.GET("", util.HandlerWrapper(routes.listCommunities, &util.HandlerOpts{}))
	communities.GET("/:id", util.HandlerWrapper(routes.getCommunityById, &util.HandlerOpts{}))
	communities.GET("/name/:name", util.HandlerWrapper(routes.getCommunityByName, &util.HandlerOpts{}))

	authed := group.Group("/communities", middleware.GenAuth(db, authClient, &middleware.AuthConfig{
		SessionRequired: true,
		AccountRequired: true,
	}))
	authed.PUT("", util.HandlerWrapper(routes.createCommunity, &util.HandlerOpts{}))
	authed.POST("/:id/follows", util.HandlerWrapper(routes.follow, &util.HandlerOpts{}))
	authed.DELETE("/:id/follows", util.HandlerWrapper(routes.unfollow, &util.HandlerOpts{}))
}

func (cr *communityRoutes) listCommunities(c *gin.Context) (interface{}, *util.HTTPError) {
	return cr.controller.ListCommunities(c)
}

func (cr *communityRoutes) getCommunityById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return cr.controller.GetCommunityById(c, id)
}

func (cr *communityRoutes) getCommunityByName(c *gin.Context) (interface{}, *util.HTTPError) {
	return cr.controller.GetCommunityByName(c, c.Param("name"))
}

type createCommunityReq struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Visibility string `json:"visibility"`
	Nsfw       bool   `json:"nsfw"`
}

func (cr *communityRoutes) createCommunity(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createCommunityReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if len(req.Name) < 3 {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "community name must be at least 3 characters",
		}
	}
	visibility := model.CommunityVisibility(req.Visibility)
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	switch visibility {
	case model.VisibilityPublic, model.VisibilityLocalOnlyPublic,
		model.VisibilityLocalOnlyPrivate, model.VisibilityPrivate:
	default:
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "unknown visibility",
		}
	}

	id, httpErr := cr.controller.CreateCommunity(c, &db2.CreateCommunity{
		Name:       req.Name,
		Title:      req.Title,
		Visibility: visibility,
		Nsfw:       req.Nsfw,
		Local:      true,
	})
	if httpErr != nil {
		return nil, httpErr
	}
	return gin.H{
		"id": id,
	}, nil
}

// follow subscribes the caller. Private communities get a pending follow
// that a moderator accepts out of band; everything else is accepted
// immediately. Re-following is a no-op.
func (cr *communityRoutes) follow(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	community, httpErr := cr.controller.GetCommunityById(c, id)
	if httpErr != nil {
		return nil, httpErr
	}

	state := model.FollowAccepted
	if community.Visibility == model.VisibilityPrivate {
		state = model.FollowPending
	}
	err := cr.db.Follow(c, &model.CommunityFollow{
		PersonId:    middleware.MustGetPerson(c).Id,
		CommunityId: community.Id,
		State:       state,
	})
	if err != nil && !db2.IsDupKeyErr(err) {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"state": state,
	}, nil
}

func (cr *communityRoutes) unfollow(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	if err := cr.db.Unfollow(c, middleware.MustGetPerson(c).Id, id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}
