package routes

import (
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/middleware"
	"github.com/thicket-social/thicket-be/util"
)

type userRoutes struct {
	db db2.Database
}

func AddUserRoutes(group *gin.RouterGroup, db db2.Database, authClient *auth.Client) {
	routes := userRoutes{db}
	users := group.Group("/users", middleware.GenAuth(db, authClient, &middleware.AuthConfig{
		SessionRequired: true,
	}))
	users.PUT("", util.HandlerWrapper(routes.createUser, &util.HandlerOpts{}))

	authed := group.Group("/users", middleware.GenAuth(db, authClient, &middleware.AuthConfig{
		SessionRequired: true,
		AccountRequired: true,
	}))
	authed.POST("/blocks/persons/:id", util.HandlerWrapper(routes.blockPerson, &util.HandlerOpts{}))
	authed.DELETE("/blocks/persons/:id", util.HandlerWrapper(routes.unblockPerson, &util.HandlerOpts{}))
	authed.POST("/blocks/instances/:id", util.HandlerWrapper(routes.blockInstance, &util.HandlerOpts{}))
}

type createUserReq struct {
	Name               string  `json:"name"`
	DisplayName        string  `json:"displayName"`
	ShowNsfw           bool    `json:"showNsfw"`
	ShowBotAccounts    *bool   `json:"showBotAccounts"`
	EnabledLanguageIds []int64 `json:"enabledLanguageIds"`
}

func (ur *userRoutes) createUser(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createUserReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	showBots := true
	if req.ShowBotAccounts != nil {
		showBots = *req.ShowBotAccounts
	}
	personId, err := ur.db.CreatePerson(c, &db2.CreatePerson{
		FirebaseId:         middleware.GetToken(c).UID,
		Name:               req.Name,
		DisplayName:        req.DisplayName,
		Avatar:             util.Avatar(req.Name),
		ShowNsfw:           req.ShowNsfw,
		ShowBotAccounts:    showBots,
		EnabledLanguageIds: req.EnabledLanguageIds,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{
		"id": personId,
	}, nil
}

func (ur *userRoutes) blockPerson(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	err := ur.db.BlockPerson(c, middleware.MustGetPerson(c).Id, id)
	if err != nil && !db2.IsDupKeyErr(err) {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (ur *userRoutes) unblockPerson(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	if err := ur.db.UnblockPerson(c, middleware.MustGetPerson(c).Id, id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (ur *userRoutes) blockInstance(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	err := ur.db.BlockInstance(c, middleware.MustGetPerson(c).Id, id)
	if err != nil && !db2.IsDupKeyErr(err) {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}
