package controllers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
	"github.com/thicket-social/thicket-be/util"
)

type communityIndex struct {
	byId      map[int64]*model.Community
	byName    map[string]*model.Community
	createdAt time.Time
}

const IndexUpdateInterval = time.Minute * 20

// CommunityController serves community lookups from a periodically refreshed
// in-process index. Lookups that miss the index fall through to storage, so
// a freshly created community is visible before the next refresh.
type CommunityController struct {
	db              db2.CommunityDatabase
	log             zerolog.Logger
	cachedIndex     *communityIndex
	cachedIndexLock sync.Mutex
	updateTicker    *time.Ticker
}

func NewCommunityController(c context.Context, db db2.CommunityDatabase, log zerolog.Logger) (*CommunityController, error) {
	controller := &CommunityController{
		db:  db,
		log: log,
	}
	if err := controller.updateCachedIndex(c); err != nil {
		return nil, err
	}

	controller.updateTicker = time.NewTicker(IndexUpdateInterval)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("recovered while updating community index")
			}
		}()
		for range controller.updateTicker.C {
			controller.attemptToUpdateCachedIndex(c)
		}
	}()

	return controller, nil
}

func (cc *CommunityController) CreateCommunity(c context.Context, req *db2.CreateCommunity) (int64, *util.HTTPError) {
	communityId, err := cc.db.CreateCommunity(c, req)
	if err != nil {
		return -1, util.BuildDbHTTPErr(err)
	}
	go cc.attemptToUpdateCachedIndex(c)

	return communityId, nil
}

func (cc *CommunityController) GetCommunityById(c context.Context, id int64) (*model.Community, *util.HTTPError) {
	if community, ok := cc.index().byId[id]; ok {
		return community, nil
	}
	community, err := cc.db.GetCommunityById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return community, nil
}

func (cc *CommunityController) GetCommunityByName(c context.Context, name string) (*model.Community, *util.HTTPError) {
	if community, ok := cc.index().byName[strings.ToLower(name)]; ok {
		return community, nil
	}
	community, err := cc.db.GetCommunityByName(c, name)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return community, nil
}

func (cc *CommunityController) ListCommunities(c context.Context) ([]*model.Community, *util.HTTPError) {
	index := cc.index()
	communities := make([]*model.Community, 0, len(index.byId))
	for _, community := range index.byId {
		communities = append(communities, community)
	}
	return communities, nil
}

func (cc *CommunityController) index() *communityIndex {
	cc.cachedIndexLock.Lock()
	defer cc.cachedIndexLock.Unlock()
	return cc.cachedIndex
}

func (cc *CommunityController) attemptToUpdateCachedIndex(c context.Context) {
	if err := cc.updateCachedIndex(c); err != nil {
		cc.log.Error().Err(err).Msg("an error occurred while updating the community index")
	}
}

func (cc *CommunityController) updateCachedIndex(c context.Context) error {
	communities, err := cc.db.ListCommunities(c)
	if err != nil {
		return err
	}
	newIndex := buildIndexFromCommunities(communities)

	cc.cachedIndexLock.Lock()
	defer cc.cachedIndexLock.Unlock()
	cc.cachedIndex = newIndex
	return nil
}

func buildIndexFromCommunities(communities []*model.Community) *communityIndex {
	byId := make(map[int64]*model.Community)
	byName := make(map[string]*model.Community)
	for _, community := range communities {
		byId[community.Id] = community
		byName[strings.ToLower(community.Name)] = community
	}
	return &communityIndex{
		byId:      byId,
		byName:    byName,
		createdAt: time.Now(),
	}
}
