package mysql

import (
	"context"

	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
	"github.com/upper/db/v4"
)

type CommunityDB struct {
	sess db.Session
}

func getCommunityDB(sess db.Session) *CommunityDB {
	return &CommunityDB{sess}
}

var communityColumns = []interface{}{
	"id", "instance_id", "name", "title", "visibility", "nsfw", "local",
	"removed", "deleted", "published_at",
}

func (cdb *CommunityDB) CreateCommunity(ctx context.Context, req *db2.CreateCommunity) (int64, error) {
	res, err := cdb.sess.SQL().
		InsertInto("community").
		Columns("instance_id", "name", "title", "visibility", "nsfw", "local", "published_at").
		Values(req.InstanceId, req.Name, req.Title, string(req.Visibility), req.Nsfw, req.Local, db.Raw("NOW()")).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (cdb *CommunityDB) getCommunity(ctx context.Context, cond string, arg interface{}) (*model.Community, error) {
	var community model.Community
	err := cdb.sess.SQL().
		Select(communityColumns...).
		From("community").
		Where(cond, arg).
		IteratorContext(ctx).
		One(&community)
	if err == db.ErrNoMoreRows {
		return nil, db2.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (cdb *CommunityDB) GetCommunityById(ctx context.Context, id int64) (*model.Community, error) {
	return cdb.getCommunity(ctx, "id = ?", id)
}

func (cdb *CommunityDB) GetCommunityByName(ctx context.Context, name string) (*model.Community, error) {
	return cdb.getCommunity(ctx, "name = ?", name)
}

func (cdb *CommunityDB) ListCommunities(ctx context.Context) ([]*model.Community, error) {
	var communities []*model.Community
	err := cdb.sess.SQL().
		Select(communityColumns...).
		From("community").
		Where("removed = false AND deleted = false").
		OrderBy("name").
		IteratorContext(ctx).
		All(&communities)
	if err != nil {
		return nil, err
	}
	return communities, nil
}

func (cdb *CommunityDB) Follow(ctx context.Context, follow *model.CommunityFollow) error {
	_, err := cdb.sess.SQL().ExecContext(ctx,
		`INSERT INTO community_follow (person_id, community_id, state) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE state = VALUES(state)`,
		follow.PersonId, follow.CommunityId, string(follow.State))
	return err
}

func (cdb *CommunityDB) Unfollow(ctx context.Context, personId, communityId int64) error {
	_, err := cdb.sess.SQL().
		DeleteFrom("community_follow").
		Where("person_id = ? AND community_id = ?", personId, communityId).
		ExecContext(ctx)
	return err
}

func (cdb *CommunityDB) AddModerator(ctx context.Context, communityId, personId int64) error {
	_, err := cdb.sess.SQL().
		InsertInto("community_moderator").
		Columns("community_id", "person_id").
		Values(communityId, personId).
		ExecContext(ctx)
	return err
}

func (cdb *CommunityDB) BanFromCommunity(ctx context.Context, communityId, personId int64) error {
	_, err := cdb.sess.SQL().
		InsertInto("community_ban").
		Columns("community_id", "person_id").
		Values(communityId, personId).
		ExecContext(ctx)
	return err
}
