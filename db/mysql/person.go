package mysql

import (
	"context"

	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
	"github.com/upper/db/v4"
)

type PersonDB struct {
	sess db.Session
}

func getPersonDB(sess db.Session) *PersonDB {
	return &PersonDB{sess}
}

var personColumns = []interface{}{
	"id", "instance_id", "firebase_id", "name", "display_name", "avatar",
	"bot_account", "admin", "published_at", "show_nsfw", "show_bot_accounts",
	"show_read_posts",
}

func (pdb *PersonDB) CreatePerson(ctx context.Context, req *db2.CreatePerson) (int64, error) {
	var personId int64
	err := pdb.sess.TxContext(ctx, func(tx db.Session) error {
		res, err := tx.SQL().
			InsertInto("person").
			Columns("instance_id", "firebase_id", "name", "display_name", "avatar", "bot_account", "admin",
				"show_nsfw", "show_bot_accounts", "show_read_posts", "published_at").
			Values(req.InstanceId, req.FirebaseId, req.Name, req.DisplayName, req.Avatar, req.Bot, req.Admin,
				req.ShowNsfw, req.ShowBotAccounts, req.ShowReadPosts, db.Raw("NOW()")).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		personId, err = res.LastInsertId()
		if err != nil {
			return err
		}
		for _, languageId := range req.EnabledLanguageIds {
			if _, err := tx.SQL().
				InsertInto("person_language").
				Columns("person_id", "language_id").
				Values(personId, languageId).
				ExecContext(ctx); err != nil {
				return err
			}
		}
		return nil
	}, nil)
	if err != nil {
		return 0, err
	}
	return personId, nil
}

func (pdb *PersonDB) getPerson(ctx context.Context, cond string, arg interface{}) (*model.Person, error) {
	var person model.Person
	err := pdb.sess.SQL().
		Select(personColumns...).
		From("person").
		Where(cond, arg).
		IteratorContext(ctx).
		One(&person)
	if err == db.ErrNoMoreRows {
		return nil, db2.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (pdb *PersonDB) GetPersonById(ctx context.Context, id int64) (*model.Person, error) {
	return pdb.getPerson(ctx, "id = ?", id)
}

func (pdb *PersonDB) GetPersonByFirebaseId(ctx context.Context, firebaseId string) (*model.Person, error) {
	return pdb.getPerson(ctx, "firebase_id = ?", firebaseId)
}

func (pdb *PersonDB) BlockPerson(ctx context.Context, personId, targetId int64) error {
	_, err := pdb.sess.SQL().
		InsertInto("person_block").
		Columns("person_id", "target_id").
		Values(personId, targetId).
		ExecContext(ctx)
	return err
}

func (pdb *PersonDB) UnblockPerson(ctx context.Context, personId, targetId int64) error {
	_, err := pdb.sess.SQL().
		DeleteFrom("person_block").
		Where("person_id = ? AND target_id = ?", personId, targetId).
		ExecContext(ctx)
	return err
}

func (pdb *PersonDB) BlockInstance(ctx context.Context, personId, instanceId int64) error {
	_, err := pdb.sess.SQL().
		InsertInto("instance_block").
		Columns("person_id", "instance_id").
		Values(personId, instanceId).
		ExecContext(ctx)
	return err
}

func (pdb *PersonDB) idColumn(ctx context.Context, table, column string, personId int64) ([]int64, error) {
	rows, err := pdb.sess.SQL().QueryContext(ctx,
		"SELECT "+column+" FROM "+table+" WHERE person_id = ?", personId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (pdb *PersonDB) GetBlockedPersonIds(ctx context.Context, personId int64) ([]int64, error) {
	return pdb.idColumn(ctx, "person_block", "target_id", personId)
}

func (pdb *PersonDB) GetBlockedInstanceIds(ctx context.Context, personId int64) ([]int64, error) {
	return pdb.idColumn(ctx, "instance_block", "instance_id", personId)
}

func (pdb *PersonDB) GetEnabledLanguageIds(ctx context.Context, personId int64) ([]int64, error) {
	return pdb.idColumn(ctx, "person_language", "language_id", personId)
}
