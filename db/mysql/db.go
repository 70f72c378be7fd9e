// Package mysql implements db.Database over MySQL with upper/db. All
// visibility filtering happens inside single statements so every decision is
// made against one consistent snapshot.
package mysql

import (
	"database/sql"

	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

type MysqlDB struct {
	*CommentDB
	*CommunityDB
	*PersonDB
	sess  db.Session
	sqlDB *sql.DB
}

func GetDatabase(dsn string) (db2.Database, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxIdleTime(0)

	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, err
	}

	return &MysqlDB{
		CommentDB:   getCommentDB(sess),
		CommunityDB: getCommunityDB(sess),
		PersonDB:    getPersonDB(sess),
		sess:        sess,
		sqlDB:       sqlDB,
	}, nil
}

func (mdb *MysqlDB) Close() error {
	return mdb.sess.Close()
}
