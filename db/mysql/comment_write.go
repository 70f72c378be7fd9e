package mysql

import (
	"context"

	db2 "github.com/thicket-social/thicket-be/db"
	"github.com/thicket-social/thicket-be/model"
	"github.com/upper/db/v4"
)

func (cdb *CommentDB) CreateComment(ctx context.Context, req *db2.CreateComment) (int64, error) {
	var publishedAt interface{} = db.Raw("NOW()")
	if req.PublishedAt != nil {
		publishedAt = *req.PublishedAt
	}
	var commentId int64
	err := cdb.sess.TxContext(ctx, func(tx db.Session) error {
		res, err := tx.SQL().
			InsertInto("comment").
			Columns("post_id", "creator_id", "content", "path", "language_id", "federation_pending", "published_at").
			Values(req.PostId, req.CreatorId, req.Content, "", req.LanguageId, req.Pending, publishedAt).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		commentId, err = res.LastInsertId()
		if err != nil {
			return err
		}

		// The path embeds the comment's own id, so it can only be written
		// after the insert assigns one.
		path := model.ThreadPath{commentId}
		if req.ParentPath != nil {
			path = req.ParentPath.Child(commentId)
		}
		_, err = tx.SQL().
			Update("comment").
			Set("path", path.String()).
			Where("id = ?", commentId).
			ExecContext(ctx)
		return err
	}, nil)
	if err != nil {
		return 0, err
	}
	return commentId, nil
}

func (cdb *CommentDB) LikeComment(ctx context.Context, personId, commentId int64, score int16) error {
	return cdb.sess.TxContext(ctx, func(tx db.Session) error {
		if score == 0 {
			_, err := tx.SQL().
				DeleteFrom("comment_like").
				Where("person_id = ? AND comment_id = ?", personId, commentId).
				ExecContext(ctx)
			if err != nil {
				return err
			}
		} else {
			_, err := tx.SQL().ExecContext(ctx,
				`INSERT INTO comment_like (person_id, comment_id, score) VALUES (?, ?, ?)
				ON DUPLICATE KEY UPDATE score = VALUES(score)`,
				personId, commentId, score)
			if err != nil {
				return err
			}
		}
		_, err := tx.SQL().ExecContext(ctx,
			`UPDATE comment SET score =
			(SELECT COALESCE(SUM(score), 0) FROM comment_like WHERE comment_id = ?)
			WHERE id = ?`,
			commentId, commentId)
		return err
	}, nil)
}

func (cdb *CommentDB) UpdateCommentRanks(ctx context.Context, commentId int64, score int64, hotRank, controversyRank float64) error {
	_, err := cdb.sess.SQL().
		Update("comment").
		Set("score", score, "hot_rank", hotRank, "controversy_rank", controversyRank).
		Where("id = ?", commentId).
		ExecContext(ctx)
	return err
}

func (cdb *CommentDB) setCommentFlag(ctx context.Context, commentId int64, column string, value bool) error {
	_, err := cdb.sess.SQL().
		Update("comment").
		Set(column, value).
		Where("id = ?", commentId).
		ExecContext(ctx)
	return err
}

func (cdb *CommentDB) SetCommentRemoved(ctx context.Context, commentId int64, removed bool) error {
	return cdb.setCommentFlag(ctx, commentId, "removed", removed)
}

func (cdb *CommentDB) SetCommentDeleted(ctx context.Context, commentId int64, deleted bool) error {
	return cdb.setCommentFlag(ctx, commentId, "deleted", deleted)
}

func (cdb *CommentDB) SetCommentDistinguished(ctx context.Context, commentId int64, distinguished bool) error {
	return cdb.setCommentFlag(ctx, commentId, "distinguished", distinguished)
}

func (cdb *CommentDB) SetCommentFederationPending(ctx context.Context, commentId int64, pending bool) error {
	return cdb.setCommentFlag(ctx, commentId, "federation_pending", pending)
}

func (cdb *CommentDB) CreatePost(ctx context.Context, req *db2.CreatePost) (int64, error) {
	res, err := cdb.sess.SQL().
		InsertInto("post").
		Columns("community_id", "creator_id", "title", "nsfw", "published_at").
		Values(req.CommunityId, req.CreatorId, req.Title, req.Nsfw, db.Raw("NOW()")).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (cdb *CommentDB) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := cdb.sess.SQL().
		Select("id", "community_id", "creator_id", "title", "nsfw", "removed", "deleted", "locked", "published_at").
		From("post").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&post)
	if err == db.ErrNoMoreRows {
		return nil, db2.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
