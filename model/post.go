package model

import "time"

type Post struct {
	Id          int64     `json:"id" db:"id,omitempty"`
	CommunityId int64     `json:"communityId" db:"community_id"`
	CreatorId   int64     `json:"creatorId" db:"creator_id"`
	Title       string    `json:"title" db:"title"`
	Nsfw        bool      `json:"nsfw" db:"nsfw"`
	Removed     bool      `json:"removed" db:"removed"`
	Deleted     bool      `json:"deleted" db:"deleted"`
	Locked      bool      `json:"locked" db:"locked"`
	PublishedAt time.Time `json:"publishedAt" db:"published_at"`
}
