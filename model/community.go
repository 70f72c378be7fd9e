package model

import "time"

type CommunityVisibility string

const (
	VisibilityPublic           CommunityVisibility = "Public"
	VisibilityLocalOnlyPublic  CommunityVisibility = "LocalOnlyPublic"
	VisibilityLocalOnlyPrivate CommunityVisibility = "LocalOnlyPrivate"
	VisibilityPrivate          CommunityVisibility = "Private"
)

type FollowState string

const (
	FollowNone     FollowState = ""
	FollowPending  FollowState = "Pending"
	FollowAccepted FollowState = "Accepted"
)

type Community struct {
	Id          int64               `json:"id" db:"id,omitempty"`
	InstanceId  int64               `json:"instanceId" db:"instance_id"`
	Name        string              `json:"name" db:"name"`
	Title       string              `json:"title" db:"title"`
	Visibility  CommunityVisibility `json:"visibility" db:"visibility"`
	Nsfw        bool                `json:"nsfw" db:"nsfw"`
	Local       bool                `json:"local" db:"local"`
	Removed     bool                `json:"removed" db:"removed"`
	Deleted     bool                `json:"deleted" db:"deleted"`
	PublishedAt time.Time           `json:"publishedAt" db:"published_at"`
}

type CommunityFollow struct {
	PersonId    int64       `json:"personId" db:"person_id"`
	CommunityId int64       `json:"communityId" db:"community_id"`
	State       FollowState `json:"state" db:"state"`
}
