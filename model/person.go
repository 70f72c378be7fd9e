package model

import "time"

// Person holds the local account data relevant to the application (outside of
// firebase). Remote (federated) persons have an empty FirebaseId.
type Person struct {
	Id          int64     `json:"id" db:"id,omitempty"`
	InstanceId  int64     `json:"instanceId" db:"instance_id"`
	FirebaseId  string    `json:"-" db:"firebase_id"`
	Name        string    `json:"name" db:"name"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Avatar      string    `json:"avatar" db:"avatar"`
	Bot         bool      `json:"bot" db:"bot_account"`
	Admin       bool      `json:"admin" db:"admin"`
	PublishedAt time.Time `json:"publishedAt" db:"published_at"`

	// Viewer preferences. Only meaningful for local persons.
	ShowNsfw        bool `json:"-" db:"show_nsfw"`
	ShowBotAccounts bool `json:"-" db:"show_bot_accounts"`
	ShowReadPosts   bool `json:"-" db:"show_read_posts"`
}
