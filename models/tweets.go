package models

import "time"

type Tweet struct {
	ID               int64     `json:"id"`
	Prompt           string    `json:"prompt"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
	PostedToExternal bool      `json:"posted_to_external"`
	ExternalResponse *string   `json:"external_response"`
}

// TweetUpdate is a partial update; nil fields are left untouched.
type TweetUpdate struct {
	Content          *string
	PostedToExternal *bool
	ExternalResponse *string
}

func (u TweetUpdate) IsEmpty() bool {
	return u.Content == nil && u.PostedToExternal == nil && u.ExternalResponse == nil
}

type ListOptions struct {
	Offset int
	Limit  int // 0 returns every row
	Newest bool
}
