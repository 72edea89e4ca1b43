package model

import "time"

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostScheduled PostStatus = "scheduled"
	PostPublished PostStatus = "published"
)

// Post is a marketing post, usually produced by the post wizard
type Post struct {
	ID           string     `json:"id" bson:"_id"`
	OwnerID      string     `json:"ownerId" bson:"ownerId"`
	Title        string     `json:"title" bson:"title"`
	Body         string     `json:"body" bson:"body"`
	Kind         string     `json:"kind" bson:"kind"` // listing, open-house, market-update, testimonial
	Platforms    []string   `json:"platforms" bson:"platforms"`
	Status       PostStatus `json:"status" bson:"status"`
	Media        []FileRef  `json:"media,omitempty" bson:"media,omitempty"`
	ScheduledFor string     `json:"scheduledFor,omitempty" bson:"scheduledFor,omitempty"`
	Likes        int        `json:"likes" bson:"likes"`
	CommentCount int        `json:"commentCount" bson:"commentCount"`
	SessionID    string     `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
}

// Comment is a reaction left on one of the agent's posts
type Comment struct {
	ID        string     `json:"id" bson:"_id"`
	OwnerID   string     `json:"ownerId" bson:"ownerId"`
	PostID    string     `json:"postId" bson:"postId"`
	Author    string     `json:"author" bson:"author"`
	Platform  string     `json:"platform" bson:"platform"`
	Text      string     `json:"text" bson:"text"`
	Replied   bool       `json:"replied" bson:"replied"`
	Reply     string     `json:"reply,omitempty" bson:"reply,omitempty"`
	RepliedAt *time.Time `json:"repliedAt,omitempty" bson:"repliedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}
