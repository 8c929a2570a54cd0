package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discussion channels available for every company.
const (
	ChannelGeneral   = "general"
	ChannelInterview = "interview"
	ChannelDoubts    = "doubts"
	ChannelResources = "resources"
	ChannelOffTopic  = "offtopic"
)

// Channels is the set of allowed DiscussionMessage.Channel values.
var Channels = []string{ChannelGeneral, ChannelInterview, ChannelDoubts, ChannelResources, ChannelOffTopic}

// IsChannel reports whether name is a known discussion channel.
func IsChannel(name string) bool {
	for _, c := range Channels {
		if c == name {
			return true
		}
	}
	return false
}

// DiscussionMessage is a chat message posted to a company's channel.
type DiscussionMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID  primitive.ObjectID `bson:"company_id" json:"company_id"`
	Channel    string             `bson:"channel" json:"channel"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	AuthorRole string             `bson:"author_role" json:"author_role"`
	Content    string             `bson:"content" json:"content"`

	Replies   []Reply    `bson:"replies" json:"replies"`
	Reactions []Reaction `bson:"reactions" json:"reactions"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	EditedAt  *time.Time `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
}

// Reply is a threaded reply embedded in a DiscussionMessage.
type Reply struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Reaction groups the users who reacted with one emoji.
type Reaction struct {
	Emoji   string               `bson:"emoji" json:"emoji"`
	UserIDs []primitive.ObjectID `bson:"user_ids" json:"user_ids"`
}
