// Package entity defines the row types of the Spout relational model.
//
// The store owns all of this data; nothing here is cached between calls.
// Field names mirror the columns in internal/store/schema.sql.
package entity

import (
	"time"

	"github.com/spout-app/spout/internal/ids"
)

// Profile is a persona: display name, description, optional picture.
// A profile is created once and never updated; it disappears only through
// cascading deletes. Name is globally unique.
type Profile struct {
	ID      ids.ProfileID
	Name    string
	Desc    string
	Picture []byte // nil when the profile has no picture
}

// Identity links a network participant (node_id public key) to one of its
// profiles. A node may own many profiles; a profile belongs to exactly one
// node (profile_id is unique across the table).
type Identity struct {
	NodeID    ids.NodeID
	ProfileID ids.ProfileID
}

// Group is a collection of member profiles. ProfileID is the creating
// persona; the creator is also the initial admin, inserted in the same
// transaction, so a group is never observable without at least one admin.
type Group struct {
	ID        ids.GroupID
	ProfileID ids.ProfileID
}

// GroupAdmin is one entry of a group's admin set. Membership in this set
// authorizes destructive group operations.
type GroupAdmin struct {
	GroupID    ids.GroupID
	IdentityID ids.ProfileID
}

// GroupBanned is one entry of a group's ban set. Stored but not yet
// consulted by any operation.
type GroupBanned struct {
	GroupID    ids.GroupID
	IdentityID ids.ProfileID
}

// GroupUser is a membership row: one profile's participation in one group.
// A profile joins a group at most once.
type GroupUser struct {
	ID        ids.UserID
	GroupID   ids.GroupID
	ProfileID ids.ProfileID
}

// GroupTopic is a discussion thread container within a group.
type GroupTopic struct {
	ID        ids.TopicID
	GroupID   ids.GroupID
	ProfileID ids.ProfileID // the starter
	CreatedAt time.Time
}

// GroupPost is a message within a topic. ParentPostID is nil for top-level
// posts; otherwise the post is a reply, and the tree may nest without bound.
// UserID references the author's membership row, not their profile.
type GroupPost struct {
	ID           ids.PostID
	UserID       ids.UserID
	TopicID      ids.TopicID
	ParentPostID *ids.PostID
	Title        string
	Body         string
	CreatedAt    time.Time
}

// IsReply reports whether the post has a parent.
func (p GroupPost) IsReply() bool {
	return p.ParentPostID != nil
}
