package service

import (
	"context"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
	"github.com/spout-app/spout/internal/store"
)

// Action identifies a gated mutating operation. Used only for authorization
// decisions, never persisted.
type Action string

const (
	ActionDeleteGroup Action = "group.delete"
	ActionDeleteTopic Action = "topic.delete"
	ActionUpdatePost  Action = "post.update"
	ActionDeletePost  Action = "post.delete"
)

// authorizer is the single capability check invoked by every mutating
// operation that needs one. Callers establish existence of the resource
// first, so a failed check is always UNAUTHORIZED, never NOT_FOUND - the
// precedence stays uniform across services.
type authorizer struct {
	st *store.Store
}

// requireGroupAdmin authorizes actions gated on the group's admin set.
func (a authorizer) requireGroupAdmin(ctx context.Context, action Action, groupID ids.GroupID, actor ids.ProfileID) error {
	isAdmin, err := a.st.IsAdmin(ctx, groupID, actor)
	if err != nil {
		return infra(string(action), err)
	}
	if !isAdmin {
		return unauthorized("group")
	}
	return nil
}

// requireAuthor authorizes actions gated on post authorship.
func (a authorizer) requireAuthor(action Action, post entity.GroupPost, actor ids.UserID) error {
	if post.UserID != actor {
		return unauthorized("post")
	}
	return nil
}

// requireTopicStarterOrAdmin authorizes topic deletion: the starter may
// always delete their topic, and so may any admin of the containing group.
func (a authorizer) requireTopicStarterOrAdmin(ctx context.Context, action Action, topic entity.GroupTopic, actor ids.ProfileID) error {
	if topic.ProfileID == actor {
		return nil
	}
	return a.requireGroupAdmin(ctx, action, topic.GroupID, actor)
}
