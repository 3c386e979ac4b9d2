package service

import (
	"context"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
	"github.com/spout-app/spout/internal/store"
)

// GroupService manages group lifecycle and the admin, ban, and membership
// sets attached to each group.
type GroupService struct {
	st    *store.Store
	authz authorizer
}

// NewGroupService returns a GroupService backed by st.
func NewGroupService(st *store.Store) *GroupService {
	return &GroupService{st: st, authz: authorizer{st: st}}
}

// CreateGroup creates a group owned by the given profile. The group and its
// initial admin row - the creator - are written in one transaction, so the
// group is never observable without at least one admin.
func (s *GroupService) CreateGroup(ctx context.Context, profileID ids.ProfileID) (entity.Group, error) {
	exists, err := s.st.ProfileExists(ctx, profileID)
	if err != nil {
		return entity.Group{}, infra("create group", err)
	}
	if !exists {
		return entity.Group{}, notFound("profile")
	}

	group := entity.Group{
		ID:        ids.NewGroupID(),
		ProfileID: profileID,
	}

	if err := s.st.CreateGroup(ctx, group); err != nil {
		return entity.Group{}, writeErr("group", "create group", err)
	}

	return group, nil
}

// GetGroup retrieves a group by id.
func (s *GroupService) GetGroup(ctx context.Context, groupID ids.GroupID) (entity.Group, error) {
	group, err := s.st.GetGroup(ctx, groupID)
	if err != nil {
		return entity.Group{}, lookupErr("group", "get group", err)
	}
	return group, nil
}

// ListGroups returns every group created by the given profile.
func (s *GroupService) ListGroups(ctx context.Context, profileID ids.ProfileID) ([]entity.Group, error) {
	groups, err := s.st.ListGroupsOwnedBy(ctx, profileID)
	if err != nil {
		return nil, infra("list groups", err)
	}
	return groups, nil
}

// DeleteGroup deletes a group. Only a current admin may do this. Admin,
// ban, membership and topic rows - and transitively posts - are removed by
// the schema's cascades, not by code here.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID ids.GroupID, actingProfileID ids.ProfileID) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.authz.requireGroupAdmin(ctx, ActionDeleteGroup, groupID, actingProfileID); err != nil {
		return err
	}

	if err := s.st.DeleteGroup(ctx, groupID); err != nil {
		return infra("delete group", err)
	}
	return nil
}

// IsAdmin reports whether the profile is in the group's admin set.
// A non-member yields false, never an error.
func (s *GroupService) IsAdmin(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) (bool, error) {
	isAdmin, err := s.st.IsAdmin(ctx, groupID, profileID)
	if err != nil {
		return false, infra("is admin", err)
	}
	return isAdmin, nil
}

// ListAdmins returns the group's admin set.
func (s *GroupService) ListAdmins(ctx context.Context, groupID ids.GroupID) ([]entity.GroupAdmin, error) {
	admins, err := s.st.ListAdmins(ctx, groupID)
	if err != nil {
		return nil, infra("list admins", err)
	}
	return admins, nil
}

// AddAdmin adds a profile to the group's admin set. Both the group and the
// profile must exist. Adding an already-present admin is a no-op.
func (s *GroupService) AddAdmin(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	if err := s.requireGroupAndProfile(ctx, groupID, profileID); err != nil {
		return err
	}
	if err := s.st.AddAdmin(ctx, groupID, profileID); err != nil {
		return infra("add admin", err)
	}
	return nil
}

// RemoveAdmin removes a profile from the group's admin set. Removing an
// absent admin is a no-op; removing the last admin is allowed.
func (s *GroupService) RemoveAdmin(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	if err := s.st.RemoveAdmin(ctx, groupID, profileID); err != nil {
		return infra("remove admin", err)
	}
	return nil
}

// IsBanned reports whether the profile is in the group's ban set.
// The ban set is stored but not yet consulted by any other operation.
func (s *GroupService) IsBanned(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) (bool, error) {
	isBanned, err := s.st.IsBanned(ctx, groupID, profileID)
	if err != nil {
		return false, infra("is banned", err)
	}
	return isBanned, nil
}

// ListBanned returns the group's ban set.
func (s *GroupService) ListBanned(ctx context.Context, groupID ids.GroupID) ([]entity.GroupBanned, error) {
	banned, err := s.st.ListBanned(ctx, groupID)
	if err != nil {
		return nil, infra("list banned", err)
	}
	return banned, nil
}

// AddBanned adds a profile to the group's ban set. Set semantics.
func (s *GroupService) AddBanned(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	if err := s.requireGroupAndProfile(ctx, groupID, profileID); err != nil {
		return err
	}
	if err := s.st.AddBanned(ctx, groupID, profileID); err != nil {
		return infra("add banned", err)
	}
	return nil
}

// RemoveBanned removes a profile from the group's ban set. Set semantics.
func (s *GroupService) RemoveBanned(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	if err := s.st.RemoveBanned(ctx, groupID, profileID); err != nil {
		return infra("remove banned", err)
	}
	return nil
}

// AddUser adds a profile to a group, returning the new membership row.
// Both the group and the profile must exist. A profile joins a group at
// most once: a second join fails with CONFLICT, arbitrated by the store's
// unique constraint.
func (s *GroupService) AddUser(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) (entity.GroupUser, error) {
	if err := s.requireGroupAndProfile(ctx, groupID, profileID); err != nil {
		return entity.GroupUser{}, err
	}

	user := entity.GroupUser{
		ID:        ids.NewUserID(),
		GroupID:   groupID,
		ProfileID: profileID,
	}

	if err := s.st.AddUser(ctx, user); err != nil {
		return entity.GroupUser{}, writeErr("user", "add user", err)
	}

	return user, nil
}

// RemoveUser removes a profile's membership in a group. Removing an absent
// membership is a no-op.
func (s *GroupService) RemoveUser(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	if err := s.st.RemoveUser(ctx, groupID, profileID); err != nil {
		return infra("remove user", err)
	}
	return nil
}

// GetUser retrieves a membership row by id.
func (s *GroupService) GetUser(ctx context.Context, userID ids.UserID) (entity.GroupUser, error) {
	user, err := s.st.GetUser(ctx, userID)
	if err != nil {
		return entity.GroupUser{}, lookupErr("user", "get user", err)
	}
	return user, nil
}

// ListUsers returns the group's membership rows.
func (s *GroupService) ListUsers(ctx context.Context, groupID ids.GroupID) ([]entity.GroupUser, error) {
	users, err := s.st.ListUsers(ctx, groupID)
	if err != nil {
		return nil, infra("list users", err)
	}
	return users, nil
}

// ListMemberships returns every membership a profile holds, across all
// groups.
func (s *GroupService) ListMemberships(ctx context.Context, profileID ids.ProfileID) ([]entity.GroupUser, error) {
	users, err := s.st.ListMembershipsForProfile(ctx, profileID)
	if err != nil {
		return nil, infra("list memberships", err)
	}
	return users, nil
}

// requireGroupAndProfile checks both referenced entities exist, group
// first. Not a lock: a concurrent delete between check and insert is
// caught by the store's foreign keys and surfaces as INFRA.
func (s *GroupService) requireGroupAndProfile(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	groupExists, err := s.st.GroupExists(ctx, groupID)
	if err != nil {
		return infra("check group", err)
	}
	if !groupExists {
		return notFound("group")
	}

	profileExists, err := s.st.ProfileExists(ctx, profileID)
	if err != nil {
		return infra("check profile", err)
	}
	if !profileExists {
		return notFound("profile")
	}

	return nil
}
