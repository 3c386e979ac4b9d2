package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
)

// CreateGroup inserts a group and its initial admin row - the creator - in
// one transaction. A group with an empty admin set is never observable.
func (s *Store) CreateGroup(ctx context.Context, g entity.Group) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO "group" (id, profile_id)
			VALUES (?, ?)
		`, g.ID, g.ProfileID)
		if err != nil {
			return fmt.Errorf("insert group: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO group_admin (group_id, identity_id)
			VALUES (?, ?)
		`, g.ID, g.ProfileID)
		if err != nil {
			return fmt.Errorf("insert initial admin: %w", err)
		}

		return nil
	})
}

// GetGroup retrieves a single group by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetGroup(ctx context.Context, id ids.GroupID) (entity.Group, error) {
	var g entity.Group
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id FROM "group" WHERE id = ?
	`, id).Scan(&g.ID, &g.ProfileID)
	if err != nil {
		return entity.Group{}, err
	}
	return g, nil
}

// GroupExists reports whether a group row exists.
func (s *Store) GroupExists(ctx context.Context, id ids.GroupID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM "group" WHERE id = ?
	`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check group: %w", err)
	}
	return count > 0, nil
}

// ListGroupsOwnedBy returns every group created by the given profile,
// ordered by id (creation order).
func (s *Store) ListGroupsOwnedBy(ctx context.Context, profileID ids.ProfileID) ([]entity.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id FROM "group"
		WHERE profile_id = ?
		ORDER BY id ASC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := []entity.Group{}
	for rows.Next() {
		var g entity.Group
		if err := rows.Scan(&g.ID, &g.ProfileID); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	return groups, nil
}

// DeleteGroup removes a group. Admin, ban, membership and topic rows (and,
// transitively, posts) go with it via foreign-key cascades - there is no
// manual cleanup here.
func (s *Store) DeleteGroup(ctx context.Context, id ids.GroupID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM "group" WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// IsAdmin reports whether the profile is in the group's admin set.
// A non-member is false, never an error.
func (s *Store) IsAdmin(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_admin
		WHERE group_id = ? AND identity_id = ?
	`, groupID, profileID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return count > 0, nil
}

// ListAdmins returns the group's admin set, ordered by identity id.
func (s *Store) ListAdmins(ctx context.Context, groupID ids.GroupID) ([]entity.GroupAdmin, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_id, identity_id FROM group_admin
		WHERE group_id = ?
		ORDER BY identity_id ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("query admins: %w", err)
	}
	defer rows.Close()

	admins := []entity.GroupAdmin{}
	for rows.Next() {
		var a entity.GroupAdmin
		if err := rows.Scan(&a.GroupID, &a.IdentityID); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admins: %w", err)
	}

	return admins, nil
}

// AddAdmin adds a profile to the group's admin set.
// Set semantics: adding a pair that is already present is a no-op.
func (s *Store) AddAdmin(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_admin (group_id, identity_id)
		VALUES (?, ?)
		ON CONFLICT(group_id, identity_id) DO NOTHING
	`, groupID, profileID)
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	return nil
}

// RemoveAdmin removes a profile from the group's admin set.
// Set semantics: removing an absent pair is a no-op. Removing the last
// admin is allowed.
func (s *Store) RemoveAdmin(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM group_admin
		WHERE group_id = ? AND identity_id = ?
	`, groupID, profileID)
	if err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}
	return nil
}

// IsBanned reports whether the profile is in the group's ban set.
// Storage only: no operation consults this to block joins or posts yet.
func (s *Store) IsBanned(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_banned
		WHERE group_id = ? AND identity_id = ?
	`, groupID, profileID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check banned: %w", err)
	}
	return count > 0, nil
}

// ListBanned returns the group's ban set, ordered by identity id.
func (s *Store) ListBanned(ctx context.Context, groupID ids.GroupID) ([]entity.GroupBanned, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_id, identity_id FROM group_banned
		WHERE group_id = ?
		ORDER BY identity_id ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("query banned: %w", err)
	}
	defer rows.Close()

	banned := []entity.GroupBanned{}
	for rows.Next() {
		var b entity.GroupBanned
		if err := rows.Scan(&b.GroupID, &b.IdentityID); err != nil {
			return nil, fmt.Errorf("scan banned: %w", err)
		}
		banned = append(banned, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banned: %w", err)
	}

	return banned, nil
}

// AddBanned adds a profile to the group's ban set. Set semantics.
func (s *Store) AddBanned(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_banned (group_id, identity_id)
		VALUES (?, ?)
		ON CONFLICT(group_id, identity_id) DO NOTHING
	`, groupID, profileID)
	if err != nil {
		return fmt.Errorf("add banned: %w", err)
	}
	return nil
}

// RemoveBanned removes a profile from the group's ban set. Set semantics.
func (s *Store) RemoveBanned(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM group_banned
		WHERE group_id = ? AND identity_id = ?
	`, groupID, profileID)
	if err != nil {
		return fmt.Errorf("remove banned: %w", err)
	}
	return nil
}

// AddUser inserts a membership row. A duplicate (group, profile) pair fails
// with a unique-constraint error; the caller surfaces it as a conflict.
func (s *Store) AddUser(ctx context.Context, u entity.GroupUser) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_user (id, group_id, profile_id)
		VALUES (?, ?, ?)
	`, u.ID, u.GroupID, u.ProfileID)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// RemoveUser deletes the membership of a profile in a group.
// Removing an absent membership is a no-op.
func (s *Store) RemoveUser(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM group_user
		WHERE group_id = ? AND profile_id = ?
	`, groupID, profileID)
	if err != nil {
		return fmt.Errorf("remove membership: %w", err)
	}
	return nil
}

// GetUser retrieves a single membership row by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetUser(ctx context.Context, id ids.UserID) (entity.GroupUser, error) {
	var u entity.GroupUser
	err := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, profile_id FROM group_user WHERE id = ?
	`, id).Scan(&u.ID, &u.GroupID, &u.ProfileID)
	if err != nil {
		return entity.GroupUser{}, err
	}
	return u, nil
}

// UserExists reports whether a membership row exists.
func (s *Store) UserExists(ctx context.Context, id ids.UserID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_user WHERE id = ?
	`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

// ListUsers returns the group's membership rows, ordered by id
// (join order).
func (s *Store) ListUsers(ctx context.Context, groupID ids.GroupID) ([]entity.GroupUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, profile_id FROM group_user
		WHERE group_id = ?
		ORDER BY id ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("query memberships: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ListMembershipsForProfile returns every membership row held by a profile,
// across all groups, ordered by id.
func (s *Store) ListMembershipsForProfile(ctx context.Context, profileID ids.ProfileID) ([]entity.GroupUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, profile_id FROM group_user
		WHERE profile_id = ?
		ORDER BY id ASC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("query memberships for profile: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]entity.GroupUser, error) {
	users := []entity.GroupUser{}
	for rows.Next() {
		var u entity.GroupUser
		if err := rows.Scan(&u.ID, &u.GroupID, &u.ProfileID); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	return users, nil
}
