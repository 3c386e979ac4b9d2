package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
)

// CreateProfile inserts a profile and its owning identity link in one
// transaction. A profile row without an identity row is never observable.
//
// A duplicate name, or a second identity link for the same profile, fails
// with a sqlite3 unique-constraint error and rolls the whole write back.
func (s *Store) CreateProfile(ctx context.Context, p entity.Profile, nodeID ids.NodeID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile (id, name, "desc", picture)
			VALUES (?, ?, ?, ?)
		`, p.ID, p.Name, p.Desc, p.Picture)
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO identity (node_id, profile_id)
			VALUES (?, ?)
		`, nodeID, p.ID)
		if err != nil {
			return fmt.Errorf("insert identity: %w", err)
		}

		return nil
	})
}

// GetProfile retrieves a single profile by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetProfile(ctx context.Context, id ids.ProfileID) (entity.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, "desc", picture
		FROM profile
		WHERE id = ?
	`, id)
	return scanProfileRow(row)
}

// GetProfileByName retrieves a single profile by its unique name.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetProfileByName(ctx context.Context, name string) (entity.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, "desc", picture
		FROM profile
		WHERE name = ?
	`, name)
	return scanProfileRow(row)
}

// ProfileExists reports whether a profile row exists.
func (s *Store) ProfileExists(ctx context.Context, id ids.ProfileID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM profile WHERE id = ?
	`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check profile: %w", err)
	}
	return count > 0, nil
}

// ListProfilesForNode returns every profile linked to the given network
// identity, via a join on the identity table. Ordered by profile id
// (creation order). Empty slice, not nil, when the node owns nothing.
func (s *Store) ListProfilesForNode(ctx context.Context, nodeID ids.NodeID) ([]entity.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p."desc", p.picture
		FROM profile p
		JOIN identity i ON i.profile_id = p.id
		WHERE i.node_id = ?
		ORDER BY p.id ASC
	`, nodeID)
	if err != nil {
		return nil, fmt.Errorf("query profiles for node: %w", err)
	}
	defer rows.Close()

	profiles := []entity.Profile{}
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Desc, &p.Picture); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}

// GetIdentity retrieves the identity link owning the given profile.
// Returns sql.ErrNoRows if the profile has no link.
func (s *Store) GetIdentity(ctx context.Context, profileID ids.ProfileID) (entity.Identity, error) {
	var ident entity.Identity
	err := s.db.QueryRowContext(ctx, `
		SELECT node_id, profile_id
		FROM identity
		WHERE profile_id = ?
	`, profileID).Scan(&ident.NodeID, &ident.ProfileID)
	if err != nil {
		return entity.Identity{}, err
	}
	return ident, nil
}

// scanProfileRow scans a single row into a Profile.
func scanProfileRow(row *sql.Row) (entity.Profile, error) {
	var p entity.Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Desc, &p.Picture); err != nil {
		return entity.Profile{}, err
	}
	return p, nil
}
