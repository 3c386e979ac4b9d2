package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
)

// CreateTopic inserts a topic row.
func (s *Store) CreateTopic(ctx context.Context, t entity.GroupTopic) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_topic (id, group_id, profile_id, created_at)
		VALUES (?, ?, ?, ?)
	`, t.ID, t.GroupID, t.ProfileID, encodeTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}

// GetTopic retrieves a single topic by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetTopic(ctx context.Context, id ids.TopicID) (entity.GroupTopic, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, profile_id, created_at
		FROM group_topic
		WHERE id = ?
	`, id)

	var t entity.GroupTopic
	var createdAt string
	if err := row.Scan(&t.ID, &t.GroupID, &t.ProfileID, &createdAt); err != nil {
		return entity.GroupTopic{}, err
	}

	var err error
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return entity.GroupTopic{}, err
	}
	return t, nil
}

// TopicExists reports whether a topic row exists.
func (s *Store) TopicExists(ctx context.Context, id ids.TopicID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_topic WHERE id = ?
	`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check topic: %w", err)
	}
	return count > 0, nil
}

// ListTopicsForGroup returns a page of the group's topics, newest first.
// An offset past the end yields an empty page, not an error.
func (s *Store) ListTopicsForGroup(ctx context.Context, groupID ids.GroupID, limit, offset int64) ([]entity.GroupTopic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, profile_id, created_at
		FROM group_topic
		WHERE group_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query topics for group: %w", err)
	}
	defer rows.Close()

	return scanTopics(rows)
}

// LatestTopicForGroup returns the most recently started topic of a group.
// Returns sql.ErrNoRows when the group has none.
func (s *Store) LatestTopicForGroup(ctx context.Context, groupID ids.GroupID) (entity.GroupTopic, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, profile_id, created_at
		FROM group_topic
		WHERE group_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, groupID)

	var t entity.GroupTopic
	var createdAt string
	if err := row.Scan(&t.ID, &t.GroupID, &t.ProfileID, &createdAt); err != nil {
		return entity.GroupTopic{}, err
	}

	var err error
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return entity.GroupTopic{}, err
	}
	return t, nil
}

// ListTopicsByProfile returns a page of topics started by a profile,
// newest first, across all groups.
func (s *Store) ListTopicsByProfile(ctx context.Context, profileID ids.ProfileID, limit, offset int64) ([]entity.GroupTopic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, profile_id, created_at
		FROM group_topic
		WHERE profile_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query topics by profile: %w", err)
	}
	defer rows.Close()

	return scanTopics(rows)
}

// DeleteTopic removes a topic; its posts go with it via the foreign-key
// cascade.
func (s *Store) DeleteTopic(ctx context.Context, id ids.TopicID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM group_topic WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return nil
}

func scanTopics(rows *sql.Rows) ([]entity.GroupTopic, error) {
	topics := []entity.GroupTopic{}
	for rows.Next() {
		var t entity.GroupTopic
		var createdAt string
		if err := rows.Scan(&t.ID, &t.GroupID, &t.ProfileID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		var err error
		if t.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}

	return topics, nil
}
