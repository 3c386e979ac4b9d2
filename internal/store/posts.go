package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
)

// CreatePost inserts a post row. ParentPostID nil means top-level; non-nil
// means reply. The caller is responsible for having copied the parent's
// topic_id onto a reply.
func (s *Store) CreatePost(ctx context.Context, p entity.GroupPost) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_post (id, user_id, topic_id, parent_post_id, title, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.TopicID, p.ParentPostID, p.Title, p.Body, encodeTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetPost retrieves a single post by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetPost(ctx context.Context, id ids.PostID) (entity.GroupPost, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, topic_id, parent_post_id, title, body, created_at
		FROM group_post
		WHERE id = ?
	`, id)
	return scanPostRow(row)
}

// UpdatePost overwrites a post's title and body. The service layer merges
// partial updates before calling this.
func (s *Store) UpdatePost(ctx context.Context, id ids.PostID, title, body string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE group_post SET title = ?, body = ? WHERE id = ?
	`, title, body, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// DeletePost removes a post; its reply subtree goes with it via the
// self-referential foreign-key cascade.
func (s *Store) DeletePost(ctx context.Context, id ids.PostID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM group_post WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ListPostsForTopic returns a page of all posts in a topic, replies
// included, oldest first (conversation order). An offset past the end
// yields an empty page, not an error.
func (s *Store) ListPostsForTopic(ctx context.Context, topicID ids.TopicID, limit, offset int64) ([]entity.GroupPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, topic_id, parent_post_id, title, body, created_at
		FROM group_post
		WHERE topic_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`, topicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query posts for topic: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ListTopLevelPosts returns a page of a topic's posts with no parent,
// oldest first.
func (s *Store) ListTopLevelPosts(ctx context.Context, topicID ids.TopicID, limit, offset int64) ([]entity.GroupPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, topic_id, parent_post_id, title, body, created_at
		FROM group_post
		WHERE topic_id = ? AND parent_post_id IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`, topicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query top-level posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ListReplies returns a page of a post's direct children (one level only),
// oldest first.
func (s *Store) ListReplies(ctx context.Context, postID ids.PostID, limit, offset int64) ([]entity.GroupPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, topic_id, parent_post_id, title, body, created_at
		FROM group_post
		WHERE parent_post_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query replies: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ListPostsByUser returns a page of posts authored under a membership,
// newest first (recent activity order - deliberately the opposite of topic
// listing).
func (s *Store) ListPostsByUser(ctx context.Context, userID ids.UserID, limit, offset int64) ([]entity.GroupPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, topic_id, parent_post_id, title, body, created_at
		FROM group_post
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query posts by user: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// CountPostsInTopic returns the exact number of posts in a topic, replies
// included.
func (s *Store) CountPostsInTopic(ctx context.Context, topicID ids.TopicID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_post WHERE topic_id = ?
	`, topicID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts in topic: %w", err)
	}
	return count, nil
}

// CountPostsByUser returns the exact number of posts authored under a
// membership.
func (s *Store) CountPostsByUser(ctx context.Context, userID ids.UserID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_post WHERE user_id = ?
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts by user: %w", err)
	}
	return count, nil
}

// CountReplies returns the exact number of direct children of a post.
func (s *Store) CountReplies(ctx context.Context, postID ids.PostID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM group_post WHERE parent_post_id = ?
	`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count replies: %w", err)
	}
	return count, nil
}

// scanPost scans a row from rows into a GroupPost.
func scanPost(rows *sql.Rows) (entity.GroupPost, error) {
	var p entity.GroupPost
	var parent sql.NullString
	var createdAt string

	if err := rows.Scan(&p.ID, &p.UserID, &p.TopicID, &parent, &p.Title, &p.Body, &createdAt); err != nil {
		return entity.GroupPost{}, fmt.Errorf("scan post: %w", err)
	}

	return finishPost(p, parent, createdAt)
}

// scanPostRow scans a single row into a GroupPost.
func scanPostRow(row *sql.Row) (entity.GroupPost, error) {
	var p entity.GroupPost
	var parent sql.NullString
	var createdAt string

	if err := row.Scan(&p.ID, &p.UserID, &p.TopicID, &parent, &p.Title, &p.Body, &createdAt); err != nil {
		return entity.GroupPost{}, err
	}

	return finishPost(p, parent, createdAt)
}

func finishPost(p entity.GroupPost, parent sql.NullString, createdAt string) (entity.GroupPost, error) {
	if parent.Valid {
		parentID, err := ids.ParsePostID(parent.String)
		if err != nil {
			return entity.GroupPost{}, fmt.Errorf("decode parent post id: %w", err)
		}
		p.ParentPostID = &parentID
	}

	var err error
	if p.CreatedAt, err = decodeTime(createdAt); err != nil {
		return entity.GroupPost{}, err
	}
	return p, nil
}

func scanPosts(rows *sql.Rows) ([]entity.GroupPost, error) {
	posts := []entity.GroupPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}
