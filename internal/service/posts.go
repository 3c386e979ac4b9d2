package service

import (
	"context"
	"time"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
	"github.com/spout-app/spout/internal/store"
)

// PostService manages the threaded content inside topics: top-level posts,
// replies at unbounded depth, and their authorship-gated mutation.
type PostService struct {
	st    *store.Store
	authz authorizer
}

// NewPostService returns a PostService backed by st.
func NewPostService(st *store.Store) *PostService {
	return &PostService{st: st, authz: authorizer{st: st}}
}

// CreatePost creates a top-level post in a topic. The membership row
// (userID) and the topic must both exist.
func (s *PostService) CreatePost(ctx context.Context, userID ids.UserID, topicID ids.TopicID, title, body string) (entity.GroupPost, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return entity.GroupPost{}, err
	}

	topicExists, err := s.st.TopicExists(ctx, topicID)
	if err != nil {
		return entity.GroupPost{}, infra("check topic", err)
	}
	if !topicExists {
		return entity.GroupPost{}, notFound("topic")
	}

	post := entity.GroupPost{
		ID:        ids.NewPostID(),
		UserID:    userID,
		TopicID:   topicID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.st.CreatePost(ctx, post); err != nil {
		return entity.GroupPost{}, writeErr("post", "create post", err)
	}

	return post, nil
}

// CreateReply creates a reply to an existing post - top-level or itself a
// reply; the tree has no depth limit. The reply's topic is copied from the
// parent, never supplied by the caller: that is what keeps an arbitrarily
// deep tree anchored to one topic.
func (s *PostService) CreateReply(ctx context.Context, parentPostID ids.PostID, userID ids.UserID, title, body string) (entity.GroupPost, error) {
	parent, err := s.GetPost(ctx, parentPostID)
	if err != nil {
		return entity.GroupPost{}, err
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return entity.GroupPost{}, err
	}

	reply := entity.GroupPost{
		ID:           ids.NewPostID(),
		UserID:       userID,
		TopicID:      parent.TopicID,
		ParentPostID: &parentPostID,
		Title:        title,
		Body:         body,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.st.CreatePost(ctx, reply); err != nil {
		return entity.GroupPost{}, writeErr("post", "create reply", err)
	}

	return reply, nil
}

// GetPost retrieves a post by id.
func (s *PostService) GetPost(ctx context.Context, postID ids.PostID) (entity.GroupPost, error) {
	post, err := s.st.GetPost(ctx, postID)
	if err != nil {
		return entity.GroupPost{}, lookupErr("post", "get post", err)
	}
	return post, nil
}

// UpdatePost edits a post's title and/or body. Only the author may edit.
// Each field is independently optional: a nil pointer leaves that field
// unchanged.
func (s *PostService) UpdatePost(ctx context.Context, postID ids.PostID, actingUserID ids.UserID, title, body *string) (entity.GroupPost, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return entity.GroupPost{}, err
	}
	if err := s.authz.requireAuthor(ActionUpdatePost, post, actingUserID); err != nil {
		return entity.GroupPost{}, err
	}

	if title != nil {
		post.Title = *title
	}
	if body != nil {
		post.Body = *body
	}

	if err := s.st.UpdatePost(ctx, postID, post.Title, post.Body); err != nil {
		return entity.GroupPost{}, infra("update post", err)
	}

	return post, nil
}

// DeletePost deletes a post. Only the author may delete. The reply subtree
// is removed by the schema's self-referential cascade, regardless of who
// authored the replies.
func (s *PostService) DeletePost(ctx context.Context, postID ids.PostID, actingUserID ids.UserID) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.authz.requireAuthor(ActionDeletePost, post, actingUserID); err != nil {
		return err
	}

	if err := s.st.DeletePost(ctx, postID); err != nil {
		return infra("delete post", err)
	}
	return nil
}

// ListPostsForTopic returns a page of every post in the topic, replies
// included, oldest first (conversation order).
func (s *PostService) ListPostsForTopic(ctx context.Context, topicID ids.TopicID, limit, offset int64) ([]entity.GroupPost, error) {
	posts, err := s.st.ListPostsForTopic(ctx, topicID, limit, offset)
	if err != nil {
		return nil, infra("list posts for topic", err)
	}
	return posts, nil
}

// ListTopLevelPosts returns a page of the topic's posts without a parent,
// oldest first.
func (s *PostService) ListTopLevelPosts(ctx context.Context, topicID ids.TopicID, limit, offset int64) ([]entity.GroupPost, error) {
	posts, err := s.st.ListTopLevelPosts(ctx, topicID, limit, offset)
	if err != nil {
		return nil, infra("list top-level posts", err)
	}
	return posts, nil
}

// ListReplies returns a page of the post's direct children only, oldest
// first.
func (s *PostService) ListReplies(ctx context.Context, postID ids.PostID, limit, offset int64) ([]entity.GroupPost, error) {
	posts, err := s.st.ListReplies(ctx, postID, limit, offset)
	if err != nil {
		return nil, infra("list replies", err)
	}
	return posts, nil
}

// ListPostsByUser returns a page of posts authored under a membership,
// newest first.
func (s *PostService) ListPostsByUser(ctx context.Context, userID ids.UserID, limit, offset int64) ([]entity.GroupPost, error) {
	posts, err := s.st.ListPostsByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, infra("list posts by user", err)
	}
	return posts, nil
}

// CountPostsInTopic returns the exact number of posts in a topic.
func (s *PostService) CountPostsInTopic(ctx context.Context, topicID ids.TopicID) (int64, error) {
	count, err := s.st.CountPostsInTopic(ctx, topicID)
	if err != nil {
		return 0, infra("count posts in topic", err)
	}
	return count, nil
}

// CountPostsByUser returns the exact number of posts authored under a
// membership.
func (s *PostService) CountPostsByUser(ctx context.Context, userID ids.UserID) (int64, error) {
	count, err := s.st.CountPostsByUser(ctx, userID)
	if err != nil {
		return 0, infra("count posts by user", err)
	}
	return count, nil
}

// CountReplies returns the exact number of direct children of a post.
func (s *PostService) CountReplies(ctx context.Context, postID ids.PostID) (int64, error) {
	count, err := s.st.CountReplies(ctx, postID)
	if err != nil {
		return 0, infra("count replies", err)
	}
	return count, nil
}

func (s *PostService) requireUser(ctx context.Context, userID ids.UserID) error {
	exists, err := s.st.UserExists(ctx, userID)
	if err != nil {
		return infra("check user", err)
	}
	if !exists {
		return notFound("user")
	}
	return nil
}
