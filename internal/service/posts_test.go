package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
	"github.com/spout-app/spout/internal/store"
)

type postFixture struct {
	st        *store.Store
	svc       *PostService
	topic     entity.GroupTopic
	author    entity.GroupUser
	otherUser entity.GroupUser
}

func newPostFixture(t *testing.T) postFixture {
	t.Helper()
	ctx := context.Background()
	st := newTestStore(t)
	profiles := NewProfileService(st)
	groups := NewGroupService(st)
	topics := NewTopicService(st)

	creator, err := profiles.CreateProfile(ctx, testNodeID(1), "creator", "", nil)
	require.NoError(t, err)
	other, err := profiles.CreateProfile(ctx, testNodeID(2), "other", "", nil)
	require.NoError(t, err)
	group, err := groups.CreateGroup(ctx, creator.ID)
	require.NoError(t, err)
	author, err := groups.AddUser(ctx, group.ID, creator.ID)
	require.NoError(t, err)
	otherUser, err := groups.AddUser(ctx, group.ID, other.ID)
	require.NoError(t, err)
	topic, err := topics.CreateTopic(ctx, group.ID, creator.ID)
	require.NoError(t, err)

	return postFixture{
		st:        st,
		svc:       NewPostService(st),
		topic:     topic,
		author:    author,
		otherUser: otherUser,
	}
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	p, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "title", "body")
	require.NoError(t, err)
	assert.Equal(t, f.topic.ID, p.TopicID)
	assert.Nil(t, p.ParentPostID)
	assert.False(t, p.IsReply())

	got, err := f.svc.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "title", got.Title)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

func TestCreatePostUnknownReferences(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	_, err := f.svc.CreatePost(ctx, ids.NewUserID(), f.topic.ID, "t", "b")
	require.True(t, IsNotFound(err))

	_, err = f.svc.CreatePost(ctx, f.author.ID, ids.NewTopicID(), "t", "b")
	require.True(t, IsNotFound(err))
}

func TestCreateReplyInheritsTopic(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	root, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "root", "")
	require.NoError(t, err)

	reply, err := f.svc.CreateReply(ctx, root.ID, f.otherUser.ID, "reply", "")
	require.NoError(t, err)
	assert.Equal(t, f.topic.ID, reply.TopicID)
	assert.True(t, reply.IsReply())
	require.NotNil(t, reply.ParentPostID)
	assert.Equal(t, root.ID, *reply.ParentPostID)

	// Replies to replies inherit the topic all the way down.
	deep, err := f.svc.CreateReply(ctx, reply.ID, f.author.ID, "deep", "")
	require.NoError(t, err)
	assert.Equal(t, f.topic.ID, deep.TopicID)

	_, err = f.svc.CreateReply(ctx, ids.NewPostID(), f.author.ID, "orphan", "")
	require.True(t, IsNotFound(err))
}

func TestListPostsForTopicOldestFirst(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	first, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "1", "")
	require.NoError(t, err)
	reply, err := f.svc.CreateReply(ctx, first.ID, f.otherUser.ID, "2", "")
	require.NoError(t, err)
	second, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "3", "")
	require.NoError(t, err)

	all, err := f.svc.ListPostsForTopic(ctx, f.topic.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, reply.ID, all[1].ID)
	assert.Equal(t, second.ID, all[2].ID)

	top, err := f.svc.ListTopLevelPosts(ctx, f.topic.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, first.ID, top[0].ID)
	assert.Equal(t, second.ID, top[1].ID)

	empty, err := f.svc.ListPostsForTopic(ctx, f.topic.ID, 10, 50)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestListRepliesDirectChildrenOnly(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	root, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "root", "")
	require.NoError(t, err)
	child1, err := f.svc.CreateReply(ctx, root.ID, f.otherUser.ID, "c1", "")
	require.NoError(t, err)
	child2, err := f.svc.CreateReply(ctx, root.ID, f.author.ID, "c2", "")
	require.NoError(t, err)
	_, err = f.svc.CreateReply(ctx, child1.ID, f.author.ID, "grandchild", "")
	require.NoError(t, err)

	replies, err := f.svc.ListReplies(ctx, root.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, child1.ID, replies[0].ID)
	assert.Equal(t, child2.ID, replies[1].ID)

	n, err := f.svc.CountReplies(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestListPostsByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	first, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "1", "")
	require.NoError(t, err)
	second, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "2", "")
	require.NoError(t, err)
	_, err = f.svc.CreatePost(ctx, f.otherUser.ID, f.topic.ID, "3", "")
	require.NoError(t, err)

	list, err := f.svc.ListPostsByUser(ctx, f.author.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	n, err := f.svc.CountPostsByUser(ctx, f.author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.svc.CountPostsInTopic(ctx, f.topic.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestUpdatePostPartial(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	p, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "old title", "old body")
	require.NoError(t, err)

	newTitle := "new title"
	updated, err := f.svc.UpdatePost(ctx, p.ID, f.author.ID, &newTitle, nil)
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "old body", updated.Body, "nil leaves the field unchanged")

	newBody := "new body"
	updated, err = f.svc.UpdatePost(ctx, p.ID, f.author.ID, nil, &newBody)
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "new body", updated.Body)

	got, err := f.svc.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, "new body", got.Body)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	p, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "title", "body")
	require.NoError(t, err)

	title := "hijacked"
	_, err = f.svc.UpdatePost(ctx, p.ID, f.otherUser.ID, &title, nil)
	require.True(t, IsUnauthorized(err))

	_, err = f.svc.UpdatePost(ctx, ids.NewPostID(), f.author.ID, &title, nil)
	require.True(t, IsNotFound(err))
}

func TestDeletePostCascadesReplies(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	root, err := f.svc.CreatePost(ctx, f.author.ID, f.topic.ID, "root", "")
	require.NoError(t, err)
	reply, err := f.svc.CreateReply(ctx, root.ID, f.otherUser.ID, "reply", "")
	require.NoError(t, err)
	deep, err := f.svc.CreateReply(ctx, reply.ID, f.author.ID, "deep", "")
	require.NoError(t, err)

	err = f.svc.DeletePost(ctx, root.ID, f.otherUser.ID)
	require.True(t, IsUnauthorized(err))

	require.NoError(t, f.svc.DeletePost(ctx, root.ID, f.author.ID))

	// The whole subtree goes, regardless of reply authorship.
	_, err = f.svc.GetPost(ctx, reply.ID)
	require.True(t, IsNotFound(err))
	_, err = f.svc.GetPost(ctx, deep.ID)
	require.True(t, IsNotFound(err))

	n, err := f.svc.CountPostsInTopic(ctx, f.topic.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
