package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
)

// createTestStore creates a store backed by a temp-dir database.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testNodeID(b byte) ids.NodeID {
	var n ids.NodeID
	for i := range n {
		n[i] = b
	}
	return n
}

// seedProfile creates a profile linked to an identity derived from the name.
func seedProfile(t *testing.T, s *Store, name string) entity.Profile {
	t.Helper()
	p := entity.Profile{
		ID:   ids.NewProfileID(),
		Name: name,
		Desc: "seeded",
	}
	var node ids.NodeID
	copy(node[:], name)
	if err := s.CreateProfile(context.Background(), p, node); err != nil {
		t.Fatalf("CreateProfile(%q) failed: %v", name, err)
	}
	return p
}

// seedGroup creates a group owned by the given profile.
func seedGroup(t *testing.T, s *Store, owner ids.ProfileID) entity.Group {
	t.Helper()
	g := entity.Group{ID: ids.NewGroupID(), ProfileID: owner}
	if err := s.CreateGroup(context.Background(), g); err != nil {
		t.Fatalf("CreateGroup() failed: %v", err)
	}
	return g
}

// seedUser adds a membership row to a group.
func seedUser(t *testing.T, s *Store, groupID ids.GroupID, profileID ids.ProfileID) entity.GroupUser {
	t.Helper()
	u := entity.GroupUser{ID: ids.NewUserID(), GroupID: groupID, ProfileID: profileID}
	if err := s.AddUser(context.Background(), u); err != nil {
		t.Fatalf("AddUser() failed: %v", err)
	}
	return u
}

// seedTopic creates a topic at the given instant.
func seedTopic(t *testing.T, s *Store, groupID ids.GroupID, profileID ids.ProfileID, at time.Time) entity.GroupTopic {
	t.Helper()
	topic := entity.GroupTopic{
		ID:        ids.NewTopicID(),
		GroupID:   groupID,
		ProfileID: profileID,
		CreatedAt: at,
	}
	if err := s.CreateTopic(context.Background(), topic); err != nil {
		t.Fatalf("CreateTopic() failed: %v", err)
	}
	return topic
}

// seedPost creates a post, optionally parented, at the given instant.
func seedPost(t *testing.T, s *Store, userID ids.UserID, topicID ids.TopicID, parent *ids.PostID, title string, at time.Time) entity.GroupPost {
	t.Helper()
	p := entity.GroupPost{
		ID:           ids.NewPostID(),
		UserID:       userID,
		TopicID:      topicID,
		ParentPostID: parent,
		Title:        title,
		Body:         "body of " + title,
		CreatedAt:    at,
	}
	if err := s.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("CreatePost(%q) failed: %v", title, err)
	}
	return p
}
