package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
	"github.com/spout-app/spout/internal/store"
)

// TopicService manages discussion thread containers within groups.
type TopicService struct {
	st    *store.Store
	authz authorizer
}

// NewTopicService returns a TopicService backed by st.
func NewTopicService(st *store.Store) *TopicService {
	return &TopicService{st: st, authz: authorizer{st: st}}
}

// CreateTopic starts a topic in a group. Both the group and the starting
// profile must exist.
func (s *TopicService) CreateTopic(ctx context.Context, groupID ids.GroupID, profileID ids.ProfileID) (entity.GroupTopic, error) {
	groupExists, err := s.st.GroupExists(ctx, groupID)
	if err != nil {
		return entity.GroupTopic{}, infra("check group", err)
	}
	if !groupExists {
		return entity.GroupTopic{}, notFound("group")
	}

	profileExists, err := s.st.ProfileExists(ctx, profileID)
	if err != nil {
		return entity.GroupTopic{}, infra("check profile", err)
	}
	if !profileExists {
		return entity.GroupTopic{}, notFound("profile")
	}

	topic := entity.GroupTopic{
		ID:        ids.NewTopicID(),
		GroupID:   groupID,
		ProfileID: profileID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.st.CreateTopic(ctx, topic); err != nil {
		return entity.GroupTopic{}, writeErr("topic", "create topic", err)
	}

	return topic, nil
}

// GetTopic retrieves a topic by id.
func (s *TopicService) GetTopic(ctx context.Context, topicID ids.TopicID) (entity.GroupTopic, error) {
	topic, err := s.st.GetTopic(ctx, topicID)
	if err != nil {
		return entity.GroupTopic{}, lookupErr("topic", "get topic", err)
	}
	return topic, nil
}

// ListTopicsForGroup returns a page of the group's topics, newest first.
// An offset past the end yields an empty page.
func (s *TopicService) ListTopicsForGroup(ctx context.Context, groupID ids.GroupID, limit, offset int64) ([]entity.GroupTopic, error) {
	topics, err := s.st.ListTopicsForGroup(ctx, groupID, limit, offset)
	if err != nil {
		return nil, infra("list topics for group", err)
	}
	return topics, nil
}

// LatestTopicForGroup returns the group's most recently started topic, or
// NOT_FOUND when the group has none.
func (s *TopicService) LatestTopicForGroup(ctx context.Context, groupID ids.GroupID) (entity.GroupTopic, error) {
	topic, err := s.st.LatestTopicForGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.GroupTopic{}, notFound("topic")
		}
		return entity.GroupTopic{}, infra("latest topic", err)
	}
	return topic, nil
}

// ListTopicsByProfile returns a page of topics started by a profile,
// newest first, across all groups.
func (s *TopicService) ListTopicsByProfile(ctx context.Context, profileID ids.ProfileID, limit, offset int64) ([]entity.GroupTopic, error) {
	topics, err := s.st.ListTopicsByProfile(ctx, profileID, limit, offset)
	if err != nil {
		return nil, infra("list topics by profile", err)
	}
	return topics, nil
}

// DeleteTopic deletes a topic and, via the schema cascade, every post in
// it. Allowed for the topic's starter and for admins of the containing
// group.
func (s *TopicService) DeleteTopic(ctx context.Context, topicID ids.TopicID, actingProfileID ids.ProfileID) error {
	topic, err := s.GetTopic(ctx, topicID)
	if err != nil {
		return err
	}
	if err := s.authz.requireTopicStarterOrAdmin(ctx, ActionDeleteTopic, topic, actingProfileID); err != nil {
		return err
	}

	if err := s.st.DeleteTopic(ctx, topicID); err != nil {
		return infra("delete topic", err)
	}
	return nil
}
