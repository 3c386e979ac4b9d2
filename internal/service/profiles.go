package service

import (
	"context"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
	"github.com/spout-app/spout/internal/store"
)

// ProfileService creates personas and resolves which personas a network
// identity owns.
type ProfileService struct {
	st *store.Store
}

// NewProfileService returns a ProfileService backed by st.
func NewProfileService(st *store.Store) *ProfileService {
	return &ProfileService{st: st}
}

// CreateProfile creates a persona for the given network identity. The
// profile row and its identity link are written in one transaction; neither
// is observable without the other.
//
// Fails with CONFLICT when the name is already taken.
func (s *ProfileService) CreateProfile(ctx context.Context, nodeID ids.NodeID, name, desc string, picture []byte) (entity.Profile, error) {
	profile := entity.Profile{
		ID:      ids.NewProfileID(),
		Name:    name,
		Desc:    desc,
		Picture: picture,
	}

	if err := s.st.CreateProfile(ctx, profile, nodeID); err != nil {
		return entity.Profile{}, writeErr("profile", "create profile", err)
	}

	return profile, nil
}

// ListProfiles returns every persona owned by the given network identity.
// An identity with no profiles gets an empty list, not an error.
func (s *ProfileService) ListProfiles(ctx context.Context, nodeID ids.NodeID) ([]entity.Profile, error) {
	profiles, err := s.st.ListProfilesForNode(ctx, nodeID)
	if err != nil {
		return nil, infra("list profiles", err)
	}
	return profiles, nil
}

// GetProfile retrieves a persona by id.
func (s *ProfileService) GetProfile(ctx context.Context, id ids.ProfileID) (entity.Profile, error) {
	profile, err := s.st.GetProfile(ctx, id)
	if err != nil {
		return entity.Profile{}, lookupErr("profile", "get profile", err)
	}
	return profile, nil
}

// GetProfileByName retrieves a persona by its unique display name.
func (s *ProfileService) GetProfileByName(ctx context.Context, name string) (entity.Profile, error) {
	profile, err := s.st.GetProfileByName(ctx, name)
	if err != nil {
		return entity.Profile{}, lookupErr("profile", "get profile by name", err)
	}
	return profile, nil
}
