// Package app wires a node's configuration, store, and services into one
// explicit context. Callers construct an App, use its services, and Close
// it; nothing here is process-global.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spout-app/spout/internal/config"
	"github.com/spout-app/spout/internal/ids"
	"github.com/spout-app/spout/internal/service"
	"github.com/spout-app/spout/internal/store"
)

// DefaultProfileName is the profile created for a node on first start.
const DefaultProfileName = "Default"

// App is a running Spout node: one store, one identity, the services on
// top of it.
type App struct {
	Config config.Config
	NodeID ids.NodeID

	Store    *store.Store
	Profiles *service.ProfileService
	Groups   *service.GroupService
	Topics   *service.TopicService
	Posts    *service.PostService
}

// New opens the store described by cfg and builds the service layer.
// On a node with no profiles yet, it creates the default profile so the
// identity is immediately usable.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	nodeID, err := cfg.NodeID()
	if err != nil {
		return nil, fmt.Errorf("load node identity: %w", err)
	}

	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &App{
		Config:   cfg,
		NodeID:   nodeID,
		Store:    st,
		Profiles: service.NewProfileService(st),
		Groups:   service.NewGroupService(st),
		Topics:   service.NewTopicService(st),
		Posts:    service.NewPostService(st),
	}

	if err := a.bootstrapProfile(ctx); err != nil {
		st.Close()
		return nil, err
	}

	slog.Debug("app started",
		"node_id", nodeID.String(),
		"database", cfg.DatabasePath())

	return a, nil
}

// Close releases the store. The App is unusable afterwards.
func (a *App) Close() error {
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// bootstrapProfile creates the default profile when the node has none.
func (a *App) bootstrapProfile(ctx context.Context) error {
	profiles, err := a.Profiles.ListProfiles(ctx, a.NodeID)
	if err != nil {
		return fmt.Errorf("list profiles at startup: %w", err)
	}
	if len(profiles) > 0 {
		return nil
	}

	p, err := a.Profiles.CreateProfile(ctx, a.NodeID, DefaultProfileName, "", nil)
	if err != nil {
		return fmt.Errorf("create default profile: %w", err)
	}

	slog.Info("created default profile", "profile_id", p.ID.String())
	return nil
}
