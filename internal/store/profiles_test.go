package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/spout-app/spout/internal/entity"
	"github.com/spout-app/spout/internal/ids"
)

func TestCreateProfile_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := entity.Profile{
		ID:      ids.NewProfileID(),
		Name:    "alice",
		Desc:    "a profile",
		Picture: []byte{0x89, 0x50, 0x4e, 0x47},
	}
	if err := s.CreateProfile(ctx, p, testNodeID(1)); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}

	got, err := s.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile() failed: %v", err)
	}
	if got.ID != p.ID || got.Name != p.Name || got.Desc != p.Desc {
		t.Errorf("GetProfile() = %+v, expected %+v", got, p)
	}
	if !bytes.Equal(got.Picture, p.Picture) {
		t.Errorf("picture = %v, expected %v", got.Picture, p.Picture)
	}
}

func TestCreateProfile_DuplicateName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seedProfile(t, s, "alice")

	dup := entity.Profile{ID: ids.NewProfileID(), Name: "alice"}
	if err := s.CreateProfile(ctx, dup, testNodeID(9)); err == nil {
		t.Error("expected error for duplicate name, got nil")
	}
}

func TestCreateProfile_AtomicWithIdentity(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seedProfile(t, s, "alice")

	// A failed profile insert must not leave an identity row behind.
	dup := entity.Profile{ID: ids.NewProfileID(), Name: "alice"}
	node := testNodeID(9)
	if err := s.CreateProfile(ctx, dup, node); err == nil {
		t.Fatal("expected error for duplicate name, got nil")
	}

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM identity WHERE node_id = ?", node[:]).Scan(&count)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("identity rows = %d, expected 0 after rollback", count)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetProfile(context.Background(), ids.NewProfileID())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetProfileByName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alice")

	got, err := s.GetProfileByName(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfileByName() failed: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("id = %v, expected %v", got.ID, p.ID)
	}

	_, err = s.GetProfileByName(ctx, "nobody")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestProfileExists(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alice")

	exists, err := s.ProfileExists(ctx, p.ID)
	if err != nil {
		t.Fatalf("ProfileExists() failed: %v", err)
	}
	if !exists {
		t.Error("expected profile to exist")
	}

	exists, err = s.ProfileExists(ctx, ids.NewProfileID())
	if err != nil {
		t.Fatalf("ProfileExists() failed: %v", err)
	}
	if exists {
		t.Error("expected profile to not exist")
	}
}

func TestListProfilesForNode(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	node := testNodeID(1)
	first := entity.Profile{ID: ids.NewProfileID(), Name: "first"}
	if err := s.CreateProfile(ctx, first, node); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	second := entity.Profile{ID: ids.NewProfileID(), Name: "second"}
	if err := s.CreateProfile(ctx, second, node); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	seedProfile(t, s, "unrelated")

	list, err := s.ListProfilesForNode(ctx, node)
	if err != nil {
		t.Fatalf("ListProfilesForNode() failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, expected 2", len(list))
	}
	// UUIDv7 ids sort in creation order
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("list order = [%v %v], expected [%v %v]",
			list[0].ID, list[1].ID, first.ID, second.ID)
	}
}

func TestListProfilesForNode_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	list, err := s.ListProfilesForNode(context.Background(), testNodeID(42))
	if err != nil {
		t.Fatalf("ListProfilesForNode() failed: %v", err)
	}
	if list == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(list) != 0 {
		t.Errorf("len = %d, expected 0", len(list))
	}
}

func TestGetIdentity(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	node := testNodeID(7)
	p := entity.Profile{ID: ids.NewProfileID(), Name: "alice"}
	if err := s.CreateProfile(ctx, p, node); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}

	ident, err := s.GetIdentity(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetIdentity() failed: %v", err)
	}
	if ident.NodeID != node {
		t.Errorf("node = %v, expected %v", ident.NodeID, node)
	}
	if ident.ProfileID != p.ID {
		t.Errorf("profile = %v, expected %v", ident.ProfileID, p.ID)
	}
}
