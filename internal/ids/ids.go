// Package ids defines the typed identifiers used across the Spout data model.
//
// Every entity kind gets its own identifier type (ProfileID, GroupID, UserID,
// TopicID, PostID). All of them share one underlying representation - a
// UUIDv7, which embeds a millisecond timestamp in its most significant bits,
// so identifiers sort by creation time. The types are distinct at compile
// time: a GroupID cannot be passed where a ProfileID is expected, even though
// both are structurally a UUID.
//
// NodeID is deliberately not one of these: it is a raw 32-byte public key
// identifying a network participant, not a row we mint.
package ids

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Kind is the phantom marker constraint for tagged identifiers.
// Each entity kind implements it with an unexported zero-size type.
type Kind interface {
	kindName() string
}

type profileKind struct{}
type groupKind struct{}
type userKind struct{}
type topicKind struct{}
type postKind struct{}

func (profileKind) kindName() string { return "profile" }
func (groupKind) kindName() string   { return "group" }
func (userKind) kindName() string    { return "user" }
func (topicKind) kindName() string   { return "topic" }
func (postKind) kindName() string    { return "post" }

// ID is a tagged UUIDv7 identifier. The type parameter never appears in the
// value itself; it exists only to keep identifiers of different entity kinds
// from mixing.
type ID[K Kind] uuid.UUID

// Identifier aliases, one per entity kind.
type (
	ProfileID = ID[profileKind]
	GroupID   = ID[groupKind]
	UserID    = ID[userKind]
	TopicID   = ID[topicKind]
	PostID    = ID[postKind]
)

// New returns a fresh time-ordered identifier.
// Panics only if the system entropy source fails.
func New[K Kind]() ID[K] {
	return ID[K](uuid.Must(uuid.NewV7()))
}

// Parse decodes the canonical hyphenated string form.
func Parse[K Kind](s string) (ID[K], error) {
	u, err := uuid.Parse(s)
	if err != nil {
		var k K
		return ID[K]{}, fmt.Errorf("parse %s id: %w", k.kindName(), err)
	}
	return ID[K](u), nil
}

// String returns the canonical hyphenated form. Round-trips with Parse.
func (id ID[K]) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether the identifier is the all-zero value.
func (id ID[K]) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// Value implements driver.Valuer. Identifiers are stored as TEXT.
func (id ID[K]) Value() (driver.Value, error) {
	return uuid.UUID(id).String(), nil
}

// Scan implements sql.Scanner.
func (id *ID[K]) Scan(src any) error {
	var k K
	switch v := src.(type) {
	case string:
		u, err := uuid.Parse(v)
		if err != nil {
			return fmt.Errorf("scan %s id: %w", k.kindName(), err)
		}
		*id = ID[K](u)
		return nil
	case []byte:
		u, err := uuid.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("scan %s id: %w", k.kindName(), err)
		}
		*id = ID[K](u)
		return nil
	default:
		return fmt.Errorf("scan %s id: unsupported source type %T", k.kindName(), src)
	}
}

// Convenience constructors. These exist so call sites read
// ids.NewProfileID() rather than ids.New[profileKind]().

func NewProfileID() ProfileID { return New[profileKind]() }
func NewGroupID() GroupID     { return New[groupKind]() }
func NewUserID() UserID       { return New[userKind]() }
func NewTopicID() TopicID     { return New[topicKind]() }
func NewPostID() PostID       { return New[postKind]() }

func ParseProfileID(s string) (ProfileID, error) { return Parse[profileKind](s) }
func ParseGroupID(s string) (GroupID, error)     { return Parse[groupKind](s) }
func ParseUserID(s string) (UserID, error)       { return Parse[userKind](s) }
func ParseTopicID(s string) (TopicID, error)     { return Parse[topicKind](s) }
func ParsePostID(s string) (PostID, error)       { return Parse[postKind](s) }

// NodeIDLen is the length of a network identity public key in bytes.
const NodeIDLen = 32

// NodeID is the raw public key identifying a network participant. It is a
// separate, untagged type: one NodeID may own many profiles, and it is never
// interchangeable with the row identifiers above.
type NodeID [NodeIDLen]byte

// NodeIDFromBytes copies b into a NodeID, rejecting wrong lengths.
func NodeIDFromBytes(b []byte) (NodeID, error) {
	var n NodeID
	if len(b) != NodeIDLen {
		return n, fmt.Errorf("node id must be %d bytes, got %d", NodeIDLen, len(b))
	}
	copy(n[:], b)
	return n, nil
}

// ParseNodeID decodes the hex form produced by String.
func ParseNodeID(s string) (NodeID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return NodeID{}, fmt.Errorf("parse node id: %w", err)
	}
	return NodeIDFromBytes(b)
}

// String returns the lowercase hex encoding of the key.
func (n NodeID) String() string {
	return hex.EncodeToString(n[:])
}

// Value implements driver.Valuer. Node ids are stored as BLOB.
func (n NodeID) Value() (driver.Value, error) {
	return n[:], nil
}

// Scan implements sql.Scanner.
func (n *NodeID) Scan(src any) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scan node id: unsupported source type %T", src)
	}
	parsed, err := NodeIDFromBytes(b)
	if err != nil {
		return fmt.Errorf("scan node id: %w", err)
	}
	*n = parsed
	return nil
}
