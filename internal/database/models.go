package database

import "database/sql"

// Authorization levels on a room. Ordering (read < write < admin < own) is
// enforced by the store's enum type; this layer only passes the values through.
const (
	AuthRead  = "read"
	AuthWrite = "write"
	AuthAdmin = "admin"
	AuthOwn   = "own"
)

// Vote levels a user may cast on a message.
const (
	VotePin  = "pin"
	VoteStar = "star"
	VoteUp   = "up"
	VoteDown = "down"
)

// ValidVoteLevel reports whether level is one of pin, star, up, down.
func ValidVoteLevel(level string) bool {
	switch level {
	case VotePin, VoteStar, VoteUp, VoteDown:
		return true
	}
	return false
}

// User is a player row. Identity at creation is the (OAuthProvider, OAuthId)
// pair; Id is the durable reference afterwards.
type User struct {
	Id               int64
	Name             string
	OAuthDisplayName sql.NullString
	Email            sql.NullString
}

// OAuthProfile covers the provider profile shapes the layer consumes. Google
// sends id/displayName/emails, Stack Exchange sends user_id/display_name.
type OAuthProfile struct {
	Id             string       `json:"id"`
	UserId         string       `json:"user_id"`
	DisplayName    string       `json:"displayName"`
	DisplayNameAlt string       `json:"display_name"`
	Provider       string       `json:"provider"`
	Emails         []OAuthEmail `json:"emails"`
}

type OAuthEmail struct {
	Value string `json:"value"`
}

// ExternalId returns the provider-side id, whichever field carries it.
func (p OAuthProfile) ExternalId() string {
	if p.Id != "" {
		return p.Id
	}
	return p.UserId
}

// Name returns the profile's display name, whichever field carries it.
func (p OAuthProfile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.DisplayNameAlt
}

// Email returns the first profile email, or an invalid NullString if none.
func (p OAuthProfile) Email() sql.NullString {
	if len(p.Emails) > 0 {
		return sql.NullString{String: p.Emails[0].Value, Valid: true}
	}
	return sql.NullString{}
}

// RecentUser is a distinct message author of a room with their last activity.
type RecentUser struct {
	Id         int64
	Name       string
	LastActive int64
}

type Room struct {
	Id          int64
	Name        string
	Description string
	Private     bool
}

// RoomAccess is a room joined with the calling user's own auth level, which is
// null when the user holds no grant.
type RoomAccess struct {
	Room
	Auth sql.NullString
}

// UserRoomAuth is one room a user holds a grant on.
type UserRoomAuth struct {
	RoomId      int64
	Name        string
	Description string
	Auth        string
}

// RoomAuthEntry is one grant on a room, seen from the room side. Granter is
// null for the own-grant created with the room.
type RoomAuthEntry struct {
	Player  int64
	Name    string
	Auth    string
	Granter sql.NullInt64
	Granted int64
}

type AccessRequest struct {
	Room      int64
	Player    int64
	Requested int64
}

// OpenAccessRequest is a pending request joined with the requester's name.
type OpenAccessRequest struct {
	Player    int64
	Name      string
	Requested int64
}

// RightsCmd is one of the commands applied in a ChangeRights batch.
type RightsCmd string

const (
	RightsInsertAuth          RightsCmd = "insert_auth"
	RightsDeleteAccessRequest RightsCmd = "delete_ar"
	RightsUpdateAuth          RightsCmd = "update_auth"
	RightsDeleteAuth          RightsCmd = "delete_auth"
)

// RightsAction is one mutation of a user's rights on a room. Auth is only
// meaningful for insert_auth and update_auth.
type RightsAction struct {
	Cmd  RightsCmd
	User int64
	Auth string
}

// RightsOutcome reports how one action of a ChangeRights batch fared. Applied
// is false when the statement affected no row; Err carries ErrNotAuthorized or
// ErrNotFound for gated actions, or the driver error.
type RightsOutcome struct {
	Action  RightsAction
	Applied bool
	Err     error
}

// Message is a message row enriched with the author's name, the calling
// user's own vote (null if none) and the running vote counters. Timestamps
// are Unix seconds; Changed is null until the first edit.
type Message struct {
	Id         int64
	Room       int64
	Author     int64
	AuthorName string
	Content    string
	Created    int64
	Changed    sql.NullInt64
	Pin        int
	Star       int
	Up         int
	Down       int
	Vote       sql.NullString
	Score      int
}

// MessageBound is an id-range condition for GetMessages. Rel must be one of
// <, <=, >, >=.
type MessageBound struct {
	Rel string
	Id  int64
}

// Ping is a mention of a player in a room, joined with the room's name.
type Ping struct {
	Player   int64
	Room     int64
	RoomName string
	Message  int64
}

// PingRoom is the most recent ping per room for a user.
type PingRoom struct {
	Room     int64
	RoomName string
	Last     int64
}
