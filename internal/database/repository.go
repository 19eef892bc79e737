package database

var (
	_ ChatRepository = (*PgChatRepository)(nil)
	_ ChatRepository = (*MockChatRepository)(nil)
)

// ChatRepository is the persistence surface of the chat application: users,
// rooms, authorizations, messages, pings and votes.
type ChatRepository interface {
	Ping() error

	GetOrCreateUserByOAuthProfile(profile OAuthProfile) (User, error)
	GetUserById(id int64) (User, error)
	UpdateUser(user User) error
	ListRecentUsers(roomId int64, limit int) ([]RecentUser, error)

	SaveRoom(room Room, authorId int64) (Room, error)
	GetRoom(id int64) (Room, error)
	GetRoomWithAuth(roomId, userId int64) (RoomAccess, error)
	ListPublicRooms() ([]Room, error)
	ListAccessibleRooms(userId int64) ([]RoomAccess, error)

	ListUserAuths(userId int64) ([]UserRoomAuth, error)
	ListRoomAuths(roomId int64) ([]RoomAuthEntry, error)
	ReplaceAccessRequest(roomId, userId int64) (AccessRequest, error)
	ListOpenAccessRequests(roomId, userId int64) ([]OpenAccessRequest, error)
	ChangeRights(actions []RightsAction, actingUserId, roomId int64) []RightsOutcome
	CheckAuthLevel(roomId, userId int64, minLevel string) (string, error)

	GetMessages(roomId, userId int64, limit int, chronoOrder bool, bounds ...MessageBound) ([]Message, error)
	GetMessagesBefore(roomId, userId int64, limit int, before, until int64) ([]Message, error)
	GetMessagesAfter(roomId, userId int64, limit int, from, before int64) ([]Message, error)
	GetNotableMessages(roomId, createdAfter int64) ([]Message, error)
	GetMessage(messageId, userId int64) (Message, error)
	SaveMessage(m Message) (Message, error)
	AddVote(roomId, userId, messageId int64, level string) (Message, error)
	RemoveVote(roomId, userId, messageId int64, level string) (Message, error)

	StorePings(roomId int64, usernames []string, messageId int64) error
	DeletePings(roomId, userId int64) error
	GetUserPings(userId int64) ([]Ping, error)
	GetUserPingRooms(userId, after int64) ([]PingRoom, error)
}
