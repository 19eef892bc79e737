package database

import (
	"github.com/stretchr/testify/mock"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockChatRepository) GetOrCreateUserByOAuthProfile(profile OAuthProfile) (User, error) {
	args := m.Called(profile)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) GetUserById(id int64) (User, error) {
	args := m.Called(id)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatRepository) UpdateUser(user User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *MockChatRepository) ListRecentUsers(roomId int64, limit int) ([]RecentUser, error) {
	args := m.Called(roomId, limit)
	return args.Get(0).([]RecentUser), args.Error(1)
}
func (m *MockChatRepository) SaveRoom(room Room, authorId int64) (Room, error) {
	args := m.Called(room, authorId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockChatRepository) GetRoom(id int64) (Room, error) {
	args := m.Called(id)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockChatRepository) GetRoomWithAuth(roomId, userId int64) (RoomAccess, error) {
	args := m.Called(roomId, userId)
	return args.Get(0).(RoomAccess), args.Error(1)
}
func (m *MockChatRepository) ListPublicRooms() ([]Room, error) {
	args := m.Called()
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockChatRepository) ListAccessibleRooms(userId int64) ([]RoomAccess, error) {
	args := m.Called(userId)
	return args.Get(0).([]RoomAccess), args.Error(1)
}
func (m *MockChatRepository) ListUserAuths(userId int64) ([]UserRoomAuth, error) {
	args := m.Called(userId)
	return args.Get(0).([]UserRoomAuth), args.Error(1)
}
func (m *MockChatRepository) ListRoomAuths(roomId int64) ([]RoomAuthEntry, error) {
	args := m.Called(roomId)
	return args.Get(0).([]RoomAuthEntry), args.Error(1)
}
func (m *MockChatRepository) ReplaceAccessRequest(roomId, userId int64) (AccessRequest, error) {
	args := m.Called(roomId, userId)
	return args.Get(0).(AccessRequest), args.Error(1)
}
func (m *MockChatRepository) ListOpenAccessRequests(roomId, userId int64) ([]OpenAccessRequest, error) {
	args := m.Called(roomId, userId)
	return args.Get(0).([]OpenAccessRequest), args.Error(1)
}
func (m *MockChatRepository) ChangeRights(actions []RightsAction, actingUserId, roomId int64) []RightsOutcome {
	args := m.Called(actions, actingUserId, roomId)
	return args.Get(0).([]RightsOutcome)
}
func (m *MockChatRepository) CheckAuthLevel(roomId, userId int64, minLevel string) (string, error) {
	args := m.Called(roomId, userId, minLevel)
	return args.String(0), args.Error(1)
}
func (m *MockChatRepository) GetMessages(roomId, userId int64, limit int, chronoOrder bool, bounds ...MessageBound) ([]Message, error) {
	args := m.Called(roomId, userId, limit, chronoOrder, bounds)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockChatRepository) GetMessagesBefore(roomId, userId int64, limit int, before, until int64) ([]Message, error) {
	args := m.Called(roomId, userId, limit, before, until)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockChatRepository) GetMessagesAfter(roomId, userId int64, limit int, from, before int64) ([]Message, error) {
	args := m.Called(roomId, userId, limit, from, before)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockChatRepository) GetNotableMessages(roomId, createdAfter int64) ([]Message, error) {
	args := m.Called(roomId, createdAfter)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockChatRepository) GetMessage(messageId, userId int64) (Message, error) {
	args := m.Called(messageId, userId)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockChatRepository) SaveMessage(msg Message) (Message, error) {
	args := m.Called(msg)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockChatRepository) AddVote(roomId, userId, messageId int64, level string) (Message, error) {
	args := m.Called(roomId, userId, messageId, level)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockChatRepository) RemoveVote(roomId, userId, messageId int64, level string) (Message, error) {
	args := m.Called(roomId, userId, messageId, level)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockChatRepository) StorePings(roomId int64, usernames []string, messageId int64) error {
	args := m.Called(roomId, usernames, messageId)
	return args.Error(0)
}
func (m *MockChatRepository) DeletePings(roomId, userId int64) error {
	args := m.Called(roomId, userId)
	return args.Error(0)
}
func (m *MockChatRepository) GetUserPings(userId int64) ([]Ping, error) {
	args := m.Called(userId)
	return args.Get(0).([]Ping), args.Error(1)
}
func (m *MockChatRepository) GetUserPingRooms(userId, after int64) ([]PingRoom, error) {
	args := m.Called(userId, after)
	return args.Get(0).([]PingRoom), args.Error(1)
}
