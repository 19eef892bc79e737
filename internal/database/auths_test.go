package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUserAuths(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(listUserAuthsQuery).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "auth"}).
			AddRow(3, "general", "", AuthAdmin))

	auths, err := repo.ListUserAuths(7)
	require.NoError(t, err)
	require.Len(t, auths, 1)
	assert.Equal(t, int64(3), auths[0].RoomId)
	assert.Equal(t, AuthAdmin, auths[0].Auth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoomAuths(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(listRoomAuthsQuery).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "auth", "granter", "granted"}).
			AddRow(7, "alice", AuthOwn, nil, testNow-3600).
			AddRow(9, "bob", AuthWrite, 7, testNow-60))

	auths, err := repo.ListRoomAuths(3)
	require.NoError(t, err)
	require.Len(t, auths, 2)
	assert.False(t, auths[0].Granter.Valid, "expected the creation grant to have no granter")
	assert.Equal(t, int64(7), auths[1].Granter.Int64)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAccessRequest(t *testing.T) {
	t.Run("replaces any prior request in one transaction", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(deleteAccessRequestQuery).
			WithArgs(int64(5), int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertAccessRequestQuery).
			WithArgs(int64(5), int64(9), testNow).
			WillReturnRows(sqlmock.NewRows([]string{"room", "player", "requested"}).
				AddRow(5, 9, testNow))
		mock.ExpectCommit()

		ar, err := repo.ReplaceAccessRequest(5, 9)
		require.NoError(t, err)
		assert.Equal(t, testNow, ar.Requested, "expected the second request's timestamp")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the insert fails", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(deleteAccessRequestQuery).
			WithArgs(int64(5), int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(insertAccessRequestQuery).
			WithArgs(int64(5), int64(9), testNow).
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		_, err := repo.ReplaceAccessRequest(5, 9)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListOpenAccessRequests(t *testing.T) {
	t.Run("all requests of a room", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(listOpenAccessRequestsQuery).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "requested"}).
				AddRow(9, "bob", testNow))

		requests, err := repo.ListOpenAccessRequests(5, 0)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, "bob", requests[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered to one user", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(listOpenAccessRequestsForUserQuery).
			WithArgs(int64(5), int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "requested"}))

		requests, err := repo.ListOpenAccessRequests(5, 9)
		require.NoError(t, err)
		assert.Empty(t, requests, "expected an empty list, not an error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestChangeRights(t *testing.T) {
	t.Run("insert grant", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectExec(insertAuthQuery).
			WithArgs(int64(3), int64(9), AuthWrite, int64(7), testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))

		outcomes := repo.ChangeRights([]RightsAction{{Cmd: RightsInsertAuth, User: 9, Auth: AuthWrite}}, 7, 3)
		require.Len(t, outcomes, 1)
		assert.True(t, outcomes[0].Applied)
		assert.NoError(t, outcomes[0].Err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleting an absent access request is a silent no-op", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectExec(deleteAccessRequestQuery).
			WithArgs(int64(3), int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		outcomes := repo.ChangeRights([]RightsAction{{Cmd: RightsDeleteAccessRequest, User: 9}}, 7, 3)
		require.Len(t, outcomes, 1)
		assert.False(t, outcomes[0].Applied)
		assert.NoError(t, outcomes[0].Err, "expected no error for a missing request")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gated update against a higher grant is not authorized", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectExec(updateAuthQuery).
			WithArgs(AuthAdmin, int64(9), int64(3), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(authExistsQuery).
			WithArgs(int64(9), int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		outcomes := repo.ChangeRights([]RightsAction{{Cmd: RightsUpdateAuth, User: 9, Auth: AuthAdmin}}, 7, 3)
		require.Len(t, outcomes, 1)
		assert.False(t, outcomes[0].Applied)
		assert.ErrorIs(t, outcomes[0].Err, ErrNotAuthorized)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gated delete of a missing grant is not found", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectExec(deleteAuthQuery).
			WithArgs(int64(9), int64(3), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(authExistsQuery).
			WithArgs(int64(9), int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		outcomes := repo.ChangeRights([]RightsAction{{Cmd: RightsDeleteAuth, User: 9}}, 7, 3)
		require.Len(t, outcomes, 1)
		assert.ErrorIs(t, outcomes[0].Err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown command", func(t *testing.T) {
		repo, mock := newTestRepo(t)

		outcomes := repo.ChangeRights([]RightsAction{{Cmd: "revoke_all", User: 9}}, 7, 3)
		require.Len(t, outcomes, 1)
		assert.Error(t, outcomes[0].Err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("batch keeps input order regardless of completion order", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.MatchExpectationsInOrder(false)
		mock.ExpectExec(insertAuthQuery).
			WithArgs(int64(3), int64(9), AuthWrite, int64(7), testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(deleteAccessRequestQuery).
			WithArgs(int64(3), int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		outcomes := repo.ChangeRights([]RightsAction{
			{Cmd: RightsInsertAuth, User: 9, Auth: AuthWrite},
			{Cmd: RightsDeleteAccessRequest, User: 9},
		}, 7, 3)
		require.Len(t, outcomes, 2)
		assert.Equal(t, RightsInsertAuth, outcomes[0].Action.Cmd)
		assert.Equal(t, RightsDeleteAccessRequest, outcomes[1].Action.Cmd)
		assert.True(t, outcomes[0].Applied)
		assert.True(t, outcomes[1].Applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCheckAuthLevel(t *testing.T) {
	t.Run("sufficient grant returns the level", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(checkAuthLevelQuery).
			WithArgs(int64(7), int64(3), AuthAdmin).
			WillReturnRows(sqlmock.NewRows([]string{"auth"}).AddRow(AuthOwn))

		level, err := repo.CheckAuthLevel(3, 7, AuthAdmin)
		require.NoError(t, err)
		assert.Equal(t, AuthOwn, level)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no grant is not an error", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(checkAuthLevelQuery).
			WithArgs(int64(9), int64(3), AuthAdmin).
			WillReturnError(sql.ErrNoRows)

		level, err := repo.CheckAuthLevel(3, 9, AuthAdmin)
		assert.NoError(t, err, "expected no error for the not-authorized case")
		assert.Empty(t, level)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(checkAuthLevelQuery).
			WithArgs(int64(9), int64(3), AuthAdmin).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.CheckAuthLevel(3, 9, AuthAdmin)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
