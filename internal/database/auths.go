package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

const (
	listUserAuthsQuery = "SELECT r.id, r.name, r.description, a.auth " +
		"FROM room r, room_auth a WHERE a.room = r.id AND a.player = $1"
	listRoomAuthsQuery = "SELECT p.id, p.name, a.auth, a.granter, a.granted " +
		"FROM player p, room_auth a WHERE a.player = p.id AND a.room = $1 ORDER BY a.auth DESC, p.name"
	deleteAccessRequestQuery = "DELETE FROM access_request WHERE room = $1 AND player = $2"
	insertAccessRequestQuery = "INSERT INTO access_request (room, player, requested) " +
		"VALUES ($1, $2, $3) RETURNING room, player, requested"
	listOpenAccessRequestsQuery = "SELECT p.id, p.name, r.requested " +
		"FROM player p, access_request r WHERE r.player = p.id AND r.room = $1"
	listOpenAccessRequestsForUserQuery = listOpenAccessRequestsQuery + " AND r.player = $2"
	insertAuthQuery                    = "INSERT INTO room_auth (room, player, auth, granter, granted) VALUES ($1, $2, $3, $4, $5)"
	// The EXISTS clause checks the acting user holds at least as much auth
	// as the modified user.
	updateAuthQuery = "UPDATE room_auth ma SET auth = $1 WHERE ma.player = $2 AND ma.room = $3 " +
		"AND EXISTS (SELECT 1 FROM room_auth ua WHERE ua.player = $4 AND ua.room = $3 AND ua.auth >= ma.auth)"
	deleteAuthQuery = "DELETE FROM room_auth ma WHERE ma.player = $1 AND ma.room = $2 " +
		"AND EXISTS (SELECT 1 FROM room_auth ua WHERE ua.player = $3 AND ua.room = $2 AND ua.auth >= ma.auth)"
	authExistsQuery     = "SELECT EXISTS (SELECT 1 FROM room_auth WHERE player = $1 AND room = $2)"
	checkAuthLevelQuery = "SELECT auth FROM room_auth WHERE player = $1 AND room = $2 AND auth >= $3"
)

// ListUserAuths lists the rooms a user holds a grant on.
func (db *PgChatRepository) ListUserAuths(userId int64) ([]UserRoomAuth, error) {
	rows, err := db.query(listUserAuthsQuery, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auths []UserRoomAuth
	for rows.Next() {
		var a UserRoomAuth
		if err := rows.Scan(&a.RoomId, &a.Name, &a.Description, &a.Auth); err != nil {
			return nil, err
		}
		auths = append(auths, a)
	}

	return auths, rows.Err()
}

// ListRoomAuths lists the grants on a room, highest level first.
func (db *PgChatRepository) ListRoomAuths(roomId int64) ([]RoomAuthEntry, error) {
	rows, err := db.query(listRoomAuthsQuery, roomId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auths []RoomAuthEntry
	for rows.Next() {
		var a RoomAuthEntry
		if err := rows.Scan(&a.Player, &a.Name, &a.Auth, &a.Granter, &a.Granted); err != nil {
			return nil, err
		}
		auths = append(auths, a)
	}

	return auths, rows.Err()
}

// ReplaceAccessRequest records a pending access request for the pair,
// replacing any prior one. Delete and insert run in one transaction so at
// most one request per (room, player) survives concurrent re-requests.
func (db *PgChatRepository) ReplaceAccessRequest(roomId, userId int64) (AccessRequest, error) {
	tx, err := db.begin()
	if err != nil {
		return AccessRequest{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec(deleteAccessRequestQuery, roomId, userId)
	if err != nil {
		return AccessRequest{}, fmt.Errorf("delete access request: %w", err)
	}

	var ar AccessRequest
	err = tx.QueryRow(insertAccessRequestQuery, roomId, userId, db.now()).
		Scan(&ar.Room, &ar.Player, &ar.Requested)
	if err != nil {
		return AccessRequest{}, fmt.Errorf("insert access request: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return AccessRequest{}, err
	}

	return ar, nil
}

// ListOpenAccessRequests lists the pending requests on a room. A positive
// userId narrows the result to that user.
func (db *PgChatRepository) ListOpenAccessRequests(roomId, userId int64) ([]OpenAccessRequest, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userId > 0 {
		rows, err = db.query(listOpenAccessRequestsForUserQuery, roomId, userId)
	} else {
		rows, err = db.query(listOpenAccessRequestsQuery, roomId)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []OpenAccessRequest
	for rows.Next() {
		var r OpenAccessRequest
		if err := rows.Scan(&r.Player, &r.Name, &r.Requested); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

// ChangeRights applies a batch of rights mutations for a room. Actions are
// independent statements and run concurrently; the returned outcomes keep the
// input order. update_auth and delete_auth are each gated on the acting user
// holding at least the target's current level, and a gated action that
// affects no row reports ErrNotAuthorized when the target grant exists,
// ErrNotFound when it does not. A delete_ar affecting no row is a plain
// no-op with Applied false.
func (db *PgChatRepository) ChangeRights(actions []RightsAction, actingUserId, roomId int64) []RightsOutcome {
	outcomes := make([]RightsOutcome, len(actions))

	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func(i int, action RightsAction) {
			defer wg.Done()
			outcomes[i] = db.applyRightsAction(action, actingUserId, roomId)
		}(i, action)
	}
	wg.Wait()

	return outcomes
}

func (db *PgChatRepository) applyRightsAction(action RightsAction, actingUserId, roomId int64) RightsOutcome {
	outcome := RightsOutcome{Action: action}

	var err error
	switch action.Cmd {
	case RightsInsertAuth:
		err = db.execOne(db.conn, insertAuthQuery, roomId, action.User, action.Auth, actingUserId, db.now())
	case RightsDeleteAccessRequest:
		err = db.execOne(db.conn, deleteAccessRequestQuery, roomId, action.User)
	case RightsUpdateAuth:
		err = db.execOne(db.conn, updateAuthQuery, action.Auth, action.User, roomId, actingUserId)
	case RightsDeleteAuth:
		err = db.execOne(db.conn, deleteAuthQuery, action.User, roomId, actingUserId)
	default:
		outcome.Err = fmt.Errorf("unknown rights command %q", action.Cmd)
		return outcome
	}

	if errors.Is(err, ErrNotFound) {
		switch action.Cmd {
		case RightsUpdateAuth, RightsDeleteAuth:
			exists, existsErr := db.authExists(action.User, roomId)
			if existsErr != nil {
				outcome.Err = existsErr
			} else if exists {
				outcome.Err = ErrNotAuthorized
			} else {
				outcome.Err = ErrNotFound
			}
		}
		return outcome
	}
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Applied = true
	return outcome
}

func (db *PgChatRepository) authExists(userId, roomId int64) (bool, error) {
	var exists bool
	err := db.queryRow(authExistsQuery, userId, roomId).Scan(&exists)
	return exists, err
}

// CheckAuthLevel returns the user's auth level on the room when it reaches
// minLevel, and an empty string when the user has no sufficient grant. Only
// store failures surface as errors.
func (db *PgChatRepository) CheckAuthLevel(roomId, userId int64, minLevel string) (string, error) {
	var auth string
	err := db.queryRow(checkAuthLevelQuery, userId, roomId, minLevel).Scan(&auth)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return auth, nil
}
