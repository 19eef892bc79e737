package database

import (
	"errors"
	"fmt"
)

const (
	insertRoomQuery      = "INSERT INTO room (name, private, description) VALUES ($1, $2, $3) RETURNING id"
	insertOwnerAuthQuery = "INSERT INTO room_auth (room, player, auth, granted) VALUES ($1, $2, $3, $4)"
	updateRoomQuery      = "UPDATE room SET name = $1, private = $2, description = $3 WHERE id = $4 " +
		"AND EXISTS (SELECT 1 FROM room_auth WHERE player = $5 AND room = $4 AND auth >= 'admin')"
	roomExistsQuery  = "SELECT EXISTS (SELECT 1 FROM room WHERE id = $1)"
	getRoomQuery     = "SELECT id, name, description, private FROM room WHERE id = $1"
	getRoomWithAuthQuery = "SELECT room.id, room.name, room.description, room.private, a.auth " +
		"FROM room LEFT JOIN room_auth a ON a.room = room.id AND a.player = $1 WHERE room.id = $2"
	listPublicRoomsQuery     = "SELECT id, name, description FROM room WHERE private IS NOT TRUE"
	listAccessibleRoomsQuery = "SELECT r.id, r.name, r.description, r.private, a.auth " +
		"FROM room r LEFT JOIN room_auth a ON a.room = r.id AND a.player = $1 " +
		"WHERE r.private IS FALSE OR a.auth IS NOT NULL ORDER BY a.auth DESC NULLS LAST, r.name"
)

// SaveRoom creates the room when its id is zero, granting the author own-level
// authorization in the same transaction, and returns the stored room. With an
// id set it updates name, private and description, gated on the author holding
// admin or better: ErrNotAuthorized when the room exists but the gate fails,
// ErrNotFound when there is no such room.
func (db *PgChatRepository) SaveRoom(room Room, authorId int64) (Room, error) {
	if room.Id != 0 {
		return db.updateRoom(room, authorId)
	}
	return db.createRoom(room, authorId)
}

func (db *PgChatRepository) createRoom(room Room, authorId int64) (Room, error) {
	tx, err := db.begin()
	if err != nil {
		return Room{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	err = tx.QueryRow(insertRoomQuery, room.Name, room.Private, room.Description).Scan(&room.Id)
	if err != nil {
		return Room{}, fmt.Errorf("insert room: %w", err)
	}

	_, err = tx.Exec(insertOwnerAuthQuery, room.Id, authorId, AuthOwn, db.now())
	if err != nil {
		return Room{}, fmt.Errorf("insert owner auth: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return Room{}, err
	}

	return room, nil
}

func (db *PgChatRepository) updateRoom(room Room, authorId int64) (Room, error) {
	err := db.execOne(db.conn, updateRoomQuery, room.Name, room.Private, room.Description, room.Id, authorId)
	if errors.Is(err, ErrNotFound) {
		exists, existsErr := db.roomExists(room.Id)
		if existsErr != nil {
			return Room{}, existsErr
		}
		if exists {
			return Room{}, ErrNotAuthorized
		}
		return Room{}, ErrNotFound
	}
	if err != nil {
		return Room{}, err
	}

	return room, nil
}

func (db *PgChatRepository) roomExists(id int64) (bool, error) {
	var exists bool
	err := db.queryRow(roomExistsQuery, id).Scan(&exists)
	return exists, err
}

func (db *PgChatRepository) GetRoom(id int64) (Room, error) {
	row := db.queryRow(getRoomQuery, id)

	var room Room
	err := row.Scan(&room.Id, &room.Name, &room.Description, &room.Private)
	if err != nil {
		return Room{}, db.rowErr(err)
	}

	return room, nil
}

// GetRoomWithAuth fetches a room along with the user's own auth level on it,
// null when the user holds no grant.
func (db *PgChatRepository) GetRoomWithAuth(roomId, userId int64) (RoomAccess, error) {
	row := db.queryRow(getRoomWithAuthQuery, userId, roomId)

	var ra RoomAccess
	err := row.Scan(&ra.Id, &ra.Name, &ra.Description, &ra.Private, &ra.Auth)
	if err != nil {
		return RoomAccess{}, db.rowErr(err)
	}

	return ra, nil
}

func (db *PgChatRepository) ListPublicRooms() ([]Room, error) {
	rows, err := db.query(listPublicRoomsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.Id, &room.Name, &room.Description); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// ListAccessibleRooms lists the rooms a user can enter, either public or
// explicitly granted, best auth level first, unauthorized public rooms last.
func (db *PgChatRepository) ListAccessibleRooms(userId int64) ([]RoomAccess, error) {
	rows, err := db.query(listAccessibleRoomsQuery, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []RoomAccess
	for rows.Next() {
		var ra RoomAccess
		if err := rows.Scan(&ra.Id, &ra.Name, &ra.Description, &ra.Private, &ra.Auth); err != nil {
			return nil, err
		}
		rooms = append(rooms, ra)
	}

	return rooms, rows.Err()
}
