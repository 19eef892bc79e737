package database

import "github.com/lib/pq"

const (
	insertPingsQuery = "INSERT INTO ping (room, player, message, created) " +
		"SELECT $1, id, $2, $3 FROM player WHERE name = ANY($4)"
	deletePingsQuery  = "DELETE FROM ping WHERE room = $1 AND player = $2"
	getUserPingsQuery = "SELECT ping.player, ping.room, room.name, ping.message " +
		"FROM ping, room WHERE ping.player = $1 AND room.id = ping.room"
	getUserPingRoomsQuery = "SELECT ping.room, MAX(room.name) AS roomname, MAX(ping.created) AS last " +
		"FROM ping, room WHERE ping.player = $1 AND room.id = ping.room AND ping.created > $2 GROUP BY ping.room"
)

// StorePings records one ping per username that matches a player, for a
// message of the room. Unknown usernames are skipped by the store.
func (db *PgChatRepository) StorePings(roomId int64, usernames []string, messageId int64) error {
	if len(usernames) == 0 {
		return nil
	}

	_, err := db.exec(insertPingsQuery, roomId, messageId, db.now(), pq.Array(usernames))
	return err
}

// DeletePings clears a user's pings in a room, typically on room entry.
func (db *PgChatRepository) DeletePings(roomId, userId int64) error {
	_, err := db.exec(deletePingsQuery, roomId, userId)
	return err
}

func (db *PgChatRepository) GetUserPings(userId int64) ([]Ping, error) {
	rows, err := db.query(getUserPingsQuery, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pings []Ping
	for rows.Next() {
		var p Ping
		if err := rows.Scan(&p.Player, &p.Room, &p.RoomName, &p.Message); err != nil {
			return nil, err
		}
		pings = append(pings, p)
	}

	return pings, rows.Err()
}

// GetUserPingRooms returns the rooms where the user has been pinged since the
// given time, with the time of the latest ping per room.
func (db *PgChatRepository) GetUserPingRooms(userId, after int64) ([]PingRoom, error) {
	rows, err := db.query(getUserPingRoomsQuery, userId, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pingRooms []PingRoom
	for rows.Next() {
		var pr PingRoom
		if err := rows.Scan(&pr.Room, &pr.RoomName, &pr.Last); err != nil {
			return nil, err
		}
		pingRooms = append(pingRooms, pr)
	}

	return pingRooms, rows.Err()
}
