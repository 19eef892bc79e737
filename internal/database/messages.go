package database

import (
	"errors"
	"fmt"
)

const (
	messageColumns = "message.id, message.room, message.author, player.name AS authorname, message.content, " +
		"message.created, message.changed, message.pin, message.star, message.up, message.down, " +
		"message_vote.vote, message.score"
	messageJoins = " FROM message" +
		" LEFT JOIN message_vote ON message_vote.message = message.id AND message_vote.player = $2" +
		" INNER JOIN player ON message.author = player.id"
	getMessageQuery      = "SELECT " + messageColumns + messageJoins + " WHERE message.id = $1"
	getMessagesBaseQuery = "SELECT " + messageColumns + messageJoins + " WHERE message.room = $1"
	getNotableMessagesQuery = "SELECT message.id, message.room, message.author, player.name AS authorname, " +
		"message.content, message.created, message.pin, message.star, message.up, message.down, message.score " +
		"FROM message INNER JOIN player ON message.author = player.id " +
		"WHERE message.room = $1 AND message.created > $2 AND message.score > 4 " +
		"ORDER BY message.score DESC LIMIT 12"
	insertMessageQuery = "INSERT INTO message (room, author, content, created) VALUES ($1, $2, $3, $4) RETURNING id"
	updateMessageQuery = "UPDATE message SET content = $1, changed = $2 WHERE id = $3 AND room = $4 AND author = $5"
	messageExistsQuery = "SELECT EXISTS (SELECT 1 FROM message WHERE id = $1)"
)

func validBoundRel(rel string) bool {
	switch rel {
	case "<", "<=", ">", ">=":
		return true
	}
	return false
}

// GetMessages fetches a window of a room's messages for a user, each row
// enriched with the user's own vote and the running counters. Up to two
// id-range bounds narrow the window; chronoOrder selects ascending ids. The
// bound relations come from a fixed whitelist, never from the caller's data.
func (db *PgChatRepository) GetMessages(roomId, userId int64, limit int, chronoOrder bool, bounds ...MessageBound) ([]Message, error) {
	query := getMessagesBaseQuery
	args := []any{roomId, userId, limit}
	for _, b := range bounds {
		if !validBoundRel(b.Rel) {
			return nil, fmt.Errorf("invalid message bound relation %q", b.Rel)
		}
		args = append(args, b.Id)
		query += fmt.Sprintf(" AND message.id %s $%d", b.Rel, len(args))
	}

	order := "DESC"
	if chronoOrder {
		order = "ASC"
	}
	query += " ORDER BY message.id " + order + " LIMIT $3"

	rows, err := db.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		err := rows.Scan(
			&m.Id,
			&m.Room,
			&m.Author,
			&m.AuthorName,
			&m.Content,
			&m.Created,
			&m.Changed,
			&m.Pin,
			&m.Star,
			&m.Up,
			&m.Down,
			&m.Vote,
			&m.Score,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// GetMessagesBefore pages backwards: messages older than before (excluded),
// newest first. A positive until stops the walk at that id (included).
func (db *PgChatRepository) GetMessagesBefore(roomId, userId int64, limit int, before, until int64) ([]Message, error) {
	bounds := []MessageBound{{Rel: "<", Id: before}}
	if until > 0 {
		bounds = append(bounds, MessageBound{Rel: ">=", Id: until})
	}
	return db.GetMessages(roomId, userId, limit, false, bounds...)
}

// GetMessagesAfter pages forward from the message with id from (included),
// oldest first. A positive before stops the walk at that id (included).
func (db *PgChatRepository) GetMessagesAfter(roomId, userId int64, limit int, from, before int64) ([]Message, error) {
	bounds := []MessageBound{{Rel: ">=", Id: from}}
	if before > 0 {
		bounds = append(bounds, MessageBound{Rel: "<=", Id: before})
	}
	return db.GetMessages(roomId, userId, limit, true, bounds...)
}

// GetNotableMessages returns the room's highest scored messages created after
// the given time, best first, capped at twelve.
func (db *PgChatRepository) GetNotableMessages(roomId, createdAfter int64) ([]Message, error) {
	rows, err := db.query(getNotableMessagesQuery, roomId, createdAfter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		err := rows.Scan(
			&m.Id,
			&m.Room,
			&m.Author,
			&m.AuthorName,
			&m.Content,
			&m.Created,
			&m.Pin,
			&m.Star,
			&m.Up,
			&m.Down,
			&m.Score,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// GetMessage fetches one message enriched with the user's own vote.
func (db *PgChatRepository) GetMessage(messageId, userId int64) (Message, error) {
	db.stats.Incr(metricQueries)
	m, err := getMessage(db.conn, messageId, userId)
	if err != nil {
		return Message{}, db.rowErr(err)
	}
	return m, nil
}

func getMessage(q querier, messageId, userId int64) (Message, error) {
	row := q.QueryRow(getMessageQuery, messageId, userId)

	var m Message
	err := row.Scan(
		&m.Id,
		&m.Room,
		&m.Author,
		&m.AuthorName,
		&m.Content,
		&m.Created,
		&m.Changed,
		&m.Pin,
		&m.Star,
		&m.Up,
		&m.Down,
		&m.Vote,
		&m.Score,
	)
	if err != nil {
		return Message{}, err
	}

	return m, nil
}

// SaveMessage updates the message in place when both its id and changed time
// are set, gated on the room and author matching: ErrNotAuthorized when the
// message exists under another author or room, ErrNotFound when it does not
// exist at all. Otherwise it inserts a new message and returns it with the
// generated id; the input value is never mutated.
func (db *PgChatRepository) SaveMessage(m Message) (Message, error) {
	if m.Id != 0 && m.Changed.Valid {
		err := db.execOne(db.conn, updateMessageQuery, m.Content, m.Changed.Int64, m.Id, m.Room, m.Author)
		if errors.Is(err, ErrNotFound) {
			exists, existsErr := db.messageExists(m.Id)
			if existsErr != nil {
				return Message{}, existsErr
			}
			if exists {
				return Message{}, ErrNotAuthorized
			}
			return Message{}, ErrNotFound
		}
		if err != nil {
			return Message{}, err
		}
		return m, nil
	}

	if m.Created == 0 {
		m.Created = db.now()
	}

	err := db.queryRow(insertMessageQuery, m.Room, m.Author, m.Content, m.Created).Scan(&m.Id)
	if err != nil {
		return Message{}, db.rowErr(err)
	}

	return m, nil
}

func (db *PgChatRepository) messageExists(id int64) (bool, error) {
	var exists bool
	err := db.queryRow(messageExistsQuery, id).Scan(&exists)
	return exists, err
}
