package database

import "fmt"

const (
	// The EXISTS clause keeps users from voting on messages outside the room
	// they are acting in.
	insertVoteQuery = "INSERT INTO message_vote (message, player, vote) SELECT $1, $2, $3 " +
		"WHERE EXISTS (SELECT 1 FROM message WHERE id = $1 AND room = $4)"
	deleteVoteQuery = "DELETE FROM message_vote WHERE message = $1 AND player = $2 AND vote = $3"
)

// voteCounterUpdate builds the counter statement for a validated vote level.
// Up and down votes move the score with them.
func voteCounterUpdate(level string, delta int) string {
	op := fmt.Sprintf("%+d", delta)
	expr := fmt.Sprintf("%s = %s %s", level, level, op)
	switch level {
	case VoteUp:
		expr += fmt.Sprintf(", score = score %s", op)
	case VoteDown:
		expr += fmt.Sprintf(", score = score %s", fmt.Sprintf("%+d", -delta))
	}
	return "UPDATE message SET " + expr + " WHERE id = $1"
}

// AddVote records a vote on a message and bumps the matching counter, both in
// one transaction so the counter cannot drift from the vote rows under
// concurrent voting. The message must belong to the room or ErrNotFound is
// returned. The refreshed enriched message is returned.
func (db *PgChatRepository) AddVote(roomId, userId, messageId int64, level string) (Message, error) {
	if !ValidVoteLevel(level) {
		return Message{}, fmt.Errorf("%w: %q", ErrInvalidVoteLevel, level)
	}

	return db.applyVote(insertVoteQuery, []any{messageId, userId, level, roomId}, messageId, userId, level, 1)
}

// RemoveVote deletes a previously cast vote and decrements the matching
// counter in one transaction. ErrNotFound is returned when no such vote
// exists, leaving the counters untouched.
func (db *PgChatRepository) RemoveVote(roomId, userId, messageId int64, level string) (Message, error) {
	if !ValidVoteLevel(level) {
		return Message{}, fmt.Errorf("%w: %q", ErrInvalidVoteLevel, level)
	}

	return db.applyVote(deleteVoteQuery, []any{messageId, userId, level}, messageId, userId, level, -1)
}

func (db *PgChatRepository) applyVote(voteQuery string, voteArgs []any, messageId, userId int64, level string, delta int) (Message, error) {
	tx, err := db.begin()
	if err != nil {
		return Message{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = db.execOne(tx, voteQuery, voteArgs...); err != nil {
		return Message{}, err
	}

	if err = db.execOne(tx, voteCounterUpdate(level, delta), messageId); err != nil {
		return Message{}, err
	}

	var m Message
	db.stats.Incr(metricQueries)
	if m, err = getMessage(tx, messageId, userId); err != nil {
		return Message{}, db.rowErr(err)
	}

	if err = tx.Commit(); err != nil {
		return Message{}, err
	}

	return m, nil
}
