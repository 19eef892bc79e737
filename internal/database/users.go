package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	getUserByOAuthQuery = "SELECT id, name, oauthdisplayname, email FROM player " +
		"WHERE oauthprovider = $1 AND oauthid = $2"
	insertUserQuery = "INSERT INTO player (oauthid, oauthprovider, email, oauthdisplayname, name) " +
		"VALUES ($1, $2, $3, $4, $5) RETURNING id, name, oauthdisplayname, email"
	getUserByIdQuery     = "SELECT id, name, oauthdisplayname, email FROM player WHERE id = $1"
	updateUserQuery      = "UPDATE player SET name = $1 WHERE id = $2"
	listRecentUsersQuery = "SELECT message.author AS id, MIN(player.name) AS name, MAX(message.created) AS mc " +
		"FROM message JOIN player ON player.id = message.author " +
		"WHERE message.room = $1 GROUP BY message.author ORDER BY mc DESC LIMIT $2"
)

// GetOrCreateUserByOAuthProfile fetches the player matching the profile's
// (provider, external id) pair, creating it on first sight. The display name
// doubles as the initial player name. A lost insert race against the store's
// uniqueness constraint on the pair falls back to the winner's row.
func (db *PgChatRepository) GetOrCreateUserByOAuthProfile(profile OAuthProfile) (User, error) {
	externalId := profile.ExternalId()
	if externalId == "" {
		return User{}, ErrNoProfileId
	}

	user, err := db.getUserByOAuth(profile.Provider, externalId)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	row := db.queryRow(
		insertUserQuery,
		externalId,
		profile.Provider,
		profile.Email(),
		profile.Name(),
		profile.Name(),
	)
	err = row.Scan(&user.Id, &user.Name, &user.OAuthDisplayName, &user.Email)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return db.getUserByOAuth(profile.Provider, externalId)
		}
		return User{}, fmt.Errorf("insert player: %w", db.rowErr(err))
	}

	return user, nil
}

func (db *PgChatRepository) getUserByOAuth(provider, externalId string) (User, error) {
	row := db.queryRow(getUserByOAuthQuery, provider, externalId)

	var user User
	err := row.Scan(&user.Id, &user.Name, &user.OAuthDisplayName, &user.Email)
	if err != nil {
		return User{}, db.rowErr(err)
	}

	return user, nil
}

func (db *PgChatRepository) GetUserById(id int64) (User, error) {
	row := db.queryRow(getUserByIdQuery, id)

	var user User
	err := row.Scan(&user.Id, &user.Name, &user.OAuthDisplayName, &user.Email)
	if err != nil {
		return User{}, db.rowErr(err)
	}

	return user, nil
}

// UpdateUser persists the only mutable player field, the name.
func (db *PgChatRepository) UpdateUser(user User) error {
	return db.execOne(db.conn, updateUserQuery, user.Name, user.Id)
}

// ListRecentUsers returns up to limit distinct authors of the room's
// messages, most recently active first.
func (db *PgChatRepository) ListRecentUsers(roomId int64, limit int) ([]RecentUser, error) {
	rows, err := db.query(listRecentUsersQuery, roomId, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []RecentUser
	for rows.Next() {
		var u RecentUser
		if err := rows.Scan(&u.Id, &u.Name, &u.LastActive); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
