package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avdn/go-chatstore/internal/stats"
	"github.com/avdn/go-chatstore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is the frozen clock used by every repository under test.
const testNow int64 = 1700000000

// newTestRepo returns a repository backed by sqlmock with exact statement
// matching, so expectations can reuse the package's query constants.
func newTestRepo(t *testing.T) (*PgChatRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err, "expected sqlmock to open")
	t.Cleanup(func() { db.Close() })

	repo := &PgChatRepository{
		conn:  db,
		log:   testutil.TestLogger(t),
		stats: stats.NoopStats{},
		now:   func() int64 { return testNow },
	}
	return repo, mock
}

func TestPing(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectPing()

	assert.NoError(t, repo.Ping(), "expected ping to succeed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectionErrorUnwrap(t *testing.T) {
	cause := errors.New("pool exhausted")
	err := &ConnectionError{Err: cause}

	assert.ErrorIs(t, err, cause, "expected ConnectionError to unwrap its cause")
	assert.Contains(t, err.Error(), "pool exhausted")
}
