package votes

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pgTopic  = "0b7f6b1e-6c1a-4d38-9d5a-1f6f0c7c2a11"
	addQ     = `(?s)^INSERT\s+INTO\s+votes\s*\(id,\s*username,\s*topic_id,\s*option_id,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*ON\s+CONFLICT\s*\(username,\s*topic_id\)\s*DO\s+NOTHING\s+RETURNING\s+id\s*$`
	allQ     = `(?s)^SELECT\s+id,\s*username,\s*topic_id,\s*option_id,\s*created_at\s+FROM\s+votes\s+ORDER\s+BY\s+created_at,\s*id\s*$`
	byUserQ  = `(?s)^SELECT\s+id,.*FROM\s+votes\s+WHERE\s+username\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id\s*$`
	pairQ    = `(?s)^SELECT\s+id,.*FROM\s+votes\s+WHERE\s+username\s*=\s*\$1\s+AND\s+topic_id\s*=\s*\$2\s*$`
	countsQ  = `(?s)^SELECT\s+option_id,\s*COUNT\(\*\)\s+FROM\s+votes\s+WHERE\s+topic_id\s*=\s*\$1\s+GROUP\s+BY\s+option_id\s*$`
)

var voteColumns = []string{"id", "username", "topic_id", "option_id", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestPostgresAdd_Inserted(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(addQ).
		WithArgs("v1", "alice", pgTopic, "a", voteTime).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("v1"))

	require.NoError(t, repo.Add(context.Background(), newVote("v1", "alice", pgTopic, "a")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAdd_ConflictIsDuplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// ON CONFLICT DO NOTHING returns no row
	mock.ExpectQuery(addQ).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.Add(context.Background(), newVote("v2", "alice", pgTopic, "b"))
	require.ErrorIs(t, err, common.ErrDuplicatedVote)
}

func TestPostgresAdd_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(addQ).WillReturnError(errors.New("db down"))

	err := repo.Add(context.Background(), newVote("v3", "alice", pgTopic, "b"))
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	assert.NotErrorIs(t, err, common.ErrDuplicatedVote)
}

func TestPostgresGetAllAndByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(allQ).WillReturnRows(sqlmock.NewRows(voteColumns).
		AddRow("v1", "alice", pgTopic, "a", voteTime).
		AddRow("v2", "bob", pgTopic, "b", voteTime))
	mock.ExpectQuery(byUserQ).WithArgs("alice").WillReturnRows(sqlmock.NewRows(voteColumns).
		AddRow("v1", "alice", pgTopic, "a", voteTime))
	mock.ExpectQuery(byUserQ).WithArgs("carol").WillReturnError(errors.New("db err"))

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, *newVote("v2", "bob", pgTopic, "b"), all[1])

	mine, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "v1", mine[0].ID)

	_, err = repo.GetByUsername(context.Background(), "carol")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestPostgresGetByUserAndTopic(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(pairQ).WithArgs("alice", pgTopic).WillReturnRows(sqlmock.NewRows(voteColumns).
		AddRow("v1", "alice", pgTopic, "a", voteTime))
	mock.ExpectQuery(pairQ).WithArgs("bob", pgTopic).WillReturnError(sql.ErrNoRows)

	v, err := repo.GetByUserAndTopic(context.Background(), "alice", pgTopic)
	require.NoError(t, err)
	assert.Equal(t, "a", v.OptionID)

	_, err = repo.GetByUserAndTopic(context.Background(), "bob", pgTopic)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.GetByUserAndTopic(context.Background(), "bob", "not-a-uuid")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCountByTopic(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(countsQ).WithArgs(pgTopic).WillReturnRows(sqlmock.NewRows([]string{"option_id", "count"}).
		AddRow("a", 3).
		AddRow("b", 1))

	counts, err := repo.CountByTopic(context.Background(), pgTopic)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 3, "b": 1}, counts)

	counts, err = repo.CountByTopic(context.Background(), "junk")
	require.NoError(t, err)
	assert.Empty(t, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}
