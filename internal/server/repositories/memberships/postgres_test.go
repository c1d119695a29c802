package memberships

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/credvault/internal/common"
	"github.com/avolkov/credvault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGet_Member(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id", "organization_id", "role"}).
		AddRow("u1", "org1", "admin")

	mock.ExpectQuery(`SELECT user_id, organization_id, role\s+FROM memberships`).
		WithArgs("u1", "org1").
		WillReturnRows(rows)

	m, err := repo.Get(context.Background(), "u1", "org1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, m.Role)
}

func TestGet_NotAMember(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, organization_id, role\s+FROM memberships`).
		WithArgs("u1", "org2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u1", "org2")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id, organization_id, role\s+FROM memberships`).
		WillReturnError(errors.New("db is down"))

	_, err := repo.Get(context.Background(), "u1", "org1")
	require.ErrorIs(t, err, common.ErrStorage)
}
