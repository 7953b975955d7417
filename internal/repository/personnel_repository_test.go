package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newPersonnelMock(t *testing.T) (*PersonnelRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPersonnelRepo(db), mock
}

func TestExistsTrue(t *testing.T) {
	repo, mock := newPersonnelMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM personnel WHERE id = ? LIMIT 1`)).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	ok, err := repo.Exists(context.Background(), 11)

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsFalseOnNoRows(t *testing.T) {
	repo, mock := newPersonnelMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM personnel WHERE id = ? LIMIT 1`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := repo.Exists(context.Background(), 99)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDisplayMilitaryPrefersWarName(t *testing.T) {
	repo, mock := newPersonnelMock(t)
	rows := sqlmock.NewRows([]string{"id", "rank", "war_name", "full_name"}).
		AddRow(11, "SGT", "SILVA", "João da Silva").
		AddRow(12, "CAP", nil, "Maria Souza")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, `rank`, war_name, full_name FROM personnel WHERE id IN (?,?)")).
		WithArgs(11, 12).
		WillReturnRows(rows)

	out, err := repo.DisplayMilitary(context.Background(), []uint64{11, 12})

	assert.NoError(t, err)
	assert.Equal(t, "SILVA", out[11].DisplayName)
	assert.Equal(t, "SGT", out[11].Rank)
	assert.Equal(t, "Maria Souza", out[12].DisplayName)
}

func TestDisplayMilitaryEmptyInputSkipsQuery(t *testing.T) {
	repo, mock := newPersonnelMock(t)

	out, err := repo.DisplayMilitary(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisplayCiviliansSynthesizesRank(t *testing.T) {
	repo, mock := newPersonnelMock(t)
	rows := sqlmock.NewRows([]string{"id", "full_name"}).AddRow(3, "Dr. Pedro Lima")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, full_name FROM civilians WHERE id IN (?)`)).
		WithArgs(3).
		WillReturnRows(rows)

	out, err := repo.DisplayCivilians(context.Background(), []uint64{3})

	assert.NoError(t, err)
	assert.Equal(t, "Civil", out[3].Rank)
	assert.Equal(t, "Dr. Pedro Lima", out[3].DisplayName)
}

func TestListMilitaryScansNullableWarName(t *testing.T) {
	repo, mock := newPersonnelMock(t)
	rows := sqlmock.NewRows([]string{"id", "full_name", "war_name", "rank", "is_active"}).
		AddRow(11, "João da Silva", "SILVA", "SGT", true).
		AddRow(12, "Maria Souza", nil, "CAP", true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, war_name, `rank`, is_active FROM personnel WHERE is_active = 1 ORDER BY full_name")).
		WillReturnRows(rows)

	people, err := repo.ListMilitary(context.Background())

	assert.NoError(t, err)
	assert.Len(t, people, 2)
	assert.NotNil(t, people[0].WarName)
	assert.Equal(t, "SILVA", *people[0].WarName)
	assert.Nil(t, people[1].WarName)
}
