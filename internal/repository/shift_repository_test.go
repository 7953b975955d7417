package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/vmartins/escala-service/internal/model"
)

func newMock(t *testing.T) (*ShiftRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewShiftRepo(db), mock
}

func shiftColumns() []string {
	return []string{"id", "name", "shift_type", "shift_date", "starts_at", "ends_at",
		"unit_id", "vehicle_id", "is_active", "notes", "created_at", "updated_at"}
}

func shiftRow() *sqlmock.Rows {
	d := time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(shiftColumns()).
		AddRow(44, "PLANTAO-ABS-36-2025-10-28", "24h", d, "08:00:00", nil, 4, 7, true, nil, now, now)
}

func TestExistsByDateVehicle(t *testing.T) {
	repo, mock := newMock(t)
	q := regexp.QuoteMeta(`SELECT 1 FROM shifts WHERE shift_date = ? AND vehicle_id = ? AND id <> ? LIMIT 1`)

	mock.ExpectQuery(q).WithArgs("2025-10-28", 7, 0).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := repo.ExistsByDateVehicle(context.Background(), "2025-10-28", 7, 0)
	assert.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(q).WithArgs("2025-10-29", 7, 44).
		WillReturnError(sql.ErrNoRows)
	exists, err = repo.ExistsByDateVehicle(context.Background(), "2025-10-29", 7, 44)
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsDuplicateKeyToConflict(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("INSERT INTO shifts").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '2025-10-28-7'"))

	err := repo.Create(context.Background(), &model.Shift{Date: "2025-10-28", VehicleID: 7})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateReselectsInsertedRow(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("INSERT INTO shifts").
		WillReturnResult(sqlmock.NewResult(44, 1))
	mock.ExpectQuery("SELECT (.+) FROM shifts WHERE id = ?").WithArgs(44).
		WillReturnRows(shiftRow())

	s := &model.Shift{Name: "PLANTAO-ABS-36-2025-10-28", ShiftType: "24h", Date: "2025-10-28", UnitID: 4, VehicleID: 7}
	err := repo.Create(context.Background(), s)

	assert.NoError(t, err)
	assert.Equal(t, uint64(44), s.ID)
	assert.True(t, s.IsActive)
	assert.Equal(t, "2025-10-28", s.Date)
	assert.Equal(t, "08:00:00", *s.StartsAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("UPDATE shifts SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM shifts WHERE id = ? LIMIT 1`)).WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), 99, ShiftUpdate{})
	assert.ErrorIs(t, err, ErrShiftNotFound)
}

func TestUpdateNoChangeIsNotAnError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("UPDATE shifts SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM shifts WHERE id = ? LIMIT 1`)).WithArgs(44).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	assert.NoError(t, repo.Update(context.Background(), 44, ShiftUpdate{}))
}

func TestDeleteCascadesInsideTransaction(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shift_crew WHERE shift_id = ?`)).WithArgs(44).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shift_vehicles WHERE shift_id = ?`)).WithArgs(44).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shifts WHERE id = ?`)).WithArgs(44).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), 44))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingShiftRollsBack(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shift_crew WHERE shift_id = ?`)).WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shift_vehicles WHERE shift_id = ?`)).WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shifts WHERE id = ?`)).WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrShiftNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
