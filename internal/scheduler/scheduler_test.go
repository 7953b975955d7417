package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vmartins/escala-service/internal/model"
	"github.com/vmartins/escala-service/internal/repository"
)

type shiftStoreMock struct{ mock.Mock }

func (m *shiftStoreMock) ExistsByDateVehicle(ctx context.Context, date string, vehicleID, excludeID uint64) (bool, error) {
	args := m.Called(ctx, date, vehicleID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *shiftStoreMock) Create(ctx context.Context, s *model.Shift) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil && s.ID == 0 {
		s.ID = 101
	}
	return args.Error(0)
}

func (m *shiftStoreMock) GetByID(ctx context.Context, id uint64) (*model.Shift, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Shift), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *shiftStoreMock) Update(ctx context.Context, id uint64, u repository.ShiftUpdate) error {
	args := m.Called(ctx, id, u)
	return args.Error(0)
}

func (m *shiftStoreMock) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type crewStoreMock struct{ mock.Mock }

func (m *crewStoreMock) ReplaceAll(ctx context.Context, shiftID uint64, members []model.CrewMember) error {
	args := m.Called(ctx, shiftID, members)
	return args.Error(0)
}

func (m *crewStoreMock) Add(ctx context.Context, shiftID, personnelID uint64, role *string) error {
	args := m.Called(ctx, shiftID, personnelID, role)
	return args.Error(0)
}

func (m *crewStoreMock) Remove(ctx context.Context, shiftID, personnelID uint64) error {
	args := m.Called(ctx, shiftID, personnelID)
	return args.Error(0)
}

type personnelStoreMock struct{ mock.Mock }

func (m *personnelStoreMock) Exists(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type linkStoreMock struct{ mock.Mock }

func (m *linkStoreMock) AttachToShift(ctx context.Context, shiftID, vehicleID uint64) error {
	args := m.Called(ctx, shiftID, vehicleID)
	return args.Error(0)
}

func (m *linkStoreMock) DetachFromShift(ctx context.Context, shiftID, vehicleID uint64) error {
	args := m.Called(ctx, shiftID, vehicleID)
	return args.Error(0)
}

// newTestScheduler wires a scheduler whose vehicle 7 is ABS-36 with a
// free-text unit name resolving to unit 4, matching a typical fleet
// row migrated without a unit foreign key.
func newTestScheduler(t *testing.T) (*Scheduler, *shiftStoreMock, *crewStoreMock, *linkStoreMock) {
	t.Helper()
	vs := new(vehicleStoreMock)
	us := new(unitStoreMock)
	vs.On("GetByID", mock.Anything, uint64(7)).
		Return(&model.Vehicle{ID: 7, Prefix: "ABS/36", UnitName: str("2º BBM")}, nil).Maybe()
	us.On("FindByName", mock.Anything, "2º BBM").Return(uint64(4), nil).Maybe()
	us.On("GetByID", mock.Anything, uint64(9)).Return(&model.Unit{ID: 9, Name: "9º BBM"}, nil).Maybe()
	us.On("GetByID", mock.Anything, uint64(99)).Return(nil, repository.ErrUnitNotFound).Maybe()

	shifts := new(shiftStoreMock)
	crew := new(crewStoreMock)
	links := new(linkStoreMock)
	personnel := new(personnelStoreMock)
	personnel.On("Exists", mock.Anything, mock.Anything).Return(true, nil).Maybe()
	s := NewScheduler(&ContextResolver{Vehicles: vs, Units: us}, shifts, crew, links, personnel)
	return s, shifts, crew, links
}

func TestCreateRejectsBadDate(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)
	_, err := s.Create(context.Background(), CreateInput{Date: "28/10/2025", VehicleID: 7})

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 400, oe.Status)
}

func TestCreateConflictOnExistingShift(t *testing.T) {
	s, shifts, _, _ := newTestScheduler(t)
	shifts.On("ExistsByDateVehicle", mock.Anything, "2025-10-28", uint64(7), uint64(0)).Return(true, nil)

	_, err := s.Create(context.Background(), CreateInput{Date: "2025-10-28", VehicleID: 7})

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 409, oe.Status)
	shifts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateResolvesUnitAndDerivesName(t *testing.T) {
	s, shifts, crew, _ := newTestScheduler(t)
	shifts.On("ExistsByDateVehicle", mock.Anything, "2025-10-28", uint64(7), uint64(0)).Return(false, nil)
	shifts.On("Create", mock.Anything, mock.Anything).Return(nil)
	crew.On("ReplaceAll", mock.Anything, uint64(101), mock.Anything).Return(nil)

	shift, err := s.Create(context.Background(), CreateInput{
		Date:      "2025-10-28",
		VehicleID: 7,
		ShiftType: "24h",
		StartsAt:  " 08:00:00 ",
		EndsAt:    "",
		Crew: []model.CrewMember{
			{PersonnelID: 11, Role: str("commander")},
			{PersonnelID: 12},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "PLANTAO-ABS-36-2025-10-28", shift.Name)
	assert.Equal(t, uint64(4), shift.UnitID)
	assert.Equal(t, "08:00:00", *shift.StartsAt)
	assert.Nil(t, shift.EndsAt)
	crew.AssertCalled(t, "ReplaceAll", mock.Anything, uint64(101), []model.CrewMember{
		{PersonnelID: 11, Role: str("commander")},
		{PersonnelID: 12},
	})
}

func TestCreateDeduplicatesCrew(t *testing.T) {
	s, shifts, crew, _ := newTestScheduler(t)
	shifts.On("ExistsByDateVehicle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	shifts.On("Create", mock.Anything, mock.Anything).Return(nil)
	crew.On("ReplaceAll", mock.Anything, uint64(101), []model.CrewMember{
		{PersonnelID: 11, Role: str("commander")},
	}).Return(nil)

	_, err := s.Create(context.Background(), CreateInput{
		Date:      "2025-10-28",
		VehicleID: 7,
		Crew: []model.CrewMember{
			{PersonnelID: 0},
			{PersonnelID: 11, Role: str("commander")},
			{PersonnelID: 11, Role: str("driver")}, // first role wins
		},
	})

	assert.NoError(t, err)
	crew.AssertExpectations(t)
}

func TestCreateCompensatesWhenCrewFails(t *testing.T) {
	s, shifts, crew, _ := newTestScheduler(t)
	shifts.On("ExistsByDateVehicle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	shifts.On("Create", mock.Anything, mock.Anything).Return(nil)
	shifts.On("Delete", mock.Anything, uint64(101)).Return(nil)
	crew.On("ReplaceAll", mock.Anything, uint64(101), mock.Anything).Return(errors.New("deadlock"))

	_, err := s.Create(context.Background(), CreateInput{
		Date:      "2025-10-28",
		VehicleID: 7,
		Crew:      []model.CrewMember{{PersonnelID: 11}},
	})

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 500, oe.Status)
	assert.Contains(t, oe.Message, "cancelled")
	shifts.AssertCalled(t, "Delete", mock.Anything, uint64(101))
}

func TestCreateWithoutCrewSkipsReplace(t *testing.T) {
	s, shifts, crew, _ := newTestScheduler(t)
	shifts.On("ExistsByDateVehicle", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	shifts.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := s.Create(context.Background(), CreateInput{Date: "2025-10-28", VehicleID: 7})

	assert.NoError(t, err)
	crew.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything, mock.Anything)
}

func existingShift() *model.Shift {
	return &model.Shift{
		ID:        44,
		Name:      "PLANTAO-ABS-36-2025-10-28",
		Date:      "2025-10-28",
		UnitID:    4,
		VehicleID: 7,
	}
}

func TestUpdateNotFound(t *testing.T) {
	s, shifts, _, _ := newTestScheduler(t)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(nil, repository.ErrShiftNotFound)

	_, err := s.Update(context.Background(), 44, UpdateInput{})

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 404, oe.Status)
}

func TestUpdateRechecksConflictWithEffectiveValues(t *testing.T) {
	s, shifts, _, _ := newTestScheduler(t)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(existingShift(), nil)
	// date changes, vehicle stays: the probe must use the new date, the
	// current vehicle and exclude the shift itself
	shifts.On("ExistsByDateVehicle", mock.Anything, "2025-10-29", uint64(7), uint64(44)).Return(true, nil)

	_, err := s.Update(context.Background(), 44, UpdateInput{Date: str("2025-10-29")})

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 409, oe.Status)
}

func TestUpdateVehicleRecomputesName(t *testing.T) {
	s, shifts, _, _ := newTestScheduler(t)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(existingShift(), nil)
	shifts.On("ExistsByDateVehicle", mock.Anything, "2025-10-28", uint64(7), uint64(44)).Return(false, nil)
	shifts.On("Update", mock.Anything, uint64(44), mock.MatchedBy(func(u repository.ShiftUpdate) bool {
		return u.Name != nil && *u.Name == "PLANTAO-ABS-36-2025-10-28" &&
			u.UnitID != nil && *u.UnitID == 4 &&
			u.VehicleID != nil && *u.VehicleID == 7
	})).Return(nil)

	_, err := s.Update(context.Background(), 44, UpdateInput{VehicleID: u64(7)})

	assert.NoError(t, err)
	shifts.AssertExpectations(t)
}

func TestUpdateUnitOnly(t *testing.T) {
	s, shifts, _, _ := newTestScheduler(t)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(existingShift(), nil)
	shifts.On("Update", mock.Anything, uint64(44), mock.MatchedBy(func(u repository.ShiftUpdate) bool {
		return u.UnitID != nil && *u.UnitID == 9 && u.Name == nil && u.VehicleID == nil
	})).Return(nil)

	_, err := s.Update(context.Background(), 44, UpdateInput{UnitID: u64(9)})

	assert.NoError(t, err)
	shifts.AssertExpectations(t)
}

func TestUpdateUnitOnlyUnknownUnit(t *testing.T) {
	s, shifts, _, _ := newTestScheduler(t)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(existingShift(), nil)

	_, err := s.Update(context.Background(), 44, UpdateInput{UnitID: u64(99)})

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 400, oe.Status)
	shifts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateCrewFailureIsPartialWithoutRollback(t *testing.T) {
	s, shifts, crew, _ := newTestScheduler(t)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(existingShift(), nil)
	shifts.On("Update", mock.Anything, uint64(44), mock.Anything).Return(nil)
	crew.On("ReplaceAll", mock.Anything, uint64(44), mock.Anything).Return(errors.New("deadlock"))

	empty := []model.CrewMember{}
	_, err := s.Update(context.Background(), 44, UpdateInput{Crew: &empty})

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 500, oe.Status)
	assert.Contains(t, oe.Message, "updated")
	shifts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUpdateEmptyCrewListClearsCrew(t *testing.T) {
	s, shifts, crew, _ := newTestScheduler(t)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(existingShift(), nil)
	shifts.On("Update", mock.Anything, uint64(44), mock.Anything).Return(nil)
	crew.On("ReplaceAll", mock.Anything, uint64(44), []model.CrewMember{}).Return(nil)

	empty := []model.CrewMember{}
	_, err := s.Update(context.Background(), 44, UpdateInput{Crew: &empty})

	assert.NoError(t, err)
	crew.AssertExpectations(t)
}

func TestDeleteNotFound(t *testing.T) {
	s, shifts, _, _ := newTestScheduler(t)
	shifts.On("Delete", mock.Anything, uint64(9)).Return(repository.ErrShiftNotFound)

	err := s.Delete(context.Background(), 9)

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 404, oe.Status)
}

func TestAttachVehicleRequiresShift(t *testing.T) {
	s, shifts, _, links := newTestScheduler(t)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(nil, repository.ErrShiftNotFound)

	err := s.AttachVehicle(context.Background(), 44, 7)

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 404, oe.Status)
	links.AssertNotCalled(t, "AttachToShift", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachVehicleIdempotent(t *testing.T) {
	s, shifts, _, links := newTestScheduler(t)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(existingShift(), nil)
	links.On("AttachToShift", mock.Anything, uint64(44), uint64(7)).Return(nil)

	assert.NoError(t, s.AttachVehicle(context.Background(), 44, 7))
	assert.NoError(t, s.AttachVehicle(context.Background(), 44, 7))
}

func TestAddCrewMemberUnknownPersonnel(t *testing.T) {
	vs := new(vehicleStoreMock)
	us := new(unitStoreMock)
	shifts := new(shiftStoreMock)
	crew := new(crewStoreMock)
	personnel := new(personnelStoreMock)
	shifts.On("GetByID", mock.Anything, uint64(44)).Return(existingShift(), nil)
	personnel.On("Exists", mock.Anything, uint64(77)).Return(false, nil)
	s := NewScheduler(&ContextResolver{Vehicles: vs, Units: us}, shifts, crew, new(linkStoreMock), personnel)

	err := s.AddCrewMember(context.Background(), 44, 77, nil)

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 404, oe.Status)
	crew.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddCrewMemberValidatesID(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)
	err := s.AddCrewMember(context.Background(), 44, 0, nil)

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 400, oe.Status)
}
