package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vmartins/escala-service/internal/model"
	"github.com/vmartins/escala-service/internal/repository"
)

type vehicleStoreMock struct{ mock.Mock }

func (m *vehicleStoreMock) GetByID(ctx context.Context, id uint64) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

type unitStoreMock struct{ mock.Mock }

func (m *unitStoreMock) GetByID(ctx context.Context, id uint64) (*model.Unit, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.Unit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *unitStoreMock) FindByName(ctx context.Context, name string) (uint64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(uint64), args.Error(1)
}

func u64(v uint64) *uint64 { return &v }
func str(s string) *string { return &s }

func TestResolveOverrideWins(t *testing.T) {
	vs := new(vehicleStoreMock)
	us := new(unitStoreMock)
	vs.On("GetByID", mock.Anything, uint64(7)).
		Return(&model.Vehicle{ID: 7, Prefix: "ABS-36", UnitID: u64(2)}, nil)
	us.On("GetByID", mock.Anything, uint64(5)).
		Return(&model.Unit{ID: 5, Name: "5º BBM"}, nil)

	r := &ContextResolver{Vehicles: vs, Units: us}
	unitID, prefix, err := r.Resolve(context.Background(), 7, u64(5))

	assert.NoError(t, err)
	assert.Equal(t, uint64(5), unitID)
	assert.Equal(t, "ABS-36", prefix)
	us.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
}

func TestResolveOverrideUnknownUnit(t *testing.T) {
	vs := new(vehicleStoreMock)
	us := new(unitStoreMock)
	vs.On("GetByID", mock.Anything, uint64(7)).
		Return(&model.Vehicle{ID: 7, Prefix: "ABS-36", UnitID: u64(2)}, nil)
	us.On("GetByID", mock.Anything, uint64(99)).Return(nil, repository.ErrUnitNotFound)

	r := &ContextResolver{Vehicles: vs, Units: us}
	_, _, err := r.Resolve(context.Background(), 7, u64(99))

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 400, oe.Status)
	assert.Contains(t, oe.Message, "unit_id")
}

func TestResolveVehicleForeignKey(t *testing.T) {
	vs := new(vehicleStoreMock)
	us := new(unitStoreMock)
	vs.On("GetByID", mock.Anything, uint64(7)).
		Return(&model.Vehicle{ID: 7, Prefix: "ABS-36", UnitID: u64(2)}, nil)

	r := &ContextResolver{Vehicles: vs, Units: us}
	unitID, _, err := r.Resolve(context.Background(), 7, nil)

	assert.NoError(t, err)
	assert.Equal(t, uint64(2), unitID)
}

func TestResolveTextMatchFallback(t *testing.T) {
	vs := new(vehicleStoreMock)
	us := new(unitStoreMock)
	vs.On("GetByID", mock.Anything, uint64(7)).
		Return(&model.Vehicle{ID: 7, Prefix: "ABS-36", UnitName: str("2º BBM")}, nil)
	us.On("FindByName", mock.Anything, "2º BBM").Return(uint64(4), nil)

	r := &ContextResolver{Vehicles: vs, Units: us}
	unitID, _, err := r.Resolve(context.Background(), 7, nil)

	assert.NoError(t, err)
	assert.Equal(t, uint64(4), unitID)
}

func TestResolveUnresolvedNamesVehicle(t *testing.T) {
	vs := new(vehicleStoreMock)
	us := new(unitStoreMock)
	vs.On("GetByID", mock.Anything, uint64(7)).
		Return(&model.Vehicle{ID: 7, Prefix: "ABS-36", UnitName: str("3º BBM")}, nil)
	us.On("FindByName", mock.Anything, "3º BBM").Return(uint64(0), repository.ErrUnitNotFound)

	r := &ContextResolver{Vehicles: vs, Units: us}
	_, _, err := r.Resolve(context.Background(), 7, nil)

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 400, oe.Status)
	assert.Contains(t, oe.Message, `"ABS-36"`)
}

func TestResolveVehicleNotFound(t *testing.T) {
	vs := new(vehicleStoreMock)
	vs.On("GetByID", mock.Anything, uint64(99)).Return(nil, repository.ErrVehicleNotFound)

	r := &ContextResolver{Vehicles: vs, Units: new(unitStoreMock)}
	_, _, err := r.Resolve(context.Background(), 99, nil)

	var oe *OpError
	assert.ErrorAs(t, err, &oe)
	assert.Equal(t, 404, oe.Status)
}
