package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vmartins/escala-service/internal/model"
	"github.com/vmartins/escala-service/internal/repository"
)

// VehicleStore is the vehicle lookup required by unit resolution.
type VehicleStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Vehicle, error)
}

// UnitStore is the unit lookup required by override validation and
// the text-match fallback.
type UnitStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Unit, error)
	FindByName(ctx context.Context, name string) (uint64, error)
}

// ContextResolver pins the owning unit of a vehicle.  Vehicle-to-unit
// linkage is historically denormalized, so resolution degrades
// through three strategies: an explicit override, the vehicle's
// foreign key, and a case-insensitive match of the vehicle's
// free-text unit name against the canonical unit name.  Failing all
// three is an operator-correctable data problem and is reported as a
// 400 naming the vehicle's token.
type ContextResolver struct {
	Vehicles VehicleStore
	Units    UnitStore
}

// Resolve returns the confirmed unit id and the vehicle's display
// token.  unitOverride, when non-nil and positive, wins over the
// vehicle's own linkage.  It is read-only.
func (r *ContextResolver) Resolve(ctx context.Context, vehicleID uint64, unitOverride *uint64) (uint64, string, error) {
	v, err := r.Vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return 0, "", notFound("vehicle not found")
		}
		return 0, "", internal("failed to load vehicle", err)
	}
	if unitOverride != nil && *unitOverride > 0 {
		if _, err := r.Units.GetByID(ctx, *unitOverride); err != nil {
			if errors.Is(err, repository.ErrUnitNotFound) {
				return 0, "", validation("unit_id does not reference a known unit")
			}
			return 0, "", internal("failed to load unit", err)
		}
		return *unitOverride, v.Prefix, nil
	}
	if v.UnitID != nil && *v.UnitID > 0 {
		return *v.UnitID, v.Prefix, nil
	}
	if v.UnitName != nil && strings.TrimSpace(*v.UnitName) != "" {
		id, err := r.Units.FindByName(ctx, *v.UnitName)
		if err == nil {
			return id, v.Prefix, nil
		}
		if !errors.Is(err, repository.ErrUnitNotFound) {
			return 0, "", internal("failed to match unit name", err)
		}
	}
	return 0, "", validation(fmt.Sprintf("unit could not be identified for vehicle %q; fix the vehicle's unit reference", v.Prefix))
}
