package scheduler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vmartins/escala-service/internal/model"
	"github.com/vmartins/escala-service/internal/repository"
)

// ShiftStore is the shift row persistence required by the scheduler.
// *repository.ShiftRepo satisfies it.
type ShiftStore interface {
	ExistsByDateVehicle(ctx context.Context, date string, vehicleID, excludeID uint64) (bool, error)
	Create(ctx context.Context, s *model.Shift) error
	GetByID(ctx context.Context, id uint64) (*model.Shift, error)
	Update(ctx context.Context, id uint64, u repository.ShiftUpdate) error
	Delete(ctx context.Context, id uint64) error
}

// CrewStore is the crew link persistence required by the scheduler.
// *repository.CrewRepo satisfies it.
type CrewStore interface {
	ReplaceAll(ctx context.Context, shiftID uint64, members []model.CrewMember) error
	Add(ctx context.Context, shiftID, personnelID uint64, role *string) error
	Remove(ctx context.Context, shiftID, personnelID uint64) error
}

// VehicleLinkStore manages shift-vehicle link rows.
// *repository.VehicleRepo satisfies it.
type VehicleLinkStore interface {
	AttachToShift(ctx context.Context, shiftID, vehicleID uint64) error
	DetachFromShift(ctx context.Context, shiftID, vehicleID uint64) error
}

// PersonnelStore checks that referenced personnel exist.
// *repository.PersonnelRepo satisfies it.
type PersonnelStore interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

// Scheduler orchestrates duty shift create/update/delete with
// conflict checking and transactional crew replacement.  Steps inside
// one call run strictly in order (conflict check, unit resolution,
// shift persist, crew replace); isolation between concurrent calls
// for the same (date, vehicle) relies on the storage unique key.
type Scheduler struct {
	Resolver  *ContextResolver
	Shifts    ShiftStore
	Crew      CrewStore
	Links     VehicleLinkStore
	Personnel PersonnelStore
}

// NewScheduler constructs a Scheduler and panics if any dependency is
// nil.
func NewScheduler(resolver *ContextResolver, shifts ShiftStore, crew CrewStore, links VehicleLinkStore, personnel PersonnelStore) *Scheduler {
	if resolver == nil || shifts == nil || crew == nil || links == nil || personnel == nil {
		panic("nil dependency passed to NewScheduler")
	}
	return &Scheduler{Resolver: resolver, Shifts: shifts, Crew: crew, Links: links, Personnel: personnel}
}

// CreateInput carries a shift creation request.
type CreateInput struct {
	Date      string
	VehicleID uint64
	UnitID    *uint64
	ShiftType string
	Notes     *string
	StartsAt  string
	EndsAt    string
	Crew      []model.CrewMember
}

// UpdateInput carries a partial shift update.  Notes, StartsAt and
// EndsAt are always applied (absent fields clear the columns); Date,
// VehicleID and UnitID apply only when non-nil.  A non-nil Crew, even
// empty, triggers a full crew replace.
type UpdateInput struct {
	Date      *string
	VehicleID *uint64
	UnitID    *uint64
	Notes     *string
	StartsAt  *string
	EndsAt    *string
	Crew      *[]model.CrewMember
}

// normalizeTime trims an optional time-of-day string; empty or
// whitespace-only input becomes nil, anything else is stored verbatim.
func normalizeTime(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// dedupeCrew drops entries without a personnel id and collapses
// duplicate personnel ids, keeping the first role seen for each.
func dedupeCrew(members []model.CrewMember) []model.CrewMember {
	out := make([]model.CrewMember, 0, len(members))
	seen := make(map[uint64]struct{}, len(members))
	for _, m := range members {
		if m.PersonnelID == 0 {
			continue
		}
		if _, ok := seen[m.PersonnelID]; ok {
			continue
		}
		seen[m.PersonnelID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// Create creates a shift for (date, vehicle), resolving the owning
// unit and deriving the display name, then replaces the crew when one
// was supplied.  If crew replacement fails, the just-created shift is
// deleted again so no crew-less shift survives a half-committed
// create.
func (s *Scheduler) Create(ctx context.Context, in CreateInput) (*model.Shift, error) {
	if !validDate(in.Date) {
		return nil, validation("date is required in YYYY-MM-DD format")
	}
	if in.VehicleID == 0 {
		return nil, validation("vehicle_id is required")
	}
	exists, err := s.Shifts.ExistsByDateVehicle(ctx, in.Date, in.VehicleID, 0)
	if err != nil {
		return nil, internal("failed to check existing shifts", err)
	}
	if exists {
		return nil, conflict("a shift already exists for this date and vehicle")
	}
	unitID, prefix, err := s.Resolver.Resolve(ctx, in.VehicleID, in.UnitID)
	if err != nil {
		return nil, err
	}
	shift := &model.Shift{
		Name:      ShiftName(prefix, in.VehicleID, in.Date),
		ShiftType: strings.TrimSpace(in.ShiftType),
		Date:      in.Date,
		StartsAt:  normalizeTime(&in.StartsAt),
		EndsAt:    normalizeTime(&in.EndsAt),
		UnitID:    unitID,
		VehicleID: in.VehicleID,
		Notes:     in.Notes,
	}
	if err := s.Shifts.Create(ctx, shift); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, conflict("a shift already exists for this date and vehicle")
		}
		return nil, internal("failed to create shift", err)
	}
	crew := dedupeCrew(in.Crew)
	if len(crew) > 0 {
		if err := s.Crew.ReplaceAll(ctx, shift.ID, crew); err != nil {
			// Compensating action: the shift must not survive without
			// its crew when the caller asked for one.
			_ = s.Shifts.Delete(ctx, shift.ID)
			return nil, internal("crew assignment failed; shift creation was cancelled", err)
		}
	}
	return shift, nil
}

// Update applies a partial update to a shift.  When the vehicle
// changes, the unit is re-resolved and the display name recomputed
// against the effective date.  A supplied crew list (even empty)
// triggers a full replace; a crew failure here does not roll the
// shift update back and is reported as a partial success so the
// operator knows the metadata saved but the crew did not.
func (s *Scheduler) Update(ctx context.Context, id uint64, in UpdateInput) (*model.Shift, error) {
	cur, err := s.Shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return nil, notFound("shift not found")
		}
		return nil, internal("failed to load shift", err)
	}
	if in.Date != nil && !validDate(*in.Date) {
		return nil, validation("date must use YYYY-MM-DD format")
	}
	effDate := cur.Date
	if in.Date != nil {
		effDate = *in.Date
	}
	effVehicle := cur.VehicleID
	if in.VehicleID != nil {
		if *in.VehicleID == 0 {
			return nil, validation("vehicle_id must be positive")
		}
		effVehicle = *in.VehicleID
	}
	if in.Date != nil || in.VehicleID != nil {
		exists, err := s.Shifts.ExistsByDateVehicle(ctx, effDate, effVehicle, id)
		if err != nil {
			return nil, internal("failed to check existing shifts", err)
		}
		if exists {
			return nil, conflict("a shift already exists for this date and vehicle")
		}
	}
	upd := repository.ShiftUpdate{
		Date:     in.Date,
		Notes:    in.Notes,
		StartsAt: normalizeTime(in.StartsAt),
		EndsAt:   normalizeTime(in.EndsAt),
	}
	if in.VehicleID != nil {
		unitID, prefix, err := s.Resolver.Resolve(ctx, *in.VehicleID, in.UnitID)
		if err != nil {
			return nil, err
		}
		name := ShiftName(prefix, *in.VehicleID, effDate)
		upd.VehicleID = in.VehicleID
		upd.UnitID = &unitID
		upd.Name = &name
	} else if in.UnitID != nil {
		if *in.UnitID == 0 {
			return nil, validation("unit_id must be positive")
		}
		if _, err := s.Resolver.Units.GetByID(ctx, *in.UnitID); err != nil {
			if errors.Is(err, repository.ErrUnitNotFound) {
				return nil, validation("unit_id does not reference a known unit")
			}
			return nil, internal("failed to load unit", err)
		}
		upd.UnitID = in.UnitID
	}
	if err := s.Shifts.Update(ctx, id, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftNotFound):
			return nil, notFound("shift not found")
		case errors.Is(err, repository.ErrConflict):
			return nil, conflict("a shift already exists for this date and vehicle")
		}
		return nil, internal("failed to update shift", err)
	}
	if in.Crew != nil {
		if err := s.Crew.ReplaceAll(ctx, id, dedupeCrew(*in.Crew)); err != nil {
			// No rollback: the shift row predates this call and its
			// updated metadata is valid on its own.
			return nil, internal("shift was updated but crew replacement failed", err)
		}
	}
	fresh, err := s.Shifts.GetByID(ctx, id)
	if err != nil {
		return nil, internal("failed to reload shift", err)
	}
	return fresh, nil
}

// Delete removes a shift; dependent crew and vehicle-link rows are
// cleaned up by the store.
func (s *Scheduler) Delete(ctx context.Context, id uint64) error {
	if err := s.Shifts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return notFound("shift not found")
		}
		return internal("failed to delete shift", err)
	}
	return nil
}

// AttachVehicle links an extra vehicle to a shift; attaching twice is
// a no-op.
func (s *Scheduler) AttachVehicle(ctx context.Context, shiftID, vehicleID uint64) error {
	if _, err := s.Shifts.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return notFound("shift not found")
		}
		return internal("failed to load shift", err)
	}
	if _, err := s.Resolver.Vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return notFound("vehicle not found")
		}
		return internal("failed to load vehicle", err)
	}
	if err := s.Links.AttachToShift(ctx, shiftID, vehicleID); err != nil {
		return internal("failed to attach vehicle", err)
	}
	return nil
}

// DetachVehicle removes a vehicle link; detaching an absent link is a
// no-op.
func (s *Scheduler) DetachVehicle(ctx context.Context, shiftID, vehicleID uint64) error {
	if err := s.Links.DetachFromShift(ctx, shiftID, vehicleID); err != nil {
		return internal("failed to detach vehicle", err)
	}
	return nil
}

// AddCrewMember assigns one person to a shift without touching the
// rest of the crew; adding twice is a no-op.
func (s *Scheduler) AddCrewMember(ctx context.Context, shiftID, personnelID uint64, role *string) error {
	if personnelID == 0 {
		return validation("personnel_id is required")
	}
	if _, err := s.Shifts.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return notFound("shift not found")
		}
		return internal("failed to load shift", err)
	}
	ok, err := s.Personnel.Exists(ctx, personnelID)
	if err != nil {
		return internal("failed to check personnel", err)
	}
	if !ok {
		return notFound("personnel not found")
	}
	if err := s.Crew.Add(ctx, shiftID, personnelID, role); err != nil {
		return internal("failed to add crew member", err)
	}
	return nil
}

// RemoveCrewMember unassigns one person; removing an absent
// assignment is a no-op.
func (s *Scheduler) RemoveCrewMember(ctx context.Context, shiftID, personnelID uint64) error {
	if err := s.Crew.Remove(ctx, shiftID, personnelID); err != nil {
		return internal("failed to remove crew member", err)
	}
	return nil
}
