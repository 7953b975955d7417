package model

// Shift represents one vehicle's duty period on one date as stored in
// the `shifts` table.  The generated Name combines the sanitized
// vehicle prefix with the date and is unique per (date, vehicle).
// Date is stored as "YYYY-MM-DD"; StartsAt and EndsAt are optional
// time-of-day strings stored verbatim after trimming.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – generated display name (e.g. "PLANTAO-ABS-36-2025-10-28").
//  ShiftType – free shift type tag (e.g. "ORDINARIO").
//  Date      – calendar date of the duty period ("YYYY-MM-DD").
//  StartsAt  – optional start time-of-day (nil when unspecified).
//  EndsAt    – optional end time-of-day (nil when unspecified).
//  UnitID    – owning organizational unit.
//  VehicleID – vehicle assigned to the shift.
//  IsActive  – whether the shift is active.
//  Notes     – free-text operator notes (nullable).
//  CreatedAt – row creation timestamp (DB format string, UTC).
//  UpdatedAt – last update timestamp (DB format string, UTC).
type Shift struct {
	ID        uint64  // shifts.id
	Name      string  // shifts.name
	ShiftType string  // shifts.shift_type
	Date      string  // shifts.shift_date
	StartsAt  *string // shifts.starts_at (nullable)
	EndsAt    *string // shifts.ends_at (nullable)
	UnitID    uint64  // shifts.unit_id
	VehicleID uint64  // shifts.vehicle_id
	IsActive  bool    // shifts.is_active
	Notes     *string // shifts.notes (nullable)
	CreatedAt string  // shifts.created_at
	UpdatedAt string  // shifts.updated_at
}
