package model

// Vehicle represents an operational vehicle as stored in the
// `vehicles` table.  The unit linkage is historically denormalized:
// newer rows carry a foreign key in UnitID while older rows only have
// the unit's name as free text in UnitName.  Resolution code must try
// the foreign key first and fall back to a case-insensitive name
// match.
//
// Fields:
//  ID       – primary key identifier.
//  Prefix   – display token painted on the vehicle (e.g. "ABS-36").
//  UnitID   – foreign key to the owning unit (nil on legacy rows).
//  UnitName – free-text unit name on legacy rows (nullable).
//  IsActive – whether the vehicle is in service.
type Vehicle struct {
	ID       uint64  // vehicles.id
	Prefix   string  // vehicles.prefix
	UnitID   *uint64 // vehicles.unit_id (nullable)
	UnitName *string // vehicles.unit_name (nullable, legacy free text)
	IsActive bool    // vehicles.is_active
}
