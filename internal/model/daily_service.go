package model

// PersonKind tags the polymorphic person reference carried by daily
// role assignments.  Hydration code switches exhaustively on this
// type instead of comparing raw strings.
type PersonKind string

const (
	// PersonMilitary references a row in the personnel table.
	PersonMilitary PersonKind = "MILITARY"
	// PersonCivilian references a row in the civilians table.
	PersonCivilian PersonKind = "CIVILIAN"
)

// Valid reports whether k is one of the known person kinds.
func (k PersonKind) Valid() bool {
	return k == PersonMilitary || k == PersonCivilian
}

// PersonRef is a tagged reference to either a military member or a
// civilian.
type PersonRef struct {
	Kind PersonKind `json:"kind"`
	ID   uint64     `json:"id"`
}

// DailyRoleAssignment is one "service of the day" entry in the
// `daily_service` table: a special-duty role (superior officer,
// supervisor, physician, ...) held by one person over a validity
// interval.  All rows sharing the same StartsAt form one atomic
// batch representing a full day's special-duty roster.
//
// Fields:
//  ID       – primary key identifier.
//  Role     – special-duty role label.
//  Person   – tagged person reference (military or civilian).
//  StartsAt – validity interval start (DB timestamp string, UTC).
//  EndsAt   – validity interval end, exclusive (DB timestamp string, UTC).
type DailyRoleAssignment struct {
	ID       uint64    // daily_service.id
	Role     string    // daily_service.role
	Person   PersonRef // daily_service.person_kind + person_id
	StartsAt string    // daily_service.starts_at
	EndsAt   string    // daily_service.ends_at
}

// RosterEntry is one hydrated line of the active special-duty roster.
type RosterEntry struct {
	Role        string    `json:"role"`
	Person      PersonRef `json:"person"`
	Rank        string    `json:"rank"`
	DisplayName string    `json:"display_name"`
}

// DailyRoster is the resolved "service of the day" for a reference
// date: the active batch's window plus its hydrated entries.  An
// empty Entries slice with zero-value window is a normal, displayable
// state meaning no batch covers the date.
type DailyRoster struct {
	StartsAt string        `json:"starts_at,omitempty"`
	EndsAt   string        `json:"ends_at,omitempty"`
	Entries  []RosterEntry `json:"entries"`
}
